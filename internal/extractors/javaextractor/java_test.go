package javaextractor

import (
	"testing"

	"github.com/dejo1307/docmcp/internal/model"
)

// --- helpers ---

func extract(t *testing.T, src string) []*model.Element {
	t.Helper()
	elements, err := New().Extract([]byte(src), "src/Sample.java")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(elements) == 0 {
		t.Fatal("Extract returned no elements")
	}
	return elements
}

func findElement(t *testing.T, elements []*model.Element, name string) *model.Element {
	t.Helper()
	for _, e := range elements {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("element %q not found", name)
	return nil
}

func TestCanHandle(t *testing.T) {
	e := New()
	if !e.CanHandle("src/App.java") {
		t.Error("should handle .java")
	}
	if e.CanHandle("src/app.py") {
		t.Error("should not handle .py")
	}
}

func TestClassWithJavadoc(t *testing.T) {
	src := `/**
 * A bounded counter.
 */
public class Counter {
    /**
     * Increments the counter.
     *
     * @param amount the step size
     * @return the new value
     */
    public int increment(int amount) {
        return value + amount;
    }

    private void reset() {
        value = 0;
    }
}
`
	elements := extract(t, src)

	cls := findElement(t, elements, "Counter")
	if cls.Kind != model.KindClass {
		t.Errorf("Counter kind = %q, want class", cls.Kind)
	}
	if cls.Summary != "A bounded counter." {
		t.Errorf("class summary = %q", cls.Summary)
	}
	if cls.Visibility != model.VisibilityPublic {
		t.Errorf("class visibility = %q, want public", cls.Visibility)
	}

	inc := findElement(t, elements, "increment")
	if inc.Kind != model.KindMethod {
		t.Errorf("increment kind = %q, want method", inc.Kind)
	}
	if inc.Summary != "Increments the counter." {
		t.Errorf("increment summary = %q", inc.Summary)
	}
	if len(inc.Params) != 1 || inc.Params[0].Name != "amount" || inc.Params[0].Type != "int" {
		t.Errorf("increment params = %+v", inc.Params)
	}
	if inc.Returns == nil || inc.Returns.Type != "int" {
		t.Errorf("increment returns = %+v", inc.Returns)
	}

	reset := findElement(t, elements, "reset")
	if reset.Visibility != model.VisibilityPrivate {
		t.Errorf("reset visibility = %q, want private", reset.Visibility)
	}
	if reset.Returns != nil {
		t.Errorf("void method should have no return info, got %+v", reset.Returns)
	}
}

func TestThrowsClause(t *testing.T) {
	src := `public class Loader {
    public byte[] load(String path) throws IOException, java.text.ParseException {
        return null;
    }
}
`
	elements := extract(t, src)
	load := findElement(t, elements, "load")

	want := []string{"IOException", "java.text.ParseException"}
	if len(load.Exceptions) != len(want) {
		t.Fatalf("got %d exceptions, want %d: %+v", len(load.Exceptions), len(want), load.Exceptions)
	}
	for i, w := range want {
		if load.Exceptions[i].Type != w {
			t.Errorf("exception %d = %q, want %q", i, load.Exceptions[i].Type, w)
		}
	}
}

func TestConstructorAndVarargs(t *testing.T) {
	src := `public class Joiner {
    public Joiner(String sep) {
        this.sep = sep;
    }

    public String join(String... parts) {
        return "";
    }
}
`
	elements := extract(t, src)

	cls := findElement(t, elements, "Joiner")
	if len(cls.Children) != 2 {
		t.Fatalf("Joiner has %d children, want 2", len(cls.Children))
	}
	ctor := cls.Children[0]
	if ctor.Name != "Joiner" || ctor.Kind != model.KindMethod {
		t.Errorf("constructor = %q/%q, want Joiner/method", ctor.Name, ctor.Kind)
	}
	if ctor.Returns != nil {
		t.Errorf("constructor should have no return info, got %+v", ctor.Returns)
	}

	join := findElement(t, elements, "join")
	if len(join.Params) != 1 || join.Params[0].Name != "parts" {
		t.Errorf("join params = %+v", join.Params)
	}
}

func TestPackagePrivateVisibility(t *testing.T) {
	src := `class Internal {
    void tick() {}
}
`
	elements := extract(t, src)

	cls := findElement(t, elements, "Internal")
	if cls.Visibility != model.VisibilityProtected {
		t.Errorf("package-private class visibility = %q, want protected", cls.Visibility)
	}
	tick := findElement(t, elements, "tick")
	if tick.Visibility != model.VisibilityProtected {
		t.Errorf("package-private method visibility = %q, want protected", tick.Visibility)
	}
}

func TestInterfaceAndNestedTypes(t *testing.T) {
	src := `public interface Shape {
    double area();
}

public class Geometry {
    public enum Axis { X, Y }
}
`
	elements := extract(t, src)

	shape := findElement(t, elements, "Shape")
	if shape.Kind != model.KindClass {
		t.Errorf("Shape kind = %q, want class", shape.Kind)
	}
	area := findElement(t, elements, "area")
	if area.Kind != model.KindMethod {
		t.Errorf("area kind = %q, want method", area.Kind)
	}

	geometry := findElement(t, elements, "Geometry")
	if len(geometry.Children) != 1 || geometry.Children[0].Name != "Axis" {
		t.Errorf("Geometry children = %+v, want nested Axis enum", geometry.Children)
	}
}

func TestDocGapTooLarge(t *testing.T) {
	src := `public class Gap {
    /**
     * Stale comment.
     */


    public void lonely() {}
}
`
	elements := extract(t, src)
	lonely := findElement(t, elements, "lonely")
	if lonely.HasDoc() {
		t.Errorf("comment separated by blank lines should not attach, got %q", lonely.Doc)
	}
}
