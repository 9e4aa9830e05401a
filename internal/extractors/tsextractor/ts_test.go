package tsextractor

import (
	"testing"

	"github.com/dejo1307/docmcp/internal/model"
)

// --- helpers ---

func extract(t *testing.T, path, src string) []*model.Element {
	t.Helper()
	elements, err := New().Extract([]byte(src), path)
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
	for _, path := range []string{"a.js", "a.jsx", "a.ts", "a.tsx"} {
		if !e.CanHandle(path) {
			t.Errorf("should handle %s", path)
		}
	}
	if e.CanHandle("a.java") {
		t.Error("should not handle .java")
	}
}

func TestFunctionWithJSDoc(t *testing.T) {
	src := `/**
 * Adds two numbers.
 *
 * @param {number} a - first operand
 * @param {number} b - second operand
 * @returns {number} the sum
 */
function add(a, b) {
  return a + b;
}
`
	elements := extract(t, "math.ts", src)
	fn := findElement(t, elements, "add")

	if fn.Kind != model.KindFunction {
		t.Errorf("kind = %q, want function", fn.Kind)
	}
	if fn.Summary != "Adds two numbers." {
		t.Errorf("summary = %q", fn.Summary)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Errorf("params = %+v", fn.Params)
	}
}

func TestTypedParameters(t *testing.T) {
	src := `function greet(name: string, excited?: boolean, times: number = 1): string {
  return name;
}
`
	elements := extract(t, "greet.ts", src)
	fn := findElement(t, elements, "greet")

	if len(fn.Params) != 3 {
		t.Fatalf("got %d params, want 3: %+v", len(fn.Params), fn.Params)
	}
	if fn.Params[0].Name != "name" || fn.Params[0].Type != "string" || !fn.Params[0].Required {
		t.Errorf("param 0 = %+v", fn.Params[0])
	}
	if fn.Params[1].Name != "excited" || fn.Params[1].Required {
		t.Errorf("param 1 = %+v", fn.Params[1])
	}
	if fn.Params[2].Name != "times" || fn.Params[2].DefaultValue != "1" || fn.Params[2].Required {
		t.Errorf("param 2 = %+v", fn.Params[2])
	}
	if fn.Returns == nil || fn.Returns.Type != "string" {
		t.Errorf("returns = %+v, want string", fn.Returns)
	}
}

func TestExportedDeclarationDoc(t *testing.T) {
	src := `/**
 * Parses a config file.
 */
export function parseConfig(path: string) {
  return {};
}
`
	elements := extract(t, "config.ts", src)
	fn := findElement(t, elements, "parseConfig")

	if fn.Summary != "Parses a config file." {
		t.Errorf("summary = %q (doc above export not attached)", fn.Summary)
	}
}

func TestClassWithMethods(t *testing.T) {
	src := `/**
 * An in-memory cache.
 */
export class Cache {
  /**
   * Fetches a value.
   */
  get(key: string) {
    return this.store[key];
  }

  private evict(key: string) {
    delete this.store[key];
  }

  _touch(key) {}
}
`
	elements := extract(t, "cache.ts", src)

	cls := findElement(t, elements, "Cache")
	if cls.Kind != model.KindClass {
		t.Errorf("Cache kind = %q, want class", cls.Kind)
	}
	if cls.Summary != "An in-memory cache." {
		t.Errorf("class summary = %q", cls.Summary)
	}
	if len(cls.Children) != 3 {
		t.Fatalf("Cache has %d children, want 3", len(cls.Children))
	}

	get := findElement(t, elements, "get")
	if get.Kind != model.KindMethod {
		t.Errorf("get kind = %q, want method", get.Kind)
	}
	if get.Summary != "Fetches a value." {
		t.Errorf("get summary = %q", get.Summary)
	}

	evict := findElement(t, elements, "evict")
	if evict.Visibility != model.VisibilityPrivate {
		t.Errorf("evict visibility = %q, want private", evict.Visibility)
	}

	touch := findElement(t, elements, "_touch")
	if touch.Visibility != model.VisibilityProtected {
		t.Errorf("_touch visibility = %q, want protected", touch.Visibility)
	}
}

func TestArrowFunctionConst(t *testing.T) {
	src := `/**
 * Doubles a value.
 */
const double = (x) => x * 2;

const noDoc = (a, b) => a + b;
`
	elements := extract(t, "arrows.js", src)

	double := findElement(t, elements, "double")
	if double.Kind != model.KindFunction {
		t.Errorf("double kind = %q, want function", double.Kind)
	}
	if double.Summary != "Doubles a value." {
		t.Errorf("double summary = %q", double.Summary)
	}
	if len(double.Params) != 1 || double.Params[0].Name != "x" {
		t.Errorf("double params = %+v", double.Params)
	}

	noDoc := findElement(t, elements, "noDoc")
	if noDoc.HasDoc() {
		t.Errorf("noDoc should have no doc, got %q", noDoc.Doc)
	}
	if len(noDoc.Params) != 2 {
		t.Errorf("noDoc params = %+v", noDoc.Params)
	}
}

func TestThrownExceptions(t *testing.T) {
	src := `function validate(x) {
  if (x < 0) {
    throw new RangeError("negative");
  }
  if (x > 100) {
    throw new RangeError("too big");
  }
  const inner = () => {
    throw new TypeError("not attributed to validate");
  };
  return x;
}
`
	elements := extract(t, "validate.js", src)
	fn := findElement(t, elements, "validate")

	if len(fn.Exceptions) != 1 || fn.Exceptions[0].Type != "RangeError" {
		t.Errorf("exceptions = %+v, want [RangeError]", fn.Exceptions)
	}
}

func TestModuleDoc(t *testing.T) {
	src := `/**
 * Shared string helpers.
 */

function slug(s) {
  return s;
}
`
	elements := extract(t, "strings.js", src)
	mod := elements[0]

	if mod.Kind != model.KindModule {
		t.Fatalf("first element kind = %q, want module", mod.Kind)
	}
	if mod.Summary != "Shared string helpers." {
		t.Errorf("module summary = %q", mod.Summary)
	}

	// A comment attached to the first declaration is not a module doc.
	attached := `/**
 * Slugifies.
 */
function slug(s) { return s; }
`
	elements = extract(t, "strings.js", attached)
	if elements[0].HasDoc() {
		t.Errorf("module doc = %q, want none", elements[0].Doc)
	}
}

func TestDocGapTooLarge(t *testing.T) {
	src := `/**
 * Stale comment.
 */


function lonely() {}
`
	elements := extract(t, "gap.js", src)
	fn := findElement(t, elements, "lonely")
	if fn.HasDoc() {
		t.Errorf("comment separated by blank lines should not attach, got %q", fn.Doc)
	}
}
