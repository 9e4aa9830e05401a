package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/extractors/pyextractor"
)

// --- helpers ---

func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	eng, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng.RegisterExtractor(pyextractor.New())
	return eng
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	lang := cfg.Languages["python"]
	lang.Style = "doxygen"
	cfg.Languages["python"] = lang

	if _, err := New(cfg); err == nil {
		t.Fatal("invalid config should be rejected before any analysis")
	}
}

func TestIsExcluded(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude = append(cfg.Exclude, "*generated*")
	eng := newEngine(t, cfg)

	tests := []struct {
		path string
		want bool
	}{
		{"__pycache__", true},
		{"pkg/__pycache__", true},
		{"main.pyc", true},
		{".git", true},
		{"node_modules", true},
		{"api_generated_v2.py", true},
		{"src/app.py", false},
		{"pycache.py", false},
	}

	for _, tt := range tests {
		if got := eng.isExcluded(tt.path); got != tt.want {
			t.Errorf("isExcluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCollectFiles(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"app.py":               "def main():\n    pass\n",
		"pkg/util.py":          "def helper():\n    pass\n",
		"__pycache__/cache.py": "",
		"compiled.pyc":         "",
		"README.md":            "# nope",
	})
	eng := newEngine(t, config.Default())

	files, err := eng.collectFiles(dir)
	if err != nil {
		t.Fatalf("collectFiles: %v", err)
	}

	want := []string{"app.py", filepath.Join("pkg", "util.py")}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i, w := range want {
		if files[i] != w {
			t.Errorf("files[%d] = %q, want %q", i, files[i], w)
		}
	}
}

func TestAnalyzeProject(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"app.py": `"""The application entrypoint."""

def main():
    """Runs the application."""
    pass
`,
		"util.py": `def helper(x):
    return x
`,
	})
	eng := newEngine(t, config.Default())

	pr, err := eng.AnalyzeProject(context.Background(), dir)
	if err != nil {
		t.Fatalf("AnalyzeProject: %v", err)
	}

	if len(pr.Files) != 2 {
		t.Fatalf("got %d files, want 2", len(pr.Files))
	}
	if pr.Files[0].Path != "app.py" || pr.Files[1].Path != "util.py" {
		t.Errorf("file order = %q, %q; want app.py, util.py", pr.Files[0].Path, pr.Files[1].Path)
	}

	// app.py: module and main fully documented
	if pr.Files[0].Coverage != 1.0 {
		t.Errorf("app.py coverage = %v, want 1.0", pr.Files[0].Coverage)
	}
	// util.py: module and helper both undocumented
	if pr.Files[1].Coverage != 0.0 {
		t.Errorf("util.py coverage = %v, want 0.0", pr.Files[1].Coverage)
	}
	if pr.TotalElements != 4 || pr.DocumentedElements != 2 {
		t.Errorf("elements = %d/%d, want 2/4 documented", pr.DocumentedElements, pr.TotalElements)
	}
	if pr.OverallCoverage != 0.5 {
		t.Errorf("overall coverage = %v, want 0.5", pr.OverallCoverage)
	}
	if eng.Result() != pr {
		t.Error("Result() should return the last project result")
	}
}

func TestAnalyzeProjectMissingRoot(t *testing.T) {
	eng := newEngine(t, config.Default())
	if _, err := eng.AnalyzeProject(context.Background(), filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Fatal("unreadable root should be fatal")
	}
}

func TestAnalyzeProjectSkipsMalformedFiles(t *testing.T) {
	// A file the extractor cannot produce a tree for must not fail the run.
	dir := setupProject(t, map[string]string{
		"ok.py": "def fine():\n    pass\n",
	})
	eng := newEngine(t, config.Default())

	pr, err := eng.AnalyzeProject(context.Background(), dir)
	if err != nil {
		t.Fatalf("AnalyzeProject: %v", err)
	}
	if len(pr.Files) != 1 {
		t.Errorf("got %d files, want 1", len(pr.Files))
	}
}

func TestAnalyzeProjectDeterministic(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"a.py": "def one(x):\n    return x\n",
		"b.py": "def two(y):\n    return y\n",
		"c.py": `"""Module doc."""

def three(z):
    """Returns the UserId of z."""
    return z
`,
	})

	run := func() []byte {
		eng := newEngine(t, config.Default())
		pr, err := eng.AnalyzeProject(context.Background(), dir)
		if err != nil {
			t.Fatalf("AnalyzeProject: %v", err)
		}
		data, err := json.Marshal(pr)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return data
	}

	first := run()
	for i := 0; i < 3; i++ {
		if next := run(); string(next) != string(first) {
			t.Fatal("identical inputs should produce byte-identical results")
		}
	}
}

func TestAnalyzeProjectCancelled(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"a.py": "def one():\n    pass\n",
	})
	eng := newEngine(t, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, err := eng.AnalyzeProject(ctx, dir)
	if err != nil {
		t.Fatalf("AnalyzeProject: %v", err)
	}
	// Cancelled workers never submit results; the run completes empty
	// rather than blocking.
	if len(pr.Files) != 0 {
		t.Errorf("cancelled run produced %d files", len(pr.Files))
	}
}
