package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/engine"
	"github.com/dejo1307/docmcp/internal/extractors/pyextractor"
	"github.com/dejo1307/docmcp/internal/model"
)

// --- helpers ---

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	eng.RegisterExtractor(pyextractor.New())

	srv, err := New(eng, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func writeProject(t *testing.T, files map[string]string) string {
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

func TestRunAnalysisWritesReport(t *testing.T) {
	srv := newTestServer(t)
	dir := writeProject(t, map[string]string{
		"app.py": "def main():\n    pass\n",
	})

	pr, err := srv.runAnalysis(context.Background(), dir)
	if err != nil {
		t.Fatalf("runAnalysis: %v", err)
	}
	if len(pr.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(pr.Files))
	}
	if srv.eng.Result() != pr {
		t.Error("analysis result should be retained for the query tools and resources")
	}

	for _, name := range []string{"report.json", "report.md"} {
		if _, err := os.Stat(filepath.Join(dir, ".docmcp", name)); err != nil {
			t.Errorf("missing report artifact %s: %v", name, err)
		}
	}
}

func TestFlattenIssues(t *testing.T) {
	pr := &model.ProjectResult{
		Files: []*model.FileResult{
			{
				Path: "a.py",
				Issues: []model.Issue{
					{ElementRef: "main", Type: "missing_documentation", Severity: model.SeverityHigh, Message: "m1"},
					{ElementRef: "helper", Type: "missing_summary", Severity: model.SeverityMedium, Message: "m2"},
				},
			},
			{
				Path: "b.py",
				Issues: []model.Issue{
					{ElementRef: "parse", Type: "missing_documentation", Severity: model.SeverityHigh, Message: "m3"},
				},
			},
		},
	}

	all := flattenIssues(pr, model.IssueFilter{})
	if len(all) != 3 {
		t.Fatalf("got %d issues, want 3", len(all))
	}
	if all[0].File != "a.py" || all[2].File != "b.py" {
		t.Errorf("issues should carry their file: %+v", all)
	}

	high := flattenIssues(pr, model.IssueFilter{Severity: model.SeverityHigh})
	if len(high) != 2 {
		t.Errorf("severity filter: got %d, want 2", len(high))
	}

	onlyB := flattenIssues(pr, model.IssueFilter{File: "b.py"})
	if len(onlyB) != 1 || onlyB[0].Element != "parse" {
		t.Errorf("file filter: got %+v", onlyB)
	}

	none := flattenIssues(pr, model.IssueFilter{Type: "no_such_type"})
	if len(none) != 0 {
		t.Errorf("empty result expected, got %+v", none)
	}
}

func TestErrorResult(t *testing.T) {
	res := errorResult("boom")
	if !res.IsError {
		t.Error("errorResult should set IsError")
	}
	if len(res.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(res.Content))
	}
}
