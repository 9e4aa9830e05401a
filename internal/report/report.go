// Package report renders a completed ProjectResult into serialized
// artifacts: a full JSON report and a compact markdown summary.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dejo1307/docmcp/internal/model"
)

// Artifact is one rendered output file.
type Artifact struct {
	Name    string
	Content []byte
	Type    string // MIME type hint
}

// severityOrder fixes the display order of the histogram.
var severityOrder = []model.Severity{
	model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow,
}

// maxIssuesPerFile caps the markdown issue listing per file.
const maxIssuesPerFile = 10

// Render produces the report artifacts for a project result.
func Render(pr *model.ProjectResult) ([]Artifact, error) {
	data, err := json.MarshalIndent(pr, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}

	return []Artifact{
		{Name: "report.json", Content: data, Type: "application/json"},
		{Name: "report.md", Content: []byte(RenderMarkdown(pr)), Type: "text/markdown"},
	}, nil
}

// Write renders the artifacts and writes them under outDir.
func Write(pr *model.ProjectResult, outDir string) error {
	artifacts, err := Render(pr)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	for _, a := range artifacts {
		path := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(path, a.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Name, err)
		}
	}
	return nil
}

// RenderMarkdown builds the human-readable summary: overall coverage,
// per-language coverage, the severity histogram, the least-covered files,
// and a capped issue listing per file.
func RenderMarkdown(pr *model.ProjectResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Documentation Report\n\n")
	fmt.Fprintf(&b, "Root: `%s`\n\n", pr.RootPath)
	fmt.Fprintf(&b, "- Files analyzed: %d\n", len(pr.Files))
	fmt.Fprintf(&b, "- Elements: %d (%d documented)\n", pr.TotalElements, pr.DocumentedElements)
	fmt.Fprintf(&b, "- Coverage: %.1f%%\n", pr.OverallCoverage*100)
	fmt.Fprintf(&b, "- Issues: %d\n", pr.TotalIssues())

	if len(pr.CoverageByLanguage) > 0 {
		fmt.Fprintf(&b, "\n## Coverage by language\n\n")
		langs := make([]string, 0, len(pr.CoverageByLanguage))
		for lang := range pr.CoverageByLanguage {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		for _, lang := range langs {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", lang, pr.CoverageByLanguage[lang]*100)
		}
	}

	if len(pr.IssuesBySeverity) > 0 {
		fmt.Fprintf(&b, "\n## Issues by severity\n\n")
		for _, sev := range severityOrder {
			if n := pr.IssuesBySeverity[sev]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", sev, n)
			}
		}
	}

	if worst := worstFiles(pr, 5); len(worst) > 0 {
		fmt.Fprintf(&b, "\n## Least covered files\n\n")
		for _, fr := range worst {
			fmt.Fprintf(&b, "- `%s`: %.1f%% (%d/%d documented)\n",
				fr.Path, fr.Coverage*100, fr.DocumentedElements, fr.TotalElements)
		}
	}

	renderIssues(&b, pr)

	return b.String()
}

func renderIssues(b *strings.Builder, pr *model.ProjectResult) {
	wrote := false
	for _, fr := range pr.Files {
		if len(fr.Issues) == 0 {
			continue
		}
		if !wrote {
			fmt.Fprintf(b, "\n## Issues\n")
			wrote = true
		}
		fmt.Fprintf(b, "\n### %s\n\n", fr.Path)
		for i, is := range fr.Issues {
			if i == maxIssuesPerFile {
				fmt.Fprintf(b, "- ... and %d more\n", len(fr.Issues)-maxIssuesPerFile)
				break
			}
			fmt.Fprintf(b, "- [%s] line %d: %s\n", is.Severity, is.Line, is.Message)
			if is.Suggestion != "" {
				fmt.Fprintf(b, "  - Suggestion: %s\n", is.Suggestion)
			}
		}
	}
}

// worstFiles returns up to n files with the lowest coverage, skipping
// files with nothing to document.
func worstFiles(pr *model.ProjectResult, n int) []*model.FileResult {
	var files []*model.FileResult
	for _, fr := range pr.Files {
		if fr.TotalElements > 0 && fr.Coverage < 1.0 {
			files = append(files, fr)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Coverage != files[j].Coverage {
			return files[i].Coverage < files[j].Coverage
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > n {
		files = files[:n]
	}
	return files
}
