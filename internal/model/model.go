package model

import "strings"

// ElementKind classifies a documentable code element.
type ElementKind string

// Element kind constants.
const (
	KindModule   ElementKind = "module"
	KindClass    ElementKind = "class"
	KindFunction ElementKind = "function"
	KindMethod   ElementKind = "method"
	KindVariable ElementKind = "variable"
	KindConstant ElementKind = "constant"
	KindProperty ElementKind = "property"
)

// Visibility is derived from a language's naming convention, not declared.
type Visibility string

// Visibility constants.
const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilitySpecial   Visibility = "special"
)

// Status is the overall documentation state of an element, derived once per
// analysis pass from its accumulated issues.
type Status string

// Status constants, from worst to best.
const (
	StatusMissing    Status = "missing"
	StatusIncomplete Status = "incomplete"
	StatusOutdated   Status = "outdated"
	StatusGood       Status = "good"
	StatusExcellent  Status = "excellent"
)

// Severity of a documentation issue.
type Severity string

// Severity constants.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Parameter describes one declared parameter of a function or method.
// Implicit receivers (self/cls and equivalents) are excluded before a
// Parameter is ever built.
type Parameter struct {
	Name         string `json:"name"`
	Type         string `json:"type,omitempty"`          // opaque display string
	DefaultValue string `json:"default_value,omitempty"` // opaque display string
	Description  string `json:"description,omitempty"`   // filled from the doc blob
	Required     bool   `json:"required"`
}

// ReturnInfo describes the declared return of a function or method.
type ReturnInfo struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// ExceptionInfo describes one exception a function declares or raises.
type ExceptionInfo struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Element is one documentable unit extracted from source code. Children form
// a strict ownership tree: a module owns its top-level classes and functions,
// a class owns its methods. An Element lives for one analysis run; it is
// created by an extractor and mutated only by the checker and evaluator.
type Element struct {
	Name        string          `json:"name"`
	Kind        ElementKind     `json:"kind"`
	File        string          `json:"file"`
	Line        int             `json:"line"`
	EndLine     int             `json:"end_line,omitempty"`
	Doc         string          `json:"doc,omitempty"` // raw doc blob, dedented
	Summary     string          `json:"summary,omitempty"`
	Description string          `json:"description,omitempty"`
	Params      []Parameter     `json:"parameters,omitempty"`
	Returns     *ReturnInfo     `json:"returns,omitempty"`
	Exceptions  []ExceptionInfo `json:"exceptions,omitempty"`
	Visibility  Visibility      `json:"visibility"`
	Children    []*Element      `json:"children,omitempty"`
	Status      Status          `json:"status"`
	Issues      []string        `json:"issues,omitempty"` // messages, for display
}

// HasDoc reports whether the element carries a non-blank doc blob.
func (e *Element) HasDoc() bool {
	return strings.TrimSpace(e.Doc) != ""
}

// Flatten returns the element and all its descendants in declaration
// (pre-order) order.
func Flatten(root *Element) []*Element {
	if root == nil {
		return nil
	}
	out := []*Element{root}
	for _, c := range root.Children {
		out = append(out, Flatten(c)...)
	}
	return out
}

// Issue is one finding produced by the checker or evaluator. It is owned by
// the FileResult that produced it; the element keeps only the message.
type Issue struct {
	Element    *Element `json:"-"`
	ElementRef string   `json:"element"`
	Type       string   `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Line       int      `json:"line,omitempty"`
}

// FileResult holds everything the pipeline learned about one source file.
// Coverage counts only elements the policy obligates to be documented.
type FileResult struct {
	Path               string     `json:"path"`
	Language           string     `json:"language"`
	Elements           []*Element `json:"elements"`
	Issues             []Issue    `json:"issues"`
	Coverage           float64    `json:"coverage_score"`
	TotalElements      int        `json:"total_elements"`
	DocumentedElements int        `json:"documented_elements"`
}

// ProjectResult is the final output of a project run. Files are appended one
// per successfully analyzed file; aggregates are computed once at the end.
type ProjectResult struct {
	RootPath           string             `json:"root_path"`
	Files              []*FileResult      `json:"files"`
	OverallCoverage    float64            `json:"overall_coverage"`
	TotalElements      int                `json:"total_elements"`
	DocumentedElements int                `json:"documented_elements"`
	IssuesBySeverity   map[Severity]int   `json:"issues_by_severity"`
	CoverageByLanguage map[string]float64 `json:"coverage_by_language"`
}

// TotalIssues returns the number of issues across all files.
func (p *ProjectResult) TotalIssues() int {
	n := 0
	for _, f := range p.Files {
		n += len(f.Issues)
	}
	return n
}

// IssueFilter selects issues from a completed ProjectResult. Zero values
// match everything.
type IssueFilter struct {
	Severity Severity // exact match
	File     string   // substring match on the file path
	Type     string   // exact match on the issue type
	Element  string   // substring match on the element reference
}

// FilterIssues returns all issues in the project matching the filter, in
// file order. The result references, never copies, element data.
func FilterIssues(p *ProjectResult, f IssueFilter) []Issue {
	var out []Issue
	for _, fr := range p.Files {
		if f.File != "" && !strings.Contains(fr.Path, f.File) {
			continue
		}
		for _, is := range fr.Issues {
			if f.Severity != "" && is.Severity != f.Severity {
				continue
			}
			if f.Type != "" && is.Type != f.Type {
				continue
			}
			if f.Element != "" && !strings.Contains(is.ElementRef, f.Element) {
				continue
			}
			out = append(out, is)
		}
	}
	return out
}
