// Package checker is the stateless rule engine: per-element presence,
// format, and completeness checks producing typed issues, plus the status
// and coverage derivations.
package checker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/docparse"
	"github.com/dejo1307/docmcp/internal/model"
)

// Issue type constants emitted by the checker.
const (
	TypeMissingDocumentation = "missing_documentation"
	TypeFormatViolation      = "format_violation"
	TypeMissingSummary       = "missing_summary"
	TypeMissingParameterDoc  = "missing_parameter_doc"
	TypeEmptyParameterDoc    = "empty_parameter_doc"
	TypeMissingReturnDoc     = "missing_return_doc"
	TypeMissingExceptionDoc  = "missing_exception_doc"
)

// specialAllowList names the special methods that are commonly documented
// and therefore subject to the presence check.
var specialAllowList = map[string]bool{
	"__init__":  true,
	"__str__":   true,
	"__repr__":  true,
	"__call__":  true,
	"__enter__": true,
	"__exit__":  true,
	"__iter__":  true,
	"__next__":  true,
}

// noReturnAllowList names functions whose return value never needs
// documenting: entry points and setup/teardown hooks.
var noReturnAllowList = map[string]bool{
	"main":     true,
	"setup":    true,
	"teardown": true,
}

var (
	googleArgsHeader    = regexp.MustCompile(`\n\s*Args:`)
	googleReturnsHeader = regexp.MustCompile(`\n\s*Returns:`)
	numpyParamsHeader   = regexp.MustCompile(`\n\s*Parameters\s*\n\s*-+`)
)

// Checker runs the per-element documentation rules.
type Checker struct {
	cfg *config.Config
}

// New creates a Checker for the given config.
func New(cfg *config.Config) *Checker {
	return &Checker{cfg: cfg}
}

// CheckFile runs presence, format, and completeness checks on every element
// of the file, derives each element's status, and computes file coverage.
func (c *Checker) CheckFile(fr *model.FileResult) {
	style, err := docparse.ParseStyle(c.cfg.StyleFor(fr.Language))
	if err != nil {
		// Config validation rejects unknown styles before any file is
		// processed; this is unreachable with a validated config.
		style = docparse.StyleGoogle
	}

	for _, el := range fr.Elements {
		c.checkElement(el, style, fr)
	}

	c.calculateCoverage(fr)
}

func (c *Checker) checkElement(el *model.Element, style docparse.Style, fr *model.FileResult) {
	var issues []model.Issue

	if c.cfg.Analysis.CheckPresence {
		issues = append(issues, c.checkPresence(el)...)
	}
	if el.HasDoc() && c.cfg.Analysis.CheckFormat {
		issues = append(issues, c.checkFormat(el, style)...)
	}
	if el.HasDoc() && c.cfg.Analysis.CheckCompleteness {
		issues = append(issues, c.checkCompleteness(el, style)...)
	}

	for _, is := range issues {
		el.Issues = append(el.Issues, is.Message)
	}
	el.Status = deriveStatus(el, issues)

	fr.Issues = append(fr.Issues, issues...)
}

// checkPresence emits one issue when a should-document element has no doc
// blob: high severity for public elements, medium otherwise.
func (c *Checker) checkPresence(el *model.Element) []model.Issue {
	if !ShouldDocument(el) || el.HasDoc() {
		return nil
	}
	return []model.Issue{newIssue(el, TypeMissingDocumentation,
		presenceSeverity(el),
		fmt.Sprintf("%s '%s' is missing documentation", titleKind(el.Kind), el.Name),
		fmt.Sprintf("Add a doc comment describing the purpose and usage of %s", el.Name),
	)}
}

func presenceSeverity(el *model.Element) model.Severity {
	if el.Visibility == model.VisibilityPublic {
		return model.SeverityHigh
	}
	return model.SeverityMedium
}

// checkFormat verifies the style's structural markers are present when
// there is a reason to expect them. Every missing marker is an independent
// low-severity issue.
func (c *Checker) checkFormat(el *model.Element, style docparse.Style) []model.Issue {
	if el.Kind != model.KindFunction && el.Kind != model.KindMethod && el.Kind != model.KindProperty {
		return nil
	}

	var issues []model.Issue

	switch style {
	case docparse.StyleGoogle:
		if len(el.Params) > 0 && !googleArgsHeader.MatchString(el.Doc) {
			issues = append(issues, newIssue(el, TypeFormatViolation, model.SeverityLow,
				"Google-style doc comment should have 'Args:' section for parameters",
				"Add 'Args:' section to document parameters"))
		}
		if el.Returns != nil && !googleReturnsHeader.MatchString(el.Doc) {
			issues = append(issues, newIssue(el, TypeFormatViolation, model.SeverityLow,
				"Google-style doc comment should have 'Returns:' section",
				"Add 'Returns:' section to document the return value"))
		}

	case docparse.StyleNumpy:
		if len(el.Params) > 0 && !numpyParamsHeader.MatchString(el.Doc) {
			issues = append(issues, newIssue(el, TypeFormatViolation, model.SeverityLow,
				"NumPy-style doc comment should have 'Parameters' section with underline",
				"Add 'Parameters' section with a dashed underline"))
		}

	case docparse.StyleSphinx:
		for _, p := range el.Params {
			if !regexp.MustCompile(`:param `+regexp.QuoteMeta(p.Name)+`:`).MatchString(el.Doc) {
				issues = append(issues, newIssue(el, TypeFormatViolation, model.SeverityLow,
					fmt.Sprintf("Sphinx-style doc comment missing ':param %s:' directive", p.Name),
					fmt.Sprintf("Add ':param %s: description' directive", p.Name)))
			}
		}

	case docparse.StyleJavadoc:
		for _, p := range el.Params {
			if !regexp.MustCompile(`@param\s+`+regexp.QuoteMeta(p.Name)+`\b`).MatchString(el.Doc) {
				issues = append(issues, newIssue(el, TypeFormatViolation, model.SeverityLow,
					fmt.Sprintf("Javadoc comment missing '@param %s' tag", p.Name),
					fmt.Sprintf("Add '@param %s description' tag", p.Name)))
			}
		}

	case docparse.StyleJSDoc:
		for _, p := range el.Params {
			if !regexp.MustCompile(`@param\s+\{[^}]*\}\s+`+regexp.QuoteMeta(p.Name)+`\b`).MatchString(el.Doc) {
				issues = append(issues, newIssue(el, TypeFormatViolation, model.SeverityLow,
					fmt.Sprintf("JSDoc comment missing '@param {type} %s' tag", p.Name),
					fmt.Sprintf("Add '@param {type} %s description' tag", p.Name)))
			}
		}
	}

	return issues
}

// checkCompleteness verifies the doc blob covers the summary, every
// parameter, the return value, and every declared exception.
func (c *Checker) checkCompleteness(el *model.Element, style docparse.Style) []model.Issue {
	var issues []model.Issue

	if !hasSummary(el.Doc) {
		issues = append(issues, newIssue(el, TypeMissingSummary, model.SeverityMedium,
			fmt.Sprintf("%s '%s' lacks a summary description", titleKind(el.Kind), el.Name),
			"Add a brief first line describing what this element does"))
	}

	if el.Kind == model.KindFunction || el.Kind == model.KindMethod {
		issues = append(issues, c.checkParameterDocs(el, style)...)
		issues = append(issues, c.checkReturnDoc(el)...)
		issues = append(issues, c.checkExceptionDocs(el, style)...)
	}

	return issues
}

func (c *Checker) checkParameterDocs(el *model.Element, style docparse.Style) []model.Issue {
	if len(el.Params) == 0 {
		return nil
	}

	var issues []model.Issue
	documented := style.Params(el.Doc)

	for _, p := range el.Params {
		desc, ok := documented[p.Name]
		switch {
		case !ok:
			issues = append(issues, newIssue(el, TypeMissingParameterDoc, model.SeverityMedium,
				fmt.Sprintf("Parameter '%s' is not documented", p.Name),
				fmt.Sprintf("Add documentation for parameter '%s'", p.Name)))
		case strings.TrimSpace(desc) == "":
			issues = append(issues, newIssue(el, TypeEmptyParameterDoc, model.SeverityLow,
				fmt.Sprintf("Parameter '%s' has empty documentation", p.Name),
				fmt.Sprintf("Add a description for parameter '%s'", p.Name)))
		}
	}

	return issues
}

func (c *Checker) checkReturnDoc(el *model.Element) []model.Issue {
	if el.Returns == nil || noReturnAllowList[el.Name] || strings.HasPrefix(el.Name, "__") {
		return nil
	}
	if docparse.HasReturnDoc(el.Doc) {
		return nil
	}
	return []model.Issue{newIssue(el, TypeMissingReturnDoc, model.SeverityMedium,
		"Return value is not documented",
		"Add documentation for the return value")}
}

func (c *Checker) checkExceptionDocs(el *model.Element, style docparse.Style) []model.Issue {
	if len(el.Exceptions) == 0 {
		return nil
	}

	var issues []model.Issue
	documented := style.Exceptions(el.Doc)

	for _, exc := range el.Exceptions {
		if _, ok := documented[exc.Type]; !ok {
			issues = append(issues, newIssue(el, TypeMissingExceptionDoc, model.SeverityLow,
				fmt.Sprintf("Exception '%s' is not documented", exc.Type),
				fmt.Sprintf("Add documentation for exception '%s'", exc.Type)))
		}
	}

	return issues
}

// ShouldDocument implements the visibility policy: public and protected
// elements always, private never, special only when the name is on the
// allow-list of commonly documented special methods.
func ShouldDocument(el *model.Element) bool {
	switch el.Visibility {
	case model.VisibilityPublic, model.VisibilityProtected:
		return true
	case model.VisibilityPrivate:
		return false
	case model.VisibilitySpecial:
		return specialAllowList[el.Name]
	}
	return true
}

// deriveStatus folds an element's issues into its documentation status.
// First match wins: no doc -> missing; any critical or high -> incomplete;
// more than two medium -> incomplete; any medium or more than three low ->
// outdated; one to three low -> good; none -> excellent.
func deriveStatus(el *model.Element, issues []model.Issue) model.Status {
	if !el.HasDoc() {
		return model.StatusMissing
	}

	var critical, high, medium, low int
	for _, is := range issues {
		switch is.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityHigh:
			high++
		case model.SeverityMedium:
			medium++
		case model.SeverityLow:
			low++
		}
	}

	switch {
	case critical > 0 || high > 0:
		return model.StatusIncomplete
	case medium > 2:
		return model.StatusIncomplete
	case medium > 0 || low > 3:
		return model.StatusOutdated
	case low > 0:
		return model.StatusGood
	}
	return model.StatusExcellent
}

// calculateCoverage counts should-document elements and how many of them
// carry documentation. A file with nothing to document scores 1.0.
func (c *Checker) calculateCoverage(fr *model.FileResult) {
	total, documented := 0, 0
	for _, el := range fr.Elements {
		if !ShouldDocument(el) {
			continue
		}
		total++
		if el.Status != model.StatusMissing {
			documented++
		}
	}

	fr.TotalElements = total
	fr.DocumentedElements = documented
	if total > 0 {
		fr.Coverage = float64(documented) / float64(total)
	} else {
		fr.Coverage = 1.0
	}
}

// hasSummary reports whether the first line of a doc blob is non-empty and
// is not itself a section header.
func hasSummary(doc string) bool {
	first := strings.TrimSpace(strings.SplitN(doc, "\n", 2)[0])
	return first != "" && !docparse.IsSectionHeader(first)
}

func titleKind(k model.ElementKind) string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newIssue(el *model.Element, issueType string, sev model.Severity, msg, suggestion string) model.Issue {
	return model.Issue{
		Element:    el,
		ElementRef: el.Name,
		Type:       issueType,
		Severity:   sev,
		Message:    msg,
		Suggestion: suggestion,
		Line:       el.Line,
	}
}
