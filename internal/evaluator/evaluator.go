// Package evaluator judges documentation quality: clarity heuristics on the
// prose, synchronization between doc and signature, and style/terminology
// consistency within files and across the project.
package evaluator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/docparse"
	"github.com/dejo1307/docmcp/internal/model"
)

// Issue type constants emitted by the evaluator.
const (
	TypeReadabilityPoor      = "readability_poor"
	TypeReadabilityDifficult = "readability_difficult"
	TypeReadabilityGradeHigh = "readability_grade_high"
	TypeVagueLanguage        = "vague_language"
	TypeSentenceTooLong      = "sentence_too_long"
	TypePassiveVoice         = "passive_voice"
	TypeMissingArticles      = "missing_articles"
	TypeGrammarError         = "grammar_error"
	TypeRepeatedWord         = "repeated_word"
	TypeSyncExtraParam       = "sync_extra_param"
	TypeSyncMissingParam     = "sync_missing_param"
	TypePotentiallyOutdated  = "potentially_outdated"
	TypeInconsistentStyle    = "inconsistent_style"
	TypeTerminology          = "terminology_inconsistency"
)

// Readability thresholds on the Flesch reading-ease scale.
const (
	easeHardThreshold = 30 // below: very difficult, medium severity
	easeEasyThreshold = 50 // below: difficult, low severity
)

const longSentenceWords = 25

// minWordsForArticleCheck gates the article-density heuristic; very short
// blobs legitimately have no articles.
const minWordsForArticleCheck = 5

const articleRatioFloor = 0.05

var vagueWords = []string{
	"somehow", "something", "stuff", "thing", "things",
	"various", "several", "many", "some", "etc",
}

var passiveIndicators = []string{
	"is done", "was done", "are handled", "were handled", "is performed",
}

var temporalIndicators = []string{
	"currently", "now", "at the moment", "for now",
	"temporary", "temporarily", "will be", "todo", "fixme",
}

var grammarPatterns = []struct {
	pattern    *regexp.Regexp
	suggestion string
}{
	{regexp.MustCompile(`(?i)\bit's\b.*\bpurpose\b`), "Use 'its' instead of 'it's' for possession"},
	{regexp.MustCompile(`(?i)\byour\b.*\bwelcome\b`), "Use 'you're' instead of 'your' before 'welcome'"},
	{regexp.MustCompile(`(?i)\baffect\b.*\bresult\b`), "Consider 'effect' instead of 'affect' as a noun"},
	{regexp.MustCompile(`(?i)\bthen\b.*\bcomparison\b`), "Use 'than' for comparisons, not 'then'"},
}

var articlePattern = regexp.MustCompile(`(?i)\b(a|an|the)\b`)

// Evaluator runs the quality checks. Per-file evaluation is stateless; the
// project-wide terminology pass builds its tables in EvaluateProject and
// must run only after every file has been analyzed.
type Evaluator struct {
	cfg *config.Config
}

// New creates an Evaluator for the given config.
func New(cfg *config.Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// EvaluateFile runs clarity and synchronization checks on every documented
// element, then the file-level style consistency check.
func (e *Evaluator) EvaluateFile(fr *model.FileResult) {
	style, err := docparse.ParseStyle(e.cfg.StyleFor(fr.Language))
	if err != nil {
		style = docparse.StyleGoogle
	}

	for _, el := range fr.Elements {
		if !el.HasDoc() {
			continue
		}
		var issues []model.Issue
		if e.cfg.Analysis.EvaluateClarity {
			issues = append(issues, e.evaluateClarity(el)...)
		}
		if e.cfg.Analysis.CheckSync {
			issues = append(issues, e.checkSynchronization(el, style)...)
		}
		for _, is := range issues {
			el.Issues = append(el.Issues, is.Message)
		}
		fr.Issues = append(fr.Issues, issues...)
	}

	if e.cfg.Analysis.EvaluateConsistency {
		e.checkFileConsistency(fr)
	}
}

// evaluateClarity runs the readability and prose heuristics on one doc
// blob. Each heuristic is independent: a degenerate input disables that
// heuristic only.
func (e *Evaluator) evaluateClarity(el *model.Element) []model.Issue {
	var issues []model.Issue
	doc := el.Doc

	if ease, grade, ok := readabilityScores(doc); ok {
		if ease < easeHardThreshold {
			issues = append(issues, newIssue(el, TypeReadabilityPoor, model.SeverityMedium,
				fmt.Sprintf("Documentation is very difficult to read (Flesch score: %.1f)", ease),
				"Simplify sentences and use clearer language"))
		} else if ease < easeEasyThreshold {
			issues = append(issues, newIssue(el, TypeReadabilityDifficult, model.SeverityLow,
				fmt.Sprintf("Documentation is difficult to read (Flesch score: %.1f)", ease),
				"Consider simplifying complex sentences"))
		}
		if grade > e.cfg.Analysis.MaxGradeLevel {
			issues = append(issues, newIssue(el, TypeReadabilityGradeHigh, model.SeverityLow,
				fmt.Sprintf("Documentation requires college-level reading (grade: %.1f)", grade),
				"Use simpler vocabulary and shorter sentences"))
		}
	}

	for _, word := range vagueWords {
		if regexp.MustCompile(`(?i)\b` + word + `\b`).MatchString(doc) {
			issues = append(issues, newIssue(el, TypeVagueLanguage, model.SeverityLow,
				fmt.Sprintf("Documentation contains vague language: '%s'", word),
				fmt.Sprintf("Replace '%s' with more specific terms", word)))
		}
	}

	for _, sentence := range sentenceSplit.Split(doc, -1) {
		if len(strings.Fields(sentence)) > longSentenceWords {
			issues = append(issues, newIssue(el, TypeSentenceTooLong, model.SeverityLow,
				"Documentation contains very long sentences",
				"Break long sentences into shorter, clearer ones"))
			break // one issue per element
		}
	}

	lower := strings.ToLower(doc)
	for _, indicator := range passiveIndicators {
		if strings.Contains(lower, indicator) {
			issues = append(issues, newIssue(el, TypePassiveVoice, model.SeverityLow,
				"Documentation uses passive voice",
				"Use active voice for clearer communication"))
			break
		}
	}

	words := strings.Fields(lower)
	for i := 0; i+1 < len(words); i++ {
		if words[i] == words[i+1] && len(words[i]) > 2 {
			issues = append(issues, newIssue(el, TypeRepeatedWord, model.SeverityLow,
				fmt.Sprintf("Repeated word detected: '%s'", words[i]),
				"Remove duplicate words"))
			break
		}
	}

	if len(words) > minWordsForArticleCheck {
		ratio := float64(len(articlePattern.FindAllString(doc, -1))) / float64(len(words))
		if ratio < articleRatioFloor {
			issues = append(issues, newIssue(el, TypeMissingArticles, model.SeverityLow,
				"Documentation may be missing articles (a, an, the)",
				"Review and add appropriate articles for better readability"))
		}
	}

	for _, gp := range grammarPatterns {
		if gp.pattern.MatchString(doc) {
			issues = append(issues, newIssue(el, TypeGrammarError, model.SeverityLow,
				"Possible grammar error detected", gp.suggestion))
		}
	}

	return issues
}

// checkSynchronization diffs the documented parameter set against the
// declared one and scans for temporal language.
func (e *Evaluator) checkSynchronization(el *model.Element, style docparse.Style) []model.Issue {
	var issues []model.Issue

	if el.Kind == model.KindFunction || el.Kind == model.KindMethod {
		documented := style.Params(el.Doc)
		declared := make(map[string]bool, len(el.Params))
		for _, p := range el.Params {
			declared[p.Name] = true
		}

		for _, p := range el.Params {
			if _, ok := documented[p.Name]; !ok {
				issues = append(issues, newIssue(el, TypeSyncMissingParam, model.SeverityMedium,
					fmt.Sprintf("Parameter '%s' exists in code but is not documented", p.Name),
					fmt.Sprintf("Add documentation for parameter '%s'", p.Name)))
			}
		}
		for _, name := range sortedKeys(documented) {
			if !declared[name] {
				issues = append(issues, newIssue(el, TypeSyncExtraParam, model.SeverityMedium,
					fmt.Sprintf("Documented parameter '%s' not found in the signature", name),
					fmt.Sprintf("Remove documentation for '%s' or check the signature", name)))
			}
		}
	}

	lower := strings.ToLower(el.Doc)
	for _, indicator := range temporalIndicators {
		if strings.Contains(lower, indicator) {
			issues = append(issues, newIssue(el, TypePotentiallyOutdated, model.SeverityLow,
				fmt.Sprintf("Documentation contains temporal language: '%s'", indicator),
				"Review and update temporal references in the documentation"))
			break
		}
	}

	return issues
}

// checkFileConsistency raises one low issue, attached to the first
// documented element, when more than one doc style is detected in a file.
func (e *Evaluator) checkFileConsistency(fr *model.FileResult) {
	styles := make(map[docparse.Style]bool)
	var first *model.Element

	for _, el := range fr.Elements {
		if !el.HasDoc() {
			continue
		}
		if first == nil {
			first = el
		}
		for _, s := range docparse.DetectStyles(el.Doc) {
			styles[s] = true
		}
	}

	if len(styles) < 2 || first == nil {
		return
	}

	var names []string
	for _, s := range docparse.AllStyles {
		if styles[s] {
			names = append(names, string(s))
		}
	}

	is := newIssue(first, TypeInconsistentStyle, model.SeverityLow,
		fmt.Sprintf("File uses multiple documentation styles: %s", strings.Join(names, ", ")),
		"Use one documentation style throughout the file")
	first.Issues = append(first.Issues, is.Message)
	fr.Issues = append(fr.Issues, is)
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
