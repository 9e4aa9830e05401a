package evaluator

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/dejo1307/docmcp/internal/model"
)

// capitalizedTerm matches CamelCase-style technical terms in prose.
var capitalizedTerm = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)*\b`)

var summaryVerbs = map[string]bool{
	"returns": true, "gets": true, "sets": true,
	"creates": true, "deletes": true, "updates": true,
}

// termTable is the consolidated terminology table built by the collection
// phase. It is immutable during the lookup phase; the two phases are the
// only synchronization the consistency pass needs.
type termTable struct {
	// variants maps a lowercased term to each observed capitalization and
	// its occurrence count.
	variants map[string]map[string]int
	// patterns counts summary first-verb patterns across the project.
	patterns map[string]int
}

// EvaluateProject runs the project-wide terminology consistency pass. It
// must be called only after every file has been individually analyzed: it
// is the single cross-file step, runs single-threaded, and appends issues
// to the already-built file results.
func (e *Evaluator) EvaluateProject(pr *model.ProjectResult) {
	if !e.cfg.Analysis.EvaluateConsistency {
		return
	}

	table := collectTerminology(pr)
	log.Printf("[evaluator] terminology pass: %d terms, %d summary patterns",
		len(table.variants), len(table.patterns))

	for _, fr := range pr.Files {
		for _, el := range fr.Elements {
			if !el.HasDoc() {
				continue
			}
			issues := checkTerminology(el, table)
			for _, is := range issues {
				el.Issues = append(el.Issues, is.Message)
			}
			fr.Issues = append(fr.Issues, issues...)
		}
	}
}

// collectTerminology is the collection phase: one traversal over every doc
// blob in the project, producing the consolidated table.
func collectTerminology(pr *model.ProjectResult) *termTable {
	table := &termTable{
		variants: make(map[string]map[string]int),
		patterns: make(map[string]int),
	}

	for _, fr := range pr.Files {
		for _, el := range fr.Elements {
			if !el.HasDoc() {
				continue
			}
			for _, term := range capitalizedTerm.FindAllString(el.Doc, -1) {
				key := strings.ToLower(term)
				if table.variants[key] == nil {
					table.variants[key] = make(map[string]int)
				}
				table.variants[key][term]++
			}
			if p := summaryPattern(el.Summary); p != "" {
				table.patterns[p]++
			}
		}
	}

	return table
}

// checkTerminology is the lookup phase: for every term with more than one
// observed capitalization, each non-majority variant present in the
// element's doc blob raises a low issue naming the majority form.
func checkTerminology(el *model.Element, table *termTable) []model.Issue {
	var issues []model.Issue

	for _, term := range capitalizedTerm.FindAllString(el.Doc, -1) {
		key := strings.ToLower(term)
		variants := table.variants[key]
		if len(variants) < 2 {
			continue
		}
		majority := majorityVariant(variants)
		if term == majority {
			continue
		}
		issues = append(issues, newIssue(el, TypeTerminology, model.SeverityLow,
			fmt.Sprintf("Inconsistent terminology: '%s' vs '%s'", term, majority),
			fmt.Sprintf("Use the consistent form '%s'", majority)))
	}

	return issues
}

// majorityVariant picks the most frequent capitalization; ties break to the
// lexicographically smallest variant so the pass is deterministic.
func majorityVariant(variants map[string]int) string {
	best, bestCount := "", -1
	for _, v := range sortedKeys(variants) {
		if variants[v] > bestCount {
			best, bestCount = v, variants[v]
		}
	}
	return best
}

// summaryPattern reduces a summary line to its opening-verb pattern for
// project-wide phrasing statistics.
func summaryPattern(summary string) string {
	words := strings.Fields(strings.ToLower(summary))
	if len(words) < 2 {
		return ""
	}
	if summaryVerbs[words[0]] {
		return words[0] + "_pattern"
	}
	if (words[0] == "a" || words[0] == "an" || words[0] == "the") && len(words) >= 3 {
		return words[1] + "_pattern"
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
