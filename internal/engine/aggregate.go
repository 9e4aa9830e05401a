package engine

import "github.com/dejo1307/docmcp/internal/model"

// Aggregate folds per-file results into the project-level aggregates:
// overall coverage, the severity histogram, and per-language average
// coverage. It reads completed file results and produces no new issues.
func Aggregate(pr *model.ProjectResult) {
	total, documented := 0, 0
	bySeverity := make(map[model.Severity]int)
	coverage := make(map[string][]float64)

	for _, fr := range pr.Files {
		total += fr.TotalElements
		documented += fr.DocumentedElements

		for _, is := range fr.Issues {
			bySeverity[is.Severity]++
		}

		coverage[fr.Language] = append(coverage[fr.Language], fr.Coverage)
	}

	pr.TotalElements = total
	pr.DocumentedElements = documented
	if total > 0 {
		pr.OverallCoverage = float64(documented) / float64(total)
	} else {
		pr.OverallCoverage = 1.0
	}

	pr.IssuesBySeverity = bySeverity
	pr.CoverageByLanguage = make(map[string]float64, len(coverage))
	for lang, scores := range coverage {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		pr.CoverageByLanguage[lang] = sum / float64(len(scores))
	}
}
