package engine

import (
	"testing"

	"github.com/dejo1307/docmcp/internal/model"
)

func TestAggregate(t *testing.T) {
	pr := &model.ProjectResult{
		Files: []*model.FileResult{
			{
				Path:               "a.py",
				Language:           "python",
				Coverage:           1.0,
				TotalElements:      2,
				DocumentedElements: 2,
			},
			{
				Path:               "b.py",
				Language:           "python",
				Coverage:           0.5,
				TotalElements:      4,
				DocumentedElements: 2,
				Issues: []model.Issue{
					{Severity: model.SeverityHigh},
					{Severity: model.SeverityHigh},
					{Severity: model.SeverityLow},
				},
			},
			{
				Path:               "App.java",
				Language:           "java",
				Coverage:           0.25,
				TotalElements:      4,
				DocumentedElements: 1,
				Issues: []model.Issue{
					{Severity: model.SeverityMedium},
				},
			},
		},
	}

	Aggregate(pr)

	if pr.TotalElements != 10 || pr.DocumentedElements != 5 {
		t.Errorf("elements = %d/%d, want 5/10", pr.DocumentedElements, pr.TotalElements)
	}
	if pr.OverallCoverage != 0.5 {
		t.Errorf("overall coverage = %v, want 0.5", pr.OverallCoverage)
	}
	if pr.IssuesBySeverity[model.SeverityHigh] != 2 ||
		pr.IssuesBySeverity[model.SeverityMedium] != 1 ||
		pr.IssuesBySeverity[model.SeverityLow] != 1 {
		t.Errorf("severity histogram = %v", pr.IssuesBySeverity)
	}
	if pr.CoverageByLanguage["python"] != 0.75 {
		t.Errorf("python coverage = %v, want 0.75", pr.CoverageByLanguage["python"])
	}
	if pr.CoverageByLanguage["java"] != 0.25 {
		t.Errorf("java coverage = %v, want 0.25", pr.CoverageByLanguage["java"])
	}
}

func TestAggregateEmptyProject(t *testing.T) {
	pr := &model.ProjectResult{}
	Aggregate(pr)

	if pr.OverallCoverage != 1.0 {
		t.Errorf("empty project coverage = %v, want 1.0", pr.OverallCoverage)
	}
	if pr.TotalElements != 0 {
		t.Errorf("total elements = %d, want 0", pr.TotalElements)
	}
}
