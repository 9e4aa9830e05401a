// Package server exposes the analysis engine over MCP: tools to run and
// query an analysis, and resources serving the rendered report.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"

	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/engine"
	"github.com/dejo1307/docmcp/internal/model"
	"github.com/dejo1307/docmcp/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and connects it to the analysis engine.
type Server struct {
	mcp *mcp.Server
	eng *engine.Engine
	cfg *config.Config
}

// New creates a new MCP server wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config) (*Server, error) {
	s := &Server{
		eng: eng,
		cfg: cfg,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "docmcp",
		Version: "0.1.0",
	}, nil)

	s.mcp = mcpServer
	s.registerResources()
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	log.Println("[server] starting MCP server on stdio transport")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// registerResources adds MCP resources for the rendered report.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         "doc://report/summary",
		Name:        "Documentation Report Summary",
		Description: "Human-readable summary of the last documentation analysis",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		pr := s.eng.Result()
		if pr == nil {
			return nil, fmt.Errorf("no analysis available (run analyze_project first)")
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: report.RenderMarkdown(pr), MIMEType: "text/markdown"},
			},
		}, nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "doc://report/full",
		Name:        "Documentation Report",
		Description: "Full documentation analysis result as JSON",
		MIMEType:    "application/json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		pr := s.eng.Result()
		if pr == nil {
			return nil, fmt.Errorf("no analysis available (run analyze_project first)")
		}
		data, err := json.MarshalIndent(pr, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling report: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: req.Params.URI, Text: string(data), MIMEType: "application/json"},
			},
		}, nil
	})
}

// analyzeProjectArgs are the arguments for the analyze_project tool.
type analyzeProjectArgs struct {
	RootPath string `json:"root_path" jsonschema:"Path to the project to analyze. Defaults to the configured root."`
}

// checkDocumentationArgs are the arguments for the check_documentation tool.
type checkDocumentationArgs struct {
	RootPath string `json:"root_path" jsonschema:"Path to the project to check. Defaults to the configured root."`
}

// queryIssuesArgs are the arguments for the query_issues tool.
type queryIssuesArgs struct {
	Severity string `json:"severity,omitempty" jsonschema:"Filter by severity: low, medium, high, or critical"`
	File     string `json:"file,omitempty" jsonschema:"Filter by file path substring"`
	Type     string `json:"type,omitempty" jsonschema:"Filter by issue type (e.g. missing_documentation, sync_missing_param)"`
	Element  string `json:"element,omitempty" jsonschema:"Filter by element name substring"`
}

// flatIssue is the JSON shape returned by check_documentation and
// query_issues: one issue with its file attached.
type flatIssue struct {
	File       string         `json:"file"`
	Element    string         `json:"element"`
	Type       string         `json:"type"`
	Severity   model.Severity `json:"severity"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Line       int            `json:"line,omitempty"`
}

// registerTools adds the analysis and query tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_project",
		Description: "Analyze a project for documentation issues. Extracts code elements, checks presence, format, and completeness, evaluates clarity and consistency, and returns coverage and issue aggregates.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args analyzeProjectArgs) (*mcp.CallToolResult, any, error) {
		pr, err := s.runAnalysis(ctx, args.RootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil, nil
		}

		summary := fmt.Sprintf(
			"Analysis complete.\n\n"+
				"- Root: %s\n"+
				"- Files: %d\n"+
				"- Elements: %d (%d documented)\n"+
				"- Coverage: %.1f%%\n"+
				"- Issues: %d (critical: %d, high: %d, medium: %d, low: %d)\n\n"+
				"Use the doc://report/summary resource or the query_issues tool to inspect findings.",
			pr.RootPath,
			len(pr.Files),
			pr.TotalElements, pr.DocumentedElements,
			pr.OverallCoverage*100,
			pr.TotalIssues(),
			pr.IssuesBySeverity[model.SeverityCritical],
			pr.IssuesBySeverity[model.SeverityHigh],
			pr.IssuesBySeverity[model.SeverityMedium],
			pr.IssuesBySeverity[model.SeverityLow],
		)

		return textResult(summary), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "check_documentation",
		Description: "Check documentation without writing anything. Runs the full analysis and returns the complete issue list; an empty list means the check passed.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args checkDocumentationArgs) (*mcp.CallToolResult, any, error) {
		pr, err := s.runAnalysis(ctx, args.RootPath)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil, nil
		}

		issues := flattenIssues(pr, model.IssueFilter{})
		payload := map[string]any{
			"root_path":          pr.RootPath,
			"total_issues":       len(issues),
			"issues":             issues,
			"issues_by_severity": pr.IssuesBySeverity,
		}

		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal results: %v", err)), nil, nil
		}
		return textResult(string(data)), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_issues",
		Description: "Query issues from the last analysis by severity, file, issue type, or element name. Returns matching issues as JSON.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args queryIssuesArgs) (*mcp.CallToolResult, any, error) {
		pr := s.eng.Result()
		if pr == nil {
			return errorResult("No analysis available. Run analyze_project first."), nil, nil
		}

		issues := flattenIssues(pr, model.IssueFilter{
			Severity: model.Severity(args.Severity),
			File:     args.File,
			Type:     args.Type,
			Element:  args.Element,
		})

		truncated := false
		if len(issues) > 100 {
			issues = issues[:100]
			truncated = true
		}

		data, err := json.MarshalIndent(issues, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal results: %v", err)), nil, nil
		}

		text := string(data)
		if truncated {
			text += "\n\n... (showing first 100 results, refine your query)"
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_config",
		Description: "Show the effective analysis configuration: languages, doc styles, enabled checks, and limits.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
		data, err := json.MarshalIndent(s.cfg, "", "  ")
		if err != nil {
			return errorResult(fmt.Sprintf("failed to marshal config: %v", err)), nil, nil
		}
		return textResult(string(data)), nil, nil
	})
}

// runAnalysis resolves the root, runs the engine, and writes the report
// artifacts. A failed artifact write is logged, not fatal.
func (s *Server) runAnalysis(ctx context.Context, rootPath string) (*model.ProjectResult, error) {
	if rootPath == "" {
		rootPath = s.cfg.Root
	}
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("invalid root path: %w", err)
	}

	pr, err := s.eng.AnalyzeProject(ctx, absRoot)
	if err != nil {
		return nil, err
	}

	outDir := filepath.Join(absRoot, s.cfg.Output.Dir)
	if err := report.Write(pr, outDir); err != nil {
		log.Printf("[server] warning: failed to write report: %v", err)
	}

	return pr, nil
}

// flattenIssues converts filtered issues into their per-file JSON shape.
func flattenIssues(pr *model.ProjectResult, f model.IssueFilter) []flatIssue {
	out := []flatIssue{}
	for _, fr := range pr.Files {
		sub := model.ProjectResult{Files: []*model.FileResult{fr}}
		for _, is := range model.FilterIssues(&sub, f) {
			out = append(out, flatIssue{
				File:       fr.Path,
				Element:    is.ElementRef,
				Type:       is.Type,
				Severity:   is.Severity,
				Message:    is.Message,
				Suggestion: is.Suggestion,
				Line:       is.Line,
			})
		}
	}
	return out
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}
