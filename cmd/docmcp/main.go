package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/engine"
	"github.com/dejo1307/docmcp/internal/extractors/javaextractor"
	"github.com/dejo1307/docmcp/internal/extractors/pyextractor"
	"github.com/dejo1307/docmcp/internal/extractors/tsextractor"
	"github.com/dejo1307/docmcp/internal/model"
	"github.com/dejo1307/docmcp/internal/report"
	"github.com/dejo1307/docmcp/internal/server"
)

func main() {
	// Ensure log output goes to stderr, never stdout (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)

	ctx := context.Background()

	// Check for --check flag
	checkMode := false
	cfgPath := "mcp-doc.yaml"
	for _, arg := range os.Args[1:] {
		if arg == "--check" {
			checkMode = true
		} else {
			cfgPath = arg
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// A missing config file falls back to defaults; a config that
		// exists but is malformed or invalid is fatal.
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("invalid config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		cfg = config.Default()
	}

	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("failed to create engine: %v", err)
	}

	// Register extractors
	eng.RegisterExtractor(pyextractor.New())
	eng.RegisterExtractor(tsextractor.New())
	eng.RegisterExtractor(javaextractor.New())

	// One-shot check mode
	if checkMode {
		rootPath, err := filepath.Abs(cfg.Root)
		if err != nil {
			log.Fatalf("failed to resolve root path: %v", err)
		}

		pr, err := eng.AnalyzeProject(ctx, rootPath)
		if err != nil {
			log.Fatalf("analysis failed: %v", err)
		}

		outDir := filepath.Join(rootPath, cfg.Output.Dir)
		if err := report.Write(pr, outDir); err != nil {
			log.Fatalf("failed to write report: %v", err)
		}

		fmt.Fprintf(os.Stderr, "\nAnalysis complete:\n")
		fmt.Fprintf(os.Stderr, "  Root:        %s\n", pr.RootPath)
		fmt.Fprintf(os.Stderr, "  Files:       %d\n", len(pr.Files))
		fmt.Fprintf(os.Stderr, "  Elements:    %d (%d documented)\n", pr.TotalElements, pr.DocumentedElements)
		fmt.Fprintf(os.Stderr, "  Coverage:    %.1f%%\n", pr.OverallCoverage*100)
		fmt.Fprintf(os.Stderr, "  Issues:      %d (critical: %d, high: %d, medium: %d, low: %d)\n",
			pr.TotalIssues(),
			pr.IssuesBySeverity[model.SeverityCritical],
			pr.IssuesBySeverity[model.SeverityHigh],
			pr.IssuesBySeverity[model.SeverityMedium],
			pr.IssuesBySeverity[model.SeverityLow])
		fmt.Fprintf(os.Stderr, "  Output:      %s\n", outDir)

		if pr.TotalIssues() > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// MCP server mode (default)
	srv, err := server.New(eng, cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
