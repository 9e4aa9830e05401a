// Package engine orchestrates the analysis pipeline: walk the tree, extract
// and check each file on a bounded worker pool, run the cross-file
// consistency pass behind its barrier, and aggregate the project result.
package engine

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dejo1307/docmcp/internal/checker"
	"github.com/dejo1307/docmcp/internal/config"
	"github.com/dejo1307/docmcp/internal/evaluator"
	"github.com/dejo1307/docmcp/internal/extractors"
	"github.com/dejo1307/docmcp/internal/model"
)

// Engine runs the documentation analysis pipeline.
type Engine struct {
	cfg        *config.Config
	extractors *extractors.Registry
	checker    *checker.Checker
	evaluator  *evaluator.Evaluator
	result     *model.ProjectResult
}

// New creates a new Engine with the given config. The config must already
// be validated; extractors are registered after creation.
func New(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:        cfg,
		extractors: extractors.NewRegistry(),
		checker:    checker.New(cfg),
		evaluator:  evaluator.New(cfg),
	}, nil
}

// RegisterExtractor adds an extractor to the engine.
func (e *Engine) RegisterExtractor(ext extractors.Extractor) {
	e.extractors.Register(ext)
}

// Config returns the engine config.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Result returns the last project result, or nil.
func (e *Engine) Result() *model.ProjectResult {
	return e.result
}

// AnalyzeProject runs the full pipeline on a source tree. Per-file failures
// are logged and skipped; only an unreadable root is fatal. A file either
// completes all check stages or is absent from the result.
func (e *Engine) AnalyzeProject(ctx context.Context, rootPath string) (*model.ProjectResult, error) {
	start := time.Now()

	if rootPath == "" {
		rootPath = e.cfg.Root
	}
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root path: %w", err)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}

	files, err := e.collectFiles(absRoot)
	if err != nil {
		return nil, fmt.Errorf("walking root: %w", err)
	}
	log.Printf("[engine] found %d files to analyze in %s", len(files), absRoot)

	pr := &model.ProjectResult{RootPath: absRoot}

	// Per-file analysis has no cross-file dependency; fan out on a bounded
	// worker pool. Results land in a fixed slot per file so the output is
	// independent of completion order.
	results := make([]*model.FileResult, len(files))
	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup

	for i, relFile := range files {
		wg.Add(1)
		go func(i int, relFile string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			if ctx.Err() != nil {
				return
			}

			fr, err := e.analyzeFile(absRoot, relFile)
			if err != nil {
				log.Printf("[engine] skipping %s: %v", relFile, err)
				return
			}
			results[i] = fr
		}(i, relFile)
	}
	wg.Wait()

	for _, fr := range results {
		if fr != nil {
			pr.Files = append(pr.Files, fr)
		}
	}

	// Barrier: the terminology pass needs every file result and runs
	// single-threaded. File results stay mutable until it finishes.
	e.evaluator.EvaluateProject(pr)

	Aggregate(pr)

	e.result = pr
	log.Printf("[engine] analyzed %d files, %d elements, %d issues in %s",
		len(pr.Files), pr.TotalElements, pr.TotalIssues(), time.Since(start))
	return pr, nil
}

// collectFiles walks the root and returns the relative paths of in-scope
// files: not excluded, within the size ceiling, and claimed by a registered
// extractor. The list is sorted so a run is deterministic.
func (e *Engine) collectFiles(root string) ([]string, error) {
	maxSize := int64(e.cfg.MaxFileSizeMB) * 1024 * 1024

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if e.isExcluded(relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if e.extractors.ForFile(relPath) == nil {
			return nil
		}
		if _, ok := e.cfg.LanguageFor(strings.ToLower(filepath.Ext(relPath))); !ok {
			return nil
		}

		// Oversized files are silently excluded, not an error.
		if info, err := d.Info(); err == nil && info.Size() > maxSize {
			log.Printf("[engine] skipping oversized file: %s", relPath)
			return nil
		}

		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// isExcluded matches a relative path against the exclude patterns: exact
// base name, file extension, or wildcard substring.
func (e *Engine) isExcluded(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(relPath)
	ext := filepath.Ext(relPath)

	for _, pattern := range e.cfg.Exclude {
		switch {
		case strings.Contains(pattern, "*"):
			if strings.Contains(relPath, strings.ReplaceAll(pattern, "*", "")) {
				return true
			}
		case strings.HasPrefix(pattern, "."):
			if ext == pattern || base == pattern {
				return true
			}
		default:
			if base == pattern {
				return true
			}
		}
	}
	return false
}

// analyzeFile runs extraction and both per-file check stages on one file.
func (e *Engine) analyzeFile(root, relFile string) (*model.FileResult, error) {
	ext := e.extractors.ForFile(relFile)
	if ext == nil {
		return nil, fmt.Errorf("no extractor for %s", relFile)
	}

	lang, ok := e.cfg.LanguageFor(strings.ToLower(filepath.Ext(relFile)))
	if !ok {
		return nil, fmt.Errorf("no language configured for %s", relFile)
	}

	src, err := os.ReadFile(filepath.Join(root, relFile))
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	elements, err := ext.Extract(src, relFile)
	if err != nil {
		return nil, fmt.Errorf("extracting: %w", err)
	}

	fr := &model.FileResult{
		Path:     relFile,
		Language: lang.Name,
		Elements: elements,
	}

	e.checker.CheckFile(fr)
	e.evaluator.EvaluateFile(fr)

	log.Printf("[engine] %s: %d elements, %d issues", relFile, len(elements), len(fr.Issues))
	return fr, nil
}
