package extractors

import (
	"path/filepath"
	"strings"

	"github.com/dejo1307/docmcp/internal/model"
)

// Extractor turns source text for one language into a flat sequence of
// elements with raw doc blobs attached. Extractors are pure: no shared
// state between invocations. On malformed input Extract returns an error
// and the caller logs and skips the file.
type Extractor interface {
	// Language returns the extractor identifier (e.g. "python", "java").
	Language() string
	// CanHandle reports whether this extractor claims the file, keyed on
	// its extension.
	CanHandle(path string) bool
	// Extract parses the source text and returns the extracted elements in
	// declaration order, the synthetic module root first.
	Extract(src []byte, path string) ([]*model.Element, error)
}

// Registry holds registered extractors and resolves one per file. It is
// populated once at process start from static configuration; there is no
// dynamic loading.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a new extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an extractor to the registry.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Get returns the extractor with the given language name, or nil.
func (r *Registry) Get(language string) Extractor {
	for _, e := range r.extractors {
		if e.Language() == language {
			return e
		}
	}
	return nil
}

// ForFile returns the first extractor claiming the file, or nil if no
// registered extractor can handle it.
func (r *Registry) ForFile(path string) Extractor {
	for _, e := range r.extractors {
		if e.CanHandle(path) {
			return e
		}
	}
	return nil
}

// All returns all registered extractors.
func (r *Registry) All() []Extractor {
	return r.extractors
}

// HasExtension is a helper for CanHandle implementations: it matches the
// file's lowercased extension against the given set.
func HasExtension(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
