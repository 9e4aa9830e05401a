package extractors

import (
	"testing"

	"github.com/dejo1307/docmcp/internal/model"
)

type fakeExtractor struct {
	lang string
	exts []string
}

func (f *fakeExtractor) Language() string { return f.lang }
func (f *fakeExtractor) CanHandle(path string) bool {
	return HasExtension(path, f.exts...)
}
func (f *fakeExtractor) Extract(src []byte, path string) ([]*model.Element, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	py := &fakeExtractor{lang: "python", exts: []string{".py"}}
	js := &fakeExtractor{lang: "javascript", exts: []string{".js", ".ts"}}
	r.Register(py)
	r.Register(js)

	if got := r.Get("python"); got != Extractor(py) {
		t.Error("Get(python) returned wrong extractor")
	}
	if got := r.Get("ruby"); got != nil {
		t.Error("Get(ruby) should return nil")
	}

	if got := r.ForFile("src/app.ts"); got != Extractor(js) {
		t.Error("ForFile(.ts) returned wrong extractor")
	}
	if got := r.ForFile("README.md"); got != nil {
		t.Error("ForFile(.md) should return nil")
	}

	if got := len(r.All()); got != 2 {
		t.Errorf("All() returned %d extractors, want 2", got)
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"a/b/c.py", []string{".py"}, true},
		{"a/b/C.PY", []string{".py"}, true},
		{"a/b/c.pyc", []string{".py"}, false},
		{"noext", []string{".py"}, false},
		{"x.tsx", []string{".ts", ".tsx"}, true},
	}

	for _, tt := range tests {
		if got := HasExtension(tt.path, tt.exts...); got != tt.want {
			t.Errorf("HasExtension(%q, %v) = %v, want %v", tt.path, tt.exts, got, tt.want)
		}
	}
}
