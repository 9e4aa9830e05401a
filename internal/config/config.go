package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the mcp-doc.yaml configuration.
type Config struct {
	Root          string              `yaml:"root"`
	Exclude       []string            `yaml:"exclude"`
	Languages     map[string]Language `yaml:"languages"`
	Analysis      Analysis            `yaml:"analysis"`
	Output        OutputConfig        `yaml:"output"`
	MaxFileSizeMB int                 `yaml:"max_file_size_mb"`
	Workers       int                 `yaml:"workers"`
}

// Language configures one supported source language.
type Language struct {
	Name           string   `yaml:"name"`
	Extensions     []string `yaml:"extensions"`
	Style          string   `yaml:"doc_style"` // google, numpy, sphinx, javadoc, jsdoc
	CommentMarkers []string `yaml:"comment_markers"`
}

// Analysis toggles the individual check stages and their thresholds.
type Analysis struct {
	CheckPresence       bool    `yaml:"check_presence"`
	CheckFormat         bool    `yaml:"check_format"`
	CheckCompleteness   bool    `yaml:"check_completeness"`
	EvaluateClarity     bool    `yaml:"evaluate_clarity"`
	EvaluateConsistency bool    `yaml:"evaluate_consistency"`
	CheckSync           bool    `yaml:"check_sync"`
	MinCoverage         float64 `yaml:"min_coverage_threshold"`
	MaxGradeLevel       float64 `yaml:"max_grade_level"`
}

// OutputConfig controls where report artifacts are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns a Config with built-in language support and all checks
// enabled.
func Default() *Config {
	return &Config{
		Root: ".",
		Exclude: []string{
			"__pycache__",
			".git",
			"node_modules",
			"venv",
			".env",
			".pyc",
			".docmcp",
		},
		Languages: map[string]Language{
			"python": {
				Name:           "python",
				Extensions:     []string{".py"},
				Style:          "google",
				CommentMarkers: []string{"#", `"""`, "'''"},
			},
			"javascript": {
				Name:           "javascript",
				Extensions:     []string{".js", ".jsx", ".ts", ".tsx"},
				Style:          "jsdoc",
				CommentMarkers: []string{"//", "/*", "/**"},
			},
			"java": {
				Name:           "java",
				Extensions:     []string{".java"},
				Style:          "javadoc",
				CommentMarkers: []string{"//", "/*", "/**"},
			},
		},
		Analysis: Analysis{
			CheckPresence:       true,
			CheckFormat:         true,
			CheckCompleteness:   true,
			EvaluateClarity:     true,
			EvaluateConsistency: true,
			CheckSync:           true,
			MinCoverage:         0.8,
			MaxGradeLevel:       12,
		},
		Output: OutputConfig{
			Dir: ".docmcp",
		},
		MaxFileSizeMB: 10,
		Workers:       4,
	}
}

// Load reads a configuration file from the given path. Missing fields are
// filled with defaults. The returned config is already validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Ensure required defaults
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = ".docmcp"
	}
	if cfg.MaxFileSizeMB <= 0 {
		cfg.MaxFileSizeMB = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with. It must be
// called before any file is processed; a bad style or an empty language
// table is fatal to the whole run.
func (c *Config) Validate() error {
	if len(c.Languages) == 0 {
		return fmt.Errorf("no languages configured")
	}
	for name, lang := range c.Languages {
		if len(lang.Extensions) == 0 {
			return fmt.Errorf("language %q has no file extensions", name)
		}
		switch lang.Style {
		case "google", "numpy", "sphinx", "javadoc", "jsdoc":
		default:
			return fmt.Errorf("language %q: unknown doc style %q", name, lang.Style)
		}
	}
	return nil
}

// LanguageFor returns the language config matching the file extension, or
// false if no configured language claims it.
func (c *Config) LanguageFor(ext string) (Language, bool) {
	for _, lang := range c.Languages {
		for _, e := range lang.Extensions {
			if e == ext {
				return lang, true
			}
		}
	}
	return Language{}, false
}

// StyleFor returns the configured doc style for a language name, defaulting
// to google when the language is not configured.
func (c *Config) StyleFor(language string) string {
	if lang, ok := c.Languages[language]; ok {
		return lang.Style
	}
	return "google"
}
