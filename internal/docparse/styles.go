package docparse

import (
	"fmt"
	"regexp"
	"strings"
)

// Style is one of the five supported documentation conventions. The set is
// closed: every consumer matches exhaustively, and adding a style means a
// new constant plus handler, not reflection.
type Style string

// Style constants.
const (
	StyleGoogle  Style = "google"
	StyleNumpy   Style = "numpy"
	StyleSphinx  Style = "sphinx"
	StyleJavadoc Style = "javadoc"
	StyleJSDoc   Style = "jsdoc"
)

// AllStyles lists every supported style in detection order.
var AllStyles = []Style{StyleGoogle, StyleNumpy, StyleSphinx, StyleJavadoc, StyleJSDoc}

// ParseStyle converts a configured style name into a Style. Unknown names
// are a configuration error, fatal before any file is processed.
func ParseStyle(name string) (Style, error) {
	switch Style(name) {
	case StyleGoogle, StyleNumpy, StyleSphinx, StyleJavadoc, StyleJSDoc:
		return Style(name), nil
	}
	return "", fmt.Errorf("unknown doc style %q", name)
}

var (
	googleParamLine = regexp.MustCompile(`^(\w+)(?:\s*\([^)]*\))?:\s*(.*)$`)
	googleRaiseLine = regexp.MustCompile(`^(\w+(?:\.\w+)*):\s*(.*)$`)
	numpyUnderline  = regexp.MustCompile(`^-+\s*$`)
	numpyEntryLine  = regexp.MustCompile(`^(\w+)(?:\s*:\s*(.*))?$`)
	sphinxParam     = regexp.MustCompile(`:param\s+(\w+):\s*(.*)`)
	sphinxRaises    = regexp.MustCompile(`:raises?\s+(\w+(?:\.\w+)*):\s*(.*)`)
	javadocParam    = regexp.MustCompile(`@param\s+(\w+)\s*(.*)`)
	javadocThrows   = regexp.MustCompile(`@(?:throws|exception)\s+(\w+(?:\.\w+)*)\s*(.*)`)
	jsdocParam      = regexp.MustCompile(`@param\s+\{[^}]*\}\s+(\w+)\s*(.*)`)
	jsdocThrows     = regexp.MustCompile(`@throws?\s+\{(\w+(?:\.\w+)*)\}\s*(.*)`)
)

// returnPatterns detect documented return values across all five styles.
// Presence is boolean here; return docs are never structured.
var returnPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\n\s*Returns?:\s*\S+`),
	regexp.MustCompile(`(?i)\n\s*Returns?\s*\n\s*-+`),
	regexp.MustCompile(`(?i):returns?:\s*\S+`),
	regexp.MustCompile(`(?i)@returns?\s+\S+`),
}

// styleSignatures identify which style a doc blob is written in, for the
// file-level consistency check.
var styleSignatures = map[Style]*regexp.Regexp{
	StyleGoogle:  regexp.MustCompile(`(?i)(^|\n)\s*(Args|Arguments):\s*\n`),
	StyleNumpy:   regexp.MustCompile(`(?i)(^|\n)\s*Parameters\s*\n\s*-+`),
	StyleSphinx:  regexp.MustCompile(`:param \w+:`),
	StyleJavadoc: regexp.MustCompile(`@param \w+`),
	StyleJSDoc:   regexp.MustCompile(`@param \{[^}]*\} \w+`),
}

// Params extracts the documented parameter records from a doc blob: a map
// of parameter name to its (possibly empty) description.
func (s Style) Params(doc string) map[string]string {
	if doc == "" {
		return map[string]string{}
	}

	switch s {
	case StyleGoogle:
		return parseNamedEntries(SplitSections(doc)[SectionArgs], googleParamLine)
	case StyleNumpy:
		return parseNumpyEntries(doc, "Parameters")
	case StyleSphinx:
		return parseInline(doc, sphinxParam)
	case StyleJavadoc:
		return parseInline(doc, javadocParam)
	case StyleJSDoc:
		return parseInline(doc, jsdocParam)
	}
	return map[string]string{}
}

// Exceptions extracts the documented exception records from a doc blob.
func (s Style) Exceptions(doc string) map[string]string {
	if doc == "" {
		return map[string]string{}
	}

	switch s {
	case StyleGoogle:
		return parseNamedEntries(SplitSections(doc)[SectionRaises], googleRaiseLine)
	case StyleNumpy:
		return parseNumpyEntries(doc, "Raises")
	case StyleSphinx:
		return parseInline(doc, sphinxRaises)
	case StyleJavadoc:
		return parseInline(doc, javadocThrows)
	case StyleJSDoc:
		return parseInline(doc, jsdocThrows)
	}
	return map[string]string{}
}

// HasReturnDoc reports whether any of the style-independent return patterns
// match the doc blob.
func HasReturnDoc(doc string) bool {
	for _, p := range returnPatterns {
		if p.MatchString(doc) {
			return true
		}
	}
	return false
}

// DetectStyles returns every style whose signature matches the doc blob, in
// a fixed order.
func DetectStyles(doc string) []Style {
	var found []Style
	for _, s := range AllStyles {
		if styleSignatures[s].MatchString(doc) {
			found = append(found, s)
		}
	}
	return found
}

// parseNamedEntries parses "name: description" lines where continuation
// lines belong to the previous name until the next entry line.
func parseNamedEntries(section string, entry *regexp.Regexp) map[string]string {
	entries := make(map[string]string)
	if section == "" {
		return entries
	}

	var name string
	var desc []string
	flush := func() {
		if name != "" {
			entries[name] = strings.TrimSpace(strings.Join(desc, " "))
		}
	}

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := entry.FindStringSubmatch(line); m != nil {
			flush()
			name = m[1]
			desc = nil
			if m[len(m)-1] != "" {
				desc = append(desc, m[len(m)-1])
			}
		} else if name != "" {
			desc = append(desc, line)
		}
	}
	flush()

	return entries
}

// parseNumpyEntries extracts entry names from a NumPy-style section: the
// header followed by a dashed underline, entries on unindented lines, and
// indented lines forming the running description. Extraction here is
// deliberately approximate; only the underlined-header format is verified
// strictly, by the format check.
func parseNumpyEntries(doc, header string) map[string]string {
	entries := make(map[string]string)
	lines := strings.Split(doc, "\n")

	start := -1
	for i := 0; i < len(lines)-1; i++ {
		if strings.EqualFold(strings.TrimSpace(lines[i]), header) &&
			numpyUnderline.MatchString(strings.TrimSpace(lines[i+1])) {
			start = i + 2
			break
		}
	}
	if start < 0 {
		return entries
	}

	var name string
	var desc []string
	flush := func() {
		if name != "" {
			entries[name] = strings.TrimSpace(strings.Join(desc, " "))
		}
	}

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if !indented {
			// A new unindented header or underline ends the section.
			if numpyUnderline.MatchString(trimmed) {
				continue
			}
			if m := numpyEntryLine.FindStringSubmatch(trimmed); m != nil && !isKnownNumpyHeader(trimmed) {
				flush()
				name = m[1]
				desc = nil
				continue
			}
			flush()
			name = ""
			break
		}
		if name != "" {
			desc = append(desc, trimmed)
		}
	}
	flush()

	return entries
}

func isKnownNumpyHeader(line string) bool {
	switch strings.ToLower(line) {
	case "parameters", "returns", "raises", "yields", "examples", "notes", "see also":
		return true
	}
	return false
}

// parseInline collects scattered inline directives/tags anywhere in the raw
// text, as Sphinx, Javadoc, and JSDoc allow.
func parseInline(doc string, tag *regexp.Regexp) map[string]string {
	entries := make(map[string]string)
	for _, m := range tag.FindAllStringSubmatch(doc, -1) {
		entries[m[1]] = strings.TrimSpace(m[2])
	}
	return entries
}
