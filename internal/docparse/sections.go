// Package docparse decomposes raw doc comments into named sections and
// extracts structured parameter, return, and exception records from them
// according to one of the five supported documentation styles.
package docparse

import (
	"regexp"
	"strings"
)

// Canonical section names produced by SplitSections. The summary section is
// implicit: everything before the first recognized header.
const (
	SectionSummary  = "summary"
	SectionArgs     = "args"
	SectionReturns  = "returns"
	SectionRaises   = "raises"
	SectionYields   = "yields"
	SectionExamples = "examples"
	SectionNote     = "note"
	SectionWarning  = "warning"
)

// sectionHeaders maps a case-insensitive header line pattern to its
// canonical section name. A header line closes the current section.
var sectionHeaders = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{SectionArgs, regexp.MustCompile(`(?i)^(Args|Arguments|Parameters):\s*$`)},
	{SectionReturns, regexp.MustCompile(`(?i)^(Returns?|Return):\s*$`)},
	{SectionRaises, regexp.MustCompile(`(?i)^(Raises?|Exceptions?):\s*$`)},
	{SectionYields, regexp.MustCompile(`(?i)^(Yields?):\s*$`)},
	{SectionExamples, regexp.MustCompile(`(?i)^(Examples?):\s*$`)},
	{SectionNote, regexp.MustCompile(`(?i)^(Note|Notes):\s*$`)},
	{SectionWarning, regexp.MustCompile(`(?i)^(Warning|Warnings):\s*$`)},
}

// Dedent normalizes a doc blob's indentation: surrounding whitespace is
// trimmed and the common leading whitespace of all non-first, non-blank
// lines is stripped. The first line is left untouched. Dedent is idempotent.
func Dedent(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}

	lines := strings.Split(doc, "\n")
	if len(lines) < 2 {
		return doc
	}

	minIndent := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return doc
	}

	for i, line := range lines[1:] {
		if len(line) >= minIndent {
			lines[i+1] = line[minIndent:]
		}
	}
	return strings.Join(lines, "\n")
}

// SplitSections scans a doc blob line by line and partitions it into
// canonical sections. A line matching a section header closes the current
// section and opens the named one; unmatched lines accumulate into the
// current section. Text before the first header lands in "summary". A
// repeated header appends to the earlier occurrence, so concatenating all
// sections always reconstructs the input text.
func SplitSections(doc string) map[string]string {
	if doc == "" {
		return map[string]string{}
	}

	sections := make(map[string]string)
	current := SectionSummary
	var content []string

	flush := func() {
		if len(content) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(content, "\n"))
		if prev, ok := sections[current]; ok && prev != "" && text != "" {
			text = prev + "\n" + text
		} else if text == "" && ok {
			text = prev
		}
		sections[current] = text
	}

	for _, line := range strings.Split(doc, "\n") {
		stripped := strings.TrimSpace(line)

		matched := ""
		for _, h := range sectionHeaders {
			if h.pattern.MatchString(stripped) {
				matched = h.name
				break
			}
		}

		if matched != "" {
			flush()
			current = matched
			content = nil
		} else {
			content = append(content, line)
		}
	}
	flush()

	return sections
}

// SummaryAndDescription splits a doc blob into its first line and the rest
// of the summary section.
func SummaryAndDescription(doc string) (summary, description string) {
	text, ok := SplitSections(doc)[SectionSummary]
	if !ok {
		return "", ""
	}
	lines := strings.SplitN(text, "\n", 2)
	summary = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		description = strings.TrimSpace(lines[1])
	}
	return summary, description
}

// IsSectionHeader reports whether a line is one of the recognized section
// headers. A doc blob whose first line is a bare header has no summary.
func IsSectionHeader(line string) bool {
	stripped := strings.TrimSpace(line)
	for _, h := range sectionHeaders {
		if h.pattern.MatchString(stripped) {
			return true
		}
	}
	return false
}
