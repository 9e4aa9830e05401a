package evaluator

import (
	"regexp"
	"strings"
)

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	wordPattern   = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)
	vowelGroups   = regexp.MustCompile(`[aeiouy]+`)
)

// readabilityScores computes the Flesch reading-ease score and the
// Flesch-Kincaid grade level for a piece of prose. ok is false for
// degenerate input (no words or no sentences), in which case the caller
// skips the readability checks entirely.
func readabilityScores(text string) (ease, grade float64, ok bool) {
	words := wordPattern.FindAllString(text, -1)
	if len(words) == 0 {
		return 0, 0, false
	}

	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wps := float64(len(words)) / float64(sentences)
	spw := float64(syllables) / float64(len(words))

	ease = 206.835 - 1.015*wps - 84.6*spw
	grade = 0.39*wps + 11.8*spw - 15.59
	return ease, grade, true
}

// countSyllables approximates English syllable count by counting vowel
// groups, discounting a silent trailing e.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	groups := vowelGroups.FindAllString(word, -1)
	n := len(groups)
	if n > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		n--
	}
	if n < 1 {
		n = 1
	}
	return n
}
