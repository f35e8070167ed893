package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonSpace matches one character that is not whitespace, including the
// ideographic space common in Chinese filings.
const nonSpace = `[^\s\x{3000}]`

var sentenceDelimiters = regexp.MustCompile(`[。；!！?？\n]`)

// cleanText collapses runs of whitespace into single spaces and trims the result.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitSentences splits text on Chinese sentence delimiters and newlines. Empty sentences are dropped; the rest are trimmed.
func splitSentences(text string) []string {
	parts := sentenceDelimiters.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// runeLen returns the number of characters in s.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// headLines returns the first n lines of text.
func headLines(text string, n int) string {
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// firstContaining returns the first substring present in s.
func firstContaining(s string, subs []string) (string, bool) {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return sub, true
		}
	}
	return "", false
}

// sentencesWith returns the sentences containing keyword, in order.
func sentencesWith(sentences []string, keyword string) []string {
	var out []string
	for _, s := range sentences {
		if strings.Contains(s, keyword) {
			out = append(out, s)
		}
	}
	return out
}

// firstSentenceFor walks keywords in order and returns the first sentence
// containing the first keyword present in text, truncated and cleaned.
func firstSentenceFor(text string, sentences, keywords []string, limit int) string {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			continue
		}
		if matched := sentencesWith(sentences, kw); len(matched) > 0 {
			return cleanText(truncate(matched[0], limit))
		}
	}
	return ""
}
