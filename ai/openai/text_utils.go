package openai

import (
	"strings"
	"unicode"
)

const (
	maxClassifyRunes = 512
	maxEmbedRunes    = 1024
)

// normalizeForClassification prepares text for the classifier: whitespace
// collapsed, special characters stripped except basic punctuation, and the
// result truncated to a bounded length.
func normalizeForClassification(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(".,!?;:'-", r):
			b.WriteRune(r)
		}
	}
	return truncateRunes(collapseSpaces(b.String()), maxClassifyRunes)
}

// normalizeForEmbedding prepares text for the embedder: newlines and runs
// of whitespace become single spaces, truncated to a larger bound than
// classification since embedding models handle longer inputs.
func normalizeForEmbedding(s string) string {
	return truncateRunes(collapseSpaces(s), maxEmbedRunes)
}

// collapseSpaces replaces every run of whitespace with a single space and
// trims the ends.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes truncates s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
