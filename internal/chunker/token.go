package chunker

import "strings"

// EstimateTokens gives a rough token count using a words-based heuristic.
// This is intentionally simple — exact tokenization is not required for
// the stats it feeds.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	words := len(strings.Fields(text))
	// Roughly 1.33 tokens per word for English text.
	tokens := int(float64(words) * 1.33)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}
