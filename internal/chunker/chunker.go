// Package chunker splits ingested content into fixed-width overlapping
// windows for downstream retrieval pipelines.
package chunker

import "fmt"

// DefaultChunkSize and DefaultOverlap match the library-level defaults.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
)

// Split breaks content into chunks of size characters, advancing by
// size-overlap characters per step. The final chunk may be shorter.
// Content of length <= size yields exactly one chunk; consecutive
// chunks share exactly overlap characters. Sizes are measured in
// runes, not bytes.
func Split(content string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap must be in [0, %d), got %d", size, overlap)
	}

	runes := []rune(content)
	if len(runes) <= size {
		return []string{content}, nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
