package ingest

import (
	"fmt"
	"os"
	"time"

	"github.com/dgallion1/openingest/internal/chunker"
	"github.com/dgallion1/openingest/internal/doctree"
	"github.com/dgallion1/openingest/internal/render"
)

// Result is the output of ingesting one document. It is owned by the
// caller and never mutated after construction.
type Result struct {
	Filename       string
	Content        string
	Format         render.Format
	PageCount      int
	FileSize       int64
	ProcessingTime time.Duration
	Tables         []*doctree.Table
	Images         []doctree.Image
}

// Save writes Content to path verbatim.
func (r *Result) Save(path string) error {
	if err := os.WriteFile(path, []byte(r.Content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Chunks splits Content into fixed-width overlapping windows.
func (r *Result) Chunks(size, overlap int) ([]string, error) {
	return chunker.Split(r.Content, size, overlap)
}

// TokenEstimate reports the approximate token count of Content.
func (r *Result) TokenEstimate() int {
	return chunker.EstimateTokens(r.Content)
}
