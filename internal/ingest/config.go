package ingest

import (
	"fmt"

	"github.com/dgallion1/openingest/internal/chunker"
	"github.com/dgallion1/openingest/internal/render"
)

// Config holds per-ingestor options. Treat it as immutable once an
// Ingestor has been constructed from it.
type Config struct {
	// Format selects the output rendering for Result.Content.
	Format render.Format

	// ChunkSize is the default window used by Result.Chunks.
	ChunkSize int

	// ExtractTables includes table content in the rendered output and
	// populates Result.Tables.
	ExtractTables bool

	// ExtractImages pulls embedded media out of OOXML documents into
	// Result.Images.
	ExtractImages bool

	// PDFFallbackPdftotext shells out to pdftotext when the pure-Go
	// PDF extractor fails.
	PDFFallbackPdftotext bool
}

// DefaultConfig returns the defaults used by QuickIngest.
func DefaultConfig() Config {
	return Config{
		Format:               render.Markdown,
		ChunkSize:            chunker.DefaultChunkSize,
		ExtractTables:        true,
		ExtractImages:        false,
		PDFFallbackPdftotext: true,
	}
}

// Validate checks config invariants.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	return nil
}
