package ingest

import "errors"

// Sentinel error kinds surfaced by ingestion. Wrapped errors carry the
// original cause; match with errors.Is.
var (
	// ErrNotFound means the source document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnsupportedFormat means the file extension is outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrParse means the parsing engine failed on the document
	// (corrupted file, unsupported internal structure).
	ErrParse = errors.New("document parse failed")
)
