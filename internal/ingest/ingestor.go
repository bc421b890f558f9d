// Package ingest is the user-facing entry point: it dispatches a
// document to the right parser, renders the output format, and wraps
// everything into a Result.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/openingest/internal/parser"
	"github.com/dgallion1/openingest/internal/render"
)

// Ingestor converts documents into normalized content plus metadata.
// A single document is processed to completion or fails outright: no
// retries, no partial results.
type Ingestor struct {
	cfg Config
	log *slog.Logger
}

// New creates an Ingestor. A nil logger discards log output.
func New(cfg Config, log *slog.Logger) (*Ingestor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Ingestor{cfg: cfg, log: log}, nil
}

// Config returns the configuration the ingestor was built with.
func (ing *Ingestor) Config() Config {
	return ing.cfg
}

// Ingest reads and converts the document at path.
func (ing *Ingestor) Ingest(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}

	// Reject unsupported extensions before touching the content.
	if !parser.IsSupportedExtension(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return ing.ingest(data, filepath.Base(path))
}

// IngestBytes converts a document already held in memory. displayName
// supplies the extension for format dispatch and becomes
// Result.Filename.
func (ing *Ingestor) IngestBytes(data []byte, displayName string) (*Result, error) {
	if !parser.IsSupportedExtension(displayName) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(displayName))
	}
	return ing.ingest(data, filepath.Base(displayName))
}

// IngestDir converts every supported file in dir whose name matches
// pattern (a filepath.Match glob; "" means all files), non-recursively
// and in directory enumeration order. A failing file does not abort
// the batch; its error is collected and the walk continues.
func (ing *Ingestor) IngestDir(dir, pattern string) ([]*Result, []error) {
	if pattern == "" {
		pattern = "*"
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("read directory %s: %w", dir, err)}
	}

	var results []*Result
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}
		if !parser.IsSupportedExtension(name) {
			continue
		}

		res, err := ing.Ingest(filepath.Join(dir, name))
		if err != nil {
			ing.log.Warn("ingest failed, continuing batch", "file", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func (ing *Ingestor) ingest(data []byte, name string) (*Result, error) {
	p, err := parser.ForFile(name, parser.Options{
		PDFFallbackPdftotext: ing.cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}

	start := time.Now()
	doc, err := p.Parse(bytes.NewReader(data), name)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, errors.Join(ErrParse, err))
	}

	content, err := render.Render(doc, ing.cfg.Format, ing.cfg.ExtractTables)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}

	res := &Result{
		Filename:       name,
		Content:        content,
		Format:         ing.cfg.Format,
		PageCount:      doc.PageCount,
		FileSize:       int64(len(data)),
		ProcessingTime: elapsed,
	}
	if ing.cfg.ExtractTables {
		res.Tables = doc.Tables
	}
	if ing.cfg.ExtractImages {
		images, err := parser.ExtractImages(data)
		if err != nil {
			return nil, fmt.Errorf("extract images from %s: %w", name, err)
		}
		res.Images = images
	}

	ing.log.Debug("ingested document",
		"file", name,
		"pages", res.PageCount,
		"bytes", res.FileSize,
		"tables", len(res.Tables),
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, nil
}

// QuickIngest converts a document with default configuration and
// returns only the content string.
func QuickIngest(path string) (string, error) {
	ing, err := New(DefaultConfig(), nil)
	if err != nil {
		return "", err
	}
	res, err := ing.Ingest(path)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}
