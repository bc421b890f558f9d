package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/openingest/internal/render"
)

const sampleMarkdown = `# Sample

## Intro

Hello world, this is a test document.

## Data

More content here.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestIngestor(t *testing.T, cfg Config) *Ingestor {
	t.Helper()
	ing, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new ingestor: %v", err)
	}
	return ing
}

func TestIngest_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.md", sampleMarkdown)

	ing := newTestIngestor(t, DefaultConfig())
	res, err := ing.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if res.Filename != "sample.md" {
		t.Errorf("expected filename 'sample.md', got %q", res.Filename)
	}
	if res.Content == "" {
		t.Error("expected non-empty content")
	}
	if !strings.Contains(res.Content, "Hello world") {
		t.Errorf("content missing body text:\n%s", res.Content)
	}
	if res.PageCount < 1 {
		t.Errorf("expected page count >= 1, got %d", res.PageCount)
	}
	if res.FileSize != int64(len(sampleMarkdown)) {
		t.Errorf("expected file size %d, got %d", len(sampleMarkdown), res.FileSize)
	}
	if res.ProcessingTime <= 0 {
		t.Errorf("expected positive processing time, got %v", res.ProcessingTime)
	}
}

func TestIngest_FileNotFound(t *testing.T) {
	ing := newTestIngestor(t, DefaultConfig())
	_, err := ing.Ingest(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngest_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.exe", "binary junk")

	ing := newTestIngestor(t, DefaultConfig())
	_, err := ing.Ingest(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestIngest_CorruptedDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pptx", "this is not a zip archive")

	ing := newTestIngestor(t, DefaultConfig())
	_, err := ing.Ingest(path)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestIngestBytes_MatchesIngest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.md", sampleMarkdown)

	ing := newTestIngestor(t, DefaultConfig())
	fromFile, err := ing.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	fromBytes, err := ing.IngestBytes([]byte(sampleMarkdown), "sample.md")
	if err != nil {
		t.Fatalf("ingest bytes failed: %v", err)
	}

	if fromBytes.Content != fromFile.Content {
		t.Error("IngestBytes content differs from Ingest content")
	}
	if fromBytes.PageCount != fromFile.PageCount {
		t.Errorf("page counts differ: %d vs %d", fromBytes.PageCount, fromFile.PageCount)
	}
	if fromBytes.FileSize != fromFile.FileSize {
		t.Errorf("file sizes differ: %d vs %d", fromBytes.FileSize, fromFile.FileSize)
	}
	if fromBytes.Filename != "sample.md" {
		t.Errorf("expected display name 'sample.md', got %q", fromBytes.Filename)
	}
}

func TestQuickIngest_EqualsIngestContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.md", sampleMarkdown)

	content, err := QuickIngest(path)
	if err != nil {
		t.Fatalf("quick ingest failed: %v", err)
	}

	ing := newTestIngestor(t, DefaultConfig())
	res, err := ing.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if content != res.Content {
		t.Error("QuickIngest content differs from Ingest(path).Content")
	}
}

func TestResultSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.md", sampleMarkdown)

	ing := newTestIngestor(t, DefaultConfig())
	res, err := ing.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	outPath := filepath.Join(dir, "out.md")
	if err := res.Save(outPath); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != res.Content {
		t.Error("saved file differs from result content")
	}
}

func TestResultChunks(t *testing.T) {
	res := &Result{Content: strings.Repeat("x", 2500)}
	chunks, err := res.Chunks(1000, 100)
	if err != nil {
		t.Fatalf("chunks failed: %v", err)
	}
	// ceil((2500-100)/900) = 3
	if len(chunks) != 3 {
		t.Errorf("expected 3 chunks, got %d", len(chunks))
	}

	if _, err := res.Chunks(0, 0); err == nil {
		t.Error("expected error for zero chunk size")
	}
}

func TestIngestDir_SkipAndCollect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A\n\ncontent a\n")
	writeFile(t, dir, "b.md", "# B\n\ncontent b\n")
	writeFile(t, dir, "c.csv", "h1,h2\n1,2\n")
	writeFile(t, dir, "ignore.txt", "not supported")
	writeFile(t, dir, "ignore.exe", "not supported either")

	ing := newTestIngestor(t, DefaultConfig())
	results, errs := ing.IngestDir(dir, "*")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// Enumeration order is the sorted directory order.
	want := []string{"a.md", "b.md", "c.csv"}
	for i, res := range results {
		if res.Filename != want[i] {
			t.Errorf("result %d: expected %q, got %q", i, want[i], res.Filename)
		}
	}
}

func TestIngestDir_PatternFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "# A\n")
	writeFile(t, dir, "b.csv", "h\n1\n")

	ing := newTestIngestor(t, DefaultConfig())
	results, errs := ing.IngestDir(dir, "*.md")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 1 || results[0].Filename != "a.md" {
		t.Errorf("expected only a.md, got %+v", results)
	}
}

func TestIngestDir_FailuresDoNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.pptx", "not a zip")
	writeFile(t, dir, "good.md", "# Good\n\ncontent\n")

	ing := newTestIngestor(t, DefaultConfig())
	results, errs := ing.IngestDir(dir, "*")
	if len(results) != 1 || results[0].Filename != "good.md" {
		t.Fatalf("expected the good file to survive the batch, got %+v", results)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 collected error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrParse) {
		t.Errorf("expected collected ErrParse, got %v", errs[0])
	}
	if !strings.Contains(errs[0].Error(), "bad.pptx") {
		t.Errorf("expected error to name the file, got %v", errs[0])
	}
}

func TestIngestDir_MissingDirectory(t *testing.T) {
	ing := newTestIngestor(t, DefaultConfig())
	results, errs := ing.IngestDir(filepath.Join(t.TempDir(), "nope"), "*")
	if results != nil {
		t.Errorf("expected no results, got %d", len(results))
	}
	if len(errs) != 1 {
		t.Errorf("expected 1 error, got %d", len(errs))
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.ChunkSize = 0
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for zero chunk size")
	}
}

func TestIngest_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.md", sampleMarkdown)

	cfg := DefaultConfig()
	cfg.Format = render.JSON
	ing := newTestIngestor(t, cfg)

	res, err := ing.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if res.Format != render.JSON {
		t.Errorf("expected JSON format, got %v", res.Format)
	}
	if !strings.HasPrefix(strings.TrimSpace(res.Content), "{") {
		t.Errorf("expected JSON content, got:\n%s", res.Content)
	}
}

func TestIngest_TablesToggle(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.csv", "h1,h2\n1,2\n")

	withTables := newTestIngestor(t, DefaultConfig())
	res, err := withTables.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if len(res.Tables) != 1 {
		t.Errorf("expected 1 table, got %d", len(res.Tables))
	}

	cfg := DefaultConfig()
	cfg.ExtractTables = false
	withoutTables := newTestIngestor(t, cfg)
	res, err = withoutTables.Ingest(path)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if len(res.Tables) != 0 {
		t.Errorf("expected no tables when disabled, got %d", len(res.Tables))
	}
}
