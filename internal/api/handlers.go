package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/openingest/internal/doctree"
	"github.com/dgallion1/openingest/internal/ingest"
	"github.com/dgallion1/openingest/internal/parser"
	"github.com/dgallion1/openingest/internal/render"
)

type ingestResponse struct {
	Filename      string      `json:"filename"`
	Format        string      `json:"format"`
	Content       string      `json:"content"`
	PageCount     int         `json:"page_count"`
	FileSize      int64       `json:"file_size"`
	ProcessingMS  int64       `json:"processing_ms"`
	ChunkCount    int         `json:"chunk_count"`
	TokenEstimate int         `json:"token_estimate"`
	Tables        []tableJSON `json:"tables,omitempty"`
	Images        []string    `json:"images,omitempty"`
}

type tableJSON struct {
	Title string     `json:"title,omitempty"`
	Page  int        `json:"page,omitempty"`
	Rows  [][]string `json:"rows"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ing, chunkSize, chunkOverlap, err := s.requestIngestor(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, status, errMsg := s.ingestUpload(ing, file, header, chunkSize, chunkOverlap)
	if errMsg != "" {
		jsonError(w, errMsg, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleBatchIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	ing, chunkSize, chunkOverlap, err := s.requestIngestor(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// One bad file does not abort the batch.
	var results []map[string]any
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			results = append(results, map[string]any{
				"filename": sanitizeFilename(fh.Filename),
				"error":    "failed to open file",
			})
			continue
		}
		resp, _, errMsg := s.ingestUpload(ing, f, fh, chunkSize, chunkOverlap)
		f.Close()
		if errMsg != "" {
			results = append(results, map[string]any{
				"filename": sanitizeFilename(fh.Filename),
				"error":    errMsg,
			})
			continue
		}
		results = append(results, map[string]any{
			"filename": resp.Filename,
			"result":   resp,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": results})
}

// requestIngestor resolves the ingestor for a request: the server's
// default ingestor, or a one-off built from form-field overrides
// (format, chunk_size, overlap, tables, images).
func (s *Server) requestIngestor(r *http.Request) (*ingest.Ingestor, int, int, error) {
	chunkSizeDefault := s.cfg.DefaultChunkSize
	overlapDefault := s.cfg.DefaultChunkOverlap

	hasOverride := false
	for _, field := range []string{"format", "chunk_size", "overlap", "tables", "images"} {
		if r.FormValue(field) != "" {
			hasOverride = true
			break
		}
	}
	if !hasOverride {
		return s.ingestor, chunkSizeDefault, overlapDefault, nil
	}

	format, err := render.ParseFormat(r.FormValue("format"))
	if err != nil {
		return nil, 0, 0, err
	}
	if r.FormValue("format") == "" {
		format, _ = render.ParseFormat(s.cfg.DefaultFormat)
	}

	chunkSize := chunkSizeDefault
	if v := r.FormValue("chunk_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, 0, 0, fmt.Errorf("invalid chunk_size: %q", v)
		}
		chunkSize = n
	}
	chunkOverlap := overlapDefault
	if v := r.FormValue("overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, 0, 0, fmt.Errorf("invalid overlap: %q", v)
		}
		chunkOverlap = n
	}
	if chunkOverlap >= chunkSize {
		return nil, 0, 0, fmt.Errorf("overlap %d must be smaller than chunk_size %d", chunkOverlap, chunkSize)
	}

	cfg := ingest.Config{
		Format:               format,
		ChunkSize:            chunkSize,
		ExtractTables:        s.cfg.ExtractTables,
		ExtractImages:        s.cfg.ExtractImages,
		PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext,
	}
	if v := r.FormValue("tables"); v != "" {
		cfg.ExtractTables = v == "true"
	}
	if v := r.FormValue("images"); v != "" {
		cfg.ExtractImages = v == "true"
	}

	ing, err := ingest.New(cfg, s.log)
	if err != nil {
		return nil, 0, 0, err
	}
	return ing, chunkSize, chunkOverlap, nil
}

func (s *Server) ingestUpload(ing *ingest.Ingestor, file multipart.File, header *multipart.FileHeader, chunkSize, chunkOverlap int) (*ingestResponse, int, string) {
	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, http.StatusBadRequest, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, "failed to read file"
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	res, err := ing.IngestBytes(data, filename)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		s.log.Error("ingest failed", "file", filename, "error", err)
		return nil, status, err.Error()
	}

	chunks, err := res.Chunks(chunkSize, chunkOverlap)
	if err != nil {
		return nil, http.StatusBadRequest, err.Error()
	}

	return buildResponse(res, len(chunks)), 0, ""
}

func buildResponse(res *ingest.Result, chunkCount int) *ingestResponse {
	resp := &ingestResponse{
		Filename:      res.Filename,
		Format:        res.Format.String(),
		Content:       res.Content,
		PageCount:     res.PageCount,
		FileSize:      res.FileSize,
		ProcessingMS:  res.ProcessingTime.Milliseconds(),
		ChunkCount:    chunkCount,
		TokenEstimate: res.TokenEstimate(),
	}
	for _, t := range res.Tables {
		resp.Tables = append(resp.Tables, tableJSON{Title: t.Title, Page: t.Page, Rows: t.Rows})
	}
	resp.Images = imageNames(res.Images)
	return resp
}

func imageNames(images []doctree.Image) []string {
	var names []string
	for _, img := range images {
		names = append(names, img.Name)
	}
	return names
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
