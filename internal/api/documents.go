package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/extraction"
	"github.com/shunichi-ikebuchi/yayoi-bridge/internal/learning"
)

// saveUpload writes one uploaded file to a scratch directory so the
// extractor can read it from disk.
func saveUpload(dir string, file multipart.File, filename string) (string, error) {
	path := filepath.Join(dir, filepath.Base(filename))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}

// applyLearning overlays any saved correction onto a fresh extraction.
func (s *Server) applyLearning(record *extraction.Record) {
	if record == nil || s.learning == nil {
		return
	}
	match, err := s.learning.FindMatching(record)
	if err != nil || match == nil {
		return
	}
	learning.Apply(record, match)
}

// handleExtractDocument handles POST /api/documents/extract: one
// scanned document in, one structured record out.
func (s *Server) handleExtractDocument(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Document extraction is not configured")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing file")
		return
	}
	defer file.Close()

	dir, err := os.MkdirTemp("", "yayoi-bridge-upload-")
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to store upload")
		return
	}
	defer os.RemoveAll(dir)

	path, err := saveUpload(dir, file, header.Filename)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to store upload")
		return
	}

	record, err := s.extractor.ExtractDocument(path)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, "extraction_failed", err.Error())
		return
	}

	s.applyLearning(record)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"record": record,
	})
}

// handleExtractBatch handles POST /api/documents/batch: multiple
// documents extracted concurrently. Per-file failures are reported in
// place; the batch itself succeeds.
func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable", "Document extraction is not configured")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Missing files")
		return
	}
	if len(files) > extraction.MaxBatchFiles {
		writeJSONError(w, http.StatusBadRequest, "invalid_parameter", "Too many files in one batch")
		return
	}

	dir, err := os.MkdirTemp("", "yayoi-bridge-batch-")
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to store uploads")
		return
	}
	defer os.RemoveAll(dir)

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read upload")
			return
		}
		path, err := saveUpload(dir, f, fh.Filename)
		f.Close()
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "server_error", "Failed to store uploads")
			return
		}
		paths = append(paths, path)
	}

	results, err := extraction.ProcessBatch(s.extractor, paths, s.batchConcurrency)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	type batchItem struct {
		File   string             `json:"file"`
		Record *extraction.Record `json:"record,omitempty"`
		Error  string             `json:"error,omitempty"`
	}

	items := make([]batchItem, len(results))
	failed := 0
	for i, res := range results {
		items[i] = batchItem{File: filepath.Base(res.Path)}
		if res.Err != nil {
			items[i].Error = res.Err.Error()
			failed++
			continue
		}
		s.applyLearning(res.Record)
		items[i].Record = res.Record
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": items,
		"count":   len(items),
		"failed":  failed,
	})
}
