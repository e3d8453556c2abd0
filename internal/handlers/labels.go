package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"label-matcher/internal/cache"
	"label-matcher/internal/database"
	"label-matcher/internal/match"

	"github.com/go-chi/chi/v5"
)

// LabelHandler handles HTTP requests for label matching
type LabelHandler struct {
	db             *database.DB
	matcher        *match.Matcher
	processor      FileProcessor
	archiver       Archiver
	cache          *cache.Manager
	maxUploadBytes int64
}

// Archiver stores an uploaded PDF somewhere durable and returns a link to
// it. A nil archiver records results under the upload's filename instead.
type Archiver interface {
	UploadPDF(ctx context.Context, localPath, name string) (string, error)
}

// FileProcessor turns an uploaded PDF into per-page match results. The
// worker package provides the real implementation; tests supply fakes.
// A nil processor disables the upload endpoint.
type FileProcessor interface {
	ProcessFile(ctx context.Context, pdfPath string, candidates []match.Candidate) ([]match.MatchResult, match.BatchStats, error)
}

// NewLabelHandler creates a new label handler
func NewLabelHandler(db *database.DB, matcher *match.Matcher, processor FileProcessor, archiver Archiver, cacheManager *cache.Manager, maxUploadBytes int64) *LabelHandler {
	return &LabelHandler{
		db:             db,
		matcher:        matcher,
		processor:      processor,
		archiver:       archiver,
		cache:          cacheManager,
		maxUploadBytes: maxUploadBytes,
	}
}

// candidates returns the order candidate list, served from cache when warm.
func (h *LabelHandler) candidates() ([]match.Candidate, error) {
	if cached, ok := h.cache.Get(); ok {
		return cached, nil
	}

	candidates, err := h.db.Orders.Candidates()
	if err != nil {
		return nil, err
	}
	h.cache.Set(candidates)
	return candidates, nil
}

// MatchRequest is the body for POST /api/labels/match: OCR text per page,
// already extracted by the caller.
type MatchRequest struct {
	SourceFile string          `json:"source_file"`
	Pages      []match.OCRPage `json:"pages"`
}

// MatchResponse is returned by the match and upload endpoints.
type MatchResponse struct {
	SourceFile string              `json:"source_file"`
	Results    []match.MatchResult `json:"results"`
	Stats      match.BatchStats    `json:"stats"`
}

// MatchLabels handles POST /api/labels/match
func (h *LabelHandler) MatchLabels(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Invalid JSON in MatchLabels: %v", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if len(req.Pages) == 0 {
		http.Error(w, "At least one page is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SourceFile) == "" {
		req.SourceFile = "inline"
	}

	candidates, err := h.candidates()
	if err != nil {
		log.Printf("ERROR: Failed to load order candidates: %v", err)
		http.Error(w, fmt.Sprintf("Failed to load orders: %v", err), http.StatusInternalServerError)
		return
	}

	results, stats := h.matcher.ProcessPages(req.Pages, candidates)

	if _, err := h.db.Labels.SaveBatch(req.SourceFile, results); err != nil {
		log.Printf("ERROR: Failed to save match results: %v", err)
		http.Error(w, fmt.Sprintf("Failed to save results: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(MatchResponse{
		SourceFile: req.SourceFile,
		Results:    results,
		Stats:      stats,
	})
}

// UploadLabels handles POST /api/labels/upload (multipart PDF)
func (h *LabelHandler) UploadLabels(w http.ResponseWriter, r *http.Request) {
	if h.processor == nil {
		http.Error(w, "PDF processing is not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		http.Error(w, "File too large or invalid multipart form", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		http.Error(w, "Only PDF files are accepted", http.StatusBadRequest)
		return
	}

	tmp, err := os.CreateTemp("", "labels_*.pdf")
	if err != nil {
		log.Printf("ERROR: Failed to create temp file: %v", err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		log.Printf("ERROR: Failed to write upload: %v", err)
		http.Error(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	tmp.Close()

	candidates, err := h.candidates()
	if err != nil {
		log.Printf("ERROR: Failed to load order candidates: %v", err)
		http.Error(w, fmt.Sprintf("Failed to load orders: %v", err), http.StatusInternalServerError)
		return
	}

	results, stats, err := h.processor.ProcessFile(r.Context(), tmp.Name(), candidates)
	if err != nil {
		log.Printf("ERROR: Failed to process %s: %v", header.Filename, err)
		http.Error(w, fmt.Sprintf("Failed to process PDF: %v", err), http.StatusUnprocessableEntity)
		return
	}

	// Results are recorded under the archive link when archiving is
	// configured, so the source PDF stays reachable from the review queue.
	sourceFile := header.Filename
	if h.archiver != nil {
		if link, err := h.archiver.UploadPDF(r.Context(), tmp.Name(), header.Filename); err != nil {
			log.Printf("WARN: Failed to archive %s: %v", header.Filename, err)
		} else {
			sourceFile = link
		}
	}

	if _, err := h.db.Labels.SaveBatch(sourceFile, results); err != nil {
		log.Printf("ERROR: Failed to save match results: %v", err)
		http.Error(w, fmt.Sprintf("Failed to save results: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(MatchResponse{
		SourceFile: sourceFile,
		Results:    results,
		Stats:      stats,
	})
}

// GetUnmatched handles GET /api/labels/unmatched
func (h *LabelHandler) GetUnmatched(w http.ResponseWriter, r *http.Request) {
	labels, err := h.db.Labels.GetUnmatched()
	if err != nil {
		log.Printf("ERROR: Failed to get unmatched labels: %v", err)
		http.Error(w, fmt.Sprintf("Failed to get unmatched labels: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(labels)
}

// GetLabels handles GET /api/labels?source_file=...
func (h *LabelHandler) GetLabels(w http.ResponseWriter, r *http.Request) {
	sourceFile := r.URL.Query().Get("source_file")
	if sourceFile == "" {
		http.Error(w, "source_file query parameter is required", http.StatusBadRequest)
		return
	}

	labels, err := h.db.Labels.GetBySourceFile(sourceFile)
	if err != nil {
		log.Printf("ERROR: Failed to get labels for %s: %v", sourceFile, err)
		http.Error(w, fmt.Sprintf("Failed to get labels: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(labels)
}

// AssignLabel handles POST /api/labels/{id}/assign/{order_id}
func (h *LabelHandler) AssignLabel(w http.ResponseWriter, r *http.Request) {
	labelID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid label ID", http.StatusBadRequest)
		return
	}
	orderRef, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	if _, err := h.db.Orders.GetByID(orderRef); err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to get order %d: %v", orderRef, err)
		http.Error(w, fmt.Sprintf("Failed to get order: %v", err), http.StatusInternalServerError)
		return
	}

	if err := h.db.Labels.AssignOrder(labelID, orderRef); err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Label not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: Failed to assign label %d to order %d: %v", labelID, orderRef, err)
		http.Error(w, fmt.Sprintf("Failed to assign label: %v", err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
