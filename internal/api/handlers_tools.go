package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/ingest"
	"github.com/metrosafety/proofd/internal/proofing"
	"github.com/metrosafety/proofd/internal/rules"
)

// handleParse converts an uploaded report into the section document without
// queueing a proofing run. Useful for checking what the rules will see.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

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

	filename := sanitizeFilename(header.Filename)
	ing, err := ingest.ForFile(filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	var headings *assemble.HeadingSet
	if workType := strings.ToLower(r.FormValue("work_type")); workType != "" {
		headings = assemble.NewHeadingSet(s.checklists.HeadingsFor(workType))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	doc, err := ing.Ingest(bytes.NewReader(data), filename, headings)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// handleProofread runs the spelling/grammar proofing batch used by the CRM
// integration.
func (s *Server) handleProofread(w http.ResponseWriter, r *http.Request) {
	if s.proofer == nil {
		jsonError(w, "proofreading unavailable", http.StatusServiceUnavailable)
		return
	}
	var req proofing.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON format", http.StatusBadRequest)
		return
	}

	resp, err := s.proofer.Process(r.Context(), req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleFloors canonicalises floor names against the recognised floor
// vocabulary.
func (s *Server) handleFloors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON format", http.StatusBadRequest)
		return
	}
	if len(req.Names) == 0 {
		jsonError(w, "names is required", http.StatusBadRequest)
		return
	}

	type floorResult struct {
		Name      string `json:"name"`
		Canonical string `json:"canonical,omitempty"`
		Found     bool   `json:"found"`
	}
	results := make([]floorResult, 0, len(req.Names))
	for _, name := range req.Names {
		canonical, ok := rules.CanonicalFloor(name)
		results = append(results, floorResult{Name: name, Canonical: canonical, Found: ok})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"floors": results})
}

// handlePDFQA answers a free-form question about a stored PDF.
func (s *Server) handlePDFQA(w http.ResponseWriter, r *http.Request) {
	if s.pdfQA == nil {
		jsonError(w, "pdf qa unavailable", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		PDFKey   string `json:"pdf_key"`
		Question string `json:"question"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid JSON format", http.StatusBadRequest)
		return
	}
	if req.PDFKey == "" || req.Question == "" {
		jsonError(w, "pdf_key and question are required", http.StatusBadRequest)
		return
	}

	answer, err := s.pdfQA.Answer(r.Context(), req.PDFKey, req.Question)
	if err != nil {
		s.log.Error("pdf qa", "key", req.PDFKey, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "answer": answer})
}
