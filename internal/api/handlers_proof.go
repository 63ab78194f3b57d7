package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/metrosafety/proofd/internal/ingest"
	"github.com/metrosafety/proofd/internal/pipeline"
)

// handleProof accepts a proofing request for one work order. The report
// arrives either as a multipart upload ("file") or as a blob key
// ("source_key") pointing at the object store.
func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	woNumber := r.FormValue("wo_number")
	woID := r.FormValue("wo_id")
	workType := strings.ToLower(r.FormValue("work_type"))
	if woNumber == "" || woID == "" {
		jsonError(w, "wo_number and wo_id are required", http.StatusBadRequest)
		return
	}
	switch workType {
	case "fra", "hsa", "water":
	default:
		jsonError(w, fmt.Sprintf("unknown work_type: %q", workType), http.StatusBadRequest)
		return
	}

	var (
		data      []byte
		filename  string
		sourceKey = r.FormValue("source_key")
	)
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		filename = sanitizeFilename(header.Filename)
		data, err = io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
	} else if sourceKey != "" {
		filename = sanitizeFilename(filepath.Base(sourceKey))
	} else {
		jsonError(w, "either file or source_key is required", http.StatusBadRequest)
		return
	}

	if !ingest.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:              pipeline.NewJobID(),
		WorkOrderNumber: woNumber,
		WorkOrderID:     woID,
		WorkType:        workType,
		Building:        r.FormValue("building"),
		WorkTypeRef:     r.FormValue("work_type_ref"),
		ResourceName:    r.FormValue("resource_name"),
		EmailAddress:    r.FormValue("email"),
		Status:          pipeline.StatusQueued,
		Phase:           "queued",
		Filename:        filename,
		SourceKey:       sourceKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/proof/%s/status", job.ID),
	})
}

func (s *Server) handleProofStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":    snap.ID,
		"wo_number": snap.WorkOrderNumber,
		"status":    snap.Status,
		"phase":     snap.Phase,
		"outcome":   snap.Outcome,
		"progress":  snap.Progress,
	})
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	db := s.orchestrator.Store()
	if db == nil {
		jsonError(w, "metadata store unavailable", http.StatusServiceUnavailable)
		return
	}
	records, err := db.ListRecent(r.Context(), 50)
	if err != nil {
		s.log.Error("list records", "error", err)
		jsonError(w, "failed to list records", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"records": records})
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
