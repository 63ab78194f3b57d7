// Package api exposes the proofing service over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/metrosafety/proofd/internal/config"
	"github.com/metrosafety/proofd/internal/judge"
	"github.com/metrosafety/proofd/internal/pdfqa"
	"github.com/metrosafety/proofd/internal/pipeline"
	"github.com/metrosafety/proofd/internal/proofing"
)

// Server is the HTTP API server for proofd.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	judge        *judge.Client
	proofer      *proofing.Service
	pdfQA        *pdfqa.Service
	checklists   config.Checklists
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, jc *judge.Client, proofer *proofing.Service, pdfQA *pdfqa.Service, cl config.Checklists, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		judge:        jc,
		proofer:      proofer,
		pdfQA:        pdfQA,
		checklists:   cl,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.ProofdAPIKey, s.log))

		r.Post("/api/proof", s.handleProof)
		r.Get("/api/proof/{jobID}/status", s.handleProofStatus)

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/proofread", s.handleProofread)
		r.Post("/api/floors", s.handleFloors)
		r.Post("/api/pdfqa", s.handlePDFQA)

		r.Get("/api/records", s.handleRecords)
		r.Get("/api/stats/llm", s.handleJudgeStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
