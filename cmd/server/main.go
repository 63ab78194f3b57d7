package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metrosafety/proofd/internal/api"
	"github.com/metrosafety/proofd/internal/blobstore"
	"github.com/metrosafety/proofd/internal/config"
	"github.com/metrosafety/proofd/internal/judge"
	"github.com/metrosafety/proofd/internal/mailer"
	"github.com/metrosafety/proofd/internal/pdfqa"
	"github.com/metrosafety/proofd/internal/pipeline"
	"github.com/metrosafety/proofd/internal/proofing"
	"github.com/metrosafety/proofd/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	checklists, err := config.LoadChecklists(cfg.ChecklistPath)
	if err != nil {
		log.Error("invalid checklist configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	blobs := blobstore.NewClient(cfg.BlobstoreURL, cfg.BlobstoreAPIKey, cfg.BlobstoreBucket)
	jc := judge.NewClient(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel)
	mail := mailer.NewClient(cfg.MailRelayURL, cfg.MailRelayAPIKey, cfg.MailSender, cfg.MailBcc)

	var db *store.DB
	if cfg.DatabaseURL != "" {
		db, err = store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("database unavailable", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("DATABASE_URL not set; proofing metadata will not be persisted")
	}

	// Initialize pipeline and services.
	orch := pipeline.NewOrchestrator(cfg, checklists, jc, blobs, db, mail, log)
	orch.Start(ctx)

	proofer := proofing.NewService(jc, blobs, log)
	pdfQA := pdfqa.NewService(blobs, jc)

	// Initialize HTTP server.
	srv := api.NewServer(orch, jc, proofer, pdfQA, checklists, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		jc.Close()
		mail.Close()
		blobs.Close()
		if db != nil {
			db.Close()
		}
	}()

	log.Info("starting proofd", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
