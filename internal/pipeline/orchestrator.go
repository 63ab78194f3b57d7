package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/metrosafety/proofd/internal/blobstore"
	"github.com/metrosafety/proofd/internal/config"
	"github.com/metrosafety/proofd/internal/judge"
	"github.com/metrosafety/proofd/internal/mailer"
	"github.com/metrosafety/proofd/internal/store"
)

// Orchestrator manages the proofing pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	judge *judge.Client
	blobs *blobstore.Client
	db    *store.DB
	mail  *mailer.Client
	log   *slog.Logger
	cfg   config.Config
	cl    config.Checklists

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. The database and mailer are
// optional; nil disables metadata persistence and outcome emails.
func NewOrchestrator(cfg config.Config, cl config.Checklists, jc *judge.Client, blobs *blobstore.Client, db *store.DB, mail *mailer.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		judge: jc,
		blobs: blobs,
		db:    db,
		mail:  mail,
		log:   log,
		cfg:   cfg,
		cl:    cl,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.judge, o.blobs, o.db, o.mail, o.cl, o.log, o.cfg.MaxConcurrentJudge)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JudgeClient returns the judge client for direct use by API handlers.
func (o *Orchestrator) JudgeClient() *judge.Client {
	return o.judge
}

// Blobstore returns the object-storage client for direct use by API
// handlers.
func (o *Orchestrator) Blobstore() *blobstore.Client {
	return o.blobs
}

// Store returns the metadata database, nil when persistence is disabled.
func (o *Orchestrator) Store() *store.DB {
	return o.db
}
