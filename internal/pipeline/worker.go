package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/metrosafety/proofd/internal/assemble"
	"github.com/metrosafety/proofd/internal/blobstore"
	"github.com/metrosafety/proofd/internal/config"
	"github.com/metrosafety/proofd/internal/ingest"
	"github.com/metrosafety/proofd/internal/judge"
	"github.com/metrosafety/proofd/internal/mailer"
	"github.com/metrosafety/proofd/internal/rules"
	"github.com/metrosafety/proofd/internal/store"
)

// Worker runs one work order's proofing from report bytes to outcome email.
type Worker struct {
	judge      *judge.Client
	blobs      *blobstore.Client
	db         *store.DB
	mail       *mailer.Client
	checklists config.Checklists
	log        *slog.Logger

	maxConcurrentJudge int
}

func NewWorker(jc *judge.Client, blobs *blobstore.Client, db *store.DB, mail *mailer.Client, checklists config.Checklists, log *slog.Logger, maxJudge int) *Worker {
	return &Worker{
		judge:              jc,
		blobs:              blobs,
		db:                 db,
		mail:               mail,
		checklists:         checklists,
		log:                log,
		maxConcurrentJudge: maxJudge,
	}
}

// RegistryFor returns the checklist registry for a work type, or nil.
func (w *Worker) RegistryFor(workType string) *rules.Registry {
	switch workType {
	case "fra":
		return rules.FRAChecklist()
	case "hsa":
		return rules.HSAChecklist()
	case "water":
		wc := w.checklists.Water
		return rules.WaterChecklist(rules.WaterParams{
			ListingSection:   wc.ListingSection,
			ExpectedItems:    wc.ExpectedItems,
			NarrativeSection: wc.NarrativeSection,
			ExcludePrefixes:  wc.ExcludePrefixes,
		})
	default:
		return nil
	}
}

// Process runs the full proofing pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "wo_number", job.WorkOrderNumber, "work_type", job.WorkType)

	registry := w.RegistryFor(job.WorkType)
	if registry == nil {
		log.Error("unknown work type")
		job.AddError(fmt.Sprintf("unknown work type: %s", job.WorkType))
		job.SetStatus(StatusFailed, "validating")
		return
	}
	job.SetTotalQuestions(len(registry.Questions()))

	// Phase 1: Fetch
	data := job.FileData()
	if len(data) == 0 && job.SourceKey != "" {
		job.SetStatus(StatusFetching, "fetching")
		fetched, err := w.blobs.Get(ctx, job.SourceKey)
		if err != nil {
			log.Error("fetch failed", "key", job.SourceKey, "error", err)
			job.AddError(fmt.Sprintf("fetch: %s", err))
			job.SetStatus(StatusFailed, "fetching")
			return
		}
		if fetched == nil {
			job.AddError(fmt.Sprintf("fetch: not found: %s", job.SourceKey))
			job.SetStatus(StatusFailed, "fetching")
			return
		}
		data = fetched
		job.SetFileData(data)
	}
	if len(data) == 0 {
		job.AddError("no report content")
		job.SetStatus(StatusFailed, "fetching")
		return
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	ing, err := ingest.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	headings := assemble.NewHeadingSet(w.checklists.HeadingsFor(job.WorkType))
	doc, err := ing.Ingest(bytes.NewReader(data), job.Filename, headings)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	log.Info("parsed report", "sections", len(doc.Sections))

	// Persist the section document; downstream consumers key into its shape.
	sectionsKey := fmt.Sprintf("proofing/%s/sections.json", job.WorkOrderNumber)
	if sectionsJSON, err := json.Marshal(doc); err == nil {
		if err := w.blobs.Put(ctx, sectionsKey, "application/json", sectionsJSON); err != nil {
			log.Warn("sections write failed", "key", sectionsKey, "error", err)
			job.AddError(fmt.Sprintf("sections: %s", err))
		}
	}

	// Phase 3: Evaluate the checklist. Local verdicts are free; undecided
	// questions fan out to the judge with bounded concurrency.
	job.SetStatus(StatusEvaluating, "evaluating")
	results := registry.Evaluate(doc)

	type answer struct {
		question rules.QuestionID
		text     string
		err      error
	}
	answered := make(chan answer, len(results))
	sem := make(chan struct{}, w.maxConcurrentJudge)

	for _, res := range results {
		if res.Decided {
			answered <- answer{question: res.Question, text: res.Verdict}
			continue
		}
		sem <- struct{}{}
		go func(res rules.Result) {
			defer func() { <-sem }()
			var reply string
			var lastErr error
			for attempt := 0; attempt < MaxRetries; attempt++ {
				reply, lastErr = w.judge.Ask(ctx, res.Prompt)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable judge error", "question", res.Question, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					answered <- answer{question: res.Question, err: ctx.Err()}
					return
				}
			}
			answered <- answer{question: res.Question, text: reply, err: lastErr}
		}(res)
	}

	hadErrors := false
	for range results {
		a := <-answered
		if a.err != nil {
			log.Error("judge failed", "question", a.question, "error", a.err)
			job.AddError(fmt.Sprintf("%s: %s", a.question, a.err))
			job.RecordAnswer(string(a.question), fmt.Sprintf("ERROR: %s", a.err))
			hadErrors = true
			continue
		}
		job.RecordAnswer(string(a.question), a.text)
	}

	answers := job.Answers()
	ordered := make([]string, 0, len(registry.Questions()))
	for _, q := range registry.Questions() {
		ordered = append(ordered, answers[string(q)])
	}
	outcome := rules.DigitalOutcome(ordered)
	job.SetOutcome(outcome)
	log.Info("checklist evaluated", "outcome", outcome, "errors", hadErrors)

	// Phase 4: Store metadata
	changeLogKey := fmt.Sprintf("logs/%s_logs.csv", job.WorkOrderID)
	if exists, err := w.blobs.Exists(ctx, changeLogKey); err != nil || !exists {
		changeLogKey = ""
	}
	if w.db != nil {
		job.SetStatus(StatusStoring, "storing")
		err := w.db.Save(ctx, store.Record{
			WorkOrderNumber: job.WorkOrderNumber,
			WorkOrderID:     job.WorkOrderID,
			Building:        job.Building,
			WorkTypeRef:     job.WorkTypeRef,
			Outcome:         outcome,
			Answers:         answers,
			SectionsKey:     sectionsKey,
			ChangeLogKey:    changeLogKey,
		})
		if err != nil {
			log.Error("metadata store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			hadErrors = true
		}
	}

	// Phase 5: Email
	if w.mail != nil {
		job.SetStatus(StatusEmailing, "emailing")
		if err := w.sendOutcome(ctx, job, registry, answers, outcome, changeLogKey); err != nil {
			log.Error("outcome email failed", "error", err)
			job.AddError(fmt.Sprintf("email: %s", err))
			hadErrors = true
		}
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) sendOutcome(ctx context.Context, job *Job, registry *rules.Registry, answers map[string]string, outcome, changeLogKey string) error {
	var changesURL string
	if changeLogKey != "" {
		url, err := w.blobs.Presign(ctx, changeLogKey, 7*24*time.Hour)
		if err != nil {
			w.log.Warn("presign change log failed", "key", changeLogKey, "error", err)
		} else {
			changesURL = url
		}
	}

	questions := make([]mailer.QuestionAnswer, 0, len(registry.Questions()))
	for _, q := range registry.Questions() {
		questions = append(questions, mailer.QuestionAnswer{
			Heading: registry.Heading(q),
			Answer:  answers[string(q)],
		})
	}

	return w.mail.SendOutcome(ctx, job.EmailAddress, mailer.Outcome{
		DigitalOutcome:  outcome,
		WorkOrderNumber: job.WorkOrderNumber,
		WorkOrderID:     job.WorkOrderID,
		BuildingName:    job.Building,
		WorkTypeRef:     job.WorkTypeRef,
		ResourceName:    job.ResourceName,
		Questions:       questions,
		ChangesURL:      changesURL,
	})
}
