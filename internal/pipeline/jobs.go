package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a proofing job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusFetching   JobStatus = "fetching"
	StatusParsing    JobStatus = "parsing"
	StatusEvaluating JobStatus = "evaluating"
	StatusStoring    JobStatus = "storing"
	StatusEmailing   JobStatus = "emailing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single work order proofing run.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	WorkOrderNumber string `json:"wo_number"`
	WorkOrderID     string `json:"wo_id"`
	WorkType        string `json:"work_type"`
	Building        string `json:"building"`
	WorkTypeRef     string `json:"work_type_ref"`
	ResourceName    string `json:"resource_name"`
	EmailAddress    string `json:"email_address"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	// SourceKey is the blob key to fetch when no bytes were uploaded inline.
	SourceKey string `json:"source_key,omitempty"`

	Progress Progress `json:"progress"`

	Outcome   string    `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	answers  map[string]string
	errors   []string
}

// Progress tracks how far through the checklist a job is.
type Progress struct {
	QuestionsTotal    int      `json:"questions_total"`
	QuestionsAnswered int      `json:"questions_answered"`
	Errors            []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalQuestions records how many checklist questions the job will answer.
func (j *Job) SetTotalQuestions(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.QuestionsTotal = n
	j.UpdatedAt = time.Now()
}

// RecordAnswer stores one question's verdict text.
func (j *Job) RecordAnswer(question, answer string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.answers == nil {
		j.answers = make(map[string]string)
	}
	j.answers[question] = answer
	j.Progress.QuestionsAnswered++
	j.UpdatedAt = time.Now()
}

// Answers returns a copy of the recorded verdicts.
func (j *Job) Answers() map[string]string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]string, len(j.answers))
	for k, v := range j.answers {
		out[k] = v
	}
	return out
}

// SetOutcome records the overall digital outcome.
func (j *Job) SetOutcome(outcome string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Outcome = outcome
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw report bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw report bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID              string    `json:"job_id"`
	WorkOrderNumber string    `json:"wo_number"`
	WorkOrderID     string    `json:"wo_id"`
	WorkType        string    `json:"work_type"`
	Status          JobStatus `json:"status"`
	Phase           string    `json:"phase"`
	Filename        string    `json:"filename"`
	Outcome         string    `json:"outcome,omitempty"`
	Progress        Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:              j.ID,
		WorkOrderNumber: j.WorkOrderNumber,
		WorkOrderID:     j.WorkOrderID,
		WorkType:        j.WorkType,
		Status:          j.Status,
		Phase:           j.Phase,
		Filename:        j.Filename,
		Outcome:         j.Outcome,
		Progress: Progress{
			QuestionsTotal:    j.Progress.QuestionsTotal,
			QuestionsAnswered: j.Progress.QuestionsAnswered,
			Errors:            errs,
		},
	}
}
