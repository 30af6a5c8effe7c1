package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/humantools/internal/files"
)

// JobStatus represents the state of a tool job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Kind names the tool a job runs.
type Kind string

const (
	KindEditPhotos Kind = "edit_photos"
	KindSlideshow  Kind = "slideshow"
)

// Job tracks the state of a single asynchronous tool run.
type Job struct {
	mu sync.Mutex

	ID   string `json:"job_id"`
	Kind Kind   `json:"kind"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	inputs []files.File
	params any
	result *Result
	errors []string
}

// Progress tracks processing progress. Ratio is in [0, 1].
type Progress struct {
	Total     int      `json:"total"`
	Processed int      `json:"processed"`
	Ratio     float64  `json:"ratio"`
	Errors    []string `json:"errors"`
}

// Result is the file a completed job hands back.
type Result struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewJob creates a queued job with a fresh ID.
func NewJob(kind Kind, inputs []files.File, params any) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		inputs:    inputs,
		params:    params,
		Progress:  Progress{Total: len(inputs)},
	}
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

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// SetTotal records how many items the job will process.
func (j *Job) SetTotal(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Total = n
	j.UpdatedAt = time.Now()
}

// IncrProcessed counts one finished item and derives the ratio from it.
func (j *Job) IncrProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Processed++
	if j.Progress.Total > 0 {
		j.Progress.Ratio = min(float64(j.Progress.Processed)/float64(j.Progress.Total), 1)
	}
	j.UpdatedAt = time.Now()
}

// SetRatio records progress reported as a fraction. It never moves backwards.
func (j *Job) SetRatio(r float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	r = max(0, min(r, 1))
	if r > j.Progress.Ratio {
		j.Progress.Ratio = r
	}
	j.UpdatedAt = time.Now()
}

// Inputs returns the uploaded files.
func (j *Job) Inputs() []files.File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inputs
}

// Params returns the tool parameters the job was submitted with.
func (j *Job) Params() any {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.params
}

// Complete stores the result, drops the inputs and marks the job done.
func (j *Job) Complete(r Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &r
	j.inputs = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.Progress.Ratio = 1
	j.UpdatedAt = time.Now()
}

// Result returns the output of a completed job.
func (j *Job) Result() (Result, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return Result{}, false
	}
	return *j.result, true
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Kind      Kind      `json:"kind"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Progress  Progress  `json:"progress"`
	Filename  string    `json:"filename,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	snap := JobSnapshot{
		ID:     j.ID,
		Kind:   j.Kind,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			Total:     j.Progress.Total,
			Processed: j.Progress.Processed,
			Ratio:     j.Progress.Ratio,
			Errors:    errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
	if j.result != nil {
		snap.Filename = j.result.Name
	}
	return snap
}
