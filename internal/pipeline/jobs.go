package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusPackaging  JobStatus = "packaging"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
)

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`

	// ContentHash identifies the uploaded bytes; set once at creation
	// and used to skip converting the same document twice.
	ContentHash string `json:"content_hash,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress tracks what the conversion produced so far.
type Progress struct {
	MultipleChoice int      `json:"multiple_choice"`
	TrueFalse      int      `json:"true_false"`
	Crosswords     int      `json:"crosswords"`
	Images         int      `json:"images"`
	Artifacts      []string `json:"artifacts"`
	Errors         []string `json:"errors"`
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

// FindByHash returns the most recently updated job with the given
// content hash that has not failed, or nil. Lets resubmissions of the
// same document reuse the earlier conversion.
func (s *JobStore) FindByHash(hash string) *Job {
	if hash == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		found   *Job
		foundAt time.Time
	)
	for _, job := range s.jobs {
		if job.ContentHash != hash {
			continue
		}
		job.mu.Lock()
		status, updated := job.Status, job.UpdatedAt
		job.mu.Unlock()
		if status == StatusFailed {
			continue
		}
		if found == nil || updated.After(foundAt) {
			found, foundAt = job, updated
		}
	}
	return found
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

// SetCounts records what the extraction pass found.
func (j *Job) SetCounts(mc, tf, cw, images int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.MultipleChoice = mc
	j.Progress.TrueFalse = tf
	j.Progress.Crosswords = cw
	j.Progress.Images = images
	j.UpdatedAt = time.Now()
}

// AddArtifact records one stored package name.
func (j *Job) AddArtifact(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Artifacts = append(j.Progress.Artifacts, name)
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	artifacts := j.Progress.Artifacts
	if artifacts == nil {
		artifacts = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Progress: Progress{
			MultipleChoice: j.Progress.MultipleChoice,
			TrueFalse:      j.Progress.TrueFalse,
			Crosswords:     j.Progress.Crosswords,
			Images:         j.Progress.Images,
			Artifacts:      artifacts,
			Errors:         errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
