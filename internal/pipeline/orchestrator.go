package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/h5pgen/internal/artifacts"
	"github.com/dgallion1/h5pgen/internal/config"
)

// Orchestrator manages the document conversion pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	store *artifacts.Store
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	stopped bool
}

// NewOrchestrator creates the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, store *artifacts.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		store: store,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines and the cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.cfg, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(job)
				}
			}
		}()
	}

	// Expire finished jobs and stale artifacts.
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
				if removed, err := o.store.Sweep(o.cfg.ArtifactTTL); err != nil {
					o.log.Warn("artifact sweep failed", "error", err)
				} else if removed > 0 {
					o.log.Info("artifact sweep", "removed", removed)
				}
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Safe to call once the HTTP
// server has stopped accepting requests; later Submit calls fail
// instead of panicking on the closed queue.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.SetStatus(StatusFailed, "shutting_down")
		return fmt.Errorf("pipeline is shutting down")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// FindJobByHash returns an existing job for identical uploaded bytes.
func (o *Orchestrator) FindJobByHash(hash string) *Job {
	return o.jobs.FindByHash(hash)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// NewDocID returns a fresh time-sortable document id.
func NewDocID() string {
	return generateULID()
}

// Store exposes the artifact store for API handlers.
func (o *Orchestrator) Store() *artifacts.Store {
	return o.store
}
