package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/h5pgen/internal/artifacts"
	"github.com/dgallion1/h5pgen/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		WorkerCount:    1,
		MaxQueueSize:   4,
		OutputDir:      t.TempDir(),
		JobTTL:         time.Hour,
		PassPercentage: 50,
		ImageWidth:     600,
		ImageHeight:    400,
	}
}

func testOrchestrator(t *testing.T, cfg config.Config) *Orchestrator {
	t.Helper()
	store, err := artifacts.NewStore(cfg.OutputDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(cfg, store, log)
}

func queuedJob(id string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		DocID:     id,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  "unit1.md",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrchestrator_ProcessesJob(t *testing.T) {
	orch := testOrchestrator(t, testConfig(t))
	orch.Start(context.Background())
	defer orch.Stop()

	job := queuedJob("j1")
	job.SetFileData([]byte(quizMarkdown))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := orch.GetJob("j1").Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed || snap.Status == StatusPartial {
			t.Fatalf("job finished with status %q: %v", snap.Status, snap.Progress.Errors)
		}
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, last status %q", snap.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOrchestrator_SubmitAfterStopFails(t *testing.T) {
	orch := testOrchestrator(t, testConfig(t))
	orch.Start(context.Background())
	orch.Stop()

	job := queuedJob("late")
	if err := orch.Submit(job); err == nil {
		t.Fatal("Submit after Stop must fail")
	}
	if got := orch.GetJob("late").Snapshot().Status; got != StatusFailed {
		t.Errorf("late job status: got %q, want %q", got, StatusFailed)
	}
}

func TestOrchestrator_StopIdempotent(t *testing.T) {
	orch := testOrchestrator(t, testConfig(t))
	orch.Start(context.Background())
	orch.Stop()
	orch.Stop()
}

func TestOrchestrator_QueueBackpressure(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxQueueSize = 1
	orch := testOrchestrator(t, cfg)
	// No Start: nothing drains the queue.

	if err := orch.Submit(queuedJob("first")); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if err := orch.Submit(queuedJob("second")); err == nil {
		t.Fatal("second Submit should hit the queue limit")
	}
	if got := orch.GetJob("second").Snapshot().Status; got != StatusFailed {
		t.Errorf("rejected job status: got %q, want %q", got, StatusFailed)
	}
}
