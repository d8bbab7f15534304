package pipeline

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dgallion1/h5pgen/internal/artifacts"
)

const quizMarkdown = `# Activity 1: Unit 1 Quiz

1. Which planet is closest to the sun?
   A. Venus
   B. **Mercury**

Activity 2: True or False

The sun is a star. **True**
`

func TestWorker_ProcessMarkdownDocument(t *testing.T) {
	cfg := testConfig(t)
	store, err := artifacts.NewStore(cfg.OutputDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	w := NewWorker(store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	job := queuedJob("doc1")
	job.SetFileData([]byte(quizMarkdown))
	w.Process(job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status: got %q, want %q (errors: %v)", snap.Status, StatusCompleted, snap.Progress.Errors)
	}
	if snap.Progress.MultipleChoice != 1 || snap.Progress.TrueFalse != 1 {
		t.Errorf("counts: got mc=%d tf=%d, want 1/1", snap.Progress.MultipleChoice, snap.Progress.TrueFalse)
	}
	if len(snap.Progress.Artifacts) != 2 {
		t.Fatalf("artifacts: got %v", snap.Progress.Artifacts)
	}
	for _, name := range []string{"multiple_choice.h5p", "true_false.h5p"} {
		if data, err := store.Get("doc1", name); err != nil || len(data) == 0 {
			t.Errorf("stored artifact %s: err=%v len=%d", name, err, len(data))
		}
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	cfg := testConfig(t)
	store, err := artifacts.NewStore(cfg.OutputDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	w := NewWorker(store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	job := queuedJob("doc1")
	job.Filename = "quiz.pdf"
	job.SetFileData([]byte("%PDF-"))
	w.Process(job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("status: got %q, want %q", snap.Status, StatusFailed)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected a recorded error")
	}
}

func TestWorker_EmptyDocumentCompletesWithNoArtifacts(t *testing.T) {
	cfg := testConfig(t)
	store, err := artifacts.NewStore(cfg.OutputDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	w := NewWorker(store, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	job := queuedJob("doc1")
	job.SetFileData([]byte("Just prose, no activities.\n"))
	w.Process(job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("status: got %q, want %q", snap.Status, StatusCompleted)
	}
	if len(snap.Progress.Artifacts) != 0 {
		t.Errorf("artifacts: got %v, want none", snap.Progress.Artifacts)
	}
	if _, err := store.List("doc1"); err == nil {
		t.Error("no output directory should exist for an empty result")
	}
}
