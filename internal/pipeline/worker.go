package pipeline

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/dgallion1/h5pgen/internal/artifacts"
	"github.com/dgallion1/h5pgen/internal/config"
	"github.com/dgallion1/h5pgen/internal/extract"
	"github.com/dgallion1/h5pgen/internal/h5p"
	"github.com/dgallion1/h5pgen/internal/parser"
)

// Worker converts a single quiz document into its .h5p packages. All
// extraction state lives inside one Process call, so documents never
// contaminate each other.
type Worker struct {
	store     *artifacts.Store
	assembler *h5p.Assembler
	opts      parser.Options
	log       *slog.Logger
}

func NewWorker(store *artifacts.Store, cfg config.Config, log *slog.Logger) *Worker {
	return &Worker{
		store:     store,
		assembler: &h5p.Assembler{PassPercentage: cfg.PassPercentage},
		opts:      parser.Options{ImageWidth: cfg.ImageWidth, ImageHeight: cfg.ImageHeight},
		log:       log,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Parse into the paragraph/run model.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if dp, ok := p.(*parser.DOCXParser); ok {
		dp.Log = log
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	// Phase 2: Extract the three question lists. A document with no
	// recognizable sections is a valid (empty) result, not an error.
	job.SetStatus(StatusExtracting, "extracting")
	res := extract.Extract(doc)
	mc, tf, cw := res.Counts()
	job.SetCounts(mc, tf, cw, len(res.Images))
	log.Info("extraction complete",
		"multiple_choice", mc,
		"true_false", tf,
		"crosswords", cw,
		"images", len(res.Images),
	)

	// Phase 3: Assemble and store the packages.
	job.SetStatus(StatusPackaging, "packaging")
	built, err := w.assembler.Build(res, doc.Title)
	if err != nil {
		log.Error("packaging failed", "error", err)
		job.AddError(fmt.Sprintf("package: %s", err))
		job.SetStatus(StatusFailed, "packaging")
		return
	}

	stored := 0
	for _, a := range built {
		if err := w.store.Put(job.DocID, a.Name, a.Data); err != nil {
			log.Error("store failed", "artifact", a.Name, "error", err)
			job.AddError(fmt.Sprintf("store %s: %s", a.Name, err))
			continue
		}
		job.AddArtifact(a.Name)
		stored++
	}
	log.Info("packaging complete", "artifacts", stored, "built", len(built))

	switch {
	case stored < len(built) && stored > 0:
		job.SetStatus(StatusPartial, "done")
	case stored < len(built):
		job.SetStatus(StatusFailed, "packaging")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}
