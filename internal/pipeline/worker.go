package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docx2tex/internal/convert"
	"github.com/dgallion1/docx2tex/internal/docx"
)

// Worker processes a single conversion job.
type Worker struct {
	log  *slog.Logger
	opts convert.Options
}

func NewWorker(log *slog.Logger, opts convert.Options) *Worker {
	return &Worker{
		log:  log,
		opts: opts,
	}
}

// Process converts the job's upload into a result bundle.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Read the package.
	job.SetStatus(StatusReading, "reading package")
	data := job.FileData()
	pkg, err := docx.Bytes(data)
	if err != nil {
		log.Error("read package failed", "error", err)
		job.AddError(fmt.Sprintf("read: %s", err))
		job.SetStatus(StatusFailed, "reading")
		return
	}

	if err := ctx.Err(); err != nil {
		log.Warn("job cancelled before conversion", "error", err)
		job.AddError(fmt.Sprintf("cancelled: %s", err))
		job.SetStatus(StatusFailed, "reading")
		return
	}

	// Phase 2: Convert and bundle.
	job.SetStatus(StatusConverting, "converting")
	var buf bytes.Buffer
	stats, err := Bundle(&buf, pkg, docx.Stem(job.Filename), log, w.opts)
	if err != nil {
		log.Error("conversion failed", "error", err)
		job.AddError(fmt.Sprintf("convert: %s", err))
		job.SetStatus(StatusFailed, "converting")
		return
	}

	job.SetResult(buf.Bytes(), stats)
	log.Info("conversion complete",
		"paragraphs", stats.Paragraphs,
		"equations", stats.Equations,
		"images", stats.Images,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if stats.Incomplete {
		job.AddError("document.xml ended early; output is truncated")
		job.SetStatus(StatusPartial, "done")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}
