package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrUnknownKind is recorded on jobs no handler is registered for.
var ErrUnknownKind = errors.New("no handler for job kind")

// Handler runs one kind of job. It reports per-item progress through the job
// and returns the file to hand back.
type Handler func(ctx context.Context, job *Job) (Result, error)

// Worker dispatches jobs to the handler registered for their kind.
type Worker struct {
	handlers map[Kind]Handler
	log      *slog.Logger
}

func NewWorker(handlers map[Kind]Handler, log *slog.Logger) *Worker {
	return &Worker{handlers: handlers, log: log}
}

// Process runs a job to completion or failure.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)

	h, ok := w.handlers[job.Kind]
	if !ok {
		log.Error("unknown job kind")
		job.AddError(fmt.Sprintf("%s: %s", ErrUnknownKind, job.Kind))
		job.SetStatus(StatusFailed, "dispatch")
		return
	}

	job.SetStatus(StatusRunning, string(job.Kind))
	start := time.Now()

	res, err := w.run(ctx, h, job)
	if err != nil {
		log.Error("job failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, string(job.Kind))
		return
	}

	job.Complete(res)
	log.Info("job completed", "file", res.Name, "bytes", len(res.Data), "duration_ms", time.Since(start).Milliseconds())
}

// run keeps a panicking handler from taking the worker goroutine down.
func (w *Worker) run(ctx context.Context, h Handler, job *Job) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, job)
}
