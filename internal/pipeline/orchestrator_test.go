package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/humantools/internal/files"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, job *Job, want JobStatus) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %q (last %q)", job.ID, want, job.Snapshot().Status)
	return JobSnapshot{}
}

func TestOrchestrator_RunsHandler(t *testing.T) {
	handlers := map[Kind]Handler{
		KindEditPhotos: func(ctx context.Context, job *Job) (Result, error) {
			var names []string
			for _, in := range job.Inputs() {
				names = append(names, in.Name)
				job.IncrProcessed()
			}
			return Result{Name: "out.txt", ContentType: "text/plain", Data: []byte(strings.Join(names, ","))}, nil
		},
	}
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 4}, handlers, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(KindEditPhotos, []files.File{{Name: "a"}, {Name: "b"}}, nil)
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := waitFor(t, job, StatusCompleted)
	if snap.Progress.Processed != 2 {
		t.Errorf("expected 2 processed, got %d", snap.Progress.Processed)
	}
	res, _ := o.GetJob(job.ID).Result()
	if string(res.Data) != "a,b" {
		t.Errorf("unexpected result %q", res.Data)
	}
}

func TestOrchestrator_HandlerError(t *testing.T) {
	handlers := map[Kind]Handler{
		KindSlideshow: func(ctx context.Context, job *Job) (Result, error) {
			return Result{}, errors.New("ffmpeg exploded")
		},
	}
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 4}, handlers, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(KindSlideshow, nil, nil)
	if err := o.Submit(job); err != nil {
		t.Fatal(err)
	}
	snap := waitFor(t, job, StatusFailed)
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "ffmpeg exploded" {
		t.Errorf("unexpected errors %v", snap.Progress.Errors)
	}
}

func TestOrchestrator_PanicFailsJob(t *testing.T) {
	handlers := map[Kind]Handler{
		KindSlideshow: func(ctx context.Context, job *Job) (Result, error) {
			panic("boom")
		},
	}
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 4}, handlers, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	first := NewJob(KindSlideshow, nil, nil)
	second := NewJob(KindSlideshow, nil, nil)
	if err := o.Submit(first); err != nil {
		t.Fatal(err)
	}
	if err := o.Submit(second); err != nil {
		t.Fatal(err)
	}
	waitFor(t, first, StatusFailed)
	// The worker survives and picks up the next job.
	waitFor(t, second, StatusFailed)
}

func TestOrchestrator_UnknownKind(t *testing.T) {
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 1}, nil, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("transcode", nil, nil)
	if err := o.Submit(job); err != nil {
		t.Fatal(err)
	}
	snap := waitFor(t, job, StatusFailed)
	if !strings.Contains(snap.Progress.Errors[0], "transcode") {
		t.Errorf("expected kind in error, got %q", snap.Progress.Errors[0])
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Not started: nothing drains the queue.
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 1}, nil, discardLogger())

	if err := o.Submit(NewJob(KindEditPhotos, nil, nil)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	overflow := NewJob(KindEditPhotos, nil, nil)
	err := o.Submit(overflow)
	if err == nil {
		t.Fatal("expected queue full error")
	}
	if !strings.Contains(err.Error(), "queue is full (1)") {
		t.Errorf("unexpected error %q", err)
	}
	if o.GetJob(overflow.ID).Snapshot().Status != StatusFailed {
		t.Error("expected overflowed job to be failed")
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected depth 1, got %d", o.QueueDepth())
	}
}
