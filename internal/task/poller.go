package task

import (
	"context"
	"fmt"
	"time"

	"gallerist/internal/darkroom"
)

const (
	defaultInterval    = 2 * time.Second
	defaultMaxAttempts = 30
)

// Options bound a poll loop. Zero values select the defaults, which keep a
// loop under roughly one minute end to end.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	return o
}

// Snapshot is one observation of a task, or the error that ended polling.
// Exactly one of Task and Err is meaningful.
type Snapshot struct {
	Task darkroom.Task
	Err  error
}

// PollError reports a status check that failed mid-poll. It is distinct from
// a task reaching FAILURE: the task may still be running, but the client can
// no longer observe it.
type PollError struct {
	Err error
}

func (e *PollError) Error() string { return fmt.Sprintf("poll task status: %v", e.Err) }

func (e *PollError) Unwrap() error { return e.Err }

// PollTimeout reports an exhausted attempt budget without a terminal status.
type PollTimeout struct {
	Attempts int
}

func (e *PollTimeout) Error() string {
	return fmt.Sprintf("task not terminal after %d attempts", e.Attempts)
}

// Poll drives taskID toward a terminal status. It checks immediately, then on
// a fixed cadence, emitting every received snapshot so callers can surface
// progress. The channel closes after the first terminal snapshot, after a
// PollError or PollTimeout snapshot, or once ctx is cancelled. A cancelled
// loop emits nothing further: no late status check outlives the caller.
func Poll(ctx context.Context, api darkroom.API, taskID string, opts Options) <-chan Snapshot {
	opts = opts.withDefaults()

	out := make(chan Snapshot)
	go func() {
		defer close(out)

		ticker := time.NewTicker(opts.Interval)
		defer ticker.Stop()

		for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
			if attempt > 0 {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}

			snapshot, err := api.TaskStatus(ctx, taskID)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				emit(ctx, out, Snapshot{Err: &PollError{Err: err}})
				return
			}
			if !emit(ctx, out, Snapshot{Task: snapshot}) {
				return
			}
			if snapshot.Status.Terminal() {
				return
			}
		}

		emit(ctx, out, Snapshot{Err: &PollTimeout{Attempts: opts.MaxAttempts}})
	}()
	return out
}

func emit(ctx context.Context, out chan<- Snapshot, s Snapshot) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- s:
		return true
	}
}
