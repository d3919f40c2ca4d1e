package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gallerist/internal/darkroom"
)

// scriptedAPI returns one canned response per TaskStatus call, in order, and
// counts calls. Other API methods are unused by the poller.
type scriptedAPI struct {
	mu        sync.Mutex
	responses []Snapshot
	calls     int
}

func (s *scriptedAPI) TaskStatus(ctx context.Context, taskID string) (darkroom.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	r := s.responses[idx]
	return r.Task, r.Err
}

func (s *scriptedAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *scriptedAPI) ListDatasets(ctx context.Context) ([]darkroom.Dataset, error) {
	return nil, nil
}

func (s *scriptedAPI) ListPhotos(ctx context.Context, datasetID string) ([]darkroom.Photo, error) {
	return nil, nil
}

func (s *scriptedAPI) SubmitUpload(ctx context.Context, req darkroom.UploadRequest) (darkroom.TaskHandle, error) {
	return darkroom.TaskHandle{}, nil
}

func collect(ch <-chan Snapshot) []Snapshot {
	var out []Snapshot
	for s := range ch {
		out = append(out, s)
	}
	return out
}

func TestPoll_StopsOnTerminalStatus(t *testing.T) {
	api := &scriptedAPI{responses: []Snapshot{
		{Task: darkroom.Task{Status: darkroom.StatusPending, Progress: 5}},
		{Task: darkroom.Task{Status: darkroom.StatusPending, Progress: 10}},
		{Task: darkroom.Task{Status: darkroom.StatusSuccess, Progress: 100, DatasetID: "d9"}},
	}}

	got := collect(Poll(context.Background(), api, "t1", Options{Interval: time.Millisecond, MaxAttempts: 10}))

	if len(got) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(got))
	}
	if got[2].Task.Status != darkroom.StatusSuccess || got[2].Task.DatasetID != "d9" {
		t.Fatalf("terminal snapshot = %#v, want SUCCESS d9", got[2])
	}
	// Give a stray 4th schedule time to fire if the loop failed to stop.
	time.Sleep(10 * time.Millisecond)
	if calls := api.callCount(); calls != 3 {
		t.Fatalf("status calls = %d, want exactly 3", calls)
	}
}

func TestPoll_TimesOutAfterBudget(t *testing.T) {
	api := &scriptedAPI{responses: []Snapshot{
		{Task: darkroom.Task{Status: darkroom.StatusRunning, Progress: 50}},
	}}

	got := collect(Poll(context.Background(), api, "t1", Options{Interval: time.Millisecond, MaxAttempts: 3}))

	// 3 running snapshots, then the timeout marker.
	if len(got) != 4 {
		t.Fatalf("snapshots = %d, want 4", len(got))
	}
	var timeout *PollTimeout
	if !errors.As(got[3].Err, &timeout) {
		t.Fatalf("final snapshot error = %v, want *PollTimeout", got[3].Err)
	}
	if timeout.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", timeout.Attempts)
	}
	time.Sleep(10 * time.Millisecond)
	if calls := api.callCount(); calls != 3 {
		t.Fatalf("status calls = %d, want exactly 3", calls)
	}
}

func TestPoll_SurfacesFetchFailureAsPollError(t *testing.T) {
	api := &scriptedAPI{responses: []Snapshot{
		{Task: darkroom.Task{Status: darkroom.StatusPending, Progress: 5}},
		{Err: errors.New("connection reset")},
	}}

	got := collect(Poll(context.Background(), api, "t1", Options{Interval: time.Millisecond, MaxAttempts: 10}))

	if len(got) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(got))
	}
	var perr *PollError
	if !errors.As(got[1].Err, &perr) {
		t.Fatalf("final snapshot error = %v, want *PollError", got[1].Err)
	}
	time.Sleep(10 * time.Millisecond)
	if calls := api.callCount(); calls != 2 {
		t.Fatalf("status calls = %d, want exactly 2 (no retry past a poll failure)", calls)
	}
}

func TestPoll_CancellationClosesWithoutEmitting(t *testing.T) {
	api := &scriptedAPI{responses: []Snapshot{
		{Task: darkroom.Task{Status: darkroom.StatusRunning, Progress: 40}},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	ch := Poll(ctx, api, "t1", Options{Interval: 50 * time.Millisecond, MaxAttempts: 100})

	// Drain the immediate first snapshot, then abandon interest.
	first, ok := <-ch
	if !ok || first.Task.Progress != 40 {
		t.Fatalf("first snapshot = %#v ok=%v, want progress 40", first, ok)
	}
	cancel()

	select {
	case s, ok := <-ch:
		if ok {
			t.Fatalf("received snapshot %#v after cancel, want closed channel", s)
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Interval != defaultInterval {
		t.Fatalf("Interval = %v, want %v", o.Interval, defaultInterval)
	}
	if o.MaxAttempts != defaultMaxAttempts {
		t.Fatalf("MaxAttempts = %d, want %d", o.MaxAttempts, defaultMaxAttempts)
	}
}
