package upload

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gallerist/internal/darkroom"
	"gallerist/internal/state"
	"gallerist/internal/task"
)

// fakeAPI scripts the darkroom service for workflow tests.
type fakeAPI struct {
	mu          sync.Mutex
	lists       [][]darkroom.Dataset
	listCalls   int
	photos      map[string][]darkroom.Photo
	photosErr   error
	submitErr   error
	handles     []darkroom.TaskHandle
	submitCalls int
	tasks       map[string][]darkroom.Task
	statusCalls map[string]int
	blockTask   map[string]chan struct{}
}

func (f *fakeAPI) ListDatasets(ctx context.Context) ([]darkroom.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.listCalls
	f.listCalls++
	if idx >= len(f.lists) {
		idx = len(f.lists) - 1
	}
	if idx < 0 {
		return nil, nil
	}
	return f.lists[idx], nil
}

func (f *fakeAPI) ListPhotos(ctx context.Context, datasetID string) ([]darkroom.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.photosErr != nil {
		return nil, f.photosErr
	}
	return f.photos[datasetID], nil
}

func (f *fakeAPI) SubmitUpload(ctx context.Context, req darkroom.UploadRequest) (darkroom.TaskHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return darkroom.TaskHandle{}, f.submitErr
	}
	idx := f.submitCalls
	f.submitCalls++
	if idx >= len(f.handles) {
		idx = len(f.handles) - 1
	}
	return f.handles[idx], nil
}

func (f *fakeAPI) TaskStatus(ctx context.Context, taskID string) (darkroom.Task, error) {
	f.mu.Lock()
	block := f.blockTask[taskID]
	f.mu.Unlock()
	if block != nil {
		select {
		case <-ctx.Done():
			return darkroom.Task{}, ctx.Err()
		case <-block:
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusCalls == nil {
		f.statusCalls = make(map[string]int)
	}
	seq := f.tasks[taskID]
	idx := f.statusCalls[taskID]
	f.statusCalls[taskID]++
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	return seq[idx], nil
}

var _ darkroom.API = (*fakeAPI)(nil)

func fastPoll() task.Options {
	return task.Options{Interval: time.Millisecond, MaxAttempts: 10}
}

func TestRun_DiffFallbackSelectsNewDataset(t *testing.T) {
	api := &fakeAPI{
		lists: [][]darkroom.Dataset{
			{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		},
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			// Terminal snapshot carries no dataset id; the diff must decide.
			"t1": {{Status: darkroom.StatusSuccess, Progress: 100}},
		},
		photos: map[string][]darkroom.Photo{"3": {{ID: "p1", DatasetID: "3"}}},
	}
	store := &state.Store{}
	store.DatasetsLoaded([]darkroom.Dataset{{ID: "1"}, {ID: "2"}})

	u := New(api, store, nil, fastPoll())
	if err := u.Run(context.Background(), strings.NewReader("zip"), "x.zip", "x", nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	snap := store.Snapshot()
	if snap.ActiveDatasetID != "3" {
		t.Fatalf("ActiveDatasetID = %q, want 3 (diff fallback)", snap.ActiveDatasetID)
	}
	if len(snap.Photos) != 1 || snap.Photos[0].ID != "p1" {
		t.Fatalf("Photos = %#v, want p1 loaded", snap.Photos)
	}
	if snap.Status != state.StatusSucceeded || snap.UploadModalOpen {
		t.Fatalf("final state = status %v modal %v, want succeeded/closed", snap.Status, snap.UploadModalOpen)
	}
}

func TestRun_TaskDatasetIDBeatsAmbiguousDiff(t *testing.T) {
	// Two datasets appeared concurrently; the diff alone cannot decide, and
	// the last-entry fallback would pick d4. The task payload disambiguates.
	api := &fakeAPI{
		lists: [][]darkroom.Dataset{
			{{ID: "d1"}, {ID: "d3"}, {ID: "d4"}},
		},
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			"t1": {{Status: darkroom.StatusSuccess, Progress: 100, DatasetID: "d3"}},
		},
	}
	store := &state.Store{}
	store.DatasetsLoaded([]darkroom.Dataset{{ID: "d1"}})

	u := New(api, store, nil, fastPoll())
	if err := u.Run(context.Background(), strings.NewReader("zip"), "x.zip", "x", nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := store.Snapshot().ActiveDatasetID; got != "d3" {
		t.Fatalf("ActiveDatasetID = %q, want d3 from task payload", got)
	}
}

func TestRun_AmbiguousDiffFallsBackToLastEntry(t *testing.T) {
	api := &fakeAPI{
		lists: [][]darkroom.Dataset{
			{{ID: "d1"}, {ID: "d3"}, {ID: "d4"}},
		},
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			"t1": {{Status: darkroom.StatusSuccess, Progress: 100}},
		},
	}
	store := &state.Store{}
	store.DatasetsLoaded([]darkroom.Dataset{{ID: "d1"}})

	u := New(api, store, nil, fastPoll())
	if err := u.Run(context.Background(), strings.NewReader("zip"), "x.zip", "x", nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := store.Snapshot().ActiveDatasetID; got != "d4" {
		t.Fatalf("ActiveDatasetID = %q, want d4 (last entry)", got)
	}
}

func TestRun_SubmitFailureStopsBeforePolling(t *testing.T) {
	api := &fakeAPI{
		submitErr: &darkroom.ValidationError{Reason: "no file provided"},
	}
	store := &state.Store{}
	store.UploadModalOpened()

	u := New(api, store, nil, fastPoll())
	err := u.Run(context.Background(), strings.NewReader(""), "x.zip", "x", nil)
	if err == nil {
		t.Fatal("Run returned nil error, want validation failure")
	}
	var verr *darkroom.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Run error = %v, want *ValidationError", err)
	}

	snap := store.Snapshot()
	if snap.Status != state.StatusFailed || snap.UploadModalOpen {
		t.Fatalf("state = status %v modal %v, want failed/closed", snap.Status, snap.UploadModalOpen)
	}
	if len(api.tasks) != 0 && api.statusCalls != nil {
		t.Fatalf("status calls = %v, want none", api.statusCalls)
	}
}

func TestRun_TaskFailureSurfacesAsUploadFailed(t *testing.T) {
	api := &fakeAPI{
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			"t1": {
				{Status: darkroom.StatusRunning, Progress: 10},
				{Status: darkroom.StatusFailure, Progress: 10, Message: "Unsupported file type: .rar"},
			},
		},
	}
	store := &state.Store{}

	u := New(api, store, nil, fastPoll())
	err := u.Run(context.Background(), strings.NewReader("rar"), "x.rar", "x", nil)
	if err == nil || !strings.Contains(err.Error(), "Unsupported file type") {
		t.Fatalf("Run error = %v, want message from task", err)
	}

	snap := store.Snapshot()
	if snap.Status != state.StatusFailed || snap.UploadModalOpen {
		t.Fatalf("state = status %v modal %v, want failed/closed", snap.Status, snap.UploadModalOpen)
	}
	if api.listCalls != 0 {
		t.Fatalf("list refreshes = %d, want 0 after task failure", api.listCalls)
	}
}

func TestRun_PollTimeoutSurfacesAsUploadFailed(t *testing.T) {
	api := &fakeAPI{
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			"t1": {{Status: darkroom.StatusRunning, Progress: 50}},
		},
	}
	store := &state.Store{}

	u := New(api, store, nil, task.Options{Interval: time.Millisecond, MaxAttempts: 3})
	err := u.Run(context.Background(), strings.NewReader("zip"), "x.zip", "x", nil)
	var timeout *task.PollTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("Run error = %v, want *PollTimeout", err)
	}
	if got := store.Snapshot().Status; got != state.StatusFailed {
		t.Fatalf("Status = %v, want failed", got)
	}
}

func TestRun_PhotoLoadFailureDoesNotFailUpload(t *testing.T) {
	api := &fakeAPI{
		lists: [][]darkroom.Dataset{
			{{ID: "d1"}, {ID: "d2"}},
		},
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			"t1": {{Status: darkroom.StatusSuccess, Progress: 100, DatasetID: "d2"}},
		},
		photosErr: darkroom.ErrNotFound,
	}
	store := &state.Store{}
	store.DatasetsLoaded([]darkroom.Dataset{{ID: "d1"}})

	u := New(api, store, nil, fastPoll())
	if err := u.Run(context.Background(), strings.NewReader("zip"), "x.zip", "x", nil); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	snap := store.Snapshot()
	if snap.ActiveDatasetID != "d2" {
		t.Fatalf("ActiveDatasetID = %q, want d2", snap.ActiveDatasetID)
	}
	// UploadSucceeded lands after the photo failure, so the cycle as a whole
	// reads as succeeded with an empty photo pane.
	if snap.Status != state.StatusSucceeded || snap.UploadModalOpen {
		t.Fatalf("state = status %v modal %v, want succeeded/closed", snap.Status, snap.UploadModalOpen)
	}
	if len(snap.Photos) != 0 {
		t.Fatalf("Photos = %#v, want empty", snap.Photos)
	}
}

func TestRun_SupersededCycleCannotTouchStore(t *testing.T) {
	release := make(chan struct{})
	api := &fakeAPI{
		lists: [][]darkroom.Dataset{
			{{ID: "dB"}},
		},
		handles: []darkroom.TaskHandle{{TaskID: "tA"}, {TaskID: "tB"}},
		tasks: map[string][]darkroom.Task{
			"tA": {{Status: darkroom.StatusSuccess, Progress: 100, DatasetID: "dA"}},
			"tB": {{Status: darkroom.StatusSuccess, Progress: 100, DatasetID: "dB"}},
		},
		blockTask: map[string]chan struct{}{"tA": release},
	}
	store := &state.Store{}
	u := New(api, store, nil, fastPoll())

	done := make(chan error, 1)
	go func() {
		done <- u.Run(context.Background(), strings.NewReader("a"), "a.zip", "a", nil)
	}()

	// Wait for cycle A to reach its blocked status poll, then supersede it.
	deadline := time.After(2 * time.Second)
	for {
		u.mu.Lock()
		started := u.gen == 1 && u.cancel != nil
		u.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("cycle A never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := u.Run(context.Background(), strings.NewReader("b"), "b.zip", "b", nil); err != nil {
		t.Fatalf("Run B returned error: %v", err)
	}
	afterB := store.Snapshot()

	// Let A's status response land, then verify it changed nothing.
	close(release)
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("superseded Run A returned nil error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run A did not return after supersession")
	}

	snap := store.Snapshot()
	if snap.ActiveDatasetID != afterB.ActiveDatasetID || snap.ActiveDatasetID != "dB" {
		t.Fatalf("ActiveDatasetID = %q, want dB untouched by superseded cycle", snap.ActiveDatasetID)
	}
	if snap.Status != state.StatusSucceeded {
		t.Fatalf("Status = %v, want succeeded from cycle B", snap.Status)
	}
}

func TestRun_EndToEndScenario(t *testing.T) {
	api := &fakeAPI{
		lists: [][]darkroom.Dataset{
			{{ID: "d1", Name: "flowers"}, {ID: "d9", Name: "cats"}},
		},
		handles: []darkroom.TaskHandle{{TaskID: "t1"}},
		tasks: map[string][]darkroom.Task{
			"t1": {
				{Status: darkroom.StatusPending, Progress: 10},
				{Status: darkroom.StatusRunning, Progress: 60},
				{Status: darkroom.StatusSuccess, Progress: 100, DatasetID: "d9"},
			},
		},
		photos: map[string][]darkroom.Photo{"d9": {{ID: "p1", DatasetID: "d9", Filename: "cat1.jpg"}}},
	}
	store := &state.Store{}
	store.DatasetsLoaded([]darkroom.Dataset{{ID: "d1", Name: "flowers"}})
	store.UploadModalOpened()

	var progress []int
	u := New(api, store, nil, fastPoll())
	err := u.Run(context.Background(), strings.NewReader("zipbytes"), "cats.zip", "cats", func(t darkroom.Task) {
		progress = append(progress, t.Progress)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(progress) != 3 || progress[0] != 10 || progress[1] != 60 || progress[2] != 100 {
		t.Fatalf("progress = %v, want [10 60 100]", progress)
	}

	snap := store.Snapshot()
	if snap.ActiveDatasetID != "d9" {
		t.Fatalf("ActiveDatasetID = %q, want d9", snap.ActiveDatasetID)
	}
	if snap.UploadModalOpen {
		t.Fatal("upload modal should be closed")
	}
	if snap.Status != state.StatusSucceeded {
		t.Fatalf("Status = %v, want succeeded", snap.Status)
	}
	if len(snap.Photos) != 1 || snap.Photos[0].Filename != "cat1.jpg" {
		t.Fatalf("Photos = %#v, want cat1.jpg", snap.Photos)
	}
}

func TestIdentifyNew_EmptyRefresh(t *testing.T) {
	if got := identifyNew(map[string]bool{}, nil, ""); got != "" {
		t.Fatalf("identifyNew = %q, want empty for empty refresh", got)
	}
}

func TestNameFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cats.zip", "cats"},
		{"/tmp/archives/dogs.tar.gz", "dogs.tar"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NameFromFilename(tt.in); got != tt.want {
				t.Errorf("NameFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
