package upload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"gallerist/internal/darkroom"
	"gallerist/internal/state"
	"gallerist/internal/task"
)

// Progress receives intermediate task snapshots while an upload is processed.
type Progress func(darkroom.Task)

// Uploader drives one archive from submission through extraction to a fresh
// selection in the store. At most one cycle is active: starting a new Run
// supersedes the previous one, whose poll loop is cancelled and whose late
// results are discarded before they can touch the store.
type Uploader struct {
	api    darkroom.API
	store  *state.Store
	logger *log.Logger
	poll   task.Options

	mu     sync.Mutex
	gen    int
	cancel context.CancelFunc
}

// New builds an Uploader. A nil logger disables logging.
func New(api darkroom.API, store *state.Store, logger *log.Logger, poll task.Options) *Uploader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Uploader{api: api, store: store, logger: logger, poll: poll}
}

// Run submits the archive and blocks until the cycle reaches a terminal
// outcome or is superseded. file is read fully during submission. onProgress
// may be nil.
//
// Every failure path lands in a single UploadFailed transition; success lands
// in DatasetSelected + photo load + UploadSucceeded.
func (u *Uploader) Run(ctx context.Context, file io.Reader, filename, name string, onProgress Progress) error {
	ctx, gen := u.begin(ctx)
	defer u.end(gen)

	before := make(map[string]bool)
	for _, d := range u.store.Snapshot().Datasets {
		before[d.ID] = true
	}
	u.transition(gen, u.store.UploadStarted)

	handle, err := u.api.SubmitUpload(ctx, darkroom.UploadRequest{Name: name, Filename: filename, File: file})
	if err != nil {
		return u.fail(gen, fmt.Errorf("submit upload: %w", err))
	}
	u.logger.Info("upload accepted", "task", handle.TaskID, "name", name)

	terminal, err := u.await(ctx, gen, handle.TaskID, onProgress)
	if err != nil {
		return u.fail(gen, err)
	}
	if terminal.Status == darkroom.StatusFailure {
		return u.fail(gen, fmt.Errorf("processing failed: %s", failureMessage(terminal)))
	}

	refreshed, err := u.api.ListDatasets(ctx)
	if err != nil {
		return u.fail(gen, fmt.Errorf("refresh datasets: %w", err))
	}
	u.transition(gen, func() { u.store.DatasetsLoaded(refreshed) })

	newID := identifyNew(before, refreshed, terminal.DatasetID)
	if newID != "" {
		u.transition(gen, func() { u.store.DatasetSelected(newID) })
		u.loadPhotos(ctx, gen, newID)
	}
	u.transition(gen, u.store.UploadSucceeded)
	u.logger.Info("upload complete", "task", handle.TaskID, "dataset", newID)
	return nil
}

// Cancel aborts the active cycle, if any. Used on teardown so no scheduled
// poll outlives the owning view.
func (u *Uploader) Cancel() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
}

// begin supersedes the previous cycle and registers the new one.
func (u *Uploader) begin(ctx context.Context) (context.Context, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cancel != nil {
		u.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.gen++
	return ctx, u.gen
}

// end releases the cycle's cancel func unless a newer cycle took over.
func (u *Uploader) end(gen int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if gen == u.gen && u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
}

// current reports whether gen is still the active cycle.
func (u *Uploader) current(gen int) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return gen == u.gen
}

// transition applies a store mutation unless the cycle has been superseded.
// The store stays consistent under races because superseded cycles are barred
// here, before any write.
func (u *Uploader) transition(gen int, apply func()) {
	if !u.current(gen) {
		return
	}
	apply()
}

func (u *Uploader) fail(gen int, err error) error {
	u.logger.Warn("upload failed", "err", err)
	u.transition(gen, func() { u.store.UploadFailed(err) })
	return err
}

// await drains the poll loop and returns the terminal snapshot.
func (u *Uploader) await(ctx context.Context, gen int, taskID string, onProgress Progress) (darkroom.Task, error) {
	var terminal darkroom.Task
	seen := false
	for snap := range task.Poll(ctx, u.api, taskID, u.poll) {
		if snap.Err != nil {
			return darkroom.Task{}, snap.Err
		}
		if onProgress != nil && u.current(gen) {
			onProgress(snap.Task)
		}
		if snap.Task.Status.Terminal() {
			terminal = snap.Task
			seen = true
		}
	}
	if !seen {
		// Channel closed without a terminal snapshot: the cycle was cancelled
		// or superseded.
		if err := ctx.Err(); err != nil {
			return darkroom.Task{}, err
		}
		return darkroom.Task{}, context.Canceled
	}
	return terminal, nil
}

func (u *Uploader) loadPhotos(ctx context.Context, gen int, datasetID string) {
	photos, err := u.api.ListPhotos(ctx, datasetID)
	if err != nil {
		// A photo listing failure after a successful upload stays local to
		// the photo pane; it does not fail the upload.
		u.logger.Warn("photo refresh failed", "dataset", datasetID, "err", err)
		u.transition(gen, func() { u.store.PhotosLoadFailed(err) })
		return
	}
	u.transition(gen, func() { u.store.PhotosLoaded(photos) })
}

// identifyNew picks the dataset the completed task produced. The task's own
// dataset id wins when present; otherwise the set difference against the
// pre-upload snapshot, provided it is unambiguous; otherwise the last entry
// of the refreshed list. The last-entry fallback assumes server order is
// insertion order and can misfire under concurrent uploads; it exists so the
// workflow always converges to some selection.
func identifyNew(before map[string]bool, refreshed []darkroom.Dataset, taskDatasetID string) string {
	if taskDatasetID != "" {
		for _, d := range refreshed {
			if d.ID == taskDatasetID {
				return d.ID
			}
		}
	}
	var added []string
	for _, d := range refreshed {
		if !before[d.ID] {
			added = append(added, d.ID)
		}
	}
	if len(added) == 1 {
		return added[0]
	}
	if len(refreshed) > 0 {
		return refreshed[len(refreshed)-1].ID
	}
	return ""
}

func failureMessage(t darkroom.Task) string {
	if strings.TrimSpace(t.Message) != "" {
		return t.Message
	}
	return "task reported failure"
}

// NameFromFilename derives a dataset name from an archive filename by
// dropping the extension, mirroring how uploads are named in the web client.
func NameFromFilename(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if strings.TrimSpace(name) == "" {
		return base
	}
	return name
}
