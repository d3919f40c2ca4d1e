package state

import (
	"fmt"
	"sync"
	"time"

	"gallerist/internal/darkroom"
)

// Status describes the outcome of the most recent load or upload.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot is the client's view of the remote dataset collection plus the
// UI-visibility flags. Photos always belong to ActiveDatasetID as of the last
// fetch; they are not guaranteed fresh if the server changes underneath.
type Snapshot struct {
	Datasets        []darkroom.Dataset
	Photos          []darkroom.Photo
	ActiveDatasetID string
	Status          Status
	Err             error
	UploadModalOpen bool
	SidebarOpen     bool
	LastUpdated     time.Time
}

// ActiveDataset returns the dataset ActiveDatasetID refers to, if any.
func (s Snapshot) ActiveDataset() (darkroom.Dataset, bool) {
	for _, d := range s.Datasets {
		if d.ID == s.ActiveDatasetID {
			return d, true
		}
	}
	return darkroom.Dataset{}, false
}

// Transitions. Each is a pure function of (snapshot, input); the Store applies
// them under its lock. No transition performs I/O.

func datasetsLoaded(s Snapshot, datasets []darkroom.Dataset) Snapshot {
	s.Datasets = cloneDatasets(datasets)
	if len(s.Datasets) == 0 {
		s.ActiveDatasetID = ""
	} else if _, ok := s.ActiveDataset(); !ok {
		s.ActiveDatasetID = s.Datasets[0].ID
	}
	s.Status = StatusSucceeded
	s.Err = nil
	s.LastUpdated = time.Now()
	return s
}

func datasetsLoadFailed(s Snapshot, err error) Snapshot {
	s.Status = StatusFailed
	s.Err = err
	s.LastUpdated = time.Now()
	return s
}

func datasetSelected(s Snapshot, id string) Snapshot {
	s.ActiveDatasetID = id
	s.Photos = nil // stale until refetched
	return s
}

func photosLoaded(s Snapshot, photos []darkroom.Photo) Snapshot {
	s.Photos = clonePhotos(photos)
	s.Status = StatusSucceeded
	s.Err = nil
	s.LastUpdated = time.Now()
	return s
}

func photosLoadFailed(s Snapshot, err error) Snapshot {
	s.Photos = nil
	s.Status = StatusFailed
	s.Err = err
	s.LastUpdated = time.Now()
	return s
}

func uploadModalOpened(s Snapshot) Snapshot {
	s.UploadModalOpen = true
	return s
}

func uploadModalClosed(s Snapshot) Snapshot {
	s.UploadModalOpen = false
	return s
}

func sidebarToggled(s Snapshot) Snapshot {
	s.SidebarOpen = !s.SidebarOpen
	return s
}

func uploadStarted(s Snapshot) Snapshot {
	s.Status = StatusLoading
	s.Err = nil
	return s
}

func uploadSucceeded(s Snapshot) Snapshot {
	s.Status = StatusSucceeded
	s.Err = nil
	s.UploadModalOpen = false
	return s
}

func uploadFailed(s Snapshot, err error) Snapshot {
	s.Status = StatusFailed
	s.Err = err
	s.UploadModalOpen = false
	return s
}

// Store serializes transitions against the snapshot. The zero value is an
// idle, all-empty store ready for use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store with the sidebar visibility preset.
func NewStore(sidebarOpen bool) *Store {
	return &Store{snapshot: Snapshot{SidebarOpen: sidebarOpen}}
}

func (st *Store) apply(f func(Snapshot) Snapshot) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.snapshot = f(st.snapshot)
}

// DatasetsLoaded replaces the dataset list. A now-dangling active selection
// is repaired to the first entry, or cleared when the list is empty.
func (st *Store) DatasetsLoaded(datasets []darkroom.Dataset) {
	st.apply(func(s Snapshot) Snapshot { return datasetsLoaded(s, datasets) })
}

// DatasetsLoadFailed records a list fetch failure, keeping previous data.
func (st *Store) DatasetsLoadFailed(err error) {
	st.apply(func(s Snapshot) Snapshot { return datasetsLoadFailed(s, err) })
}

// DatasetSelected switches the active dataset and clears photos in the same
// transition, so no reader sees old photos with the new selection.
func (st *Store) DatasetSelected(id string) {
	st.apply(func(s Snapshot) Snapshot { return datasetSelected(s, id) })
}

// PhotosLoaded replaces the photo list for the active dataset.
func (st *Store) PhotosLoaded(photos []darkroom.Photo) {
	st.apply(func(s Snapshot) Snapshot { return photosLoaded(s, photos) })
}

// PhotosLoadFailed clears photos and records the failure.
func (st *Store) PhotosLoadFailed(err error) {
	st.apply(func(s Snapshot) Snapshot { return photosLoadFailed(s, err) })
}

// UploadModalOpened shows the upload modal.
func (st *Store) UploadModalOpened() { st.apply(uploadModalOpened) }

// UploadModalClosed hides the upload modal.
func (st *Store) UploadModalClosed() { st.apply(uploadModalClosed) }

// SidebarToggled flips sidebar visibility.
func (st *Store) SidebarToggled() { st.apply(sidebarToggled) }

// UploadStarted marks an upload cycle in flight.
func (st *Store) UploadStarted() { st.apply(uploadStarted) }

// UploadSucceeded records upload success and closes the modal.
func (st *Store) UploadSucceeded() { st.apply(uploadSucceeded) }

// UploadFailed records the failure and closes the modal; every upload failure
// path funnels through here so the UI never lands in a partial state.
func (st *Store) UploadFailed(err error) {
	st.apply(func(s Snapshot) Snapshot { return uploadFailed(s, err) })
}

// Snapshot returns a copy of the current snapshot, independent of the stored
// one.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()

	snap := st.snapshot
	snap.Datasets = cloneDatasets(st.snapshot.Datasets)
	snap.Photos = clonePhotos(st.snapshot.Photos)
	if st.snapshot.Err != nil {
		snap.Err = fmt.Errorf("%w", st.snapshot.Err)
	}
	return snap
}

func cloneDatasets(items []darkroom.Dataset) []darkroom.Dataset {
	if len(items) == 0 {
		return nil
	}
	dup := make([]darkroom.Dataset, len(items))
	copy(dup, items)
	return dup
}

func clonePhotos(items []darkroom.Photo) []darkroom.Photo {
	if len(items) == 0 {
		return nil
	}
	dup := make([]darkroom.Photo, len(items))
	copy(dup, items)
	return dup
}
