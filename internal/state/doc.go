// Package state owns the client's shared view of the darkroom service.
//
// # Overview
//
// The Store holds the dataset list, the active selection, the active
// dataset's photos, and the UI-visibility flags (upload modal, sidebar). It is
// the single shared mutable resource of the application: the background
// refresher, the upload workflow, and the TUI all act on it, and they do so
// only through the named transition methods.
//
// # Transitions
//
// Every mutation is a pure function (Snapshot, input) -> Snapshot applied
// atomically under the store's lock. No transition performs I/O; the
// orchestration layers fetch, then feed results back as transitions. This
// keeps the rules testable in isolation and makes every write atomic with
// respect to readers: no observer sees a partially-applied transition.
//
// Invariants the transitions preserve:
//
//   - ActiveDatasetID, when set after a fresh load, references an element of
//     Datasets; when the list loads empty, the selection is cleared.
//   - Selecting a dataset clears Photos in the same transition, so photos are
//     never displayed against the wrong selection.
//   - Upload success and every upload failure path close the modal and set
//     the status, leaving no dangling half-states.
//
// # Concurrency
//
// Single writer discipline is not required: any goroutine may apply a
// transition, the RWMutex serializes them. Snapshot() returns defensive
// copies (cloned slices, wrapped error) so returned values never alias the
// stored state.
//
// Nothing here persists. The store starts all-empty and idle and dies with
// the process.
package state
