// Package ui provides the terminal user interface for gallerist.
//
// The UI is a Bubble Tea program that renders the shared state.Store
// snapshot on a fixed tick. It never mutates the snapshot it renders;
// all state changes flow through the store's transition methods, and the
// model re-reads a fresh snapshot afterwards.
//
// # Package Structure
//
//   - app.go: the root Model, message/command plumbing, and key handling
//   - views.go: header, dataset sidebar, photo table, status line, help
//   - modal.go: the archive-upload dialog
//   - theme.go: color themes and the derived lipgloss styles
//
// # Layout
//
// The screen is a header bar, a body split into a dataset sidebar and a
// photo table, and a status line with key hints. Pressing "u" opens the
// upload modal; while an upload cycle runs the modal shows the live task
// status and a progress bar fed from the uploader's progress callback.
package ui
