// Package app provides the orchestration layer for the gallerist application.
//
// # Overview
//
// This package wires together configuration, the darkroom client, the shared
// store, the upload workflow, and the UI. It is the composition root: all
// dependencies are initialized and connected here, and business logic lives
// in the domain packages.
//
// # Data Flow
//
//	Run()
//	  ├─> config.Load()        read ~/.config/gallerist/config.toml
//	  ├─> prefs.Load()         read user preferences
//	  ├─> darkroom.NewClient() create HTTP client
//	  ├─> state.NewStore()     shared state container
//	  ├─> upload.New()         upload workflow (single active cycle)
//	  ├─> StartRefresher()     background dataset/photo refresh
//	  └─> ui.Run()             start TUI (blocks)
//
//	Refresher loop:
//	  ListDatasets -> store.DatasetsLoaded (selection repaired if dangling)
//	  ListPhotos   -> store.PhotosLoaded for the active dataset
//	  failures     -> store.*LoadFailed, previous data kept, error recorded
//
// # Error Handling
//
// Fatal errors returned from Run: unreadable or invalid config, client
// initialization failure. Refresh failures are recoverable: they are recorded
// in the store for display and logged, and polling continues, so the client
// survives service restarts.
package app
