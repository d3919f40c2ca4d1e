package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"gallerist/internal/darkroom"
	"gallerist/internal/state"
)

const defaultRefreshInterval = 5 * time.Second

// StartRefresher launches a background goroutine that keeps the store's
// dataset list (and the active dataset's photos) in sync with the service at
// a fixed cadence. It returns immediately.
func StartRefresher(ctx context.Context, store *state.Store, api darkroom.API, interval time.Duration, logger *log.Logger) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			refresh(ctx, store, api, logger)
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, api darkroom.API, logger *log.Logger) {
	datasets, err := api.ListDatasets(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.DatasetsLoadFailed(err)
		logger.Warn("dataset refresh failed", "err", err)
		return
	}
	store.DatasetsLoaded(datasets)

	active := store.Snapshot().ActiveDatasetID
	if active == "" {
		return
	}
	photos, err := api.ListPhotos(ctx, active)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.PhotosLoadFailed(err)
		logger.Warn("photo refresh failed", "dataset", active, "err", err)
		return
	}
	// The selection may have moved while the fetch was in flight; applying
	// would pair old photos with the new selection.
	if store.Snapshot().ActiveDatasetID != active {
		return
	}
	store.PhotosLoaded(photos)
}
