package app

import (
	"context"
	"fmt"
	"time"

	"gallerist/internal/config"
	"gallerist/internal/darkroom"
	"gallerist/internal/prefs"
	"gallerist/internal/shared"
	"gallerist/internal/state"
	"gallerist/internal/task"
	"gallerist/internal/ui"
	"gallerist/internal/upload"
)

// Options configure the gallerist application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/gallerist/prefs.toml
	APIBase    string // overrides the configured service address when set
	PollEvery  int    // seconds; zero uses the configured value
}

// Run boots the gallerist TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIBase != "" {
		cfg.APIBase = opts.APIBase
	}

	userPrefs := prefs.Load(opts.PrefsPath)

	client, err := darkroom.NewClient(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("init darkroom client: %w", err)
	}

	// The TUI owns the terminal, so logs go to a rotating file.
	logger := shared.NewFileLogger(cfg.LogDir, "gallerist.log")

	store := state.NewStore(userPrefs.Sidebar())

	pollOpts := task.Options{
		Interval:    time.Duration(cfg.TaskPollSeconds) * time.Second,
		MaxAttempts: cfg.TaskMaxAttempts,
	}
	uploader := upload.New(client, store, logger, pollOpts)
	defer uploader.Cancel()

	interval := time.Duration(cfg.PollSeconds) * time.Second
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Populate the store before the UI draws its first frame.
	refresh(ctx, store, client, logger)
	StartRefresher(ctx, store, client, interval, logger)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Uploader:  uploader,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}
