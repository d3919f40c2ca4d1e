package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"gallerist/internal/darkroom"
	"gallerist/internal/shared"
	"gallerist/internal/state"
	"gallerist/internal/task"
	"gallerist/internal/upload"
)

// Datasets prints the dataset list.
func (r *Runner) Datasets(ctx context.Context, cmd *cli.Command) error {
	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	datasets, err := client.ListDatasets(ctx)
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(datasets, cmd.Bool("pretty"))
	}

	if len(datasets) == 0 {
		r.writePlain("No datasets.\n")
		return nil
	}
	for _, d := range datasets {
		r.writePlain("%s\t%s\n", d.ID, d.Name)
	}
	return nil
}

// Photos prints the photos of one dataset.
func (r *Runner) Photos(ctx context.Context, cmd *cli.Command) error {
	datasetID := cmd.StringArg("dataset")
	if datasetID == "" {
		return fmt.Errorf("dataset ID argument is required")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	photos, err := client.ListPhotos(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("list photos: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(photos, cmd.Bool("pretty"))
	}

	if len(photos) == 0 {
		r.writePlain("No photos.\n")
		return nil
	}
	for _, p := range photos {
		size := "-"
		if p.Width > 0 || p.Height > 0 {
			size = fmt.Sprintf("%dx%d", p.Width, p.Height)
		}
		r.writePlain("%s\t%s\t%s\n", p.ID, p.Filename, size)
	}
	return nil
}

// Upload runs one upload cycle headlessly: submit, poll, report the
// resulting dataset.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("archive")
	if path == "" {
		return fmt.Errorf("archive path argument is required")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = file.Close() }()

	filename := filepath.Base(path)
	name := cmd.String("name")
	if name == "" {
		name = upload.NameFromFilename(filename)
	}

	store := state.NewStore(true)
	uploader := upload.New(client, store, r.logger, task.Options{
		Interval:    time.Duration(cmd.Int("poll")) * time.Second,
		MaxAttempts: cmd.Int("attempts"),
	})
	defer uploader.Cancel()

	r.logger.Info("uploading archive", "file", filename, "name", name)

	err = uploader.Run(ctx, file, filename, name, func(t darkroom.Task) {
		r.logger.Info("task update", "status", t.Status, "progress", t.Progress)
	})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	snap := store.Snapshot()
	if d, ok := snap.ActiveDataset(); ok {
		r.writePlain("✓ Dataset created\n")
		r.writePlain("ID: %s\n", d.ID)
		r.writePlain("Name: %s\n", d.Name)
		r.writePlain("Photos: %d\n", len(snap.Photos))
	} else {
		r.writePlain("✓ Upload processed\n")
	}
	return nil
}

// Open launches the browser at a photo's raw file endpoint.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	photoID := cmd.StringArg("photo")
	if photoID == "" {
		return fmt.Errorf("photo ID argument is required")
	}

	client, err := r.client(cmd)
	if err != nil {
		return err
	}

	url := client.PhotoFileURL(photoID)
	r.logger.Info("opening photo", "url", url)
	return shared.OpenBrowser(url)
}
