package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"gallerist/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := NewRunner(RunnerOpts{})

	root := &cli.Command{
		Name:    "gallerist",
		Usage:   "Browse and upload image datasets on a darkroom service",
		Version: "0.1.0",
		Flags: append(serviceFlags(),
			&cli.StringFlag{
				Name:  "prefs",
				Usage: "Path to preferences file",
			},
			&cli.IntFlag{
				Name:  "poll",
				Usage: "Refresh interval in seconds",
			},
		),
		// Running without a subcommand starts the TUI.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return app.Run(ctx, app.Options{
				ConfigPath: cmd.String("config"),
				PrefsPath:  cmd.String("prefs"),
				APIBase:    cmd.String("api"),
				PollEvery:  cmd.Int("poll"),
			})
		},
		Commands: runner.register(),
	}

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gallerist: %v\n", err)
		return 1
	}
	return 0
}
