// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:  "api",
			Usage: "Darkroom service address (host:port or URL)",
		},
	}
}

// datasetsCommand lists the datasets the service knows about.
func datasetsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "datasets",
		Aliases: []string{"ds"},
		Usage:   "List datasets on the darkroom service",
		Flags: append(serviceFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		),
		Action: r.Datasets,
	}
}

// photosCommand lists the photos inside one dataset.
func photosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "photos",
		Usage: "List photos in a dataset",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "dataset"},
		},
		Flags: append(serviceFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		),
		Action: r.Photos,
	}
}

// uploadCommand submits an archive and waits for the processing task.
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "upload",
		Usage: "Upload an archive as a new dataset and wait for processing",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "archive"},
		},
		Flags: append(serviceFlags(),
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Dataset name (default: archive filename without extension)",
			},
			&cli.IntFlag{
				Name:  "poll",
				Usage: "Seconds between task status checks",
				Value: 2,
			},
			&cli.IntFlag{
				Name:  "attempts",
				Usage: "Maximum task status checks before giving up",
				Value: 30,
			},
		),
		Action: r.Upload,
	}
}

// openCommand opens a photo's raw bytes in the system browser.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "open",
		Usage: "Open a photo in the default browser",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "photo"},
		},
		Flags: serviceFlags(),
		Action: r.Open,
	}
}
