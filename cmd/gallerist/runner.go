package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"gallerist/internal/config"
	"gallerist/internal/darkroom"
	"gallerist/internal/shared"
)

// Runner holds the shared dependencies for CLI command actions.
type Runner struct {
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(os.Stderr)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Runner{logger: opts.Logger, output: opts.Output}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		datasetsCommand, photosCommand, uploadCommand, openCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// client resolves the service address from flags and config and returns a
// ready API client.
func (r *Runner) client(cmd *cli.Command) (*darkroom.Client, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	base := cfg.APIBase
	if api := cmd.String("api"); api != "" {
		base = api
	}
	return darkroom.NewClient(base)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(r.output, string(out))
	return nil
}

func (r *Runner) writePlain(format string, args ...any) {
	fmt.Fprintf(r.output, format, args...)
}
