package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields gallerist needs to reach the darkroom service.
type Config struct {
	APIBase         string
	LogDir          string
	PollSeconds     int // dataset list refresh cadence
	TaskPollSeconds int // task status check cadence during uploads
	TaskMaxAttempts int // status checks before an upload is declared stuck
}

const (
	defaultConfigPath      = "~/.config/gallerist/config.toml"
	defaultLogDir          = "~/.local/share/gallerist/logs"
	defaultAPIBase         = "127.0.0.1:8000"
	defaultPollSeconds     = 5
	defaultTaskPollSeconds = 2
	defaultTaskMaxAttempts = 30
)

// Load locates and parses the gallerist config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.LogDir = mustExpand(defaultLogDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase         string `toml:"api_base"`
		LogDir          string `toml:"log_dir"`
		PollSeconds     int    `toml:"poll_seconds"`
		TaskPollSeconds int    `toml:"task_poll_seconds"`
		TaskMaxAttempts int    `toml:"task_max_attempts"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBase = strings.TrimSpace(raw.APIBase)
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}

	cfg.LogDir = strings.TrimSpace(raw.LogDir)
	if cfg.LogDir == "" {
		cfg.LogDir = defaultLogDir
	}
	cfg.LogDir = mustExpand(cfg.LogDir)

	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if raw.TaskPollSeconds > 0 {
		cfg.TaskPollSeconds = raw.TaskPollSeconds
	}
	if raw.TaskMaxAttempts > 0 {
		cfg.TaskMaxAttempts = raw.TaskMaxAttempts
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		APIBase:         defaultAPIBase,
		LogDir:          defaultLogDir,
		PollSeconds:     defaultPollSeconds,
		TaskPollSeconds: defaultTaskPollSeconds,
		TaskMaxAttempts: defaultTaskMaxAttempts,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
