// Package config loads the gallerist configuration file.
//
// Configuration lives at ~/.config/gallerist/config.toml and is optional;
// every field has a working default for a local darkroom service:
//
//	api_base = "127.0.0.1:8000"
//	log_dir = "~/.local/share/gallerist/logs"
//	poll_seconds = 5
//	task_poll_seconds = 2
//	task_max_attempts = 30
//
// api_base accepts a host:port or a full URL. poll_seconds drives the
// background dataset refresh; the task_* pair bounds the per-upload status
// poll loop (2s * 30 attempts keeps an upload under about a minute before it
// is declared stuck).
package config
