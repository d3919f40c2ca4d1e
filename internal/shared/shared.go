// Package shared defines small helpers used across the client: logger
// construction and opening URLs in the system browser.
package shared

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a [log.Logger] writing to w with timestamps enabled.
// The writer defaults to [os.Stderr].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true})
}

// NewFileLogger creates a logger writing to a rotating file under dir. Used
// when the TUI owns the terminal and stderr output would corrupt the screen.
func NewFileLogger(dir, name string) *log.Logger {
	sink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, name),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}
	return NewLogger(sink)
}
