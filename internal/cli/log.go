// Package cli implements the gvlayout command-line interface.
//
// The CLI is built with cobra. Settings are layered by internal/config:
// built-in defaults, then a gvlayout.yaml or gvlayout.toml file, then
// GVLAYOUT_* environment variables, then flags the user set explicitly.
//
// # Commands
//
//   - layout: Compute positions for a graph file and write them back
//   - dot: Print the document that would be handed to the engine
//   - serve: Expose the layout operation over HTTP
//   - cache: Manage the engine output cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on per-pass, per-cache-lookup and per-request hook logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Re-laid out 42 nodes (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
