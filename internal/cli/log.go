// Package cli implements the groupflow command-line interface.
//
// Commands load gesture scenarios (TOML or YAML), replay them against a
// grouping engine, and report the resulting canvas. The CLI is built with
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - replay: run every event of a scenario and print the final nodes
//   - check: replay silently and verify expectations and layout invariants
//   - render: replay and draw the final canvas as DOT, SVG, PDF or PNG
//   - step: walk through a scenario one event at a time in a terminal UI
//   - serve: expose an engine over HTTP, optionally seeded from a scenario
//   - completion: print a shell completion script
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per engine commit. Commands read their logger from
// context.Context; the engine of each session gets the same logger.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, stamped "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a replay or render took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Replayed 12 events (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
