// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger provides a thin wrapper around zerolog.Logger that adds
// convenience constructors used throughout Holecard. The Logger type
// embeds zerolog.Logger so all standard zerolog methods (Debug, Info,
// Warn, Error, Fatal, etc.) are available directly on *Logger.
//
// Every constructor here takes a logger by pointer, explicitly, through
// constructor injection — there is no package-level global logger in
// this application; see SPEC_FULL.md §2.1.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a *Logger for the given component label (e.g. "deckctx",
// "session", "cli"). When interactive is true, output is a human-readable
// console writer to os.Stderr (so stdout stays free for command output
// piped to other tools); otherwise output is newline-delimited JSON,
// suited to a log file or non-interactive invocation.
func New(component string, level zerolog.Level, interactive bool) *Logger {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	var w io.Writer = os.Stderr
	if interactive {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(w).Level(level).With().
		Str("component", component).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all log output, used in tests and
// any context where logging would be noise.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger that inherits every field of the
// receiver. The child can be enriched with additional fields (e.g. a deck
// name) without affecting the parent.
func (l *Logger) GetChildLogger(fields map[string]string) *Logger {
	ctx := l.With()
	for k, v := range fields {
		ctx = ctx.Str(k, v)
	}
	return &Logger{ctx.Logger()}
}

// FromContext extracts the zerolog.Logger stored in ctx by zerolog's
// log.Ctx helper and returns it as a *Logger. If no logger has been
// attached, zerolog returns its global (by default disabled) logger, so
// this never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// WithContext returns a copy of ctx carrying l, retrievable later via
// [FromContext].
func WithContext(ctx context.Context, l *Logger) context.Context {
	return l.Logger.WithContext(ctx)
}
