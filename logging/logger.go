// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging provides the structured logger used by the routepattern
// tools. It is a thin configuration layer over [log/slog].
//
// The pattern package never logs; compile errors and match results are
// returned to the caller, and callers such as the command line tool decide
// what to report. Log lines written through [Logger.WithContext] carry the
// trace and span IDs of the compile or match span in the context.
//
//	logger := logging.MustNew(
//	    logging.WithTextHandler(),
//	    logging.WithLevel(logging.LevelDebug),
//	)
//	logger.Info("route compiled", semconv.RouteTemplate, "/video/:id")
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"rivaas.dev/routepattern/telemetry/semconv"
)

// HandlerType selects the output encoding.
type HandlerType string

const (
	// JSONHandler writes one JSON object per line.
	JSONHandler HandlerType = "json"
	// TextHandler writes key=value lines.
	TextHandler HandlerType = "text"
)

// Level is a log severity.
type Level = slog.Level

// Levels accepted by [WithLevel] and returned by [ParseLevel].
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger writes structured log lines. It is safe for concurrent use and
// immutable once built.
type Logger struct {
	slogger *slog.Logger
}

type config struct {
	handlerType    HandlerType
	output         io.Writer
	level          Level
	addSource      bool
	serviceName    string
	serviceVersion string
}

// Option configures a [Logger].
type Option func(*config)

// New builds a Logger. Without options it writes JSON at info level to
// stderr. The global slog default is never replaced.
func New(opts ...Option) (*Logger, error) {
	cfg := config{
		handlerType: JSONHandler,
		output:      os.Stderr,
		level:       LevelInfo,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.output == nil {
		return nil, fmt.Errorf("invalid configuration: %w", ErrNilOutput)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level, AddSource: cfg.addSource}

	var handler slog.Handler
	switch cfg.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(cfg.output, handlerOpts)
	case TextHandler:
		handler = slog.NewTextHandler(cfg.output, handlerOpts)
	default:
		return nil, fmt.Errorf("invalid configuration: %w: %s", ErrInvalidHandler, cfg.handlerType)
	}

	slogger := slog.New(handler)
	if cfg.serviceName != "" {
		slogger = slogger.With(semconv.ServiceName, cfg.serviceName)
	}
	if cfg.serviceVersion != "" {
		slogger = slogger.With(semconv.ServiceVersion, cfg.serviceVersion)
	}

	return &Logger{slogger: slogger}, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}

	return l
}

// Logger returns the underlying [slog.Logger], for packages that accept one.
func (l *Logger) Logger() *slog.Logger {
	return l.slogger
}

func (l *Logger) log(level Level, msg string, args ...any) {
	logAt(context.Background(), l.slogger, level, msg, args...)
}

// logAt writes a record attributed to the caller of the exported logging
// method two frames up, so [WithSource] points at the call site rather than
// this package.
func logAt(ctx context.Context, logger *slog.Logger, level Level, msg string, args ...any) {
	if !logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(4, pcs[:]) // runtime.Callers, logAt, log, exported method
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = logger.Handler().Handle(ctx, r)
}

// Debug logs at [LevelDebug].
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs at [LevelInfo].
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs at [LevelWarn].
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs at [LevelError].
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}
