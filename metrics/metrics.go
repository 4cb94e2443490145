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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultDurationBuckets are histogram boundaries for match duration in
// seconds. Matching is a single regexp run, so they start at a microsecond.
var DefaultDurationBuckets = []float64{
	0.000001, 0.0000025, 0.000005, 0.00001, 0.000025, 0.00005,
	0.0001, 0.00025, 0.0005, 0.001, 0.01,
}

// Sentinel errors for recorder configuration.
var (
	ErrEmptyServiceName      = errors.New("service name cannot be empty")
	ErrConflictingProviders  = errors.New("conflicting provider options: only one of WithPrometheus, WithStdout or WithOTLP can be used")
	ErrNilMeterProvider      = errors.New("custom meter provider is nil")
	ErrHandlerUnavailable    = errors.New("handler only available with Prometheus provider")
	ErrUnsupportedProvider   = errors.New("unsupported metrics provider")
	ErrInvalidExportInterval = errors.New("export interval must be positive")
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to flush metrics).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event is an internal operational event from the metrics package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events.
type EventHandler func(Event)

// DefaultEventHandler returns an [EventHandler] that logs events to logger.
// A nil logger yields a handler that discards all events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}

	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

// Provider represents the available metrics providers.
type Provider string

const (
	// PrometheusProvider exposes metrics through a Prometheus scrape handler (default).
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider periodically writes metrics as JSON (development/testing).
	StdoutProvider Provider = "stdout"
	// OTLPProvider periodically pushes metrics to an OTLP/HTTP collector.
	OTLPProvider Provider = "otlp"
)

// Recorder holds the OpenTelemetry instruments for route compilation and
// matching. All methods are safe for concurrent use.
type Recorder struct {
	meter              metric.Meter
	meterProvider      metric.MeterProvider
	prometheusHandler  http.Handler
	prometheusRegistry *promclient.Registry
	eventHandler       EventHandler

	compileCount  metric.Int64Counter
	matchCount    metric.Int64Counter
	matchDuration metric.Float64Histogram

	durationBuckets []float64
	exportInterval  time.Duration
	stdoutOptions   stdoutConfig
	otlpEndpoint    string

	serviceName    string
	serviceVersion string

	provider            Provider
	providerSetCount    int
	customMeterProvider bool
	registerGlobal      bool
	isShuttingDown      atomic.Bool
}

// New creates a [Recorder] with the given options.
// For a version that panics on error, use [MustNew].
func New(opts ...Option) (*Recorder, error) {
	r := newDefaultRecorder()

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	return r
}

func newDefaultRecorder() *Recorder {
	return &Recorder{
		serviceName:     "routepattern",
		serviceVersion:  "1.0.0",
		provider:        PrometheusProvider,
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
	}
}

func (r *Recorder) validate() error {
	if r.providerSetCount > 1 {
		return ErrConflictingProviders
	}
	if r.serviceName == "" {
		return ErrEmptyServiceName
	}
	if r.exportInterval <= 0 {
		return ErrInvalidExportInterval
	}
	if r.exportInterval < time.Second {
		r.emitWarning("Export interval is very low, may cause high CPU usage", "interval", r.exportInterval)
	}

	switch r.provider {
	case PrometheusProvider, StdoutProvider, OTLPProvider:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, r.provider)
	}
}

// Handler returns the Prometheus scrape handler. It fails unless the
// recorder uses [PrometheusProvider].
func (r *Recorder) Handler() (http.Handler, error) {
	if r.prometheusHandler == nil {
		return nil, fmt.Errorf("%w, current provider: %s", ErrHandlerUnavailable, r.Provider())
	}

	return r.prometheusHandler, nil
}

// Provider returns the metrics provider in use, or "" for a custom one.
func (r *Recorder) Provider() Provider {
	if r.customMeterProvider {
		return ""
	}

	return r.provider
}

// ServiceName returns the service name.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ServiceVersion returns the service version.
func (r *Recorder) ServiceVersion() string {
	return r.serviceVersion
}

// Shutdown flushes pending metrics and shuts down the meter provider. A
// provider supplied through [WithMeterProvider] is left to its owner.
// Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	if r.customMeterProvider {
		r.emitDebug("Skipping shutdown of custom meter provider (managed by user)")
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}

	if err := mp.ForceFlush(ctx); err != nil {
		r.emitWarning("metrics flush warning", "error", err)
	}

	if err := mp.Shutdown(ctx); err != nil {
		r.emitError("meter provider shutdown failed", "error", err)
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	r.emitDebug("Meter provider shut down successfully")

	return nil
}

// ForceFlush exports pending metric data without shutting down. It is a
// no-op for the pull-based Prometheus provider.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}

	if mp, ok := r.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.ForceFlush(ctx); err != nil {
			return fmt.Errorf("metrics force flush: %w", err)
		}
	}

	return nil
}

func (r *Recorder) emitError(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

func (r *Recorder) emitWarning(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (r *Recorder) emitDebug(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}

func (r *Recorder) emitInfo(msg string, args ...any) {
	if r.eventHandler != nil {
		r.eventHandler(Event{Type: EventInfo, Message: msg, Args: args})
	}
}
