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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routepattern/pattern"
	"rivaas.dev/routepattern/telemetry/semconv"
)

// Span names.
const (
	SpanCompile = "routepattern.compile"
	SpanMatch   = "routepattern.match"
)

// Span attribute keys.
const (
	AttrTemplate = semconv.RouteTemplate
	AttrKeys     = semconv.RouteKeys
	AttrPath     = semconv.URLPath
	AttrMatched  = semconv.RouteMatched
	AttrParams   = semconv.RouteParams
)

// DefaultSampleRate samples every span.
const DefaultSampleRate = 1.0

// Sentinel errors for tracer configuration.
var (
	ErrEmptyServiceName     = errors.New("service name cannot be empty")
	ErrNilTracerProvider    = errors.New("custom tracer provider is nil")
	ErrInvalidSampleRate    = errors.New("sample rate must be between 0.0 and 1.0")
	ErrConflictingProviders = errors.New("conflicting provider options: only one of WithStdout, WithOTLP, WithOTLPHTTP, WithNoop or WithTracerProvider can be used")
	ErrUnsupportedProvider  = errors.New("unsupported tracing provider")
)

// Provider represents the available tracing providers.
type Provider string

const (
	// GlobalProvider uses the provider returned by otel.GetTracerProvider (default).
	GlobalProvider Provider = "global"
	// StdoutProvider exports spans as JSON to stdout.
	StdoutProvider Provider = "stdout"
	// OTLPProvider exports spans to an OTLP/gRPC collector.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider exports spans to an OTLP/HTTP collector.
	OTLPHTTPProvider Provider = "otlp-http"
	// NoopProvider records spans without exporting them.
	NoopProvider Provider = "noop"
	// CustomProvider uses the provider given to [WithTracerProvider].
	CustomProvider Provider = "custom"
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event.
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event.
	EventInfo
	// EventDebug indicates a debug event.
	EventDebug
)

// Event is an internal operational event from the tracing package.
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

// Tracer starts spans around route compilation and matching.
// All methods are safe for concurrent use.
type Tracer struct {
	tracer         trace.Tracer
	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider // Owned provider, nil for global and custom
	eventHandler   EventHandler

	serviceName    string
	serviceVersion string
	sampleRate     float64
	recordParams   bool
	stdoutOptions  stdoutConfig
	otlpEndpoint   string
	otlpInsecure   bool

	provider         Provider
	providerSetCount int
	registerGlobal   bool
	isShuttingDown   atomic.Bool
}

// New creates a [Tracer] with the given options.
// For a version that panics on error, use [MustNew].
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		serviceName:    "routepattern",
		serviceVersion: "1.0.0",
		sampleRate:     DefaultSampleRate,
		recordParams:   true,
		provider:       GlobalProvider,
	}

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := t.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	return t, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize tracing: %v", err))
	}

	return t
}

func (t *Tracer) validate() error {
	if t.providerSetCount > 1 {
		return ErrConflictingProviders
	}
	if t.serviceName == "" {
		return ErrEmptyServiceName
	}
	if t.sampleRate < 0.0 || t.sampleRate > 1.0 {
		return fmt.Errorf("%w, got %f", ErrInvalidSampleRate, t.sampleRate)
	}
	if t.provider == CustomProvider && t.tracerProvider == nil {
		return ErrNilTracerProvider
	}

	return nil
}

// Provider returns the tracing provider in use.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// TracerProvider returns the underlying OpenTelemetry tracer provider.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// ServiceName returns the service name.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// Compile compiles template inside a routepattern.compile span.
func (t *Tracer) Compile(ctx context.Context, template string) (*pattern.RoutePattern, error) {
	_, span := t.StartCompile(ctx, template)
	p, err := pattern.Compile(template)
	t.FinishCompile(span, p, err)

	return p, err
}

// StartCompile starts a routepattern.compile span for template. The returned
// context carries the span, so logs written with it carry its trace ID.
// End the span with [Tracer.FinishCompile].
func (t *Tracer) StartCompile(ctx context.Context, template string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanCompile,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(AttrTemplate, template)),
	)
}

// FinishCompile records the outcome of a compilation on span and ends it.
func (t *Tracer) FinishCompile(span trace.Span, p *pattern.RoutePattern, err error) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(attribute.StringSlice(AttrKeys, p.Keys()))
}

// Match matches path against p inside a routepattern.match span.
func (t *Tracer) Match(ctx context.Context, p *pattern.RoutePattern, path string) (map[string]string, bool) {
	_, span := t.StartMatch(ctx, p, path)
	params, ok := p.Match(path)
	t.FinishMatch(span, p, params, ok)

	return params, ok
}

// StartMatch starts a routepattern.match span for matching path against p.
// End the span with [Tracer.FinishMatch].
func (t *Tracer) StartMatch(ctx context.Context, p *pattern.RoutePattern, path string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanMatch,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrTemplate, p.Template()),
			attribute.String(AttrPath, path),
		),
	)
}

// FinishMatch records the outcome of a match on span and ends it.
func (t *Tracer) FinishMatch(span trace.Span, p *pattern.RoutePattern, params map[string]string, ok bool) {
	defer span.End()

	span.SetAttributes(attribute.Bool(AttrMatched, ok))

	if ok && t.recordParams && span.IsRecording() {
		keys := p.Keys()
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + params[k]
		}
		span.SetAttributes(attribute.StringSlice(AttrParams, pairs))
	}
}

// Shutdown flushes and shuts down a provider created by this Tracer.
// Global and custom providers are left to their owners. Shutdown is idempotent.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}

	if t.sdkProvider == nil {
		return nil
	}

	if err := t.sdkProvider.ForceFlush(ctx); err != nil {
		t.emitWarning("trace flush warning", "error", err)
	}

	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		t.emitError("tracer provider shutdown failed", "error", err)
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}

	t.emitDebug("Tracer provider shut down successfully")

	return nil
}

func (t *Tracer) emitError(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventError, Message: msg, Args: args})
	}
}

func (t *Tracer) emitWarning(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventWarning, Message: msg, Args: args})
	}
}

func (t *Tracer) emitInfo(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventInfo, Message: msg, Args: args})
	}
}

func (t *Tracer) emitDebug(msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: EventDebug, Message: msg, Args: args})
	}
}
