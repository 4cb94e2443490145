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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Tracer].
type Option func(*Tracer)

// WithTracerProvider records spans through a caller-managed provider.
// [Tracer.Shutdown] does not shut it down.
//
// Example:
//
//	sr := tracetest.NewSpanRecorder()
//	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
//	tracer := tracing.MustNew(tracing.WithTracerProvider(tp))
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.provider = CustomProvider
		t.providerSetCount++
		t.tracerProvider = provider
	}
}

// WithGlobalTracerProvider registers the provider created by [WithStdout],
// [WithOTLP], [WithOTLPHTTP] or [WithNoop] through otel.SetTracerProvider.
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithSampleRate sets the sampling rate (0.0 to 1.0) of providers created
// by this package. Values outside this range are clamped.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) {
		t.sampleRate = min(max(rate, 0.0), 1.0)
	}
}

// WithoutParams keeps matched parameter values out of match spans.
func WithoutParams() Option {
	return func(t *Tracer) {
		t.recordParams = false
	}
}

// WithStdout exports spans as JSON to stdout.
func WithStdout() Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		t.providerSetCount++
	}
}

// OTLPOption configures the OTLP/gRPC provider.
type OTLPOption func(*Tracer)

// OTLPInsecure disables TLS for the gRPC connection.
func OTLPInsecure() OTLPOption {
	return func(t *Tracer) {
		t.otlpInsecure = true
	}
}

// WithOTLP exports spans to an OTLP/gRPC collector at endpoint (host:port).
// An empty endpoint uses the exporter's environment defaults.
//
// Example:
//
//	tracer := tracing.MustNew(
//	    tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure()),
//	)
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.providerSetCount++
		t.otlpEndpoint = endpoint
		for _, opt := range opts {
			opt(t)
		}
	}
}

// WithOTLPHTTP exports spans to an OTLP/HTTP collector. endpoint may carry
// a scheme; "http://" disables TLS and any path is dropped.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.providerSetCount++
		t.otlpEndpoint = endpoint
	}
}

// WithStdoutWriter sets where the stdout provider writes (default os.Stdout).
func WithStdoutWriter(w io.Writer) Option {
	return func(t *Tracer) {
		t.stdoutOptions.writer = w
	}
}

// WithPrettyPrint indents the stdout provider's JSON output.
func WithPrettyPrint() Option {
	return func(t *Tracer) {
		t.stdoutOptions.pretty = true
	}
}

// WithNoop records spans without exporting them.
func WithNoop() Option {
	return func(t *Tracer) {
		t.provider = NoopProvider
		t.providerSetCount++
	}
}

// WithEventHandler sets a custom [EventHandler] for internal operational events.
func WithEventHandler(handler EventHandler) Option {
	return func(t *Tracer) {
		t.eventHandler = handler
	}
}

// WithLogger logs internal operational events to logger through
// [DefaultEventHandler].
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(DefaultEventHandler(logger))
}
