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
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	otelsemconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const tracerName = "rivaas.dev/routepattern/tracing"

type stdoutConfig struct {
	writer io.Writer
	pretty bool
}

func (t *Tracer) initializeProvider() error {
	switch t.provider {
	case GlobalProvider:
		t.tracerProvider = otel.GetTracerProvider()
	case CustomProvider:
		t.emitDebug("Using custom user-provided tracer provider")
	case NoopProvider:
		t.useSDKProvider(sdktrace.NewTracerProvider(t.sdkOptions()...))
	case StdoutProvider:
		if err := t.initStdoutProvider(); err != nil {
			return err
		}
	case OTLPProvider, OTLPHTTPProvider:
		if err := t.initOTLPProvider(context.Background()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, t.provider)
	}

	t.tracer = t.tracerProvider.Tracer(tracerName)
	t.emitInfo("Tracing initialized", "provider", t.provider, "service", t.serviceName)

	return nil
}

func (t *Tracer) initStdoutProvider() error {
	var opts []stdouttrace.Option
	if t.stdoutOptions.writer != nil {
		opts = append(opts, stdouttrace.WithWriter(t.stdoutOptions.writer))
	}
	if t.stdoutOptions.pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}

	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	t.useSDKProvider(sdktrace.NewTracerProvider(
		append(t.sdkOptions(), sdktrace.WithBatcher(exporter))...,
	))

	return nil
}

// initOTLPProvider creates the exporter without dialing; the first export
// connects to the collector.
func (t *Tracer) initOTLPProvider(ctx context.Context) error {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	if t.provider == OTLPProvider {
		var opts []otlptracegrpc.Option
		if t.otlpEndpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
		}
		if t.otlpInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	} else {
		var opts []otlptracehttp.Option
		if t.otlpEndpoint != "" {
			hostPort, insecure := splitEndpoint(t.otlpEndpoint)
			opts = append(opts, otlptracehttp.WithEndpoint(hostPort))
			if insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s exporter: %w", t.provider, err)
	}

	t.useSDKProvider(sdktrace.NewTracerProvider(
		append(t.sdkOptions(), sdktrace.WithBatcher(exporter))...,
	))
	t.emitDebug("OTLP exporter created", "provider", t.provider, "endpoint", t.otlpEndpoint)

	return nil
}

// splitEndpoint strips the scheme and path from endpoint. insecure reports
// whether the scheme was plain http.
func splitEndpoint(endpoint string) (hostPort string, insecure bool) {
	hostPort = endpoint
	if rest, ok := strings.CutPrefix(hostPort, "http://"); ok {
		hostPort, insecure = rest, true
	} else if rest, ok := strings.CutPrefix(hostPort, "https://"); ok {
		hostPort = rest
	}
	if i := strings.IndexByte(hostPort, '/'); i != -1 {
		hostPort = hostPort[:i]
	}

	return hostPort, insecure
}

func (t *Tracer) sdkOptions() []sdktrace.TracerProviderOption {
	return []sdktrace.TracerProviderOption{
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}
}

func (t *Tracer) useSDKProvider(tp *sdktrace.TracerProvider) {
	t.sdkProvider = tp
	t.tracerProvider = tp

	if t.registerGlobal {
		t.emitDebug("Setting global OpenTelemetry tracer provider", "provider", t.provider)
		otel.SetTracerProvider(tp)
	}
}

func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		otelsemconv.SchemaURL,
		otelsemconv.ServiceName(serviceName),
		otelsemconv.ServiceVersion(serviceVersion),
	)
}
