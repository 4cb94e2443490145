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
	"fmt"
	"io"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const meterName = "rivaas.dev/routepattern/metrics"

type stdoutConfig struct {
	writer io.Writer
	pretty bool
}

func (r *Recorder) initializeProvider() error {
	if r.customMeterProvider {
		if r.meterProvider == nil {
			return ErrNilMeterProvider
		}
		r.emitDebug("Using custom user-provided meter provider")
		r.meter = r.meterProvider.Meter(meterName)
		return r.initializeMetrics()
	}

	var (
		reader sdkmetric.Reader
		err    error
	)

	switch r.provider {
	case PrometheusProvider:
		reader, err = r.newPrometheusReader()
	case StdoutProvider:
		reader, err = r.newStdoutReader()
	case OTLPProvider:
		reader, err = r.newOTLPReader()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, r.provider)
	}
	if err != nil {
		return err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(r.resource()),
	)
	r.meterProvider = mp

	if r.registerGlobal {
		r.emitDebug("Setting global OpenTelemetry meter provider", "provider", r.provider)
		otel.SetMeterProvider(mp)
	}

	r.meter = mp.Meter(meterName)

	return r.initializeMetrics()
}

func (r *Recorder) resource() *resource.Resource {
	return resource.NewSchemaless(
		attribute.String("service.name", r.serviceName),
		attribute.String("service.version", r.serviceVersion),
	)
}

// newPrometheusReader registers the exporter on a private registry so
// several recorders can coexist in one process.
func (r *Recorder) newPrometheusReader() (sdkmetric.Reader, error) {
	r.prometheusRegistry = promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(r.prometheusRegistry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.prometheusHandler = promhttp.HandlerFor(r.prometheusRegistry, promhttp.HandlerOpts{})

	return exporter, nil
}

func (r *Recorder) newStdoutReader() (sdkmetric.Reader, error) {
	var opts []stdoutmetric.Option
	if r.stdoutOptions.writer != nil {
		opts = append(opts, stdoutmetric.WithWriter(r.stdoutOptions.writer))
	}
	if r.stdoutOptions.pretty {
		opts = append(opts, stdoutmetric.WithPrettyPrint())
	}

	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)), nil
}

func (r *Recorder) newOTLPReader() (sdkmetric.Reader, error) {
	var opts []otlpmetrichttp.Option
	if r.otlpEndpoint != "" {
		hostPort, insecure := splitEndpoint(r.otlpEndpoint)
		opts = append(opts, otlpmetrichttp.WithEndpoint(hostPort))
		if insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
	}

	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	r.emitInfo("OTLP metrics exporter created", "endpoint", r.otlpEndpoint, "interval", r.exportInterval)

	return sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval)), nil
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
