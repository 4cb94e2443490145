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
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rivaas.dev/routepattern/pattern"
)

// Compile result attribute values.
const (
	ResultOK                 = "ok"
	ResultDuplicateParameter = "duplicate_parameter"
	ResultError              = "error"
)

// Attribute keys.
const (
	attrResult  = "result"
	attrRoute   = "route"
	attrMatched = "matched"
)

func (r *Recorder) initializeMetrics() error {
	var err error

	r.compileCount, err = r.meter.Int64Counter(
		"routepattern_compile_total",
		metric.WithDescription("Total number of route template compilations"),
	)
	if err != nil {
		return fmt.Errorf("failed to create compile counter: %w", err)
	}

	r.matchCount, err = r.meter.Int64Counter(
		"routepattern_match_total",
		metric.WithDescription("Total number of path match attempts"),
	)
	if err != nil {
		return fmt.Errorf("failed to create match counter: %w", err)
	}

	r.matchDuration, err = r.meter.Float64Histogram(
		"routepattern_match_duration_seconds",
		metric.WithDescription("Duration of path matching in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create match duration histogram: %w", err)
	}

	return nil
}

// Compile compiles template with [pattern.Compile] and counts the outcome.
func (r *Recorder) Compile(ctx context.Context, template string) (*pattern.RoutePattern, error) {
	p, err := pattern.Compile(template)
	r.RecordCompile(ctx, template, err)

	return p, err
}

// RecordCompile counts a compilation of template that finished with err.
// Use it when the compilation itself happens elsewhere.
func (r *Recorder) RecordCompile(ctx context.Context, template string, err error) {
	result := compileResult(err)
	r.compileCount.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))

	if err != nil {
		r.emitDebug("route compile failed", "template", template, "result", result, "error", err)
	}
}

// Match matches path against p and records the attempt and its duration
// under p's template.
func (r *Recorder) Match(ctx context.Context, p *pattern.RoutePattern, path string) (map[string]string, bool) {
	start := time.Now()
	params, ok := p.Match(path)
	r.RecordMatch(ctx, p.Template(), ok, time.Since(start))

	return params, ok
}

// RecordMatch records one match attempt against template.
func (r *Recorder) RecordMatch(ctx context.Context, template string, matched bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrRoute, template),
		attribute.Bool(attrMatched, matched),
	)
	r.matchCount.Add(ctx, 1, attrs)
	r.matchDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func compileResult(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, pattern.ErrDuplicateParameter):
		return ResultDuplicateParameter
	default:
		return ResultError
	}
}
