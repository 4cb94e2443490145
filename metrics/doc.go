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

// Package metrics records OpenTelemetry metrics for route compilation and
// matching.
//
// A [Recorder] exports through Prometheus (the default), stdout, or a
// caller-supplied [metric.MeterProvider]:
//
//	recorder := metrics.MustNew(metrics.WithServiceName("gateway"))
//	defer recorder.Shutdown(context.Background())
//
//	p, err := recorder.Compile(ctx, "/video/:id")
//	params, ok := recorder.Match(ctx, p, "/video/42")
//
//	handler, _ := recorder.Handler()
//	http.Handle("/metrics", handler)
//
// Instruments:
//
//   - routepattern_compile_total: compilations, by result
//     ("ok" or "duplicate_parameter")
//   - routepattern_match_total: match attempts, by route template and outcome
//   - routepattern_match_duration_seconds: match latency, by route template and outcome
//
// The global meter provider is left untouched unless
// [WithGlobalMeterProvider] is given.
package metrics
