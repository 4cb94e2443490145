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

// Package tracing records OpenTelemetry spans around route compilation and
// matching.
//
// By default a [Tracer] uses the global tracer provider, so spans join
// whatever tracing the host process already has configured:
//
//	tracer := tracing.MustNew(tracing.WithServiceName("gateway"))
//	defer tracer.Shutdown(context.Background())
//
//	p, err := tracer.Compile(ctx, "/video/:id")
//	params, ok := tracer.Match(ctx, p, "/video/42")
//
// Spans:
//
//   - routepattern.compile: attributes route.template and, on success,
//     route.keys. A failed compilation records the error and sets an error status.
//   - routepattern.match: attributes route.template, url.path, route.matched
//     and route.params ("key=value" pairs in template order). Use
//     [WithoutParams] to keep parameter values out of spans.
//
// [WithStdout] writes spans to stdout for development, [WithNoop] records
// spans without exporting them, and [WithTracerProvider] accepts any
// caller-managed provider.
package tracing
