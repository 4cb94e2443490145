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

package semconv

// Service metadata, set once per process.
const (
	ServiceName    = "service.name"
	ServiceVersion = "service.version"
)

// Route attributes.
const (
	// RouteTemplate is the template a pattern was compiled from (e.g. "/video/:id").
	RouteTemplate = "route.template"

	// RoutePattern is the compiled regular expression source.
	RoutePattern = "route.pattern"

	// RouteKeys lists the parameter names in template order.
	RouteKeys = "route.keys"

	// RouteMatched reports whether a path matched the template.
	RouteMatched = "route.matched"

	// RouteParams lists the extracted parameters as "key=value" pairs.
	RouteParams = "route.params"

	// RouteSource is the file or format a route table was read from.
	RouteSource = "route.source"

	// RouteCount is the number of routes in a table.
	RouteCount = "route.count"
)

// URLPath is the request path that was matched (e.g. "/video/42").
const URLPath = "url.path"

// Trace correlation keys added to log records by logging.ContextLogger.
const (
	TraceID = "trace_id"
	SpanID  = "span_id"
)
