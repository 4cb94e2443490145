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

// Package semconv defines the attribute keys shared by the logs and spans
// this module emits, so a log line and the span it belongs to can be
// joined on the same names.
//
// Keys follow OpenTelemetry semantic conventions where one exists
// (url.path, service.name) and use a route.* namespace otherwise:
//
//	logger.Info("route matched",
//	    semconv.RouteTemplate, "/video/:id",
//	    semconv.URLPath, "/video/42",
//	    semconv.RouteMatched, true,
//	)
//
// Reference: https://opentelemetry.io/docs/specs/semconv/
package semconv
