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

// Package pattern compiles route templates such as "/video/:id" into
// matchers that recognize concrete paths and extract named parameters.
//
// # Templates
//
// A template is literal text with named parameters. A named parameter is a
// ':' immediately followed by one or more characters from [A-Za-z0-9_-].
// There is no length limit and no reserved name. Everything else, including
// a lone ':' or a ':' followed by any other character, is literal and is
// matched verbatim.
//
//	/video/:id                    -> keys [id]
//	/a/:x/b/:y                    -> keys [x y]
//	/files/:name.:ext             -> keys [name ext]
//
// # Compilation
//
// [Compile] turns a template into a [RoutePattern]. Every parameter becomes
// the capture ([^/]+), literal text is quoted, and the result is anchored so
// that the whole candidate must match with at most one trailing '/':
//
//	/video/:id  ->  ^/video/([^/]+)/?$
//
// The only compile failure is a parameter name that appears twice. It is
// reported as a [*DuplicateParameterError] naming the first repeated
// parameter read from left to right. No partially built pattern is ever
// returned.
//
// # Matching
//
// [RoutePattern.Match] returns the captured values keyed by parameter name.
// A path that does not match is reported with ok == false; that is the
// normal "try the next route" outcome, not an error.
//
//	p := pattern.MustCompile("/video/:id")
//	params, ok := p.Match("/video/42/") // map[id:42], true
//	_, ok = p.Match("/video/42/extra")  // nil, false
//
// # Identity
//
// Two patterns are equal when their templates are equal. [RoutePattern.Hash]
// and [RoutePattern.Key] are derived from the template alone, so patterns
// compiled separately from the same template are interchangeable as set
// members or map keys.
//
// # Thread Safety
//
// A RoutePattern is immutable after Compile returns and may be shared by
// any number of goroutines without locking.
package pattern
