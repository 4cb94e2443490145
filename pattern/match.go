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

package pattern

import "strings"

// Match reports whether path matches p and returns the captured parameter
// values keyed by name. The whole path must match; a single trailing '/' is
// tolerated. A path that does not match returns nil, false.
//
// The returned map is freshly allocated on every call.
func (p *RoutePattern) Match(path string) (map[string]string, bool) {
	values, ok := p.MatchValues(path)
	if !ok {
		return nil, false
	}

	params := make(map[string]string, len(p.keys))
	for i, key := range p.keys {
		params[key] = values[i]
	}

	return params, true
}

// MatchValues is like [RoutePattern.Match] but returns the captured values in
// the order of [RoutePattern.Keys].
func (p *RoutePattern) MatchValues(path string) ([]string, bool) {
	if p.re == nil {
		values := make([]string, 0, len(p.keys))
		return matchSegments(p.segments, path, values)
	}

	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	return m[1:], true
}

// MatchString reports whether path matches p without extracting parameters.
func (p *RoutePattern) MatchString(path string) bool {
	if p.re == nil {
		_, ok := matchSegments(p.segments, path, nil)
		return ok
	}

	return p.re.MatchString(path)
}

// matchSegments matches path byte-wise against segs the way the compiled
// expression would: literals match exactly, a parameter takes the longest
// run of non-'/' bytes that lets the rest match, and at most one trailing
// '/' may remain. Captured values are appended to values.
func matchSegments(segs []segment, path string, values []string) ([]string, bool) {
	if len(segs) == 0 {
		if path == "" || path == "/" {
			return values, true
		}
		return nil, false
	}

	seg := segs[0]
	if seg.static {
		rest, ok := strings.CutPrefix(path, seg.value)
		if !ok {
			return nil, false
		}
		return matchSegments(segs[1:], rest, values)
	}

	end := strings.IndexByte(path, '/')
	if end < 0 {
		end = len(path)
	}
	for n := end; n > 0; n-- {
		if got, ok := matchSegments(segs[1:], path[n:], append(values, path[:n])); ok {
			return got, true
		}
	}

	return nil, false
}
