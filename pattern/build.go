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

import (
	"fmt"
	"strings"
)

// Build fills every parameter of the template with its value from params
// and returns the resulting path. Literal text is copied verbatim and
// values are written as given, without escaping.
//
// A missing key fails with [ErrMissingParameter]. An empty value, or one
// containing '/', fails with [ErrInvalidParameterValue] because ([^/]+)
// could never match it. Keys not used by the template are ignored.
//
// Values that [RoutePattern.Match] would split differently, such as "b.c"
// for ext in "/files/:name.:ext", also fail with [ErrInvalidParameterValue],
// so Match on the result always returns exactly the values used.
func (p *RoutePattern) Build(params map[string]string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(p.template))

	for _, seg := range p.segments {
		if seg.static {
			buf.WriteString(seg.value)
			continue
		}

		val, ok := params[seg.value]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrMissingParameter, seg.value)
		}
		if val == "" || strings.IndexByte(val, '/') >= 0 {
			return "", fmt.Errorf("%w: %s=%q", ErrInvalidParameterValue, seg.value, val)
		}
		buf.WriteString(val)
	}

	path := buf.String()
	if err := p.verifyBuild(path, params); err != nil {
		return "", err
	}

	return path, nil
}

// verifyBuild checks that matching path captures params unchanged.
func (p *RoutePattern) verifyBuild(path string, params map[string]string) error {
	values, ok := p.MatchValues(path)
	if !ok {
		return fmt.Errorf("%w: %q does not match %s", ErrInvalidParameterValue, path, p.template)
	}
	for i, key := range p.keys {
		if values[i] != params[key] {
			return fmt.Errorf("%w: %s=%q is captured as %q", ErrInvalidParameterValue, key, params[key], values[i])
		}
	}

	return nil
}

// MustBuild is like [RoutePattern.Build] but panics on error.
func (p *RoutePattern) MustBuild(params map[string]string) string {
	path, err := p.Build(params)
	if err != nil {
		panic(fmt.Sprintf("MustBuild failed: %v", err))
	}

	return path
}
