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
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

const (
	// Wildcard is the capture emitted for every named parameter.
	Wildcard = `([^/]+)`

	// trailer tolerates a single trailing separator and anchors the end.
	trailer = `/?$`
)

// paramRegexp finds named parameters in a template.
var paramRegexp = regexp.MustCompile(`:[A-Za-z0-9_-]+`)

// segment is one piece of a template: literal text or a parameter name.
type segment struct {
	static bool
	value  string
}

// RoutePattern is a compiled route template.
//
// Identity is the template string only. The compiled pattern and the
// parameter keys are derived from it and never take part in [RoutePattern.Equal]
// or [RoutePattern.Hash].
type RoutePattern struct {
	template string
	pattern  string
	keys     []string
	segments []segment
	re       *regexp.Regexp // nil when the template is not valid UTF-8
	hash     uint64
}

// Compile parses template and returns its RoutePattern.
//
// Parameters are collected against the raw template and the pattern is
// built in a single left-to-right pass. The first parameter name seen twice
// aborts compilation with a [*DuplicateParameterError]; nothing else about
// the template is validated.
//
// Templates that are not valid UTF-8 still compile. Their [RoutePattern.Pattern]
// is reported as usual, but since package regexp cannot represent raw bytes,
// matching walks the template segments instead, with the same semantics.
func Compile(template string) (*RoutePattern, error) {
	locs := paramRegexp.FindAllStringIndex(template, -1)

	keys := make([]string, 0, len(locs))
	seen := make(map[string]struct{}, len(locs))
	segments := make([]segment, 0, 2*len(locs)+1)

	var b strings.Builder
	b.Grow(len(template) + len(locs)*len(Wildcard) + len(trailer) + 1)
	b.WriteByte('^')

	last := 0
	for _, loc := range locs {
		name := template[loc[0]+1 : loc[1]]
		if _, dup := seen[name]; dup {
			return nil, &DuplicateParameterError{Route: template, Parameter: name}
		}
		seen[name] = struct{}{}
		keys = append(keys, name)

		if lit := template[last:loc[0]]; lit != "" {
			segments = append(segments, segment{static: true, value: lit})
			b.WriteString(regexp.QuoteMeta(lit))
		}
		segments = append(segments, segment{value: name})
		b.WriteString(Wildcard)
		last = loc[1]
	}

	if lit := template[last:]; lit != "" {
		segments = append(segments, segment{static: true, value: lit})
		b.WriteString(regexp.QuoteMeta(lit))
	}
	b.WriteString(trailer)

	compiled := b.String()

	var re *regexp.Regexp
	if utf8.ValidString(template) {
		// Literals are quoted, so this cannot fail.
		re = regexp.MustCompile(compiled)
	}

	return &RoutePattern{
		template: template,
		pattern:  compiled,
		keys:     keys,
		segments: segments,
		re:       re,
		hash:     HashTemplate(template),
	}, nil
}

// MustCompile is like [Compile] but panics if the template cannot be compiled.
// It simplifies safe initialization of package-level route tables.
func MustCompile(template string) *RoutePattern {
	p, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("pattern: Compile(%q): %v", template, err))
	}

	return p
}

// Template returns the template the pattern was compiled from (e.g., "/video/:id").
func (p *RoutePattern) Template() string {
	return p.template
}

// Pattern returns the anchored regular expression source (e.g., "^/video/([^/]+)/?$").
func (p *RoutePattern) Pattern() string {
	return p.pattern
}

// Keys returns the parameter names in the order they appear in the template.
// The returned slice is a copy.
func (p *RoutePattern) Keys() []string {
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)

	return keys
}

// NumParams returns the number of named parameters.
func (p *RoutePattern) NumParams() int {
	return len(p.keys)
}

// IsStatic reports whether the template has no named parameters.
func (p *RoutePattern) IsStatic() bool {
	return len(p.keys) == 0
}

// String returns the template.
func (p *RoutePattern) String() string {
	return p.template
}

// Equal reports whether p and other were compiled from the same template.
// Two nil patterns are equal; a nil and a non-nil pattern are not.
func (p *RoutePattern) Equal(other *RoutePattern) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.template == other.template
}

// Hash returns a hash of the template. Equal patterns have equal hashes.
func (p *RoutePattern) Hash() uint64 {
	return p.hash
}

// HashTemplate returns the hash a pattern compiled from template would have.
// It lets containers look up a template without compiling it.
func HashTemplate(template string) uint64 {
	return xxhash.Sum64String(template)
}

// Key returns the identity of p for use as a Go map key.
func (p *RoutePattern) Key() string {
	return p.template
}

// Equal reports whether a and b were compiled from the same template.
func Equal(a, b *RoutePattern) bool {
	return a.Equal(b)
}
