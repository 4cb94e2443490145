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

// Package routeset holds compiled route patterns keyed by their template
// identity and rejects duplicate declarations.
//
// A Set does not dispatch: it never chooses a route for a path. It is the
// uniqueness-checking container a route table is built into.
//
//	set, _ := routeset.New()
//	_, err := set.AddTemplate("/video/:id")
//	_, err = set.AddTemplate("/video/:id") // errors.Is(err, routeset.ErrDuplicateRoute)
package routeset

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"rivaas.dev/routepattern/pattern"
)

const (
	// DefaultBloomSize is the default number of bloom filter bits.
	DefaultBloomSize = 1000

	// DefaultBloomHashFuncs is the default number of bloom hash functions.
	DefaultBloomHashFuncs = 3

	// minRoutesForBloom is the table size below which the bloom filter is skipped.
	minRoutesForBloom = 10
)

// Option configures a Set.
type Option func(*Set)

// WithBloomFilter sets the bloom filter size in bits and its number of hash functions.
func WithBloomFilter(size uint64, hashFuncs int) Option {
	return func(s *Set) {
		s.bloomSize = size
		s.bloomHashFuncs = hashFuncs
	}
}

// WithCompiler replaces [pattern.Compile] in [Set.AddTemplate]. A nil
// compile leaves the default in place.
func WithCompiler(compile func(template string) (*pattern.RoutePattern, error)) Option {
	return func(s *Set) {
		if compile != nil {
			s.compile = compile
		}
	}
}

// Set is a collection of route patterns in which no two patterns share a
// template. Membership uses [pattern.RoutePattern.Hash] with a template
// comparison on collision.
//
// Set is safe for concurrent use.
type Set struct {
	bloomSize      uint64
	bloomHashFuncs int
	compile        func(string) (*pattern.RoutePattern, error)

	mu      sync.RWMutex
	byHash  map[uint64][]*pattern.RoutePattern
	ordered []*pattern.RoutePattern // Declaration order
	bloom   *BloomFilter
}

// New creates an empty Set.
func New(opts ...Option) (*Set, error) {
	s := &Set{
		bloomSize:      DefaultBloomSize,
		bloomHashFuncs: DefaultBloomHashFuncs,
		compile:        pattern.Compile,
		byHash:         make(map[uint64][]*pattern.RoutePattern, 64),
	}

	for _, opt := range opts {
		opt(s)
	}

	bloom, err := NewBloomFilter(s.bloomSize, s.bloomHashFuncs)
	if err != nil {
		return nil, fmt.Errorf("routeset: %w", err)
	}
	s.bloom = bloom

	return s, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Set {
	s, err := New(opts...)
	if err != nil {
		panic(err.Error())
	}

	return s
}

// Add inserts p. It fails with [ErrDuplicateRoute] when a pattern with the
// same template is already present; the existing pattern is kept.
func (s *Set) Add(p *pattern.RoutePattern) error {
	if p == nil {
		return ErrNilPattern
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookup(p.Hash(), p.Template()) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateRoute, p.Template())
	}

	s.byHash[p.Hash()] = append(s.byHash[p.Hash()], p)
	s.ordered = append(s.ordered, p)
	s.bloom.Add(p.Hash())

	return nil
}

// AddTemplate compiles template and adds the result. Compile errors such as
// [*pattern.DuplicateParameterError] are returned unchanged.
func (s *Set) AddTemplate(template string) (*pattern.RoutePattern, error) {
	p, err := s.compile(template)
	if err != nil {
		return nil, err
	}

	if err := s.Add(p); err != nil {
		return nil, err
	}

	return p, nil
}

// Get returns the pattern declared with template, or nil.
func (s *Set) Get(template string) *pattern.RoutePattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(template)
}

// Contains reports whether a pattern with template is present.
func (s *Set) Contains(template string) bool {
	return s.Get(template) != nil
}

// Remove deletes the pattern declared with template and reports whether it was present.
func (s *Set) Remove(template string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := pattern.HashTemplate(template)
	bucket := s.byHash[hash]

	i := slices.IndexFunc(bucket, func(p *pattern.RoutePattern) bool { return p.Template() == template })
	if i < 0 {
		return false
	}

	if len(bucket) == 1 {
		delete(s.byHash, hash)
	} else {
		s.byHash[hash] = slices.Delete(bucket, i, i+1)
	}

	s.ordered = slices.DeleteFunc(s.ordered, func(p *pattern.RoutePattern) bool { return p.Template() == template })

	return true
}

// Len returns the number of patterns.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.ordered)
}

// Patterns returns the patterns in declaration order.
func (s *Set) Patterns() []*pattern.RoutePattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.ordered)
}

// All iterates over a snapshot of the patterns in declaration order.
func (s *Set) All() iter.Seq[*pattern.RoutePattern] {
	patterns := s.Patterns()

	return func(yield func(*pattern.RoutePattern) bool) {
		for _, p := range patterns {
			if !yield(p) {
				return
			}
		}
	}
}

// find looks template up, consulting the bloom filter first on large tables.
// Must be called with at least a read lock held.
func (s *Set) find(template string) *pattern.RoutePattern {
	if len(s.ordered) == 0 {
		return nil
	}

	hash := pattern.HashTemplate(template)

	// Bloom filter overhead isn't worth it for small tables
	if len(s.ordered) >= minRoutesForBloom && !s.bloom.Test(hash) {
		return nil
	}

	return s.lookup(hash, template)
}

// lookup must be called with at least a read lock held.
func (s *Set) lookup(hash uint64, template string) *pattern.RoutePattern {
	for _, p := range s.byHash[hash] {
		if p.Template() == template {
			return p
		}
	}

	return nil
}
