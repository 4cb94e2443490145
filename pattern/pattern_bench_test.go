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

//go:build !integration

package pattern

import "testing"

// BenchmarkCompile benchmarks template compilation.
func BenchmarkCompile(b *testing.B) {
	b.Run("StaticRoute", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_, _ = Compile("/api/users")
		}
	})

	b.Run("DynamicRoute", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_, _ = Compile("/api/users/:id/posts/:pid")
		}
	})
}

// BenchmarkRoutePattern_Match benchmarks matching with parameter extraction.
func BenchmarkRoutePattern_Match(b *testing.B) {
	p := MustCompile("/api/users/:id/posts/:pid")

	b.Run("Hit", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_, _ = p.Match("/api/users/123/posts/456")
		}
	})

	b.Run("Miss", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_, _ = p.Match("/api/users/123/comments/456")
		}
	})

	b.Run("MatchString", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			_ = p.MatchString("/api/users/123/posts/456")
		}
	})
}
