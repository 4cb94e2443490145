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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeKeys_Unique(t *testing.T) {
	t.Parallel()

	keys := []string{
		ServiceName, ServiceVersion,
		RouteTemplate, RoutePattern, RouteKeys, RouteMatched, RouteParams, RouteSource, RouteCount,
		URLPath, TraceID, SpanID,
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestRouteTemplate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "route.template", RouteTemplate)
	assert.Equal(t, "url.path", URLPath)
}
