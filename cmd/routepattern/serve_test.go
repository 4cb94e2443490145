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

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routepattern/config"
	"rivaas.dev/routepattern/logging"
	"rivaas.dev/routepattern/metrics"
	"rivaas.dev/routepattern/tracing"
)

func newTestServer(t *testing.T, recorderOpts ...metrics.Option) (http.Handler, error) {
	t.Helper()

	e := &env{
		logger:   logging.MustNew(logging.WithOutput(io.Discard)),
		tracer:   tracing.MustNew(tracing.WithNoop()),
		recorder: metrics.MustNew(recorderOpts...),
	}
	t.Cleanup(func() { _ = e.shutdown(context.Background()) })

	table, err := config.Decode([]byte(`routes:
  - name: video
    template: /video/:id
  - name: comment
    template: /posts/:post/comments/:comment
  - template: /about
`), "yaml")
	require.NoError(t, err)

	set, err := table.Compile()
	require.NoError(t, err)

	return newServer(e, table, set)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	h, err := newTestServer(t)
	require.NoError(t, err)

	rec := get(t, h, "/routes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var views []routeView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 3)
	assert.Equal(t, routeView{Name: "video", Template: "/video/:id", Pattern: "^/video/([^/]+)/?$", Keys: []string{"id"}}, views[0])
	assert.Equal(t, "/about", views[2].Template)
}

func TestServer_Match(t *testing.T) {
	t.Parallel()

	h, err := newTestServer(t)
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{
			name:     "match",
			target:   "/routes/comment/match?path=/posts/1/comments/2",
			wantCode: http.StatusOK,
			wantBody: `{"matched":true,"params":{"comment":"2","post":"1"}}`,
		},
		{
			name:     "trailing slash",
			target:   "/routes/video/match?path=/video/42/",
			wantCode: http.StatusOK,
			wantBody: `{"matched":true,"params":{"id":"42"}}`,
		},
		{
			name:     "no match",
			target:   "/routes/video/match?path=/video/",
			wantCode: http.StatusOK,
			wantBody: `{"matched":false}`,
		},
		{
			name:     "missing path",
			target:   "/routes/video/match",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"missing path query parameter"}`,
		},
		{
			name:     "unknown route",
			target:   "/routes/nope/match?path=/video/1",
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"unknown route"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := get(t, h, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestServer_Build(t *testing.T) {
	t.Parallel()

	h, err := newTestServer(t)
	require.NoError(t, err)

	rec := get(t, h, "/routes/comment/build?post=7&comment=9&extra=x")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/posts/7/comments/9"}`, rec.Body.String())

	rec = get(t, h, "/routes/comment/build?post=7")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing required parameter")
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	h, err := newTestServer(t)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, get(t, h, "/routes/video/match?path=/video/1").Code)

	rec := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "routepattern_match_total")
}

func TestServer_RequiresPrometheus(t *testing.T) {
	t.Parallel()

	_, err := newTestServer(t, metrics.WithStdout(), metrics.WithStdoutWriter(io.Discard))
	require.ErrorIs(t, err, metrics.ErrHandlerUnavailable)
}
