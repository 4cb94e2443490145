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
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routepattern/config"
	"rivaas.dev/routepattern/config/codec"
	"rivaas.dev/routepattern/logging"
	"rivaas.dev/routepattern/pattern"
	"rivaas.dev/routepattern/routeset"
	"rivaas.dev/routepattern/telemetry/semconv"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeTable(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestCompileCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, "compile", "/posts/:post/comments/:comment", "/about")
	require.NoError(t, err)

	assert.Equal(t, `/posts/:post/comments/:comment
  pattern: ^/posts/([^/]+)/comments/([^/]+)/?$
  keys:    post, comment
/about
  pattern: ^/about/?$
  keys:    (none)
`, stdout)
}

func TestCompileCmd_DuplicateParameter(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "compile", "/:x/:x")
	require.ErrorIs(t, err, pattern.ErrDuplicateParameter)
}

func TestCompileCmd_NoArgs(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "compile")
	require.Error(t, err)
}

func TestMatchCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "matches and misses",
			args: []string{"match", "/video/:id", "/video/42", "/video/42/", "/audio/42"},
			want: "/video/42\t{\"id\":\"42\"}\n/video/42/\t{\"id\":\"42\"}\n/audio/42\tno match\n",
		},
		{
			name: "static template",
			args: []string{"match", "/about", "/about"},
			want: "/about\t{}\n",
		},
		{
			name: "strict all matched",
			args: []string{"match", "--strict", "/users/:id", "/users/7"},
			want: "/users/7\t{\"id\":\"7\"}\n",
		},
		{
			name:    "strict with miss",
			args:    []string{"match", "--strict", "/users/:id", "/users"},
			want:    "/users\tno match\n",
			wantErr: errNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := run(t, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestBuildCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, "build", "/posts/:post/comments/:comment", "post=a1", "comment=b2")
	require.NoError(t, err)
	assert.Equal(t, "/posts/a1/comments/b2\n", stdout)

	_, _, err = run(t, "build", "/video/:id")
	require.ErrorIs(t, err, pattern.ErrMissingParameter)

	_, _, err = run(t, "build", "/video/:id", "id")
	require.ErrorContains(t, err, "want key=value")
}

func TestCheckCmd(t *testing.T) {
	t.Parallel()

	t.Run("valid yaml", func(t *testing.T) {
		t.Parallel()

		path := writeTable(t, "routes.yaml", `routes:
  - name: video
    template: /video/:id
    examples: [/video/42]
  - name: about
    template: /about
`)
		stdout, _, err := run(t, "check", path)
		require.NoError(t, err)
		assert.Equal(t, path+": 2 routes ok\n", stdout)
	})

	t.Run("format override", func(t *testing.T) {
		t.Parallel()

		path := writeTable(t, "routes.conf", `{"routes": [{"template": "/a/:b"}]}`)
		stdout, _, err := run(t, "check", "--format", "json", path)
		require.NoError(t, err)
		assert.Equal(t, path+": 1 routes ok\n", stdout)
	})

	t.Run("routes table", func(t *testing.T) {
		t.Parallel()

		path := writeTable(t, "routes.yaml", `routes:
  - name: video
    template: /video/:id
  - template: /about
`)
		stdout, _, err := run(t, "--no-color", "check", "--table", path)
		require.NoError(t, err)
		assert.NotContains(t, stdout, "\x1b[")
		for _, cell := range []string{"Name", "Template", "Pattern", "Keys", "video", "/video/:id", "/about", "id"} {
			assert.Contains(t, stdout, cell)
		}
		assert.Contains(t, stdout, path+": 2 routes ok\n")
	})

	t.Run("duplicate route", func(t *testing.T) {
		t.Parallel()

		path := writeTable(t, "routes.toml", `[[routes]]
template = "/video/:id"

[[routes]]
template = "/video/:id"
`)
		_, _, err := run(t, "check", path)

		var cfgErr *config.Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "routes[1]", cfgErr.Field)
		require.ErrorIs(t, err, routeset.ErrDuplicateRoute)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := run(t, "check", "--format", "yaml", filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("duplicate parameter is counted", func(t *testing.T) {
		t.Parallel()

		path := writeTable(t, "routes.yaml", `routes:
  - template: /video/:id
  - template: /dup/:n/:n
`)
		_, stderr, err := run(t, "--metrics", "--trace", "check", path)

		var dupErr *pattern.DuplicateParameterError
		require.ErrorAs(t, err, &dupErr)
		assert.Contains(t, stderr, "routepattern_compile_total")
		assert.Contains(t, stderr, "duplicate_parameter")
		assert.Contains(t, stderr, "routepattern.compile")
		assert.Contains(t, stderr, "/dup/:n/:n")
	})
}

func TestCheckCmd_Dump(t *testing.T) {
	t.Parallel()

	const table = `routes:
  - name: video
    template: /video/:id
    examples: [/video/42]
  - template: /about
`

	for _, typ := range []codec.Type{codec.TypeJSON, codec.TypeYAML, codec.TypeTOML} {
		t.Run(string(typ), func(t *testing.T) {
			t.Parallel()

			path := writeTable(t, "routes.yaml", table)
			stdout, _, err := run(t, "check", "--dump", string(typ), path)
			require.NoError(t, err)
			assert.NotContains(t, stdout, "routes ok")

			got, err := config.Decode([]byte(stdout), typ)
			require.NoError(t, err)
			assert.Equal(t, []config.RouteEntry{
				{Name: "video", Template: "/video/:id", Examples: []string{"/video/42"}},
				{Template: "/about"},
			}, got.Routes)
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		path := writeTable(t, "routes.yaml", table)
		_, _, err := run(t, "check", "--dump", "xml", path)
		require.ErrorIs(t, err, codec.ErrCodecNotFound)
	})
}

func TestGlobalFlags_Logging(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "--log-level", "debug", "--log-format", "json", "compile", "/video/:id")
	require.NoError(t, err)

	entries, err := logging.ParseJSONLogEntries(bytes.NewBufferString(stderr))
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if e.Message == "route compiled" {
			found = true
			assert.Equal(t, "/video/:id", e.Attrs[semconv.RouteTemplate])
			assert.Equal(t, "routepattern", e.Attrs[semconv.ServiceName])
		}
	}
	assert.True(t, found, "route compiled entry not logged")
}

func TestGlobalFlags_TraceCorrelatesLogs(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "--trace", "--log-level", "debug", "--log-format", "json",
		"match", "/video/:id", "/video/42")
	require.NoError(t, err)

	// Spans are pretty-printed to the same stream; keep only log lines.
	var logs bytes.Buffer
	for line := range strings.Lines(stderr) {
		if strings.HasPrefix(line, "{") && strings.Contains(line, `"msg":`) {
			logs.WriteString(line)
		}
	}

	entries, err := logging.ParseJSONLogEntries(&logs)
	require.NoError(t, err)

	traceIDs := make(map[string]string)
	for _, e := range entries {
		if e.Message == "route compiled" || e.Message == "route match" {
			id, _ := e.Attrs[semconv.TraceID].(string)
			traceIDs[e.Message] = id
			assert.NotEmpty(t, e.Attrs[semconv.SpanID], e.Message)
		}
	}

	require.Len(t, traceIDs, 2)
	for msg, id := range traceIDs {
		assert.Len(t, id, 32, msg)
		assert.Contains(t, stderr, id, "%s trace ID not among exported spans", msg)
	}
}

func TestGlobalFlags_LogSource(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "--log-source", "--log-level", "debug", "--log-format", "json", "compile", "/video/:id")
	require.NoError(t, err)

	entries, err := logging.ParseJSONLogEntries(bytes.NewBufferString(stderr))
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		if e.Message != "route compiled" {
			continue
		}
		source, ok := e.Attrs["source"].(map[string]any)
		require.True(t, ok, "source attribute missing")
		assert.Contains(t, source["file"], "main.go")
		return
	}
	t.Fatal("route compiled entry not logged")
}

func TestGlobalFlags_Invalid(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "--log-level", "loud", "compile", "/a")
	require.ErrorIs(t, err, logging.ErrInvalidLevel)

	_, _, err = run(t, "--log-format", "xml", "compile", "/a")
	require.ErrorIs(t, err, logging.ErrInvalidHandler)
}

func TestGlobalFlags_Trace(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "--trace", "match", "/video/:id", "/video/42")
	require.NoError(t, err)
	assert.Contains(t, stderr, "routepattern.compile")
	assert.Contains(t, stderr, "routepattern.match")
}

func TestGlobalFlags_Metrics(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "--metrics", "match", "/video/:id", "/video/42")
	require.NoError(t, err)
	assert.Contains(t, stderr, "routepattern_compile_total")
	assert.Contains(t, stderr, "routepattern_match_total")
}

func TestGlobalFlags_OTLP(t *testing.T) {
	t.Parallel()

	var traces, metricsPosts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/traces":
			traces.Add(1)
		case "/v1/metrics":
			metricsPosts.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	_, stderr, err := run(t, "--trace", "--metrics", "--otlp-endpoint", srv.URL, "match", "/video/:id", "/video/42")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "routepattern_match_total")
	assert.GreaterOrEqual(t, traces.Load(), int32(1))
	assert.GreaterOrEqual(t, metricsPosts.Load(), int32(1))
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)

	stdout, _, err = run(t, "--no-color", "version")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "\x1b[")
	assert.Contains(t, stdout, "Version:")
	assert.Contains(t, stdout, "Go version:")
	assert.Contains(t, stdout, runtime.Version())
}
