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

package tracing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/routepattern/pattern"
)

func newRecordingTracer(t *testing.T, opts ...Option) (*Tracer, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	tracer, err := New(append([]Option{WithTracerProvider(tp)}, opts...)...)
	require.NoError(t, err)

	return tracer, sr
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		opts     []Option
		provider Provider
		wantErr  error
	}{
		{name: "default global", provider: GlobalProvider},
		{name: "noop", opts: []Option{WithNoop()}, provider: NoopProvider},
		{
			name:     "stdout",
			opts:     []Option{WithStdout(), WithStdoutWriter(io.Discard), WithPrettyPrint()},
			provider: StdoutProvider,
		},
		{
			name:     "otlp grpc",
			opts:     []Option{WithOTLP("localhost:4317", OTLPInsecure())},
			provider: OTLPProvider,
		},
		{
			name:     "otlp http",
			opts:     []Option{WithOTLPHTTP("http://localhost:4318")},
			provider: OTLPHTTPProvider,
		},
		{
			name:    "otlp conflicts with noop",
			opts:    []Option{WithOTLP("localhost:4317"), WithNoop()},
			wantErr: ErrConflictingProviders,
		},
		{
			name:     "custom",
			opts:     []Option{WithTracerProvider(sdktrace.NewTracerProvider())},
			provider: CustomProvider,
		},
		{
			name:    "nil custom provider",
			opts:    []Option{WithTracerProvider(nil)},
			wantErr: ErrNilTracerProvider,
		},
		{
			name:    "conflicting providers",
			opts:    []Option{WithNoop(), WithStdout()},
			wantErr: ErrConflictingProviders,
		},
		{
			name:    "empty service name",
			opts:    []Option{WithServiceName("")},
			wantErr: ErrEmptyServiceName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracer, err := New(tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tracer)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()
				_ = tracer.Shutdown(ctx)
			})
			assert.Equal(t, tt.provider, tracer.Provider())
			assert.NotNil(t, tracer.TracerProvider())
		})
	}
}

func TestNew_GlobalProvider(t *testing.T) {
	t.Parallel()

	tracer := MustNew()
	assert.Equal(t, otel.GetTracerProvider(), tracer.TracerProvider())
	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNew(WithServiceName("")) })
}

func TestWithSampleRate_Clamps(t *testing.T) {
	t.Parallel()

	tracer := MustNew(WithNoop(), WithSampleRate(7))
	assert.InDelta(t, 1.0, tracer.sampleRate, 0)

	tracer = MustNew(WithNoop(), WithSampleRate(-1))
	assert.InDelta(t, 0.0, tracer.sampleRate, 0)
}

func TestTracer_Compile(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer(t)
	ctx := context.Background()

	p, err := tracer.Compile(ctx, "/posts/:post/comments/:comment")
	require.NoError(t, err)
	assert.Equal(t, []string{"post", "comment"}, p.Keys())

	_, err = tracer.Compile(ctx, "/:x/:x")
	require.ErrorIs(t, err, pattern.ErrDuplicateParameter)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, SpanCompile, ok.Name())
	a := attrs(ok)
	assert.Equal(t, "/posts/:post/comments/:comment", a[AttrTemplate].AsString())
	assert.Equal(t, []string{"post", "comment"}, a[AttrKeys].AsStringSlice())
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Status().Description, `duplicate parameter "x"`)
	require.Len(t, failed.Events(), 1)
	assert.Equal(t, "exception", failed.Events()[0].Name)
	assert.NotContains(t, attrs(failed), attribute.Key(AttrKeys))
}

func TestTracer_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		opts        []Option
		path        string
		wantMatched bool
		wantParams  []string
	}{
		{
			name:        "matched",
			path:        "/posts/a1/comments/b2",
			wantMatched: true,
			wantParams:  []string{"post=a1", "comment=b2"},
		},
		{
			name:        "matched without params",
			opts:        []Option{WithoutParams()},
			path:        "/posts/a1/comments/b2/",
			wantMatched: true,
		},
		{
			name: "not matched",
			path: "/posts/a1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracer, sr := newRecordingTracer(t, tt.opts...)
			p := pattern.MustCompile("/posts/:post/comments/:comment")

			_, matched := tracer.Match(context.Background(), p, tt.path)
			assert.Equal(t, tt.wantMatched, matched)

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, SpanMatch, spans[0].Name())

			a := attrs(spans[0])
			assert.Equal(t, p.Template(), a[AttrTemplate].AsString())
			assert.Equal(t, tt.path, a[AttrPath].AsString())
			assert.Equal(t, tt.wantMatched, a[AttrMatched].AsBool())

			if tt.wantParams == nil {
				assert.NotContains(t, a, attribute.Key(AttrParams))
			} else {
				assert.Equal(t, tt.wantParams, a[AttrParams].AsStringSlice())
			}
		})
	}
}

func TestTracer_Match_ChildOfCallerSpan(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer(t)

	ctx, parent := tracer.TracerProvider().Tracer("test").Start(context.Background(), "request")
	tracer.Match(ctx, pattern.MustCompile("/a/:b"), "/a/1")
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, parent.SpanContext().TraceID(), spans[0].SpanContext().TraceID())
}

func TestTracer_StdoutExport(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	tracer := MustNew(WithStdout(), WithStdoutWriter(buf), WithServiceName("gateway"))

	_, ok := tracer.Match(context.Background(), pattern.MustCompile("/video/:id"), "/video/42")
	require.True(t, ok)

	require.NoError(t, tracer.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), SpanMatch)
	assert.Contains(t, buf.String(), "gateway")

	require.NoError(t, tracer.Shutdown(context.Background()))
}

func TestTracer_StartFinish_CarriesSpanContext(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer(t)

	ctx, span := tracer.StartCompile(context.Background(), "/video/:id")
	assert.Equal(t, span.SpanContext(), trace.SpanContextFromContext(ctx))
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())

	p, err := pattern.Compile("/video/:id")
	require.NoError(t, err)
	tracer.FinishCompile(span, p, err)

	matchCtx, matchSpan := tracer.StartMatch(ctx, p, "/video/42")
	params, ok := p.Match("/video/42")
	tracer.FinishMatch(matchSpan, p, params, ok)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, SpanCompile, spans[0].Name())
	assert.Equal(t, SpanMatch, spans[1].Name())
	assert.Equal(t, span.SpanContext().SpanID(), spans[1].Parent().SpanID())
	assert.Equal(t, matchSpan.SpanContext(), trace.SpanContextFromContext(matchCtx))
}

func TestTracer_OTLPHTTPExport(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/traces" {
			requests.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	tracer := MustNew(WithOTLPHTTP(srv.URL))
	assert.Equal(t, OTLPHTTPProvider, tracer.Provider())

	_, err := tracer.Compile(context.Background(), "/video/:id")
	require.NoError(t, err)

	require.NoError(t, tracer.Shutdown(context.Background()))
	assert.GreaterOrEqual(t, requests.Load(), int32(1))
}

func TestTracer_ZeroSampleRate(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	tracer := MustNew(WithStdout(), WithStdoutWriter(buf), WithSampleRate(0))

	params, ok := tracer.Match(context.Background(), pattern.MustCompile("/video/:id"), "/video/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	require.NoError(t, tracer.Shutdown(context.Background()))
	assert.Empty(t, buf.String())
}

func TestTracer_CustomProviderNotShutDown(t *testing.T) {
	t.Parallel()

	tracer, sr := newRecordingTracer(t)
	require.NoError(t, tracer.Shutdown(context.Background()))

	_, err := tracer.Compile(context.Background(), "/still/recording")
	require.NoError(t, err)
	assert.Len(t, sr.Ended(), 1)
}
