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

// Command routepattern compiles, matches and checks route templates.
//
//	routepattern compile /video/:id
//	routepattern match /video/:id /video/42 /audio/42
//	routepattern build /video/:id id=42
//	routepattern check routes.yaml
//	routepattern serve --addr :8080 routes.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"rivaas.dev/routepattern/logging"
	"rivaas.dev/routepattern/metrics"
	"rivaas.dev/routepattern/pattern"
	"rivaas.dev/routepattern/telemetry/semconv"
	"rivaas.dev/routepattern/tracing"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errNoMatch is returned by "match --strict" when a path does not match.
var errNoMatch = errors.New("one or more paths did not match")

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
	trace     bool
	metrics   bool
	noColor   bool
	otlp      string
	logSource bool
}

// env carries the instrumentation built from the global flags.
type env struct {
	logger   *logging.Logger
	tracer   *tracing.Tracer
	recorder *metrics.Recorder
	noColor  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		e     = &env{}
	)

	cmd := &cobra.Command{
		Use:   "routepattern",
		Short: "Compile and test path route templates",
		Long: `routepattern compiles route templates such as /video/:id into anchored
regular expressions and matches request paths against them.

A parameter is a colon followed by letters, digits, '_' or '-'. It matches one
non-empty path segment. A single trailing slash is optional.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format (text, json)")
	pf.BoolVar(&flags.logSource, "log-source", false, "Add the source file and line to log entries")
	pf.BoolVar(&flags.trace, "trace", false, "Write OpenTelemetry spans to stderr")
	pf.BoolVar(&flags.metrics, "metrics", false, "Write OpenTelemetry metrics to stderr on exit")
	pf.StringVar(&flags.otlp, "otlp-endpoint", "", "Send --trace and --metrics output to this OTLP/HTTP collector instead of stderr")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		compileCmd(e),
		matchCmd(e),
		buildCmd(e),
		checkCmd(e),
		serveCmd(e),
		versionCmd(e),
	)
	for _, sub := range cmd.Commands() {
		e.shutdownAfter(sub)
	}

	return cmd
}

func (e *env) setup(cmd *cobra.Command, flags globalFlags) error {
	e.noColor = flags.noColor

	level, err := logging.ParseLevel(flags.logLevel)
	if err != nil {
		return err
	}
	handler, err := logging.ParseHandlerType(flags.logFormat)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()

	e.logger, err = logging.New(
		logging.WithOutput(stderr),
		logging.WithLevel(level),
		logging.WithHandlerType(handler),
		logging.WithSource(flags.logSource),
		logging.WithServiceName("routepattern"),
		logging.WithServiceVersion(version),
	)
	if err != nil {
		return err
	}

	e.tracer, err = tracing.New(tracerOptions(flags, stderr)...)
	if err != nil {
		return err
	}

	e.recorder, err = metrics.New(recorderOptions(flags, stderr, e.logger)...)
	if err != nil {
		return err
	}

	return nil
}

func tracerOptions(flags globalFlags, w io.Writer) []tracing.Option {
	opts := []tracing.Option{
		tracing.WithServiceName("routepattern"),
		tracing.WithServiceVersion(version),
	}
	switch {
	case flags.trace && flags.otlp != "":
		opts = append(opts, tracing.WithOTLPHTTP(flags.otlp))
	case flags.trace:
		opts = append(opts, tracing.WithStdout(), tracing.WithStdoutWriter(w), tracing.WithPrettyPrint())
	}
	return opts
}

func recorderOptions(flags globalFlags, w io.Writer, logger *logging.Logger) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithServiceName("routepattern"),
		metrics.WithServiceVersion(version),
		metrics.WithLogger(logger.Logger()),
	}
	switch {
	case flags.metrics && flags.otlp != "":
		opts = append(opts, metrics.WithOTLP(flags.otlp))
	case flags.metrics:
		opts = append(opts, metrics.WithStdout(), metrics.WithStdoutWriter(w), metrics.WithPrettyPrint())
	}
	return opts
}

// shutdownAfter wraps the run function of cmd so exporters are flushed
// whether or not the command fails. Cobra skips post-run hooks on error.
func (e *env) shutdownAfter(cmd *cobra.Command) {
	run, runE := cmd.Run, cmd.RunE
	cmd.Run = nil
	cmd.RunE = func(c *cobra.Command, args []string) error {
		var err error
		switch {
		case runE != nil:
			err = runE(c, args)
		case run != nil:
			run(c, args)
		}

		return errors.Join(err, e.shutdown(c.Context()))
	}
}

func (e *env) shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if e.tracer != nil {
		errs = append(errs, e.tracer.Shutdown(ctx))
	}
	if e.recorder != nil {
		errs = append(errs, e.recorder.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

// compile compiles template under a span and counts the outcome. Log lines
// are written with the span's context so they carry its trace ID.
func (e *env) compile(ctx context.Context, template string) (*pattern.RoutePattern, error) {
	ctx, span := e.tracer.StartCompile(ctx, template)
	p, err := pattern.Compile(template)
	e.tracer.FinishCompile(span, p, err)
	e.recorder.RecordCompile(ctx, template, err)

	log := e.logger.WithContext(ctx)
	if err != nil {
		log.Debug("route compile failed", semconv.RouteTemplate, template, "error", err)
		return nil, err
	}

	log.Debug("route compiled",
		semconv.RouteTemplate, template,
		semconv.RoutePattern, p.Pattern(),
		semconv.RouteKeys, p.Keys(),
	)

	return p, nil
}

// match matches path against p under a span and records the attempt.
func (e *env) match(ctx context.Context, p *pattern.RoutePattern, path string) (map[string]string, bool) {
	start := time.Now()
	ctx, span := e.tracer.StartMatch(ctx, p, path)
	params, ok := p.Match(path)
	e.tracer.FinishMatch(span, p, params, ok)
	e.recorder.RecordMatch(ctx, p.Template(), ok, time.Since(start))

	e.logger.WithContext(ctx).Debug("route match",
		semconv.RouteTemplate, p.Template(),
		semconv.URLPath, path,
		semconv.RouteMatched, ok,
	)

	return params, ok
}
