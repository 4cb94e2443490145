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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"rivaas.dev/routepattern/config"
	"rivaas.dev/routepattern/pattern"
	"rivaas.dev/routepattern/routeset"
	"rivaas.dev/routepattern/telemetry/semconv"
)

func serveCmd(e *env) *cobra.Command {
	var (
		format string
		addr   string
	)

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve a route table over HTTP",
		Long: `Load a route table and serve it over HTTP:

  GET /routes                     list the compiled routes
  GET /routes/{name}/match?path=  match a path against one named route
  GET /routes/{name}/build?k=v    build a path from parameter values
  GET /metrics                    Prometheus metrics

Only named routes are addressable. Serving requires the Prometheus metrics
provider, so --metrics cannot be combined with serve.`,
		Example: `  routepattern serve --addr :8080 routes.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0], format)
			if err != nil {
				return err
			}
			set, err := table.Compile()
			if err != nil {
				return err
			}

			handler, err := newServer(e, table, set)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return listenAndServe(ctx, e, &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 5 * time.Second,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "File format (yaml, toml, json); default from extension")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")

	return cmd
}

// listenAndServe runs srv until ctx is done, then drains it.
func listenAndServe(ctx context.Context, e *env, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("serving route table", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// routeView is the JSON form of a compiled route.
type routeView struct {
	Name     string   `json:"name,omitempty"`
	Template string   `json:"template"`
	Pattern  string   `json:"pattern"`
	Keys     []string `json:"keys"`
}

type matchView struct {
	Matched bool              `json:"matched"`
	Params  map[string]string `json:"params,omitempty"`
}

type errorView struct {
	Error string `json:"error"`
}

// newServer builds the HTTP API over the routes of table.
func newServer(e *env, table *config.RouteTable, set *routeset.Set) (http.Handler, error) {
	metricsHandler, err := e.recorder.Handler()
	if err != nil {
		return nil, err
	}

	views := make([]routeView, 0, len(table.Routes))
	byName := make(map[string]*pattern.RoutePattern, len(table.Routes))
	for _, entry := range table.Routes {
		p := set.Get(entry.Template)
		if p == nil {
			continue
		}
		views = append(views, routeView{Name: entry.Name, Template: p.Template(), Pattern: p.Pattern(), Keys: p.Keys()})
		if entry.Name != "" {
			byName[entry.Name] = p
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Get("/routes", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, views)
	})

	r.Route("/routes/{name}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if _, ok := byName[chi.URLParam(req, "name")]; !ok {
					writeJSON(w, http.StatusNotFound, errorView{Error: "unknown route"})
					return
				}
				next.ServeHTTP(w, req)
			})
		})

		r.Get("/match", func(w http.ResponseWriter, req *http.Request) {
			p := byName[chi.URLParam(req, "name")]
			if !req.URL.Query().Has("path") {
				writeJSON(w, http.StatusBadRequest, errorView{Error: "missing path query parameter"})
				return
			}

			params, ok := e.match(req.Context(), p, req.URL.Query().Get("path"))
			writeJSON(w, http.StatusOK, matchView{Matched: ok, Params: params})
		})

		r.Get("/build", func(w http.ResponseWriter, req *http.Request) {
			p := byName[chi.URLParam(req, "name")]
			values := make(map[string]string, p.NumParams())
			for key, vals := range req.URL.Query() {
				values[key] = vals[0]
			}

			path, err := p.Build(values)
			if err != nil {
				e.logger.WithContext(req.Context()).Debug("route build failed", semconv.RouteTemplate, p.Template(), "error", err)
				writeJSON(w, http.StatusBadRequest, errorView{Error: err.Error()})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"path": path})
		})
	})

	return r, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
