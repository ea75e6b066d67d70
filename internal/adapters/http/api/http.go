// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/userdir/internal/adapters/repository"
	"github.com/okian/userdir/internal/domain/model"
)

// Default request body cap for POST and PUT.
const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Lookup(ctx context.Context, name string) (model.User, error)
	Create(ctx context.Context, name, age, occupation string) (model.User, error)
	Upsert(ctx context.Context, name, age, occupation string) (model.User, repository.Outcome, error)
	Delete(ctx context.Context, name string) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	userHandler   *UserHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	maxBodyBytes int64
}

// WithMaxBodyBytes caps the body read by POST and PUT handlers.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	o := serverOptions{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		userHandler:   NewUserHandler(deps, o.maxBodyBytes),
	}
}

// route is one row of the dispatch table.
type route struct {
	pattern  string
	endpoint string
	handler  http.HandlerFunc
}

// routes returns the fixed dispatch table. Method and path matching is
// done by http.ServeMux.
func (s *Server) routes() []route {
	return []route{
		{"GET /healthz", "healthz", s.healthHandler.HandleHealth},
		{"GET /stats", "stats", s.statsHandler.HandleStats},
		{"GET /user/{name}", "user", s.userHandler.HandleGet},
		{"POST /user/{name}/occupation/{occupation}", "user_occupation", s.userHandler.HandlePost},
		{"PUT /user/{name}", "user", s.userHandler.HandlePut},
		{"DELETE /user/{name}", "user", s.userHandler.HandleDelete},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	for _, rt := range s.routes() {
		mux.Handle(rt.pattern, RequestIDMiddleware(MetricsMiddleware(rt.handler, rt.endpoint)))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
