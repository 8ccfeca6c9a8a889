// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves pipeline plans over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/ffplan/internal/api/middleware"
	"github.com/ManuGH/ffplan/internal/ffmpeg"
	"github.com/ManuGH/ffplan/internal/ffmpeg/pipeline"
	"github.com/ManuGH/ffplan/internal/health"
	"github.com/ManuGH/ffplan/internal/log"
)

const maxJobBytes = 1 << 20

// Planner is the part of the pipeline builder the server needs.
type Planner interface {
	Build(ctx context.Context, in pipeline.Input) (pipeline.Plan, error)
	Backend() ffmpeg.HardwareAccelerationMode
}

// Config configures the server.
type Config struct {
	ListenAddr         string
	RateLimitPerMinute int
	ServiceName        string // tracing service name; empty disables tracing
	// Health serves /healthz and /readyz; nil registers no component checks.
	Health *health.Manager
}

// Server answers planning requests. The planner can be swapped at runtime
// when the configuration reloads.
type Server struct {
	cfg    Config
	logger zerolog.Logger

	mu      sync.RWMutex
	planner Planner

	httpServer *http.Server
}

// New creates a server backed by planner.
func New(cfg Config, planner Planner) *Server {
	if cfg.Health == nil {
		cfg.Health = health.NewManager("")
	}
	s := &Server{
		cfg:     cfg,
		logger:  log.WithComponent("api"),
		planner: planner,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// SetPlanner replaces the planner used by subsequent requests.
func (s *Server) SetPlanner(p Planner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planner = p
	s.logger.Info().
		Str(log.FieldEvent, "api.planner_swapped").
		Str(log.FieldBackend, string(p.Backend())).
		Msg("planner updated")
}

func (s *Server) currentPlanner() Planner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planner
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		TracingService: s.cfg.ServiceName,
		EnableLogging:  true,
	})

	r.Get("/healthz", s.cfg.Health.ServeHealth)
	r.Get("/readyz", s.cfg.Health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimitPerMinute > 0 {
			r.Use(middleware.PlanRateLimit(s.cfg.RateLimitPerMinute))
		}
		r.Post("/plans", s.handleCreatePlan)
	})
	return r
}

// ListenAndServe serves until Shutdown is called. It returns nil after a
// graceful shutdown, even one that happened before it started.
func (s *Server) ListenAndServe() error {
	s.logger.Info().
		Str(log.FieldEvent, "api.listen").
		Str("addr", s.cfg.ListenAddr).
		Msg("serving plan API")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
