// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package observability serves Prometheus metrics and health probes.
package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/internal/session"
)

// ReadinessChecker reports whether the client can serve protected pages.
type ReadinessChecker func() bool

// authRequests and guardDecisions are package-level so the gateway and
// guard can record without holding a Server.
var (
	authRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glucotrack_auth_requests_total",
			Help: "Total number of exchanges with the remote service by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	guardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glucotrack_guard_decisions_total",
			Help: "Total number of route guard decisions by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordAuthRequest counts one gateway exchange.
func RecordAuthRequest(operation, outcome string) {
	authRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordGuardDecision counts one route guard decision.
func RecordGuardDecision(outcome string) {
	guardDecisions.WithLabelValues(outcome).Inc()
}

// SessionSource is the part of the session store the active gauge follows.
type SessionSource interface {
	Current() (string, bool)
	Subscribe(fn func(session.Event)) (unsubscribe func())
}

// Metrics holds the per-server GlucoTrack collectors.
type Metrics struct {
	SessionActive prometheus.Gauge
}

// NewMetrics creates GlucoTrack metrics and registers them, together with
// the package-level counters, on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SessionActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "glucotrack_session_active",
			Help: "1 while a user is signed in, 0 otherwise",
		}),
	}

	reg.MustRegister(m.SessionActive)
	reg.MustRegister(authRequests)
	reg.MustRegister(guardDecisions)

	return m
}

// TrackSession keeps SessionActive in step with src until the returned
// function is called.
func (m *Metrics) TrackSession(src SessionSource) (stop func()) {
	set := func(present bool) {
		if present {
			m.SessionActive.Set(1)
			return
		}
		m.SessionActive.Set(0)
	}
	_, present := src.Current()
	set(present)
	return src.Subscribe(func(ev session.Event) { set(ev.Present) })
}

// Server provides HTTP endpoints for metrics and health probes.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *Metrics
	isReady    ReadinessChecker
	logger     *slog.Logger
	running    atomic.Bool
}

// NewServer creates an observability server listening on addr
// ("127.0.0.1:9100", or ":0" for an ephemeral port).
func NewServer(addr string, readinessChecker ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Server{
		addr:     addr,
		registry: registry,
		metrics:  NewMetrics(registry),
		isReady:  readinessChecker,
		logger:   slog.Default(),
	}
}

// Metrics returns the per-server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the metrics and probe routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)
	return mux
}

// Start begins serving. The returned channel receives a serve error if the
// server fails and is closed when it stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop shuts the server down gracefully. Stopping a stopped server is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_observability_server").Wrap(err)
		}
	}

	s.logger.Info("observability server stopped")
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // client may disconnect
	w.Write([]byte("ok\n"))
}

// handleReadiness answers 200 once the session store is resolved.
func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.isReady == nil || s.isReady() {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // client may disconnect
		w.Write([]byte("ok\n"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	//nolint:errcheck // client may disconnect
	w.Write([]byte("not ready\n"))
}
