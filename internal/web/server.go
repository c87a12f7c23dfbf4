// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlucoTrack Contributors

// Package web serves the GlucoTrack pages and form flows.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/samber/oops"

	"github.com/glucotrack/glucotrack/internal/gateway"
	"github.com/glucotrack/glucotrack/internal/guard"
	"github.com/glucotrack/glucotrack/internal/nav"
	"github.com/glucotrack/glucotrack/internal/session"
	"github.com/glucotrack/glucotrack/internal/validation"
)

// AuthGateway is the remote-service client the pages use.
type AuthGateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, in validation.RegistrationInput) (*gateway.Registration, error)
	FetchUser(ctx context.Context) (*gateway.User, error)
}

// Config holds page server settings.
type Config struct {
	Addr         string
	DashboardURL string
}

// Server is the local page server.
type Server struct {
	cfg     Config
	store   *session.Store
	gateway AuthGateway
	guard   *guard.Guard
	nav     *nav.Presenter
	pages   *renderer
	logger  *slog.Logger
	router  *mux.Router

	loginBusy    inflight
	registerBusy inflight

	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer wires the page server around store and gw.
func NewServer(cfg Config, store *session.Store, gw AuthGateway, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, oops.In("web").Errorf("session store is required")
	}
	if gw == nil {
		return nil, oops.In("web").Errorf("gateway is required")
	}

	s := &Server{cfg: cfg, store: store, gateway: gw, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.guard, err = guard.New(guard.DefaultPolicy(), store, guard.WithLogger(s.logger)); err != nil {
		return nil, err
	}
	if s.nav, err = nav.NewPresenter(store, s.logger); err != nil {
		return nil, err
	}
	if s.pages, err = newRenderer(); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.guard.Middleware)

	r.HandleFunc("/", s.handleInfo("home", "Home")).Methods(http.MethodGet)
	r.HandleFunc("/about", s.handleInfo("about", "About")).Methods(http.MethodGet)
	r.HandleFunc("/faq", s.handleInfo("faq", "FAQs")).Methods(http.MethodGet)
	r.HandleFunc("/resources", s.handleInfo("resources", "Resources")).Methods(http.MethodGet)
	r.HandleFunc("/donate", s.handleInfo("donate", "Donate")).Methods(http.MethodGet)

	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegisterSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/{view:profile|rewards|leaderboard}", s.handleEmbedded).Methods(http.MethodGet)

	r.HandleFunc("/api/session", s.handleSession).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(staticFiles())

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.render(w, req, http.StatusNotFound, "error", s.page("Page not found"))
	})
	return r
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
// The returned channel receives a serve error and is closed on shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.In("web").Errorf("page server already running")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.In("web").With("addr", s.cfg.Addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.logger.Error("page server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("page server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.In("web").With("operation", "shutdown_page_server").Wrap(err)
		}
	}
	s.logger.Info("page server stopped")
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// inflight admits one submission at a time.
type inflight struct {
	busy atomic.Bool
}

func (f *inflight) acquire() bool { return f.busy.CompareAndSwap(false, true) }

func (f *inflight) release() { f.busy.Store(false) }
