// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the applet registry over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/wingedpig/cpanel/internal/api/handlers"
	"github.com/wingedpig/cpanel/internal/api/middleware"
	"github.com/wingedpig/cpanel/internal/events"
	"github.com/wingedpig/cpanel/internal/logging"
)

const shutdownTimeout = 30 * time.Second

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Host    string
	Port    int
	TLSCert string // Path to TLS certificate file
	TLSKey  string // Path to TLS private key file
}

// Dependencies holds all dependencies for API handlers.
type Dependencies struct {
	Registry handlers.Registry
	EventBus events.EventBus
	Logger   hclog.Logger
}

// NewRouter creates a new API router.
func NewRouter(deps Dependencies) *mux.Router {
	log := logging.OrNull(deps.Logger)

	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging(log.Named("http")))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS)
	r.Use(middleware.Version)

	api := r.PathPrefix("/api/v1").Subrouter()

	// OPTIONS is listed on every route so preflight requests match and reach
	// the CORS middleware, which answers them.
	appHandler := handlers.NewAppHandler(deps.Registry)
	api.HandleFunc("/status", appHandler.Status).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/categories", appHandler.Categories).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/apps", appHandler.List).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/apps/{plugin}", appHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/update", appHandler.Update).Methods(http.MethodPost, http.MethodOptions)

	if deps.EventBus != nil {
		eventHandler := handlers.NewEventHandler(deps.EventBus, log.Named("events"))
		api.HandleFunc("/events/ws", eventHandler.WebSocket).Methods(http.MethodGet, http.MethodOptions)
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, handlers.ErrNotFound, "no route for "+r.URL.Path)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, handlers.ErrMethodNotAllowed,
			r.Method+" not allowed on "+r.URL.Path)
	})
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = methodNotAllowed

	return r
}

// Server represents the API server.
type Server struct {
	router *mux.Router
	cfg    ServerConfig
	log    hclog.Logger

	mu       sync.Mutex
	server   *http.Server
	shutdown bool
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, deps Dependencies) *Server {
	return &Server{
		router: NewRouter(deps),
		cfg:    cfg,
		log:    logging.OrNull(deps.Logger).Named("api"),
	}
}

// Router returns the underlying router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// ListenAndServe starts the server. TLS is used when both tls_cert and
// tls_key are configured. It returns nil after a graceful Shutdown.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.Addr(), err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	tlsEnabled, err := CheckTLSConfig(s.cfg.TLSCert, s.cfg.TLSKey)
	if err != nil {
		ln.Close()
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.server = srv
	s.mu.Unlock()

	if tlsEnabled {
		s.log.Info("API server listening", "url", "https://"+ln.Addr().String())
		err = srv.ServeTLS(ln, expandPath(s.cfg.TLSCert), expandPath(s.cfg.TLSKey))
	} else {
		s.log.Info("API server listening", "url", "http://"+ln.Addr().String())
		err = srv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.shutdown = true
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.log.Info("shutting down API server")

	shutdownCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	return srv.Shutdown(shutdownCtx)
}
