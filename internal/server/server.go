// Package server exposes the service over HTTP with the CRM's REST route
// shapes.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/stubforce/stubforce/internal/service"
)

// Config holds the listener settings.
type Config struct {
	Host       string
	Port       int
	APIVersion string
}

// Server wires the service into an HTTP listener.
type Server struct {
	cfg    Config
	svc    *service.Service
	logger *slog.Logger
}

// New creates a Server around an initialized service.
func New(cfg Config, svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{cfg: cfg, svc: svc, logger: logger}
}

// Routes builds the HTTP handler. Split out from Serve so tests can drive
// the mux through httptest without binding a port.
func (s *Server) Routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		s.requestLogger,
		middleware.Recoverer,
	)

	prefix := fmt.Sprintf("/services/data/v%s", s.cfg.APIVersion)
	r.Get(prefix+"/query", s.handleQuery)
	r.Get(prefix+"/sobjects", s.handleObjects)
	r.Get(prefix+"/sobjects/{object}/describe", s.handleDescribe)
	r.Post("/internal/reload", s.handleReload)
	r.Get("/internal/healthz", s.handleHealth)

	return r
}

// Serve starts the listener and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting API server", slog.String("addr", addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
