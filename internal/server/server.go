package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the PUDO bridge.
type Server struct {
	port     int
	handlers *Handlers
	logger   *otelzap.Logger
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, handlers *Handlers, logger *otelzap.Logger) *Server {
	return &Server{
		port:     cfg.Port,
		handlers: handlers,
		logger:   logger,
	}
}

// Routes returns the request multiplexer with all endpoints bound.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	h := s.handlers

	// Health check and Prometheus metrics
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// JSON API
	mux.HandleFunc("GET /apps/xbs-pudo", h.Locations)
	mux.HandleFunc("POST /apps/xbs-shipment", h.CreateShipment)
	mux.HandleFunc("POST /apps/complete-inpost-order", h.CompleteOrder)
	mux.HandleFunc("GET /apps/check-inpost-order/{orderId}", h.CheckOrder)
	mux.HandleFunc("GET /apps/xbs-services", h.Services)
	mux.HandleFunc("GET /apps/xbs-track/{trackingNumber}", h.Track)

	// Customer-facing selection page
	mux.HandleFunc("GET /pudo-selection", h.SelectionPage)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
