// Package api provides the REST management API: record CRUD, the legacy
// upsert endpoint, and a health/stats endpoint, served by a Gin engine.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestreldns/rind/internal/api/handlers"
	"github.com/kestreldns/rind/internal/api/middleware"
	"github.com/kestreldns/rind/internal/config"
	"github.com/kestreldns/rind/internal/metrics"
	"github.com/kestreldns/rind/internal/store"
)

// Server is the management REST API server: a gin.Engine bound to the
// record store and metrics sink, behind an http.Server with explicit
// timeouts.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds the API server. addr is the bind address (config.Config's
// APIBindAddr).
func New(cfg *config.Config, addr string, s *store.Store, m metrics.Sink, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(s, m, logger)
	RegisterRoutes(engine, h)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer}
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// ListenAndServe serves until the listener is closed by Shutdown;
// http.ErrServerClosed is not an error from the caller's perspective.
func (s *Server) ListenAndServe() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
