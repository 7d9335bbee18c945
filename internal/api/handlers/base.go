// Package handlers implements the REST API endpoint handlers for the
// control plane: record CRUD, the legacy upsert endpoint, and the
// health/stats endpoint.
//
// @title Rind DNS Management API
// @version 1.0
// @description REST API for managing DNS records served by the resolver.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /
package handlers

import (
	"log/slog"
	"time"

	"github.com/kestreldns/rind/internal/api/models"
	"github.com/kestreldns/rind/internal/metrics"
	"github.com/kestreldns/rind/internal/store"
)

// Handler contains dependencies for API handlers.
type Handler struct {
	store     *store.Store
	metrics   metrics.Sink
	logger    *slog.Logger
	startTime time.Time
}

// New creates a new Handler with the given dependencies.
func New(s *store.Store, m metrics.Sink, logger *slog.Logger) *Handler {
	return &Handler{
		store:     s,
		metrics:   m,
		logger:    logger,
		startTime: time.Now(),
	}
}

// toModel converts a store.Record to its wire representation, mapping
// empty IP/Value strings to JSON null.
func toModel(r store.Record) models.Record {
	m := models.Record{
		ID:         r.ID,
		Name:       r.Name,
		TTL:        r.TTL,
		RecordType: r.RecordType,
		Class:      r.Class,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.IP != "" {
		ip := r.IP
		m.IP = &ip
	}
	if r.Value != "" {
		v := r.Value
		m.Value = &v
	}
	return m
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
