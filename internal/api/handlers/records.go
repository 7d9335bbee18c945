package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kestreldns/rind/internal/api/models"
	"github.com/kestreldns/rind/internal/store"
)

// CreateRecord godoc
// @Summary Create a record
// @Description Creates a new DNS record
// @Tags records
// @Accept json
// @Produce json
// @Param record body models.CreateRequest true "Record to create"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /records [post]
func (h *Handler) CreateRecord(c *gin.Context) {
	start := time.Now()

	var req models.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "create", http.StatusBadRequest, "invalid request body", start)
		return
	}

	draft := store.CreateDraft{
		Name:       req.Name,
		IP:         strOrEmpty(req.IP),
		RecordType: strOrEmpty(req.RecordType),
		Class:      strOrEmpty(req.Class),
		Value:      strOrEmpty(req.Value),
	}
	if req.TTL != nil {
		draft.TTL = *req.TTL
	}

	rec, err := h.store.Create(draft)
	if err != nil {
		h.respondStoreError(c, "create", err, start)
		return
	}

	h.metrics.RecordAPIRequest("/records", "POST", "201", time.Since(start).Seconds())
	c.JSON(http.StatusCreated, models.Success(toModel(rec)))
}

// ListRecords godoc
// @Summary List records
// @Description Returns a paginated list of records
// @Tags records
// @Produce json
// @Param page query int false "page number (default 1)"
// @Param per_page query int false "page size (default 50, max 1000)"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Router /records [get]
func (h *Handler) ListRecords(c *gin.Context) {
	start := time.Now()

	page := parseIntDefault(c.Query("page"), 1)
	perPage := parseIntDefault(c.Query("per_page"), 50)

	result, err := h.store.List(page, perPage)
	if err != nil {
		h.respondStoreError(c, "list", err, start)
		return
	}

	records := make([]models.Record, 0, len(result.Records))
	for _, r := range result.Records {
		records = append(records, toModel(r))
	}

	h.metrics.RecordAPIRequest("/records", "GET", "200", time.Since(start).Seconds())
	c.JSON(http.StatusOK, models.Success(models.ListResponse{
		Records: records,
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
	}))
}

// GetRecord godoc
// @Summary Get a record
// @Tags records
// @Produce json
// @Param id path string true "record id"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /records/{id} [get]
func (h *Handler) GetRecord(c *gin.Context) {
	start := time.Now()

	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		h.respondStoreError(c, "read", err, start)
		return
	}

	h.metrics.RecordAPIRequest("/records/:id", "GET", "200", time.Since(start).Seconds())
	c.JSON(http.StatusOK, models.Success(toModel(rec)))
}

// UpdateRecord godoc
// @Summary Update a record
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "record id"
// @Param record body models.UpdateRequest true "fields to update"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Failure 409 {object} models.Envelope
// @Router /records/{id} [put]
func (h *Handler) UpdateRecord(c *gin.Context) {
	start := time.Now()

	var req models.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "update", http.StatusBadRequest, "invalid request body", start)
		return
	}

	patch := store.UpdatePatch{
		Name:       req.Name,
		IP:         req.IP,
		TTL:        req.TTL,
		RecordType: req.RecordType,
		Class:      req.Class,
		Value:      req.Value,
	}

	rec, err := h.store.Update(c.Param("id"), patch)
	if err != nil {
		h.respondStoreError(c, "update", err, start)
		return
	}

	h.metrics.RecordAPIRequest("/records/:id", "PUT", "200", time.Since(start).Seconds())
	c.JSON(http.StatusOK, models.Success(toModel(rec)))
}

// DeleteRecord godoc
// @Summary Delete a record
// @Tags records
// @Param id path string true "record id"
// @Success 204
// @Failure 404 {object} models.Envelope
// @Router /records/{id} [delete]
func (h *Handler) DeleteRecord(c *gin.Context) {
	start := time.Now()

	if err := h.store.Delete(c.Param("id")); err != nil {
		h.respondStoreError(c, "delete", err, start)
		return
	}

	h.metrics.RecordAPIRequest("/records/:id", "DELETE", "204", time.Since(start).Seconds())
	c.Status(http.StatusNoContent)
}

// LegacyUpsert godoc
// @Summary Legacy record upsert
// @Description Fire-and-forget upsert preserved for backward compatibility; returns 200 immediately without waiting for the upsert. Only an unparseable body is rejected (400).
// @Tags records
// @Accept json
// @Produce json
// @Param record body models.LegacyUpsertRequest true "full record"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} models.Envelope
// @Router /update [post]
func (h *Handler) LegacyUpsert(c *gin.Context) {
	start := time.Now()

	var req models.LegacyUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, "update_legacy", http.StatusBadRequest, "invalid request body", start)
		return
	}

	rec := store.Record{
		ID:         req.ID,
		Name:       req.Name,
		IP:         req.IP,
		TTL:        req.TTL,
		RecordType: req.RecordType,
		Class:      req.Class,
		Value:      req.Value,
	}

	// Fire-and-forget: the caller never learns the outcome. A known
	// wart kept intentionally rather than fixed, for compatibility with
	// callers that already depend on this endpoint never blocking.
	go func() {
		if err := h.store.UpsertLegacy(rec); err != nil && h.logger != nil {
			h.logger.Warn("legacy upsert failed", "id", rec.ID, "err", err)
		}
	}()

	h.metrics.RecordAPIRequest("/update", "POST", "200", time.Since(start).Seconds())
	c.JSON(http.StatusOK, models.Success(nil))
}

func (h *Handler) respondStoreError(c *gin.Context, endpoint string, err error, start time.Time) {
	var verr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondError(c, endpoint, http.StatusNotFound, "record not found", start)
	case errors.As(err, &verr):
		h.respondError(c, endpoint, http.StatusBadRequest, verr.Error(), start)
	case errors.Is(err, store.ErrDuplicate):
		h.respondError(c, endpoint, http.StatusConflict, "record already exists", start)
	case errors.Is(err, store.ErrInvalidArgument):
		h.respondError(c, endpoint, http.StatusBadRequest, err.Error(), start)
	default:
		h.respondError(c, endpoint, http.StatusInternalServerError, err.Error(), start)
	}
}

func (h *Handler) respondError(c *gin.Context, endpoint string, status int, message string, start time.Time) {
	h.metrics.RecordAPIRequest(endpoint, c.Request.Method, strconv.Itoa(status), time.Since(start).Seconds())
	h.metrics.RecordAPIError(endpoint, http.StatusText(status))
	c.JSON(status, models.Failure(message))
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
