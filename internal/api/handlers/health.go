package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/kestreldns/rind/internal/api/models"
)

// Health godoc
// @Summary Health check and runtime statistics
// @Description Returns server health, uptime, and host resource usage
// @Tags system
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /api/v1/health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := models.HealthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	// Host stats are best-effort: a sampling failure degrades the
	// response (zeroed fields) rather than failing the request.
	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemoryUsedBytes = vm.Used
		resp.MemoryTotalBytes = vm.Total
	}
	if pct, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(pct) > 0 {
		resp.CPUPercent = pct[0]
	}

	list, err := h.store.List(1, 1000)
	if err == nil {
		resp.ActiveRecords = list.Total
	}

	c.JSON(http.StatusOK, models.Success(resp))
}
