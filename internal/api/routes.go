package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kestreldns/rind/internal/api/handlers"

	_ "github.com/kestreldns/rind/internal/api/docs" // swagger docs
)

// RegisterRoutes mounts the swagger UI, the record CRUD surface, the
// legacy upsert endpoint (all unprefixed), and the health endpoint under
// /api/v1.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.Group("/api/v1").GET("/health", h.Health)

	r.POST("/records", h.CreateRecord)
	r.GET("/records", h.ListRecords)
	r.GET("/records/:id", h.GetRecord)
	r.PUT("/records/:id", h.UpdateRecord)
	r.DELETE("/records/:id", h.DeleteRecord)

	r.POST("/update", h.LegacyUpsert)
}
