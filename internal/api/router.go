// Package api exposes the simulation over HTTP for classroom dashboards.
// All mutations go through the Manager's documented commands; handlers never
// touch simulation state directly.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/edutanks/aquasim/internal/platform/logger"
	"github.com/edutanks/aquasim/internal/platform/metrics"
)

// NewRouter wires every HTTP route of the simulator.
func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(log))

	api := r.Group("/api/v1")
	{
		// Aquariums
		api.POST("/aquariums", h.CreateAquarium)
		api.GET("/aquariums", h.ListAquariums)
		api.GET("/aquariums/:id", h.GetAquarium)
		api.DELETE("/aquariums/:id", h.RemoveAquarium)
		api.PUT("/aquariums/:id/temperature", h.AdjustTemperature)

		// Fish
		api.POST("/aquariums/:id/fish", h.AddFish)
		api.DELETE("/aquariums/:id/fish/:fish_id", h.RemoveFish)

		// Routines
		api.POST("/aquariums/:id/routines/:kind", h.PerformRoutine)
		api.GET("/routines/due", h.ListDueRoutines)

		// Read-only projections
		api.GET("/alerts", h.ListAlerts)
		api.GET("/species", h.ListSpecies)
		api.GET("/events", h.ListEvents)

		// Full-state snapshot transfer
		api.GET("/state/export", h.ExportState)
		api.POST("/state/import", h.ImportState)
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/ws", h.ServeWS)

	return r
}
