// Package httpapi exposes the engine's primary ports over HTTP. It is a thin
// translation layer: all domain rules live behind the service interfaces.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/example/waterwatch/internal/ports/primary"
	"github.com/example/waterwatch/internal/ports/secondary"
)

// Handlers holds the services the HTTP layer translates to.
type Handlers struct {
	reports     primary.ReportService
	escalations primary.EscalationService
	proximity   primary.ProximityService
	stats       primary.StatsService
	blobs       secondary.BlobStore
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(reports primary.ReportService, escalations primary.EscalationService, proximity primary.ProximityService, stats primary.StatsService, blobs secondary.BlobStore) *Handlers {
	return &Handlers{
		reports:     reports,
		escalations: escalations,
		proximity:   proximity,
		stats:       stats,
		blobs:       blobs,
	}
}

// Register mounts all routes on the engine.
func (h *Handlers) Register(engine *gin.Engine) {
	r := engine.Group("/api")
	r.Use(ActorMiddleware())

	reports := r.Group("/reports")
	{
		reports.POST("", h.handleSubmitReport)
		reports.GET("", h.handleListReports)
		reports.GET("/:id", h.handleGetReport)
		reports.POST("/:id/upvote", h.handleUpvoteReport)
	}

	r.GET("/groups", h.handleListGroups)
	r.POST("/sms/format", h.handleFormatSMS)

	escalations := r.Group("/escalations")
	{
		escalations.POST("", h.handleEscalate)
		escalations.GET("", h.handleListAssignments)
		escalations.GET("/:id", h.handleGetAssignment)
		escalations.POST("/:id/test-result", h.handleUploadTestResult)
		escalations.POST("/:id/solution", h.handleUploadSolution)
		escalations.POST("/:id/phc-clean", h.handleMarkCleanByPHC)
		escalations.POST("/:id/confirm-clean", h.handleConfirmClean)
	}

	r.GET("/solutions", h.handleListSolutions)

	r.GET("/area-status", h.handleAreaStatus)
	r.GET("/nearby", h.handleNearbyReports)
	r.GET("/hotspots", h.handleHotspots)

	r.GET("/stats", h.handleStatistics)
}

// NewEngine builds a gin engine with the handlers mounted. The caller decides
// when and where to listen.
func NewEngine(h *Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	h.Register(engine)
	return engine
}
