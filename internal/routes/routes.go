package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assesshub_backend/internal/handlers"
	"assesshub_backend/internal/middleware"
)

// RegisterRoutes mounts the full API surface. Everything except login,
// refresh, invite verification and the health probe sits behind JWT auth.
func RegisterRoutes(engine *gin.Engine, h *handlers.AppHandlers) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	// Public surface: admin login and candidate code verification.
	h.Auth.RegisterPublicRoutes(api)
	h.Invite.RegisterPublicRoutes(api)

	protected := api.Group("", middleware.AuthMiddleware())
	h.Auth.RegisterRoutes(protected)
	h.Candidate.RegisterRoutes(protected)
	h.Invite.RegisterRoutes(protected)
	h.Assessment.RegisterRoutes(protected)
	h.Course.RegisterRoutes(protected)
}
