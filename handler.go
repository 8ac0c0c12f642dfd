package main

import (
	"github.com/gin-gonic/gin"
)

// Handler holds shared dependencies for all route handlers. The store is an
// interface so the same handlers run against Postgres in production and the
// in-memory store in dev mode and tests.
type Handler struct {
	store store
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/register", h.register)
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/settings", h.getSettings)
	api.PATCH("/settings", h.patchSettings)

	api.GET("/goals", h.getGoals)
	api.PUT("/goals", h.putGoals)
	api.POST("/goals/auto", h.autoGenerateGoals)
	api.POST("/goals/macros", h.applyMacroScenario)
	api.POST("/goals/tune", h.tuneGoals)
	api.GET("/tdee", h.getTDEEEstimate)

	api.POST("/logs", h.createLog)
	api.GET("/logs", h.listLogs)
	api.GET("/logs/summary", h.getLogSummary)

	api.POST("/foods/normalize", h.normalizeCatalog)
	api.POST("/foods/suggest", h.suggestFromCatalog)
}
