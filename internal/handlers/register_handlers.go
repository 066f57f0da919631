package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/pocketledger/pocket_ledger_sync/internal/core/ports/services"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")

	registerDraftRoutes(v1, services.Draft, services.Sync)
	registerPendingRoutes(v1, services.Sync)
	registerLedgerRoutes(v1, services.Mirror, services.Search)
}
