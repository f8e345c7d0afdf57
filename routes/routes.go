package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/auth"
	"github.com/mohibbulwara/orjon/metrics"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/realtime"
	"github.com/mohibbulwara/orjon/services"
	"github.com/mohibbulwara/orjon/storage"
)

// Deps is everything the route groups hand to controllers.
type Deps struct {
	Service       *services.Service
	Auth          *auth.Handlers
	Issuer        *auth.Issuer
	Hub           *realtime.Hub
	Blobs         storage.Blobs
	MaxUploadSize int64
	MetricsKey    string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", middleware.ValidateAPIKey(d.MetricsKey), metrics.Handler())
	r.GET("/ws", realtime.Handler(d.Hub, d.Issuer.UserID))

	// Public auth and storefront routes
	SetupAuthRoutes(r, d)
	SetupStorefrontRoutes(r, d)

	// JWT-protected routes
	SetupUserRoutes(r, d)
	SetupSellerRoutes(r, d)
	SetupOrderRoutes(r, d)

	// Staff routes
	SetupAdminRoutes(r, d)
}
