package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", d.Auth.Login())       // Google sign-in, existing account
		authGroup.POST("/register", d.Auth.Register()) // Google sign-in, first visit
	}
}
