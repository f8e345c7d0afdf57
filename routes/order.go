package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/mohibbulwara/orjon/controllers/order"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
)

// SetupOrderRoutes registers buyer checkout and the status endpoint shared
// by sellers and admins.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	svc := d.Service
	orderGroup := r.Group("/user/orders")
	orderGroup.Use(middleware.ValidateToken(d.Issuer))
	{
		orderGroup.POST("/", orderControllers.PlaceOrder(svc)) // POST /user/orders
		orderGroup.GET("/", orderControllers.GetMyOrders(svc)) // GET /user/orders
		orderGroup.GET("/:id", orderControllers.GetOrder(svc)) // GET /user/orders/:id
	}

	r.PUT("/orders/:id/status",
		middleware.ValidateToken(d.Issuer),
		middleware.RequireRoles(models.RoleSeller, models.RoleAdmin),
		orderControllers.UpdateOrderStatus(svc),
	)
}
