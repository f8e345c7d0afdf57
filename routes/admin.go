package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/mohibbulwara/orjon/controllers/admin"
	cartControllers "github.com/mohibbulwara/orjon/controllers/cart"
	orderControllers "github.com/mohibbulwara/orjon/controllers/order"
	productcontroller "github.com/mohibbulwara/orjon/controllers/product"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Moderators can read;
// only admins can change anything.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	svc := d.Service
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(d.Issuer), middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))
	{
		// ─────────── Dashboard ───────────
		adminGroup.GET("/stats", adminController.GetStats(svc))
		adminGroup.GET("/orders", orderControllers.GetAllOrders(svc)) // ?status=&seller_id=&limit=&offset=
		adminGroup.GET("/settlements", adminController.GetSettlements(svc))
		adminGroup.GET("/settlements/export", adminController.ExportSettlements(svc))

		// ─────────── User Management ───────────
		adminGroup.GET("/users", adminController.GetAllUsers(svc))
		adminGroup.GET("/users/:user_id/cart", cartControllers.GetAdminUserCart(svc))

		writes := adminGroup.Group("/", middleware.RequireRoles(models.RoleAdmin))
		{
			writes.DELETE("/users/:user_id", adminController.DeleteUser(svc))
			writes.PUT("/sellers/:user_id/activate", adminController.ActivateSeller(svc))

			// ─────────── Product Management ───────────
			writes.PUT("/products/:id", productcontroller.UpdateProduct(svc)) // includes rating
			writes.DELETE("/products/:id", productcontroller.DeleteProduct(svc))
		}
	}
}
