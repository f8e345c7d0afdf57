package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/mohibbulwara/orjon/controllers/order"
	productControllers "github.com/mohibbulwara/orjon/controllers/product"
	userControllers "github.com/mohibbulwara/orjon/controllers/user"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
)

// SetupSellerRoutes registers the seller dashboard under "/seller".
func SetupSellerRoutes(r *gin.Engine, d Deps) {
	svc := d.Service
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken(d.Issuer), middleware.RequireRoles(models.RoleSeller))
	{
		sellerGroup.GET("/stats", userControllers.GetSellerStats(svc))
		sellerGroup.GET("/quota", userControllers.GetUploadQuota(svc))
		sellerGroup.POST("/upgrade", userControllers.UpgradePlan(svc))
		sellerGroup.GET("/orders", orderControllers.GetSellerOrders(svc)) // ?status=

		productGroup := sellerGroup.Group("/products")
		{
			productGroup.GET("/", productControllers.GetMyProducts(svc))
			productGroup.POST("/", productControllers.CreateProduct(svc))
			productGroup.POST("/import", productControllers.ImportProductsFromExcel(svc))
			productGroup.GET("/export", productControllers.ExportProductsToExcel(svc))
			productGroup.PUT("/:id", productControllers.UpdateProduct(svc))
			productGroup.PATCH("/:id/availability", productControllers.SetAvailability(svc))
			productGroup.DELETE("/:id", productControllers.DeleteProduct(svc))
		}
	}
}
