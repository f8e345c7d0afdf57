package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/mohibbulwara/orjon/controllers/cart"
	orderControllers "github.com/mohibbulwara/orjon/controllers/order"
	productControllers "github.com/mohibbulwara/orjon/controllers/product"
	uploadController "github.com/mohibbulwara/orjon/controllers/upload"
	userControllers "github.com/mohibbulwara/orjon/controllers/user"
	"github.com/mohibbulwara/orjon/middleware"
)

// SetupStorefrontRoutes registers the public browsing endpoints.
func SetupStorefrontRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productControllers.GetProducts(d.Service))
	r.GET("/products/options", productControllers.GetCatalogOptions(d.Service))
	r.GET("/products/:id", productControllers.GetProductByID(d.Service))
	r.GET("/sellers", userControllers.GetSellers(d.Service))
	r.GET("/sellers/:id", userControllers.GetSeller(d.Service))
}

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	svc := d.Service
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Issuer))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(svc))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(svc)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(svc))                  // GET /user/cart
			cartGroup.POST("/", cartControllers.UpdateCartItem(svc))              // POST /user/cart
			cartGroup.GET("/quote", orderControllers.QuoteCart(svc))              // GET /user/cart/quote?zone=
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(svc)) // DELETE /user/cart/:product_id
			cartGroup.DELETE("/", cartControllers.ClearUserCart(svc))             // DELETE /user/cart
		}

		// ──────────────── Notifications ────────────────
		userGroup.GET("/notifications", userControllers.GetNotifications(svc))
		userGroup.PUT("/notifications/read", userControllers.MarkAllNotificationsRead(svc))
		userGroup.PUT("/notifications/:id/read", userControllers.MarkNotificationRead(svc))

		// ──────────────── Uploads ────────────────
		userGroup.POST("/uploads", uploadController.HandleImageUpload(d.Blobs, d.MaxUploadSize))
	}
}
