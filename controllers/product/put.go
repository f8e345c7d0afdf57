package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

// UpdateProduct applies a partial update. Sellers edit their own products;
// admins edit any product and may set its rating.
func UpdateProduct(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch services.ProductPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			httperr.BadRequest(c, "Invalid request payload")
			return
		}
		product, err := svc.UpdateProduct(c.Request.Context(), middleware.UserID(c), c.Param("id"), patch)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
	}
}

// SetAvailability is PATCH /seller/products/:id/availability.
func SetAvailability(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IsAvailable *bool `json:"is_available" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "is_available is required")
			return
		}
		product, err := svc.SetProductAvailability(c.Request.Context(), middleware.UserID(c), c.Param("id"), *req.IsAvailable)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}
