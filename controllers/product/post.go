package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

// CreateProduct adds a product to the caller's shop. Images are URLs
// returned by the upload endpoint.
func CreateProduct(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			httperr.BadRequest(c, "Invalid request payload")
			return
		}
		product, err := svc.CreateProduct(c.Request.Context(), middleware.UserID(c), in)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
	}
}
