package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

func DeleteProduct(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
