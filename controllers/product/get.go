package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
)

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetCatalogOptions lists the fixed categories, tags and commission rates
// the product form offers.
func GetCatalogOptions(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"categories":  models.Categories,
			"tags":        []string{models.TagBestValue, models.TagSpicy, models.TagNew},
			"commissions": svc.Pricing().Rules.AllowedCommissions,
		})
	}
}
