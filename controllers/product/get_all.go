package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
)

// parseFilter reads the storefront query parameters. It writes a 400 and
// returns false on bad input.
func parseFilter(c *gin.Context) (services.ProductFilter, bool) {
	f := services.ProductFilter{
		Category:  models.Category(c.Query("category")),
		SellerID:  c.Query("seller_id"),
		Search:    c.Query("search"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		Ascending: strings.ToLower(c.DefaultQuery("order", "desc")) == "asc",
	}
	if f.Category != "" && !f.Category.Valid() {
		httperr.BadRequest(c, "Invalid category")
		return f, false
	}
	for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httperr.BadRequest(c, "Invalid "+key)
			return f, false
		}
		*dst = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		f.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		f.Offset = v
	}
	return f, true
}

// GetProducts is the public storefront listing.
func GetProducts(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := parseFilter(c)
		if !ok {
			return
		}
		products, err := svc.ListProducts(c.Request.Context(), f)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// GetMyProducts lists the caller's own catalog, unavailable items included.
func GetMyProducts(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := parseFilter(c)
		if !ok {
			return
		}
		f.SellerID = middleware.UserID(c)
		f.IncludeUnavailable = true
		products, err := svc.ListProducts(c.Request.Context(), f)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}
