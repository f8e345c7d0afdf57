package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// POST /user/cart
func UpdateCartItem(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.BadRequest(c, "Invalid input: "+err.Error())
			return
		}
		cart, err := svc.SetCartItem(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Quantity)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.SetCartItem(c.Request.Context(), middleware.UserID(c), c.Param("product_id"), 0)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /user/cart
func ClearUserCart(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearCart(c.Request.Context(), middleware.UserID(c)); err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /user/cart
func GetUserCart(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.GetCart(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// GET /admin/users/:user_id/cart
func GetAdminUserCart(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		if _, err := svc.GetUser(c.Request.Context(), userID); err != nil {
			httperr.Write(c, err)
			return
		}
		cart, err := svc.GetCart(c.Request.Context(), userID)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
