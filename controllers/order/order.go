package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
	"github.com/mohibbulwara/orjon/settlement"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// statusFilter parses an optional ?status= value.
func statusFilter(c *gin.Context) (models.OrderStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return "", true
	}
	status, err := models.ParseOrderStatus(raw)
	if err != nil {
		httperr.BadRequest(c, "Invalid order status")
		return "", false
	}
	return status, true
}

func displayQuote(q settlement.Quote) gin.H {
	return gin.H{
		"subtotal":        settlement.Display(q.Subtotal),
		"platform_fee":    settlement.Display(q.PlatformFee),
		"seller_receives": settlement.Display(q.SellerReceives),
		"shipping_cost":   settlement.Display(q.ShippingCost),
		"total":           settlement.Display(q.Total),
	}
}

// -------- Core Logic --------

// QuoteCart previews checkout totals for ?zone=.
func QuoteCart(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		zone := models.DeliveryZone(c.Query("zone"))
		if zone != "" && !zone.Valid() {
			httperr.BadRequest(c, "Invalid delivery zone")
			return
		}
		q, err := svc.QuoteCart(c.Request.Context(), middleware.UserID(c), zone)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quote": q, "display": displayQuote(q)})
	}
}

// PlaceOrder checks out the caller's cart.
func PlaceOrder(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "Invalid request payload")
			return
		}
		order, err := svc.PlaceOrder(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
	}
}

func GetMyOrders(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.BuyerOrders(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func GetOrder(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.GetOrder(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// GetSellerOrders lists orders containing the caller's products.
func GetSellerOrders(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := statusFilter(c)
		if !ok {
			return
		}
		orders, err := svc.SellerOrders(c.Request.Context(), middleware.UserID(c), status)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// UpdateOrderStatus moves an order along its lifecycle.
func UpdateOrderStatus(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "Invalid request payload")
			return
		}
		status, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			httperr.BadRequest(c, "Invalid order status")
			return
		}
		order, err := svc.UpdateOrderStatus(c.Request.Context(), middleware.UserID(c), c.Param("id"), status)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
	}
}

// GetAllOrders is the staff order listing.
func GetAllOrders(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := statusFilter(c)
		if !ok {
			return
		}
		orders, total, err := svc.AllOrders(c.Request.Context(), services.OrderFilter{
			Status:   status,
			SellerID: c.Query("seller_id"),
			Limit:    queryInt(c, "limit", 50),
			Offset:   queryInt(c, "offset", 0),
		})
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
	}
}
