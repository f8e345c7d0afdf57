package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

// GET /seller/quota
func GetUploadQuota(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		quota, err := svc.UploadQuota(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, quota)
	}
}

// POST /seller/upgrade
func UpgradePlan(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.UpgradePlan(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Plan upgraded to pro", "user": user})
	}
}

// GET /seller/stats
func GetSellerStats(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.SellerStats(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
