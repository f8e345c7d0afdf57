package userControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

// GET /user/notifications
func GetNotifications(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userID := middleware.UserID(c)
		limit, _ := strconv.Atoi(c.Query("limit"))

		notes, err := svc.Notifications(ctx, userID, limit)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		unread, err := svc.UnreadCount(ctx, userID)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": notes, "unread": unread})
	}
}

// PUT /user/notifications/:id/read
func MarkNotificationRead(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkNotificationRead(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
	}
}

// PUT /user/notifications/read
func MarkAllNotificationsRead(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.MarkAllNotificationsRead(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": n})
	}
}
