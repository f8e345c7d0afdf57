package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
)

// GET /admin/users?role=&search=
func GetAllUsers(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := services.UserFilter{Search: c.Query("search")}
		if raw := c.Query("role"); raw != "" {
			role, err := models.ParseRole(raw)
			if err != nil {
				httperr.BadRequest(c, "Invalid role")
				return
			}
			f.Role = role
		}
		users, err := svc.ListUsers(c.Request.Context(), f)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

// DELETE /admin/users/:user_id
func DeleteUser(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteUser(c.Request.Context(), middleware.UserID(c), c.Param("user_id")); err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}

// PUT /admin/sellers/:user_id/activate
func ActivateSeller(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.ActivateSeller(c.Request.Context(), middleware.UserID(c), c.Param("user_id"))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Seller activated", "user": user})
	}
}

// GET /admin/stats
func GetStats(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.AdminStats(c.Request.Context())
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
