package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/services"
)

// GET /user
func GetUser(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /user
func UpdateUser(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.ProfileUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.BadRequest(c, err.Error())
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), input)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /sellers
func GetSellers(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellers, err := svc.ListSellers(c.Request.Context())
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sellers": sellers})
	}
}

// GET /sellers/:id
func GetSeller(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		seller, err := svc.GetSeller(c.Request.Context(), c.Param("id"))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, seller)
	}
}
