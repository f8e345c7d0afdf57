// Package httperr maps service errors onto HTTP responses.
package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/services"
	"github.com/pkg/errors"
)

// Status picks the response code for err.
func Status(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrQuotaExceeded):
		return http.StatusConflict
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrSellerSuspended):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Write sends err as {"error": msg}. Internal errors are logged and their
// details are not sent.
func Write(c *gin.Context, err error) {
	status := Status(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		msg = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// BadRequest is for malformed bodies and parameters.
func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
