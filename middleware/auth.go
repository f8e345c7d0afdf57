package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/auth"
	"github.com/mohibbulwara/orjon/models"
	"github.com/rs/zerolog"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// ValidateToken requires a session token in the Authorization header and
// stores the user id and role on the context.
func ValidateToken(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, claims.Role)

		ctx := c.Request.Context()
		log := zerolog.Ctx(ctx).With().Str("user_id", claims.UserID).Logger()
		c.Request = c.Request.WithContext(log.WithContext(ctx))
		c.Next()
	}
}

// RequireRoles lets only the given roles through. It must run after
// ValidateToken.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
	}
}

// UserID is the authenticated user's id.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func Role(c *gin.Context) models.Role {
	role, _ := c.Get(roleKey)
	r, _ := role.(models.Role)
	return r
}
