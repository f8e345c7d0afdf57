package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/auth"
	"github.com/mohibbulwara/orjon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func router(iss *auth.Issuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", ValidateToken(iss), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "role": Role(c)})
	})
	r.GET("/admin", ValidateToken(iss), RequireRoles(models.RoleAdmin, models.RoleModerator), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/metrics", ValidateAPIKey("k3y"), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	iss := auth.NewIssuer("s3cret", time.Hour)
	r := router(iss)
	tok, err := iss.Issue(&models.User{ID: "u1", Role: models.RoleBuyer})
	require.NoError(t, err)

	w := get(r, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/me", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/me", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","role":"buyer"}`, w.Body.String())

	// bare tokens are accepted too
	w = get(r, "/me", map[string]string{"Authorization": tok})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles(t *testing.T) {
	iss := auth.NewIssuer("s3cret", time.Hour)
	r := router(iss)
	for role, want := range map[models.Role]int{
		models.RoleBuyer:     http.StatusForbidden,
		models.RoleSeller:    http.StatusForbidden,
		models.RoleModerator: http.StatusNoContent,
		models.RoleAdmin:     http.StatusNoContent,
	} {
		tok, err := iss.Issue(&models.User{ID: "u", Role: role})
		require.NoError(t, err)
		w := get(r, "/admin", map[string]string{"Authorization": "Bearer " + tok})
		assert.Equal(t, want, w.Code, role)
	}
}

func TestValidateAPIKey(t *testing.T) {
	r := router(auth.NewIssuer("s3cret", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/metrics", nil).Code)
	assert.Equal(t, http.StatusOK, get(r, "/metrics", map[string]string{"X-API-KEY": "k3y"}).Code)
}
