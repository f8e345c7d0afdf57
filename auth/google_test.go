package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/config"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
	"github.com/mohibbulwara/orjon/testutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier accepts "good-<uid>" tokens.
type stubVerifier struct{ email string }

func (s stubVerifier) Verify(_ context.Context, raw string) (services.Identity, error) {
	if !strings.HasPrefix(raw, "good-") {
		return services.Identity{}, errors.New("bad token")
	}
	uid := strings.TrimPrefix(raw, "good-")
	return services.Identity{UID: uid, Email: s.email, Name: "Karim"}, nil
}

func newRouter(t *testing.T, email string, admins ...string) (*gin.Engine, *Issuer) {
	t.Helper()
	db := testutil.DB(t)

	iss := NewIssuer("s3cret", time.Hour)
	h := &Handlers{
		Service:     services.New(db, config.DefaultPricing(), events.Nop),
		Verifier:    stubVerifier{email: email},
		Issuer:      iss,
		AdminEmails: admins,
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", h.Login())
	r.POST("/auth/register", h.Register())
	return r, iss
}

func post(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterThenLogin(t *testing.T) {
	r, iss := newRouter(t, "karim@example.com")

	w := post(r, "/auth/login", gin.H{"idToken": "good-u1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"registered":false`)

	w = post(r, "/auth/register", gin.H{
		"idToken": "good-u1", "role": "Seller", "shop_name": "Karim's",
		"shop_address": "Station Road", "zone": string(models.ZoneInsideRangpurCity),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = post(r, "/auth/login", gin.H{"idToken": "good-u1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleSeller, resp.User.Role)
	claims, err := iss.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleSeller, claims.Role)
}

func TestRegisterRejects(t *testing.T) {
	r, _ := newRouter(t, "karim@example.com")

	w := post(r, "/auth/register", gin.H{"idToken": "forged", "role": "buyer"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = post(r, "/auth/register", gin.H{"idToken": "good-u2", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/auth/register", gin.H{"idToken": "good-u2", "role": "wizard"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(r, "/auth/register", gin.H{"role": "buyer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEmailLogsInAsAdmin(t *testing.T) {
	r, iss := newRouter(t, "Ops@Example.com", "ops@example.com")

	w := post(r, "/auth/login", gin.H{"idToken": "good-ops"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := iss.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
