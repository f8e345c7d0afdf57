package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mohibbulwara/orjon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seller() *models.User {
	return &models.User{ID: "uid-7", Email: "k@example.com", Name: "Karim", Role: models.RoleSeller, Avatar: "https://pic"}
}

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	raw, err := iss.Issue(seller())
	require.NoError(t, err)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "uid-7", claims.UserID)
	assert.Equal(t, models.RoleSeller, claims.Role)
	assert.Equal(t, "https://pic", claims.Picture)

	id, err := iss.UserID(raw)
	require.NoError(t, err)
	assert.Equal(t, "uid-7", id)
}

func TestParseRejects(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)
	raw, err := iss.Issue(seller())
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	later := NewIssuer("s3cret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x", Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "x", Role: "superadmin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = iss.Parse(forged)
	assert.ErrorIs(t, err, ErrInvalidToken, "unknown role")

	_, err = iss.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
