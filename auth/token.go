package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mohibbulwara/orjon/models"
	"github.com/pkg/errors"
)

// Claims is the session token payload.
type Claims struct {
	UserID  string      `json:"user_id"`
	Email   string      `json:"email"`
	Role    models.Role `json:"role"`
	Name    string      `json:"name"`
	Picture string      `json:"picture"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid or expired token")

// Issuer signs and checks HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for u.
func (i *Issuer) Issue(u *models.User) (string, error) {
	now := i.now()
	claims := Claims{
		UserID:  u.ID,
		Email:   u.Email,
		Role:    u.Role,
		Name:    u.Name,
		Picture: u.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	return signed, errors.Wrap(err, "sign token")
}

// Parse validates a token and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID resolves a token to its user, for the websocket handshake.
func (i *Issuer) UserID(raw string) (string, error) {
	claims, err := i.Parse(raw)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
