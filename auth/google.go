package auth

import (
	"context"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/config"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
	"github.com/pkg/errors"
)

// Verifier checks an identity-provider token (Google sign-in through
// Firebase in production).
type Verifier interface {
	Verify(ctx context.Context, idToken string) (services.Identity, error)
}

// NewFirebaseApp initializes Firebase with the configured credentials.
func NewFirebaseApp(ctx context.Context, cfg config.FirebaseConfig) (*firebase.App, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, cfg.ClientOptions()...)
	return app, errors.Wrap(err, "initialize firebase")
}

type FirebaseVerifier struct {
	client    *fbauth.Client
	projectID string
}

func NewFirebaseVerifier(ctx context.Context, app *firebase.App, projectID string) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "firebase auth client")
	}
	return &FirebaseVerifier{client: client, projectID: projectID}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (services.Identity, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return services.Identity{}, errors.Wrap(err, "verify id token")
	}
	if v.projectID != "" && token.Audience != v.projectID {
		return services.Identity{}, errors.Errorf("token audience %q does not match project", token.Audience)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return services.Identity{}, errors.New("email not found in token")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)
	return services.Identity{UID: token.UID, Email: email, Name: name, Picture: picture}, nil
}

// -------- Handlers --------

type Handlers struct {
	Service  *services.Service
	Verifier Verifier
	Issuer   *Issuer
	// AdminEmails sign in as admins without registering.
	AdminEmails []string
}

func (h *Handlers) isAdminEmail(email string) bool {
	email = strings.ToLower(email)
	for _, e := range h.AdminEmails {
		if e == email {
			return true
		}
	}
	return false
}

func (h *Handlers) respond(c *gin.Context, status int, msg string, u *models.User) {
	token, err := h.Issuer.Issue(u)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(status, gin.H{"message": msg, "user": u, "token": token})
}

// Login handles POST /auth/login.
func (h *Handlers) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "Invalid request payload")
			return
		}
		ctx := c.Request.Context()
		id, err := h.Verifier.Verify(ctx, req.IDToken)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("id token rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}

		var u *models.User
		if h.isAdminEmail(id.Email) {
			u, err = h.Service.EnsureAdmin(ctx, id)
		} else {
			u, err = h.Service.Login(ctx, id)
		}
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not registered", "registered": false})
			return
		}
		if err != nil {
			httperr.Write(c, err)
			return
		}
		h.respond(c, http.StatusOK, "Login successful", u)
	}
}

// Register handles POST /auth/register.
func (h *Handlers) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
			services.RegisterRequest
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "Invalid request payload")
			return
		}
		ctx := c.Request.Context()
		id, err := h.Verifier.Verify(ctx, req.IDToken)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("id token rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}
		role, err := models.ParseRole(string(req.Role))
		if err != nil {
			httperr.BadRequest(c, err.Error())
			return
		}
		req.Role = role

		u, err := h.Service.Register(ctx, id, req.RegisterRequest)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		h.respond(c, http.StatusCreated, "Registration successful", u)
	}
}
