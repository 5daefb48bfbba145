package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/audit"
	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// IDTokenVerifier checks a Firebase ID token.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebase.Identity, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	store        Store
	tokens       TokenIssuer
	firebaseAuth IDTokenVerifier
	hashPassword func(string) (string, error)
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil, in which
// case the Firebase login route is not registered.
func NewAuthHandler(s Store, tokens TokenIssuer, firebaseAuth IDTokenVerifier, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		store:        s,
		tokens:       tokens,
		firebaseAuth: firebaseAuth,
		hashPassword: func(pw string) (string, error) {
			return auth.HashPassword(pw, bcryptCost)
		},
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/auth/signup", h.Signup)
	g.POST("/auth/login", h.Login)
	if h.firebaseAuth != nil {
		g.POST("/auth/firebase-login", h.FirebaseLogin)
	}
}

// Signup handles local user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	// Reject known duplicates before paying for the hash. CreateUser checks again under its lock.
	if h.store.UserExists(req.Email, req.Username) {
		return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
	}

	hashedPassword, err := h.hashPassword(req.Password)
	if err != nil {
		return unexpected("hash password", err)
	}

	ctx := c.Request().Context()
	user, err := h.store.CreateUser(ctx, models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		FullName: req.FullName,
		Avatar:   models.DefaultAvatar,
	})
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		}
		return unexpected("create user", err)
	}

	audit.Log(ctx, audit.ActionSignup, user.ID, "user signed up")
	return h.respondWithToken(c, user)
}

// Login handles local user authentication with email and password. Unknown
// email and wrong password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		audit.LogWithDetail(ctx, audit.ActionLoginFailed, user.ID, req.Email, "login rejected")
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")
	return h.respondWithToken(c, user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token, creating the
// account on first use.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req struct {
		IDToken string `json:"idToken" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	identity, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, created, err := h.store.FindOrCreateUserByEmail(ctx, models.User{
		Username: usernameFromEmail(identity.Email),
		Email:    identity.Email,
		FullName: identity.Name,
		Avatar:   identity.Picture,
	})
	if err != nil {
		return unexpected("find or create firebase user", err)
	}

	if created {
		audit.LogWithDetail(ctx, audit.ActionSignup, user.ID, "firebase", "user signed up")
	}
	audit.Log(ctx, audit.ActionFirebaseLogin, user.ID, "user logged in with firebase")
	return h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, user models.User) error {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return unexpected("issue token", err)
	}
	return c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User:  user.ToPublic(),
	})
}

// usernameFromEmail keeps the letters, digits and underscores of the local part.
func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
