package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/noshco/storefront/internal/database"
	"github.com/noshco/storefront/internal/logging"
	"github.com/noshco/storefront/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "storefront-api"

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues a short-lived bearer token carrying
// the user's role.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := store.GetUserByUsername(c.Request.Context(), h.db, req.Username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.internalError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		logging.From(c).Warn("failed login attempt", "username", req.Username, "ip", c.ClientIP())
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.cfg.Auth.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":      tokenIssuer,
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(h.cfg.Auth.JWTSecret))
	if err != nil {
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     signed,
		"role":      user.Role,
		"expiresAt": expiresAt,
	})
}
