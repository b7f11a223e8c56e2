// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	users *user.Service
	carts *cart.Service
	log   *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *user.Service, carts *cart.Service, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{users: users, carts: carts, log: log}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.users.Register(&req)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mergeGuestCart(c, resp.User.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"data":    resp,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.users.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	merged := h.mergeGuestCart(c, resp.User.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Login successful",
		"data":        resp,
		"cart_merged": merged,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.users.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"data":    resp,
	})
}

// mergeGuestCart folds the device's guest cart into the user cart after sign
// in. Best effort: a failed merge keeps the guest cart intact and the client
// can retry through POST /cart/merge.
func (h *AuthHandler) mergeGuestCart(c *gin.Context, userID uint) bool {
	sessionID := middleware.GetSessionIDFromContext(c)
	if sessionID == "" {
		return false
	}

	if err := h.carts.MergeGuestCart(c.Request.Context(), userID, sessionID); err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": sessionID,
		}).Warn("Guest cart merge after login failed")
		return false
	}
	return true
}
