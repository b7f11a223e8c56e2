// internal/interfaces/http/handlers/favorite.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/favorite"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// FavoriteHandler handles favorites endpoints. Favorites follow the device
// session, signed in or not.
type FavoriteHandler struct {
	favorites *favorite.Service
}

// NewFavoriteHandler creates a new favorites handler
func NewFavoriteHandler(favorites *favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List handles GET /favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	list, err := h.favorites.List(c.Request.Context(), middleware.GetSessionIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load favorites"})
		return
	}
	if list == nil {
		list = []favorite.Favorite{}
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ToggleRequest identifies the product or promotion to toggle.
type ToggleRequest struct {
	Kind  favorite.Kind `json:"kind" binding:"required"`
	RefID uint          `json:"ref_id" binding:"required"`
}

// Toggle handles POST /favorites/toggle
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	isFavorite, err := h.favorites.Toggle(c.Request.Context(), middleware.GetSessionIDFromContext(c), req.Kind, req.RefID)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Reference not found"})
		case errors.Is(err, favorite.ErrUnknownKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown favorite kind"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle favorite"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"is_favorite": isFavorite}})
}

// Check handles GET /favorites/check
func (h *FavoriteHandler) Check(c *gin.Context) {
	var req struct {
		Kind  favorite.Kind `form:"kind" binding:"required"`
		RefID uint          `form:"ref_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	isFavorite, err := h.favorites.IsFavorite(c.Request.Context(), middleware.GetSessionIDFromContext(c), req.Kind, req.RefID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"is_favorite": isFavorite}})
}

// Clear handles DELETE /favorites
func (h *FavoriteHandler) Clear(c *gin.Context) {
	if err := h.favorites.Clear(c.Request.Context(), middleware.GetSessionIDFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorites cleared successfully"})
}
