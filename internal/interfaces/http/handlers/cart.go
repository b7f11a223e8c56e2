// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints. The same routes serve guests and
// signed-in customers; the service routes on the optional user id.
type CartHandler struct {
	carts *cart.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.carts.GetCart(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    view,
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.carts.AddItem(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c), &req)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    view,
	})
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	view, err := h.carts.UpdateItem(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c), itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    view,
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}

	view, err := h.carts.RemoveItem(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    view,
	})
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	err := h.carts.ClearCart(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// Merge handles POST /cart/merge. It retries the login-time merge of the
// device's guest cart into the user cart; safe to call again after a partial
// failure.
func (h *CartHandler) Merge(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	err := h.carts.MergeGuestCart(c.Request.Context(), userID, middleware.GetSessionIDFromContext(c))
	if err != nil {
		var mergeErr *cart.MergeError
		if errors.As(err, &mergeErr) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "Cart merge partially failed",
				"merged": mergeErr.Merged,
				"failed": mergeErr.Failed,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge cart"})
		return
	}

	view, err := h.carts.GetCart(c.Request.Context(), &userID, middleware.GetSessionIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart merged successfully",
		"data":    view,
	})
}

func parseItemID(c *gin.Context) (uint, bool) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return 0, false
	}
	return uint(itemID), true
}
