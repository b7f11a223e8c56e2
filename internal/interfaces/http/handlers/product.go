// internal/interfaces/http/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	products *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.products.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	p, err := h.products.Get(uint(id))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// GetBySlug handles GET /products/slug/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.products.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

// ListPromotions handles GET /promotions
func (h *ProductHandler) ListPromotions(c *gin.Context) {
	promotions, err := h.products.ListPromotions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list promotions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promotions})
}

// GetPromotion handles GET /promotions/:id
func (h *ProductHandler) GetPromotion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid promotion ID"})
		return
	}

	promo, err := h.products.GetPromotion(uint(id))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load promotion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": promo})
}
