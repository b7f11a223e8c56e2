// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles checkout wizard endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc}
}

// GetState handles GET /checkout/state
func (h *CheckoutHandler) GetState(c *gin.Context) {
	state, err := h.checkout.State(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checkout state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// Advance handles POST /checkout/advance
func (h *CheckoutHandler) Advance(c *gin.Context) {
	state, err := h.checkout.Advance(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c))
	if err != nil {
		h.stepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// GoToStep handles POST /checkout/step
func (h *CheckoutHandler) GoToStep(c *gin.Context) {
	var req struct {
		Step *int `json:"step" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state, err := h.checkout.GoToStep(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c), *req.Step)
	if err != nil {
		h.stepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": state})
}

// GetSummary handles GET /checkout/summary
func (h *CheckoutHandler) GetSummary(c *gin.Context) {
	deliveryMethodID := c.Query("delivery_method")

	summary, err := h.checkout.GetSummary(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c), deliveryMethodID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrCartEmpty):
			c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty"})
		case errors.Is(err, checkout.ErrInvalidDeliveryMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery method not available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build checkout summary"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// Submit handles POST /checkout/submit
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var req checkout.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ord, err := h.checkout.Submit(c.Request.Context(), middleware.UserIDPtr(c), middleware.GetSessionIDFromContext(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrLoginRequired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Login required to place an order"})
		case errors.Is(err, checkout.ErrCartEmpty), errors.Is(err, order.ErrCartEmpty):
			c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty"})
		case errors.Is(err, checkout.ErrStepLocked):
			c.JSON(http.StatusConflict, gin.H{"error": "Checkout has not reached confirmation"})
		case errors.Is(err, checkout.ErrInvalidDeliveryMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Delivery method not available"})
		case errors.Is(err, checkout.ErrInvalidPaymentMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method not available"})
		case errors.Is(err, user.ErrAddressNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    ord,
	})
}

func (h *CheckoutHandler) stepError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty"})
	case errors.Is(err, checkout.ErrStepLocked):
		c.JSON(http.StatusConflict, gin.H{"error": "Step not reachable yet"})
	case errors.Is(err, checkout.ErrInvalidStep):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout step"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout navigation failed"})
	}
}
