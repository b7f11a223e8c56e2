// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// OrderHandler handles order history endpoints. Orders are read-only for
// customers: they are created through checkout and never mutated here.
type OrderHandler struct {
	orders *order.Service
	pdf    *pdf.Service
	log    *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Service, pdfService *pdf.Service, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, pdf: pdfService, log: log}
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.orders.ListByUser(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListByClient handles GET /orders/client/:userId. Customers can only read
// their own history; a mismatched id reads as forbidden.
func (h *OrderHandler) ListByClient(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	requestedID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	if uint(requestedID) != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.orders.ListByUser(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	ord, err := h.orders.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ord})
}

// Invoice handles GET /orders/:id/invoice. The PDF is rendered on demand;
// the stored invoice URL just points back here.
func (h *OrderHandler) Invoice(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	ord, err := h.orders.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}

	buf, err := h.pdf.GenerateInvoice(ord)
	if err != nil {
		h.log.WithError(err).WithField("order_id", ord.ID).Error("Invoice generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
		return
	}

	if ord.InvoiceURL == "" {
		url := fmt.Sprintf("/api/v1/orders/%d/invoice", ord.ID)
		if err := h.orders.SetInvoiceURL(c.Request.Context(), ord.ID, url); err != nil {
			h.log.WithError(err).WithField("order_id", ord.ID).Warn("Failed to record invoice URL")
		}
	}

	filename := fmt.Sprintf("invoice-%s.pdf", ord.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func parseOrderID(c *gin.Context) (uint, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return 0, false
	}
	return uint(orderID), true
}
