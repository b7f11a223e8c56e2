// internal/interfaces/http/handlers/user_address.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// UserAddressHandler handles address book endpoints
type UserAddressHandler struct {
	addresses *user.AddressService
}

// NewUserAddressHandler creates a new address handler
func NewUserAddressHandler(addresses *user.AddressService) *UserAddressHandler {
	return &UserAddressHandler{addresses: addresses}
}

// List handles GET /users/me/addresses
func (h *UserAddressHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	addresses, err := h.addresses.ListAddresses(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list addresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": addresses})
}

// Create handles POST /users/me/addresses
func (h *UserAddressHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req user.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	address, err := h.addresses.CreateAddress(userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"data":    address,
	})
}

// Update handles PUT /users/me/addresses/:id
func (h *UserAddressHandler) Update(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	var req user.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	address, err := h.addresses.UpdateAddress(userID, addressID, &req)
	if err != nil {
		if errors.Is(err, user.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"data":    address,
	})
}

// Delete handles DELETE /users/me/addresses/:id
func (h *UserAddressHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	addressID, ok := parseAddressID(c)
	if !ok {
		return
	}

	if err := h.addresses.DeleteAddress(userID, addressID); err != nil {
		if errors.Is(err, user.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete address"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Address deleted successfully"})
}

func parseAddressID(c *gin.Context) (uint, bool) {
	addressID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
		return 0, false
	}
	return uint(addressID), true
}
