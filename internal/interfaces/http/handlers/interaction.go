// internal/interfaces/http/handlers/interaction.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/interaction"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// InteractionHandler handles interaction tracking endpoints
type InteractionHandler struct {
	interactions *interaction.Service
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(interactions *interaction.Service) *InteractionHandler {
	return &InteractionHandler{interactions: interactions}
}

// Track handles POST /interactions. Always answers accepted: tracking must
// never get in the way of browsing.
func (h *InteractionHandler) Track(c *gin.Context) {
	var req interaction.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	_ = h.interactions.Track(
		c.Request.Context(),
		middleware.GetSessionIDFromContext(c),
		middleware.UserIDPtr(c),
		&req,
	)

	c.JSON(http.StatusAccepted, gin.H{"message": "Interaction recorded"})
}
