// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHeader carries the device's session id. The storefront generates one
// per browser and sends it on every request; guest carts and favorites key on
// it.
const SessionHeader = "X-Session-ID"

// Session ensures every request carries a session id, minting one when the
// client has none yet. The id is echoed back so the client can persist it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		c.Set("session_id", sessionID)
		c.Header(SessionHeader, sessionID)

		c.Next()
	}
}

// GetSessionIDFromContext extracts the session id from gin context
func GetSessionIDFromContext(c *gin.Context) string {
	return c.GetString("session_id")
}
