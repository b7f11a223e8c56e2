// internal/domain/interaction/entity.go
package interaction

import "time"

// Known interaction types. Unknown types are stored as-is; the set here only
// drives validation of what the storefront emits today.
const (
	TypePageView     = "page_view"
	TypeProductView  = "product_view"
	TypeAddToCart    = "add_to_cart"
	TypeSearch       = "search"
	TypeFavorite     = "favorite"
	TypeCheckoutStep = "checkout_step"
)

// Interaction is one recorded browsing event. Rows are append-only and
// carry either a user or just the anonymous session.
type Interaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"not null;index;size:100" json:"session_id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Type      string    `gorm:"not null;index;size:50" json:"type"`
	Page      string    `gorm:"size:255" json:"page,omitempty"`
	TargetID  *uint     `gorm:"index" json:"target_id,omitempty"`
	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Interaction) TableName() string {
	return "interactions"
}
