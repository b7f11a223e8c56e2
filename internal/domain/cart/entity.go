// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/pricing"
)

// Status tags the lifecycle of a user cart.
type Status string

const (
	StatusActive        Status = "active"
	StatusOrdered       Status = "ordered"
	StatusQuoted        Status = "quoted"
	StatusQuotedOrdered Status = "quoted_ordered"
)

// Cart represents a server-side cart for authenticated users. Line items are
// unique by product id; totals are always recomputed from the lines, never
// stored.
type Cart struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Status    Status         `gorm:"not null;default:'active';size:20" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Item represents one product-and-quantity line within a user cart. The
// product snapshot (name, image, unit prices) is denormalized so the cart
// stays displayable even if the catalog entry changes or disappears.
type Item struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"not null;index" json:"cart_id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	ImageURL     string    `gorm:"size:500" json:"image_url"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	UnitPriceHT  int64     `gorm:"not null" json:"unit_price_ht"`  // In cents, at time of adding
	UnitPriceTTC int64     `gorm:"not null" json:"unit_price_ttc"` // In cents, at time of adding
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string { return "carts" }
func (Item) TableName() string { return "cart_items" }

// Totals recomputes cart totals from the current lines.
func (c *Cart) Totals() pricing.Totals {
	lines := make([]pricing.Line, len(c.Items))
	for i, item := range c.Items {
		lines[i] = pricing.Line{
			UnitPriceHT:  item.UnitPriceHT,
			UnitPriceTTC: item.UnitPriceTTC,
			Quantity:     item.Quantity,
		}
	}
	return pricing.Calculate(lines)
}

// GuestCart represents a cart for unauthenticated sessions, persisted as a
// single JSON snapshot. TotalTTC is written in the same snapshot as the lines
// so a reader never observes a stale total next to fresh lines.
type GuestCart struct {
	SessionID string          `json:"session_id"`
	Items     []GuestCartItem `json:"items"`
	Totals    pricing.Totals  `json:"totals"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GuestCartItem represents a cart line for guest sessions
type GuestCartItem struct {
	ProductID    uint      `json:"product_id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPriceHT  int64     `json:"unit_price_ht"`
	UnitPriceTTC int64     `json:"unit_price_ttc"`
	AddedAt      time.Time `json:"added_at"`
}

func (g *GuestCart) recalcTotals() {
	lines := make([]pricing.Line, len(g.Items))
	for i, item := range g.Items {
		lines[i] = pricing.Line{
			UnitPriceHT:  item.UnitPriceHT,
			UnitPriceTTC: item.UnitPriceTTC,
			Quantity:     item.Quantity,
		}
	}
	g.Totals = pricing.Calculate(lines)
}
