// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/pricing"
	"gorm.io/gorm"
)

// Status represents the order lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Order represents a placed order. Line items and totals are frozen at
// placement time; the source cart is kept for traceability.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	CartID      uint   `gorm:"not null;index" json:"cart_id"`
	Email       string `gorm:"not null;size:255" json:"email"`
	Status      Status `gorm:"not null;default:'pending'" json:"status"`

	// Totals in cents, delivery included in TotalTTC
	SubtotalHT   int64 `gorm:"not null" json:"subtotal_ht"`
	VATAmount    int64 `gorm:"not null" json:"vat_amount"`
	DeliveryCost int64 `gorm:"default:0" json:"delivery_cost"`
	TotalTTC     int64 `gorm:"not null" json:"total_ttc"`

	Currency string `gorm:"size:3;default:'EUR'" json:"currency"`

	DeliveryMethodID string `gorm:"size:50" json:"delivery_method_id"`
	DeliveryMethod   string `gorm:"size:100" json:"delivery_method"`
	PaymentMethodID  string `gorm:"size:50" json:"payment_method_id"`
	PaymentMethod    string `gorm:"size:100" json:"payment_method"`

	DeliveryAddress Address `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	BillingAddress  Address `gorm:"embedded;embeddedPrefix:billing_" json:"billing_address"`

	Notes      string `gorm:"type:text" json:"notes"`
	InvoiceURL string `gorm:"size:255" json:"invoice_url,omitempty"`

	ShippedAt   *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Item is a frozen order line. Unit prices are the cart snapshot at
// placement, not the live catalog price.
type Item struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id"`
	Name         string    `gorm:"not null;size:255" json:"name"`
	ImageURL     string    `gorm:"size:500" json:"image_url,omitempty"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	UnitPriceHT  int64     `gorm:"not null" json:"unit_price_ht"`
	UnitPriceTTC int64     `gorm:"not null" json:"unit_price_ttc"`
	TotalTTC     int64     `gorm:"not null" json:"total_ttc"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address is a delivery or billing address frozen on the order.
type Address struct {
	FirstName    string `gorm:"size:100" json:"first_name"`
	LastName     string `gorm:"size:100" json:"last_name"`
	Company      string `gorm:"size:100" json:"company"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
	Country      string `gorm:"size:2" json:"country"`
	Phone        string `gorm:"size:20" json:"phone"`
}

// TableName overrides
func (Order) TableName() string { return "orders" }
func (Item) TableName() string  { return "order_items" }

// GenerateOrderNumber derives the public order number from the row id.
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("20060102"), o.ID)
}

// Totals recomputes the merchandise totals from the frozen lines. Delivery is
// excluded; it is carried separately on the order.
func (o *Order) Totals() pricing.Totals {
	lines := make([]pricing.Line, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, pricing.Line{
			UnitPriceHT:  item.UnitPriceHT,
			UnitPriceTTC: item.UnitPriceTTC,
			Quantity:     item.Quantity,
		})
	}
	return pricing.Calculate(lines)
}

// CanBeCancelled reports whether the order is still cancellable.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// IsCompleted reports whether the order reached its terminal happy state.
func (o *Order) IsCompleted() bool {
	return o.Status == StatusDelivered
}
