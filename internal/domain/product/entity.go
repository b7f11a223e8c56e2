// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/pricing"
)

// Product represents a catalog product. Prices are stored HT (pre-tax) in
// cents together with the applicable VAT rate; the TTC price is derived.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	SKU         string         `gorm:"uniqueIndex;not null;size:100" json:"sku"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	PriceHT     int64          `gorm:"not null" json:"price_ht"` // In cents
	VATRate     float64        `gorm:"not null;default:0.20" json:"vat_rate"`
	Unit        string         `gorm:"size:50" json:"unit"` // sac, m2, palette, piece...
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	CategoryID  *uint          `gorm:"index" json:"category_id"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	Quantity    int            `gorm:"default:0" json:"quantity"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
}

// PriceTTC returns the tax-included unit price in cents.
func (p *Product) PriceTTC() int64 {
	return pricing.TTCFromHT(p.PriceHT, p.VATRate)
}

// Category represents product categories (cement, insulation, timber...)
type Category struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:255" json:"name"`
	Slug      string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	ParentID  *uint          `gorm:"index" json:"parent_id"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// Promotion represents a time-bounded promotional offer. Promotions can be
// liked and tracked the same way products are, hence the shared price/display
// fields.
type Promotion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null;size:255" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	PriceHT     int64          `gorm:"not null" json:"price_ht"`
	VATRate     float64        `gorm:"not null;default:0.20" json:"vat_rate"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	ProductID   *uint          `gorm:"index" json:"product_id"` // Underlying product, if any
	StartsAt    time.Time      `json:"starts_at"`
	EndsAt      time.Time      `json:"ends_at"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// PriceTTC returns the tax-included promotional unit price in cents.
func (p *Promotion) PriceTTC() int64 {
	return pricing.TTCFromHT(p.PriceHT, p.VATRate)
}

// IsRunning reports whether the promotion is live at the given time.
func (p *Promotion) IsRunning(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartsAt) && now.Before(p.EndsAt)
}

// TableName overrides
func (Product) TableName() string   { return "products" }
func (Category) TableName() string  { return "categories" }
func (Promotion) TableName() string { return "promotions" }
