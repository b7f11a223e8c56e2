// internal/domain/favorite/entity.go
package favorite

import (
	"fmt"
	"time"

	"github.com/your-org/storefront-backend/internal/domain/product"
)

// Kind discriminates what a favorite points at.
type Kind string

const (
	KindProduct   Kind = "product"
	KindPromotion Kind = "promotion"
)

// Favorite is a liked catalog entry in normalized form. Products and
// promotions are flattened into the same shape so the list renders uniformly;
// EndsAt is set for promotions only.
type Favorite struct {
	Kind     Kind       `json:"kind"`
	RefID    uint       `json:"ref_id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	ImageURL string     `json:"image_url,omitempty"`
	PriceHT  int64      `json:"price_ht"`
	PriceTTC int64      `json:"price_ttc"`
	VATRate  float64    `json:"vat_rate"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	AddedAt  time.Time  `json:"added_at"`
}

// Key identifies a favorite within a device's list.
func (f Favorite) Key() string {
	return fmt.Sprintf("%s:%d", f.Kind, f.RefID)
}

// FromProduct normalizes a catalog product into a favorite.
func FromProduct(p *product.Product) Favorite {
	return Favorite{
		Kind:     KindProduct,
		RefID:    p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		ImageURL: p.ImageURL,
		PriceHT:  p.PriceHT,
		PriceTTC: p.PriceTTC(),
		VATRate:  p.VATRate,
		AddedAt:  time.Now().UTC(),
	}
}

// FromPromotion normalizes a promotion into a favorite.
func FromPromotion(p *product.Promotion) Favorite {
	endsAt := p.EndsAt
	return Favorite{
		Kind:     KindPromotion,
		RefID:    p.ID,
		Name:     p.Title,
		Slug:     p.Slug,
		ImageURL: p.ImageURL,
		PriceHT:  p.PriceHT,
		PriceTTC: p.PriceTTC(),
		VATRate:  p.VATRate,
		EndsAt:   &endsAt,
		AddedAt:  time.Now().UTC(),
	}
}
