// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/domain/pricing"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// RemoteCart is the server-authoritative cart surface the controller routes
// authenticated operations to. Implemented by Repository.
type RemoteCart interface {
	ActiveCart(userID uint) (*Cart, error)
	AddItem(userID uint, item Item) (*Cart, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*Cart, error)
	RemoveItem(userID, itemID uint) (*Cart, error)
	Clear(userID uint) error
}

// Catalog is the product lookup needed to snapshot a line at add time.
// Implemented by product.Service.
type Catalog interface {
	Get(id uint) (*product.Product, error)
}

// Service routes cart operations by authentication state: guest sessions hit
// the local guest store, authenticated users the remote repository. It also
// owns the merge of a guest cart into a user cart on login.
type Service struct {
	remote  RemoteCart
	guest   *GuestStore
	catalog Catalog
	log     *logrus.Logger
}

// NewService creates the cart reconciliation service
func NewService(remote RemoteCart, guest *GuestStore, catalog Catalog, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		remote:  remote,
		guest:   guest,
		catalog: catalog,
		log:     log,
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a quantity update request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// ItemView is a unified line item across guest and user carts. ItemID is the
// cart-item id for user carts and the product id for guest carts; mutations
// address lines by it.
type ItemView struct {
	ItemID       uint      `json:"item_id"`
	ProductID    uint      `json:"product_id"`
	Name         string    `json:"name"`
	ImageURL     string    `json:"image_url,omitempty"`
	Quantity     int       `json:"quantity"`
	UnitPriceHT  int64     `json:"unit_price_ht"`
	UnitPriceTTC int64     `json:"unit_price_ttc"`
	AddedAt      time.Time `json:"added_at"`
}

// View is the unified cart representation returned by every operation, with
// totals recomputed from the lines it carries.
type View struct {
	CartID    *uint          `json:"cart_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    *uint          `json:"user_id,omitempty"`
	Status    Status         `json:"status"`
	Items     []ItemView     `json:"items"`
	Totals    pricing.Totals `json:"totals"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// GetCart returns the cart for the user or, unauthenticated, the session.
func (s *Service) GetCart(ctx context.Context, userID *uint, sessionID string) (*View, error) {
	if userID == nil {
		return guestView(s.guest.Get(ctx, sessionID)), nil
	}

	c, err := s.remote.ActiveCart(*userID)
	if err != nil {
		return nil, err
	}
	return userView(*userID, sessionID, c), nil
}

// AddItem snapshots the product and adds it to the appropriate cart. A
// non-positive quantity is clamped to a no-op.
func (s *Service) AddItem(ctx context.Context, userID *uint, sessionID string, req *AddItemRequest) (*View, error) {
	if req.Quantity <= 0 {
		return s.GetCart(ctx, userID, sessionID)
	}

	prod, err := s.catalog.Get(req.ProductID)
	if err != nil {
		return nil, err
	}

	if userID == nil {
		c := s.guest.AddItem(ctx, sessionID, GuestCartItem{
			ProductID:    prod.ID,
			Name:         prod.Name,
			ImageURL:     prod.ImageURL,
			Quantity:     req.Quantity,
			UnitPriceHT:  prod.PriceHT,
			UnitPriceTTC: prod.PriceTTC(),
		})
		return guestView(c), nil
	}

	c, err := s.remote.AddItem(*userID, Item{
		ProductID:    prod.ID,
		Name:         prod.Name,
		ImageURL:     prod.ImageURL,
		Quantity:     req.Quantity,
		UnitPriceHT:  prod.PriceHT,
		UnitPriceTTC: prod.PriceTTC(),
	})
	if err != nil {
		return nil, err
	}
	return userView(*userID, sessionID, c), nil
}

// UpdateItem sets a line's quantity; zero removes the line. The line is
// addressed by cart-item id for users and product id for guests.
func (s *Service) UpdateItem(ctx context.Context, userID *uint, sessionID string, itemID uint, quantity int) (*View, error) {
	if userID == nil {
		return guestView(s.guest.UpdateQuantity(ctx, sessionID, itemID, quantity)), nil
	}

	c, err := s.remote.UpdateItemQuantity(*userID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	return userView(*userID, sessionID, c), nil
}

// RemoveItem removes a line; removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID *uint, sessionID string, itemID uint) (*View, error) {
	if userID == nil {
		return guestView(s.guest.RemoveItem(ctx, sessionID, itemID)), nil
	}

	c, err := s.remote.RemoveItem(*userID, itemID)
	if err != nil {
		return nil, err
	}
	return userView(*userID, sessionID, c), nil
}

// ClearCart empties the appropriate cart.
func (s *Service) ClearCart(ctx context.Context, userID *uint, sessionID string) error {
	if userID == nil {
		s.guest.Clear(ctx, sessionID)
		return nil
	}
	return s.remote.Clear(*userID)
}

// MergeError reports a partially failed guest cart merge. The guest cart is
// left intact so the merge can be retried; re-adding already merged lines is
// tolerated because the remote add increments rather than duplicates.
type MergeError struct {
	Merged int
	Failed int
	Errs   []error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("cart merge incomplete: %d merged, %d failed", e.Merged, e.Failed)
}

// Unwrap exposes the first underlying failure.
func (e *MergeError) Unwrap() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e.Errs[0]
}

// MergeGuestCart merges the session's guest cart into the user's remote cart
// on login. Each guest line is re-added through the remote increment-or-create
// add. The guest cart is cleared only after every line merged: losing items is
// worse than double-counting a retried merge.
func (s *Service) MergeGuestCart(ctx context.Context, userID uint, sessionID string) error {
	guestCart := s.guest.Get(ctx, sessionID)
	if len(guestCart.Items) == 0 {
		return nil
	}

	merge := &MergeError{}
	for _, line := range guestCart.Items {
		_, err := s.remote.AddItem(userID, Item{
			ProductID:    line.ProductID,
			Name:         line.Name,
			ImageURL:     line.ImageURL,
			Quantity:     line.Quantity,
			UnitPriceHT:  line.UnitPriceHT,
			UnitPriceTTC: line.UnitPriceTTC,
		})
		if err != nil {
			merge.Failed++
			merge.Errs = append(merge.Errs, err)
			s.log.WithError(err).WithFields(logrus.Fields{
				"session_id": sessionID,
				"user_id":    userID,
				"product_id": line.ProductID,
			}).Warn("Failed to merge guest cart line")
			continue
		}
		merge.Merged++
	}

	if merge.Failed > 0 {
		return merge
	}

	s.guest.Clear(ctx, sessionID)
	return nil
}

func guestView(c *GuestCart) *View {
	items := make([]ItemView, len(c.Items))
	for i, line := range c.Items {
		items[i] = ItemView{
			ItemID:       line.ProductID,
			ProductID:    line.ProductID,
			Name:         line.Name,
			ImageURL:     line.ImageURL,
			Quantity:     line.Quantity,
			UnitPriceHT:  line.UnitPriceHT,
			UnitPriceTTC: line.UnitPriceTTC,
			AddedAt:      line.AddedAt,
		}
	}
	return &View{
		SessionID: c.SessionID,
		Status:    StatusActive,
		Items:     items,
		Totals:    c.Totals,
		UpdatedAt: c.UpdatedAt,
	}
}

func userView(userID uint, sessionID string, c *Cart) *View {
	if c == nil {
		c = &Cart{UserID: &userID, Status: StatusActive, Items: []Item{}}
	}
	items := make([]ItemView, len(c.Items))
	for i, line := range c.Items {
		items[i] = ItemView{
			ItemID:       line.ID,
			ProductID:    line.ProductID,
			Name:         line.Name,
			ImageURL:     line.ImageURL,
			Quantity:     line.Quantity,
			UnitPriceHT:  line.UnitPriceHT,
			UnitPriceTTC: line.UnitPriceTTC,
			AddedAt:      line.CreatedAt,
		}
	}
	view := &View{
		SessionID: sessionID,
		UserID:    &userID,
		Status:    c.Status,
		Items:     items,
		Totals:    c.Totals(),
		UpdatedAt: c.UpdatedAt,
	}
	if c.ID != 0 {
		id := c.ID
		view.CartID = &id
	}
	return view
}
