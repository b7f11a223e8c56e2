// internal/domain/cart/repository.go
package cart

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrItemNotFound is returned when a quantity update targets a cart item that
// does not exist in the user's active cart.
var ErrItemNotFound = errors.New("item not found in cart")

// Repository is the server-authoritative store for user carts. Every mutation
// runs in a transaction and returns the full reloaded cart: callers replace
// their view wholesale, and a failed mutation leaves nothing half-applied.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a user cart repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveCart returns the user's active cart, or (nil, nil) if none exists.
func (r *Repository) ActiveCart(userID uint) (*Cart, error) {
	var c Cart
	err := r.withItems(r.db).
		Where("user_id = ? AND status = ?", userID, StatusActive).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
	}
	return &c, nil
}

// AddItem adds a line to the user's active cart, creating the cart on first
// use. Adding a product already present increments its quantity instead of
// duplicating the line, which makes the operation safe to replay.
func (r *Repository) AddItem(userID uint, item Item) (*Cart, error) {
	if item.Quantity <= 0 {
		return r.requireActiveCart(userID)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		c, err := r.activeCartForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if c == nil {
			c = &Cart{UserID: &userID, Status: StatusActive}
			if err := tx.Create(c).Error; err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
		}

		var existing Item
		err = tx.Where("cart_id = ? AND product_id = ?", c.ID, item.ProductID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item.CartID = c.ID
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to look up cart item: %w", err)
		}

		existing.Quantity += item.Quantity
		// Refresh the snapshot in case the catalog price changed.
		existing.Name = item.Name
		existing.ImageURL = item.ImageURL
		existing.UnitPriceHT = item.UnitPriceHT
		existing.UnitPriceTTC = item.UnitPriceTTC
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.requireActiveCart(userID)
}

// UpdateItemQuantity sets a line's quantity exactly; a non-positive quantity
// removes the line. The item is addressed by its cart-item id and must belong
// to the user's active cart.
func (r *Repository) UpdateItemQuantity(userID, itemID uint, quantity int) (*Cart, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		c, err := r.activeCartForUpdate(tx, userID)
		if err != nil {
			return err
		}
		if c == nil {
			if quantity <= 0 {
				return nil // nothing to remove
			}
			return ErrItemNotFound
		}

		var item Item
		err = tx.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if quantity <= 0 {
				return nil // removal of an absent item is a no-op
			}
			return ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up cart item: %w", err)
		}

		if quantity <= 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return fmt.Errorf("failed to remove cart item: %w", err)
			}
			return nil
		}

		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.requireActiveCart(userID)
}

// RemoveItem removes a line by cart-item id; removing an absent item is a
// no-op, not an error.
func (r *Repository) RemoveItem(userID, itemID uint) (*Cart, error) {
	return r.UpdateItemQuantity(userID, itemID, 0)
}

// Clear removes all lines from the user's active cart.
func (r *Repository) Clear(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		c, err := r.activeCartForUpdate(tx, userID)
		if err != nil || c == nil {
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&Item{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
}

// SetStatus tags a cart, e.g. marking it ordered at checkout. The given
// transaction handle lets order creation flip the status atomically with the
// order insert.
func (r *Repository) SetStatus(tx *gorm.DB, cartID uint, status Status) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.Model(&Cart{}).Where("id = ?", cartID).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart status: %w", result.Error)
	}
	return nil
}

// requireActiveCart reloads the active cart, materializing an empty one for
// callers that expect a cart entity back.
func (r *Repository) requireActiveCart(userID uint) (*Cart, error) {
	c, err := r.ActiveCart(userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cart{UserID: &userID, Status: StatusActive, Items: []Item{}}
	}
	return c, nil
}

func (r *Repository) activeCartForUpdate(tx *gorm.DB, userID uint) (*Cart, error) {
	var c Cart
	err := tx.Where("user_id = ? AND status = ?", userID, StatusActive).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
	}
	return &c, nil
}

func (r *Repository) withItems(db *gorm.DB) *gorm.DB {
	// Insertion order; not significant to totals but stable for display.
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.created_at asc, cart_items.id asc")
	})
}
