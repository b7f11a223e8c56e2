// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrNotFound covers both missing orders and orders owned by someone
	// else; callers cannot tell the two apart.
	ErrNotFound = errors.New("order not found")
	// ErrCartEmpty rejects placing an order from an empty cart.
	ErrCartEmpty = errors.New("cart is empty")
)

// Mailer sends the confirmation mail once an order is placed.
type Mailer interface {
	SendOrderConfirmation(ord *Order) error
}

// Service handles order business logic
type Service struct {
	db        *gorm.DB
	carts     *cart.Repository
	addresses *user.AddressService
	mailer    Mailer
	config    *config.Config
	log       *logrus.Logger
}

// NewService creates a new order service. The mailer may be nil when no SMTP
// relay is wired in.
func NewService(db *gorm.DB, carts *cart.Repository, addresses *user.AddressService, mailer Mailer, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		carts:     carts,
		addresses: addresses,
		mailer:    mailer,
		config:    cfg,
		log:       log,
	}
}

// CreateRequest carries the checkout choices an order is placed with. The
// delivery cost is computed upstream from the chosen method.
type CreateRequest struct {
	DeliveryMethodID  string
	DeliveryMethod    string
	DeliveryCost      int64
	PaymentMethodID   string
	PaymentMethod     string
	DeliveryAddressID uint
	BillingAddressID  *uint
	Notes             string
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ListResponse represents an order page
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// CreateFromCart freezes the user's active cart into an order. The cart is
// tagged ordered in the same transaction, so a retry after a failure still
// sees the active cart intact.
func (s *Service) CreateFromCart(ctx context.Context, userID uint, req *CreateRequest) (*Order, error) {
	activeCart, err := s.carts.ActiveCart(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if activeCart == nil || len(activeCart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	deliveryAddr, err := s.addresses.GetAddress(userID, req.DeliveryAddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery address: %w", err)
	}
	billingAddr := deliveryAddr
	if req.BillingAddressID != nil && *req.BillingAddressID != req.DeliveryAddressID {
		billingAddr, err = s.addresses.GetAddress(userID, *req.BillingAddressID)
		if err != nil {
			return nil, fmt.Errorf("failed to load billing address: %w", err)
		}
	}

	var account struct {
		Email string
	}
	if err := s.db.WithContext(ctx).Table("users").Select("email").Where("id = ?", userID).First(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	totals := activeCart.Totals()

	ord := Order{
		UserID:           userID,
		CartID:           activeCart.ID,
		Email:            account.Email,
		Status:           StatusPending,
		SubtotalHT:       totals.SubtotalHT,
		VATAmount:        totals.VATAmount,
		DeliveryCost:     req.DeliveryCost,
		TotalTTC:         totals.TotalTTC + req.DeliveryCost,
		Currency:         s.config.Pricing.Currency,
		DeliveryMethodID: req.DeliveryMethodID,
		DeliveryMethod:   req.DeliveryMethod,
		PaymentMethodID:  req.PaymentMethodID,
		PaymentMethod:    req.PaymentMethod,
		DeliveryAddress:  fromUserAddress(deliveryAddr),
		BillingAddress:   fromUserAddress(billingAddr),
		Notes:            req.Notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		ord.OrderNumber = ord.GenerateOrderNumber()
		if err := tx.Model(&ord).Update("order_number", ord.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		for _, line := range activeCart.Items {
			item := Item{
				OrderID:      ord.ID,
				ProductID:    line.ProductID,
				Name:         line.Name,
				ImageURL:     line.ImageURL,
				Quantity:     line.Quantity,
				UnitPriceHT:  line.UnitPriceHT,
				UnitPriceTTC: line.UnitPriceTTC,
				TotalTTC:     line.UnitPriceTTC * int64(line.Quantity),
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		if err := s.carts.SetStatus(tx, activeCart.ID, cart.StatusOrdered); err != nil {
			return fmt.Errorf("failed to close cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Items").First(&ord, ord.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number": ord.OrderNumber,
		"user_id":      userID,
		"cart_id":      activeCart.ID,
	}).Info("Order created from cart")

	if s.mailer != nil {
		// Confirmation mail is best effort, the order stands either way.
		go func(o Order) {
			if err := s.mailer.SendOrderConfirmation(&o); err != nil {
				s.log.WithError(err).WithField("order_number", o.OrderNumber).Warn("Failed to send order confirmation")
			}
		}(ord)
	}

	return &ord, nil
}

// Get loads an order owned by the user. An order belonging to someone else
// reads as not found.
func (s *Service) Get(ctx context.Context, userID, orderID uint) (*Order, error) {
	var ord Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&ord).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &ord, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// SetInvoiceURL records where the generated invoice PDF lives.
func (s *Service) SetInvoiceURL(ctx context.Context, orderID uint, url string) error {
	return s.db.WithContext(ctx).Model(&Order{}).Where("id = ?", orderID).Update("invoice_url", url).Error
}

func fromUserAddress(a *user.Address) Address {
	return Address{
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Company:      a.Company,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		PostalCode:   a.PostalCode,
		Country:      a.Country,
		Phone:        a.Phone,
	}
}
