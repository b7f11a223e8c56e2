// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// ErrLoginRequired rejects order submission without an authenticated user.
var ErrLoginRequired = errors.New("login required to place an order")

// Carts is the part of the cart service checkout reads from.
type Carts interface {
	GetCart(ctx context.Context, userID *uint, sessionID string) (*cart.View, error)
}

// Orders places orders from the active cart.
type Orders interface {
	CreateFromCart(ctx context.Context, userID uint, req *order.CreateRequest) (*order.Order, error)
}

// Service drives the checkout wizard. Wizard state lives in memory per
// session and is never persisted; a restart simply puts everyone back at the
// summary step.
type Service struct {
	carts  Carts
	orders Orders
	config *config.Config
	log    *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*StepMachine
}

// NewService creates a new checkout service
func NewService(carts Carts, orders Orders, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		config:   cfg,
		log:      log,
		sessions: make(map[string]*StepMachine),
	}
}

// StepView describes one wizard step for rendering.
type StepView struct {
	Step      int    `json:"step"`
	Name      string `json:"name"`
	Current   bool   `json:"current"`
	Completed bool   `json:"completed"`
	Disabled  bool   `json:"disabled"`
}

// StateView is the wizard state returned by every navigation call.
type StateView struct {
	Current     int        `json:"current"`
	CurrentName string     `json:"current_name"`
	CartEmpty   bool       `json:"cart_empty"`
	Steps       []StepView `json:"steps"`
}

// DeliveryMethod is a delivery option offered at checkout.
type DeliveryMethod struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	EstimatedDays string `json:"estimated_days"`
	Available     bool   `json:"available"`
}

// PaymentMethod is a payment option offered at checkout. Payment itself is
// settled off-platform; the chosen method is recorded on the order.
type PaymentMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// Pricing is the checkout price breakdown, delivery included.
type Pricing struct {
	SubtotalHT   int64 `json:"subtotal_ht"`
	VATAmount    int64 `json:"vat_amount"`
	DeliveryCost int64 `json:"delivery_cost"`
	TotalTTC     int64 `json:"total_ttc"`
}

// Summary is the full checkout summary for the current cart.
type Summary struct {
	Cart            *cart.View       `json:"cart"`
	DeliveryMethods []DeliveryMethod `json:"delivery_methods"`
	PaymentMethods  []PaymentMethod  `json:"payment_methods"`
	DeliveryMethod  *DeliveryMethod  `json:"delivery_method,omitempty"`
	Pricing         Pricing          `json:"pricing"`
}

// SubmitRequest carries everything needed to turn the cart into an order.
type SubmitRequest struct {
	DeliveryMethodID  string `json:"delivery_method_id" binding:"required"`
	PaymentMethodID   string `json:"payment_method_id" binding:"required"`
	DeliveryAddressID uint   `json:"delivery_address_id" binding:"required"`
	BillingAddressID  *uint  `json:"billing_address_id,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// machine returns the wizard for a session, creating it on first use. Caller
// must hold s.mu.
func (s *Service) machine(sessionID string) *StepMachine {
	m, ok := s.sessions[sessionID]
	if !ok {
		m = NewStepMachine()
		s.sessions[sessionID] = m
	}
	return m
}

func (s *Service) cartEmpty(ctx context.Context, userID *uint, sessionID string) (bool, error) {
	view, err := s.carts.GetCart(ctx, userID, sessionID)
	if err != nil {
		return true, err
	}
	return len(view.Items) == 0, nil
}

// State returns the wizard state for a session.
func (s *Service) State(ctx context.Context, userID *uint, sessionID string) (*StateView, error) {
	empty, err := s.cartEmpty(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return stateView(s.machine(sessionID), empty), nil
}

// Advance moves the wizard one step forward.
func (s *Service) Advance(ctx context.Context, userID *uint, sessionID string) (*StateView, error) {
	empty, err := s.cartEmpty(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.machine(sessionID)
	if err := m.Next(empty); err != nil {
		return nil, err
	}
	return stateView(m, empty), nil
}

// GoToStep jumps the wizard to a step: any earlier step, or the next one.
func (s *Service) GoToStep(ctx context.Context, userID *uint, sessionID string, step int) (*StateView, error) {
	empty, err := s.cartEmpty(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.machine(sessionID)
	if err := m.GoTo(Step(step), empty); err != nil {
		return nil, err
	}
	return stateView(m, empty), nil
}

// ResetSession discards the wizard state for a session.
func (s *Service) ResetSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// GetSummary builds the checkout summary for the current cart. An empty
// deliveryMethodID prices the summary without delivery.
func (s *Service) GetSummary(ctx context.Context, userID *uint, sessionID, deliveryMethodID string) (*Summary, error) {
	view, err := s.carts.GetCart(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrCartEmpty
	}

	summary := &Summary{
		Cart:            view,
		DeliveryMethods: s.deliveryMethods(view.Totals.TotalTTC),
		PaymentMethods:  s.paymentMethods(userID != nil),
		Pricing: Pricing{
			SubtotalHT: view.Totals.SubtotalHT,
			VATAmount:  view.Totals.VATAmount,
			TotalTTC:   view.Totals.TotalTTC,
		},
	}

	if deliveryMethodID != "" {
		method := findDeliveryMethod(summary.DeliveryMethods, deliveryMethodID)
		if method == nil {
			return nil, ErrInvalidDeliveryMethod
		}
		summary.DeliveryMethod = method
		summary.Pricing.DeliveryCost = method.Price
		summary.Pricing.TotalTTC += method.Price
	}

	return summary, nil
}

// ErrInvalidDeliveryMethod rejects an unknown or unavailable delivery method.
var ErrInvalidDeliveryMethod = errors.New("delivery method not available")

// ErrInvalidPaymentMethod rejects an unknown or unavailable payment method.
var ErrInvalidPaymentMethod = errors.New("payment method not available")

// Submit turns the cart into an order and resets the wizard. The wizard must
// have reached the confirmation step.
func (s *Service) Submit(ctx context.Context, userID *uint, sessionID string, req *SubmitRequest) (*order.Order, error) {
	if userID == nil {
		return nil, ErrLoginRequired
	}

	view, err := s.carts.GetCart(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, ErrCartEmpty
	}

	method := findDeliveryMethod(s.deliveryMethods(view.Totals.TotalTTC), req.DeliveryMethodID)
	if method == nil {
		return nil, ErrInvalidDeliveryMethod
	}
	payment := findPaymentMethod(s.paymentMethods(true), req.PaymentMethodID)
	if payment == nil {
		return nil, ErrInvalidPaymentMethod
	}

	s.mu.Lock()
	if s.machine(sessionID).Current() != StepConfirmation {
		s.mu.Unlock()
		return nil, ErrStepLocked
	}
	s.mu.Unlock()

	ord, err := s.orders.CreateFromCart(ctx, *userID, &order.CreateRequest{
		DeliveryMethodID:  method.ID,
		DeliveryMethod:    method.Name,
		DeliveryCost:      method.Price,
		PaymentMethodID:   payment.ID,
		PaymentMethod:     payment.Name,
		DeliveryAddressID: req.DeliveryAddressID,
		BillingAddressID:  req.BillingAddressID,
		Notes:             req.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.ResetSession(sessionID)

	s.log.WithFields(logrus.Fields{
		"order_id": ord.ID,
		"user_id":  *userID,
		"total":    ord.TotalTTC,
	}).Info("Order placed")

	return ord, nil
}

// deliveryMethods lists the delivery options for a cart total. Standard
// delivery becomes free past the configured threshold.
func (s *Service) deliveryMethods(cartTotalTTC int64) []DeliveryMethod {
	standardPrice := int64(4900)
	if cartTotalTTC >= s.config.Pricing.FreeDeliveryThreshold {
		standardPrice = 0
	}

	return []DeliveryMethod{
		{
			ID:            "pickup",
			Name:          "Warehouse pickup",
			Description:   "Collect your order at our depot, loading included",
			Price:         0,
			EstimatedDays: "1",
			Available:     true,
		},
		{
			ID:            "standard",
			Name:          "Standard delivery",
			Description:   "Curbside delivery by tail-lift truck",
			Price:         standardPrice,
			EstimatedDays: "3-5",
			Available:     true,
		},
		{
			ID:            "crane",
			Name:          "Crane truck delivery",
			Description:   "On-site delivery with crane offloading, for pallets and bulk",
			Price:         14900,
			EstimatedDays: "5-7",
			Available:     true,
		},
	}
}

// paymentMethods lists the payment options. Account payment requires an
// authenticated customer.
func (s *Service) paymentMethods(authenticated bool) []PaymentMethod {
	return []PaymentMethod{
		{
			ID:          "card",
			Name:        "Card payment",
			Description: "Pay by card on delivery or pickup",
			Available:   true,
		},
		{
			ID:          "bank_transfer",
			Name:        "Bank transfer",
			Description: "Pay by transfer against the invoice",
			Available:   true,
		},
		{
			ID:          "on_account",
			Name:        "On account",
			Description: "Charge to your trade credit account",
			Available:   authenticated,
		},
	}
}

func findDeliveryMethod(methods []DeliveryMethod, id string) *DeliveryMethod {
	for i := range methods {
		if methods[i].ID == id && methods[i].Available {
			return &methods[i]
		}
	}
	return nil
}

func findPaymentMethod(methods []PaymentMethod, id string) *PaymentMethod {
	for i := range methods {
		if methods[i].ID == id && methods[i].Available {
			return &methods[i]
		}
	}
	return nil
}

func stateView(m *StepMachine, cartEmpty bool) *StateView {
	steps := make([]StepView, 0, numSteps)
	for s := StepSummary; s < numSteps; s++ {
		steps = append(steps, StepView{
			Step:      int(s),
			Name:      s.String(),
			Current:   s == m.Current(),
			Completed: m.Completed(s),
			Disabled:  m.Disabled(s, cartEmpty),
		})
	}
	return &StateView{
		Current:     int(m.Current()),
		CurrentName: m.Current().String(),
		CartEmpty:   cartEmpty,
		Steps:       steps,
	}
}
