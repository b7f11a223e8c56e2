// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/pricing"
)

type fakeCarts struct {
	views map[string]*cart.View
}

func (f *fakeCarts) GetCart(_ context.Context, _ *uint, sessionID string) (*cart.View, error) {
	if v, ok := f.views[sessionID]; ok {
		return v, nil
	}
	return &cart.View{SessionID: sessionID, Items: []cart.ItemView{}}, nil
}

type fakeOrders struct {
	created []*order.CreateRequest
	err     error
}

func (f *fakeOrders) CreateFromCart(_ context.Context, userID uint, req *order.CreateRequest) (*order.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &order.Order{ID: 1, UserID: userID, OrderNumber: "ORD-20250101-00001", TotalTTC: 12000}, nil
}

func filledCart(sessionID string, totalTTC int64) *cart.View {
	return &cart.View{
		SessionID: sessionID,
		Items: []cart.ItemView{
			{ItemID: 1, ProductID: 1, Name: "Ciment gris 35kg", Quantity: 10, UnitPriceHT: 1000, UnitPriceTTC: 1200},
		},
		Totals: pricing.Totals{ItemCount: 1, TotalQuantity: 10, SubtotalHT: 10000, VATAmount: totalTTC - 10000, TotalTTC: totalTTC},
	}
}

func testService(carts Carts, orders Orders) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{}
	cfg.Pricing.FreeDeliveryThreshold = 50000
	return NewService(carts, orders, cfg, log)
}

func TestState_NewSessionStartsAtSummary(t *testing.T) {
	svc := testService(&fakeCarts{views: map[string]*cart.View{}}, &fakeOrders{})

	state, err := svc.State(context.Background(), nil, "sess-1")
	require.NoError(t, err)

	assert.Equal(t, int(StepSummary), state.Current)
	assert.True(t, state.CartEmpty)
	assert.Len(t, state.Steps, 4)
	for _, step := range state.Steps[1:] {
		assert.True(t, step.Disabled, "step %s should be disabled with an empty cart", step.Name)
	}
}

func TestAdvance_BlockedOnEmptyCart(t *testing.T) {
	svc := testService(&fakeCarts{views: map[string]*cart.View{}}, &fakeOrders{})

	_, err := svc.Advance(context.Background(), nil, "sess-1")
	assert.ErrorIs(t, err, ErrCartEmpty)

	state, err := svc.State(context.Background(), nil, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int(StepSummary), state.Current)
}

func TestAdvance_WalksForwardWithFilledCart(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})
	ctx := context.Background()

	state, err := svc.Advance(ctx, nil, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int(StepLogin), state.Current)
	assert.True(t, state.Steps[StepSummary].Completed)

	state, err = svc.Advance(ctx, nil, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int(StepDelivery), state.Current)
}

func TestGoToStep_SkippingAheadRejected(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})

	_, err := svc.GoToStep(context.Background(), nil, "sess-1", int(StepDelivery))
	assert.ErrorIs(t, err, ErrStepLocked)
}

func TestGoToStep_BackwardAlwaysAllowed(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})
	ctx := context.Background()

	_, err := svc.Advance(ctx, nil, "sess-1")
	require.NoError(t, err)
	_, err = svc.Advance(ctx, nil, "sess-1")
	require.NoError(t, err)

	state, err := svc.GoToStep(ctx, nil, "sess-1", int(StepSummary))
	require.NoError(t, err)
	assert.Equal(t, int(StepSummary), state.Current)
}

func TestSessionsAreIndependent(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{
		"sess-a": filledCart("sess-a", 12000),
		"sess-b": filledCart("sess-b", 12000),
	}}
	svc := testService(carts, &fakeOrders{})
	ctx := context.Background()

	_, err := svc.Advance(ctx, nil, "sess-a")
	require.NoError(t, err)

	state, err := svc.State(ctx, nil, "sess-b")
	require.NoError(t, err)
	assert.Equal(t, int(StepSummary), state.Current)
}

func TestGetSummary_FreeDeliveryPastThreshold(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{
		"small": filledCart("small", 12000),
		"big":   filledCart("big", 60000),
	}}
	svc := testService(carts, &fakeOrders{})
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx, nil, "small", "standard")
	require.NoError(t, err)
	assert.Equal(t, int64(4900), summary.Pricing.DeliveryCost)
	assert.Equal(t, int64(12000+4900), summary.Pricing.TotalTTC)

	summary, err = svc.GetSummary(ctx, nil, "big", "standard")
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.Pricing.DeliveryCost)
	assert.Equal(t, int64(60000), summary.Pricing.TotalTTC)
}

func TestGetSummary_EmptyCartRejected(t *testing.T) {
	svc := testService(&fakeCarts{views: map[string]*cart.View{}}, &fakeOrders{})

	_, err := svc.GetSummary(context.Background(), nil, "sess-1", "")
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestGetSummary_OnAccountRequiresLogin(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})
	ctx := context.Background()

	summary, err := svc.GetSummary(ctx, nil, "sess-1", "")
	require.NoError(t, err)
	for _, pm := range summary.PaymentMethods {
		if pm.ID == "on_account" {
			assert.False(t, pm.Available)
		}
	}

	userID := uint(7)
	summary, err = svc.GetSummary(ctx, &userID, "sess-1", "")
	require.NoError(t, err)
	for _, pm := range summary.PaymentMethods {
		assert.True(t, pm.Available)
	}
}

func TestSubmit_RequiresLogin(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})

	_, err := svc.Submit(context.Background(), nil, "sess-1", &SubmitRequest{
		DeliveryMethodID:  "pickup",
		PaymentMethodID:   "card",
		DeliveryAddressID: 1,
	})
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestSubmit_RequiresConfirmationStep(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})
	userID := uint(7)

	_, err := svc.Submit(context.Background(), &userID, "sess-1", &SubmitRequest{
		DeliveryMethodID:  "pickup",
		PaymentMethodID:   "card",
		DeliveryAddressID: 1,
	})
	assert.ErrorIs(t, err, ErrStepLocked)
}

func TestSubmit_PlacesOrderAndResetsWizard(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	orders := &fakeOrders{}
	svc := testService(carts, orders)
	userID := uint(7)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Advance(ctx, &userID, "sess-1")
		require.NoError(t, err)
	}

	ord, err := svc.Submit(ctx, &userID, "sess-1", &SubmitRequest{
		DeliveryMethodID:  "standard",
		PaymentMethodID:   "bank_transfer",
		DeliveryAddressID: 3,
		Notes:             "livraison le matin",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-20250101-00001", ord.OrderNumber)

	require.Len(t, orders.created, 1)
	req := orders.created[0]
	assert.Equal(t, "standard", req.DeliveryMethodID)
	assert.Equal(t, int64(4900), req.DeliveryCost)
	assert.Equal(t, uint(3), req.DeliveryAddressID)

	// Wizard is back at the summary step for the next purchase.
	state, err := svc.State(ctx, &userID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int(StepSummary), state.Current)
}

func TestSubmit_UnknownMethodsRejected(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	svc := testService(carts, &fakeOrders{})
	userID := uint(7)
	ctx := context.Background()

	_, err := svc.Submit(ctx, &userID, "sess-1", &SubmitRequest{
		DeliveryMethodID:  "drone",
		PaymentMethodID:   "card",
		DeliveryAddressID: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidDeliveryMethod)

	_, err = svc.Submit(ctx, &userID, "sess-1", &SubmitRequest{
		DeliveryMethodID:  "pickup",
		PaymentMethodID:   "crypto",
		DeliveryAddressID: 1,
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestSubmit_OrderFailureKeepsWizardState(t *testing.T) {
	carts := &fakeCarts{views: map[string]*cart.View{"sess-1": filledCart("sess-1", 12000)}}
	orders := &fakeOrders{err: errors.New("db down")}
	svc := testService(carts, orders)
	userID := uint(7)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Advance(ctx, &userID, "sess-1")
		require.NoError(t, err)
	}

	_, err := svc.Submit(ctx, &userID, "sess-1", &SubmitRequest{
		DeliveryMethodID:  "pickup",
		PaymentMethodID:   "card",
		DeliveryAddressID: 1,
	})
	require.Error(t, err)

	state, err := svc.State(ctx, &userID, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int(StepConfirmation), state.Current)
}
