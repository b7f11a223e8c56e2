package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/product"
)

// fakeRemote implements RemoteCart in memory with the same increment-or-create
// add semantics as the repository, plus injectable per-product failures.
type fakeRemote struct {
	cart     Cart
	nextID   uint
	failAdds map[uint]bool // product ids whose add fails
	failAll  error         // when set, every mutation fails
	calls    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		cart:     Cart{ID: 1, Status: StatusActive, Items: []Item{}},
		nextID:   1,
		failAdds: map[uint]bool{},
	}
}

func (f *fakeRemote) snapshot() *Cart {
	c := f.cart
	c.Items = append([]Item(nil), f.cart.Items...)
	return &c
}

func (f *fakeRemote) ActiveCart(uint) (*Cart, error) {
	return f.snapshot(), nil
}

func (f *fakeRemote) AddItem(_ uint, item Item) (*Cart, error) {
	f.calls++
	if f.failAll != nil {
		return nil, f.failAll
	}
	if f.failAdds[item.ProductID] {
		return nil, errors.New("internal server error")
	}
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductID == item.ProductID {
			f.cart.Items[i].Quantity += item.Quantity
			return f.snapshot(), nil
		}
	}
	item.ID = f.nextID
	f.nextID++
	f.cart.Items = append(f.cart.Items, item)
	return f.snapshot(), nil
}

func (f *fakeRemote) UpdateItemQuantity(_ uint, itemID uint, quantity int) (*Cart, error) {
	f.calls++
	if f.failAll != nil {
		return nil, f.failAll
	}
	for i := range f.cart.Items {
		if f.cart.Items[i].ID == itemID {
			if quantity <= 0 {
				f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
			} else {
				f.cart.Items[i].Quantity = quantity
			}
			return f.snapshot(), nil
		}
	}
	if quantity <= 0 {
		return f.snapshot(), nil
	}
	return nil, ErrItemNotFound
}

func (f *fakeRemote) RemoveItem(userID, itemID uint) (*Cart, error) {
	return f.UpdateItemQuantity(userID, itemID, 0)
}

func (f *fakeRemote) Clear(uint) error {
	f.calls++
	if f.failAll != nil {
		return f.failAll
	}
	f.cart.Items = f.cart.Items[:0]
	return nil
}

// fakeCatalog serves a fixed product set.
type fakeCatalog struct {
	products map[uint]*product.Product
}

func (f *fakeCatalog) Get(id uint) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func newTestService(remote RemoteCart) (*Service, *GuestStore) {
	guest := NewGuestStore(nil, quietLogger())
	catalog := &fakeCatalog{products: map[uint]*product.Product{
		1: {ID: 1, Name: "Sac ciment 35kg", PriceHT: 1000, VATRate: 0.20, IsActive: true},
		2: {ID: 2, Name: "Panneau OSB 18mm", PriceHT: 2500, VATRate: 0.20, IsActive: true},
	}}
	return NewService(remote, guest, catalog, quietLogger()), guest
}

func uintPtr(v uint) *uint { return &v }

func TestService_GuestOperationsNeverTouchRemote(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, _ := newTestService(remote)

	view, err := svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(2400), view.Totals.TotalTTC)

	_, err = svc.UpdateItem(ctx, nil, "s1", 1, 5)
	require.NoError(t, err)
	_, err = svc.RemoveItem(ctx, nil, "s1", 1)
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(ctx, nil, "s1"))

	assert.Zero(t, remote.calls)
}

func TestService_AuthenticatedOperationsRouteToRemote(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, guest := newTestService(remote)

	view, err := svc.AddItem(ctx, uintPtr(7), "s1", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(7), *view.UserID)

	// Guest store untouched.
	assert.Empty(t, guest.Get(ctx, "s1").Items)
}

func TestService_AddUnknownProductFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(newFakeRemote())

	_, err := svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestService_SnapshotCarriesBothUnitPrices(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(newFakeRemote())

	view, err := svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 2, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), view.Items[0].UnitPriceHT)
	assert.Equal(t, int64(3000), view.Items[0].UnitPriceTTC)
}

func TestService_RemoteFailureLeavesMirrorUnchanged(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, _ := newTestService(remote)

	view, err := svc.AddItem(ctx, uintPtr(7), "s1", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	before := view.Items

	remote.failAll = errors.New("internal server error")
	_, err = svc.UpdateItem(ctx, uintPtr(7), "s1", before[0].ItemID, 9)
	require.Error(t, err)

	remote.failAll = nil
	after, err := svc.GetCart(ctx, uintPtr(7), "s1")
	require.NoError(t, err)
	assert.Equal(t, before, after.Items)
}

func TestService_MergeGuestCart_Success(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, guest := newTestService(remote)

	// User already has 2 of product 1 remotely; guest adds 3 more plus a new line.
	_, err := svc.AddItem(ctx, uintPtr(7), "s1", &AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.MergeGuestCart(ctx, 7, "s1"))

	view, err := svc.GetCart(ctx, uintPtr(7), "s1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 5, quantityOf(view, 1))
	assert.Equal(t, 1, quantityOf(view, 2))

	// Guest cart cleared after a complete merge.
	assert.Empty(t, guest.Get(ctx, "s1").Items)
}

func TestService_MergeGuestCart_PartialFailureKeepsGuestCart(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, guest := newTestService(remote)

	_, err := svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	remote.failAdds[2] = true
	err = svc.MergeGuestCart(ctx, 7, "s1")

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, 1, mergeErr.Merged)
	assert.Equal(t, 1, mergeErr.Failed)

	// Guest cart untouched: no silent data loss.
	assert.Len(t, guest.Get(ctx, "s1").Items, 2)
}

func TestService_MergeGuestCart_RetryNeverLosesLines(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, guest := newTestService(remote)

	_, err := svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, nil, "s1", &AddItemRequest{ProductID: 2, Quantity: 1})
	require.NoError(t, err)

	// First attempt: one line fails.
	remote.failAdds[2] = true
	require.Error(t, svc.MergeGuestCart(ctx, 7, "s1"))

	// Retry after recovery. Already merged lines are re-added; quantities may
	// over-count but no line may be dropped.
	remote.failAdds = map[uint]bool{}
	require.NoError(t, svc.MergeGuestCart(ctx, 7, "s1"))

	view, err := svc.GetCart(ctx, uintPtr(7), "s1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.GreaterOrEqual(t, quantityOf(view, 1), 3)
	assert.GreaterOrEqual(t, quantityOf(view, 2), 1)
	assert.Empty(t, guest.Get(ctx, "s1").Items)
}

func TestService_MergeGuestCart_EmptyGuestCartIsNoOp(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	svc, _ := newTestService(remote)

	require.NoError(t, svc.MergeGuestCart(ctx, 7, "s1"))
	assert.Zero(t, remote.calls)
}

func quantityOf(view *View, productID uint) int {
	for _, item := range view.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}
