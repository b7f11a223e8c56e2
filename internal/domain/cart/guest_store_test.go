package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPersister stores snapshots in a map, recording what was written so the
// atomicity of lines+totals can be asserted.
type memPersister struct {
	mu    sync.Mutex
	saved map[string]GuestCart
}

func newMemPersister() *memPersister {
	return &memPersister{saved: make(map[string]GuestCart)}
}

func (p *memPersister) Load(_ context.Context, sessionID string) (*GuestCart, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.saved[sessionID]
	if !ok {
		return nil, nil
	}
	out := c
	out.Items = append([]GuestCartItem(nil), c.Items...)
	return &out, nil
}

func (p *memPersister) Save(_ context.Context, cart *GuestCart) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *cart
	c.Items = append([]GuestCartItem(nil), cart.Items...)
	p.saved[cart.SessionID] = c
	return nil
}

func (p *memPersister) Delete(_ context.Context, sessionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.saved, sessionID)
	return nil
}

// failPersister simulates unavailable storage.
type failPersister struct{}

func (failPersister) Load(context.Context, string) (*GuestCart, error) {
	return nil, errors.New("storage unavailable")
}
func (failPersister) Save(context.Context, *GuestCart) error {
	return errors.New("storage unavailable")
}
func (failPersister) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testItem(productID uint, qty int, priceHT, priceTTC int64) GuestCartItem {
	return GuestCartItem{
		ProductID:    productID,
		Name:         "Sac ciment 35kg",
		Quantity:     qty,
		UnitPriceHT:  priceHT,
		UnitPriceTTC: priceTTC,
	}
}

func assertTotalsInvariant(t *testing.T, c *GuestCart) {
	t.Helper()
	var wantTTC, wantHT int64
	for _, line := range c.Items {
		wantTTC += line.UnitPriceTTC * int64(line.Quantity)
		wantHT += line.UnitPriceHT * int64(line.Quantity)
	}
	assert.Equal(t, wantTTC, c.Totals.TotalTTC)
	assert.Equal(t, wantHT, c.Totals.SubtotalHT)
	assert.Equal(t, wantTTC-wantHT, c.Totals.VATAmount)
}

func TestGuestStore_TotalsRecomputedAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(newMemPersister(), quietLogger())

	c := store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	assertTotalsInvariant(t, c)

	c = store.AddItem(ctx, "s1", testItem(2, 1, 2500, 3000))
	assertTotalsInvariant(t, c)

	c = store.UpdateQuantity(ctx, "s1", 1, 7)
	assertTotalsInvariant(t, c)

	c = store.RemoveItem(ctx, "s1", 2)
	assertTotalsInvariant(t, c)

	c = store.UpdateQuantity(ctx, "s1", 1, 0)
	assertTotalsInvariant(t, c)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Totals.TotalTTC)
}

func TestGuestStore_AddExistingProductIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(nil, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	c := store.AddItem(ctx, "s1", testItem(1, 3, 1000, 1200))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, int64(6000), c.Totals.TotalTTC)
}

func TestGuestStore_AddNonPositiveQuantityIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(nil, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	before := store.Get(ctx, "s1")

	c := store.AddItem(ctx, "s1", testItem(1, 0, 1000, 1200))
	assert.Equal(t, before.Items, c.Items)
	assert.Equal(t, before.Totals, c.Totals)

	c = store.AddItem(ctx, "s1", testItem(3, -4, 1000, 1200))
	assert.Equal(t, before.Items, c.Items)
}

func TestGuestStore_RemoveAbsentProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(nil, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	before := store.Get(ctx, "s1")

	c := store.RemoveItem(ctx, "s1", 999)

	assert.Equal(t, before.Items, c.Items)
	assert.Equal(t, before.Totals, c.Totals)
}

func TestGuestStore_UpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(nil, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	store.AddItem(ctx, "s1", testItem(2, 1, 500, 600))

	c := store.UpdateQuantity(ctx, "s1", 1, 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, uint(2), c.Items[0].ProductID)
}

func TestGuestStore_PersistsLinesAndTotalsTogether(t *testing.T) {
	ctx := context.Background()
	persister := newMemPersister()
	store := NewGuestStore(persister, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	store.AddItem(ctx, "s1", testItem(1, 3, 1000, 1200))

	saved, ok := persister.saved["s1"]
	require.True(t, ok)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, 5, saved.Items[0].Quantity)
	assert.Equal(t, int64(6000), saved.Totals.TotalTTC)
}

func TestGuestStore_LoadsPersistedCartOnFirstAccess(t *testing.T) {
	ctx := context.Background()
	persister := newMemPersister()

	first := NewGuestStore(persister, quietLogger())
	first.AddItem(ctx, "s1", testItem(1, 4, 1000, 1200))

	// Fresh store, same persister: the snapshot comes back.
	second := NewGuestStore(persister, quietLogger())
	c := second.Get(ctx, "s1")

	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, int64(4800), c.Totals.TotalTTC)
}

func TestGuestStore_UnavailableStorageFailsSoft(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(failPersister{}, quietLogger())

	c := store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(2400), c.Totals.TotalTTC)

	// In-memory state keeps working across operations.
	c = store.UpdateQuantity(ctx, "s1", 1, 5)
	assert.Equal(t, 5, c.Items[0].Quantity)

	store.Clear(ctx, "s1")
	assert.Empty(t, store.Get(ctx, "s1").Items)
}

func TestGuestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(nil, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))
	store.AddItem(ctx, "s2", testItem(2, 1, 500, 600))

	assert.Len(t, store.Get(ctx, "s1").Items, 1)
	assert.Equal(t, uint(1), store.Get(ctx, "s1").Items[0].ProductID)
	assert.Equal(t, uint(2), store.Get(ctx, "s2").Items[0].ProductID)
}

func TestGuestStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewGuestStore(nil, quietLogger())

	store.AddItem(ctx, "s1", testItem(1, 2, 1000, 1200))

	c := store.Get(ctx, "s1")
	c.Items[0].Quantity = 99

	assert.Equal(t, 2, store.Get(ctx, "s1").Items[0].Quantity)
}
