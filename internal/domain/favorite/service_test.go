package favorite

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return data, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) Get(id uint) (*product.Product, error) {
	if id != 1 {
		return nil, product.ErrNotFound
	}
	return &product.Product{
		ID:      1,
		Name:    "Ciment gris 35kg",
		Slug:    "ciment-gris-35kg",
		PriceHT: 1000,
		VATRate: 0.20,
	}, nil
}

func (fakeCatalog) GetPromotion(id uint) (*product.Promotion, error) {
	if id != 7 {
		return nil, product.ErrNotFound
	}
	return &product.Promotion{
		ID:      7,
		Title:   "Parpaing par palette",
		Slug:    "parpaing-palette",
		PriceHT: 9000,
		VATRate: 0.20,
		EndsAt:  time.Now().Add(48 * time.Hour),
	}, nil
}

func newTestService() *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(newMemKV(), fakeCatalog{}, log)
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	added, err := s.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)
	assert.True(t, added)

	ok, err := s.IsFavorite(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	added, err = s.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)
	assert.False(t, added)

	favorites, err := s.List(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestToggle_NormalizesProductsAndPromotions(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, "dev-1", KindPromotion, 7)
	require.NoError(t, err)

	favorites, err := s.List(ctx, "dev-1")
	require.NoError(t, err)
	require.Len(t, favorites, 2)

	p := favorites[0]
	assert.Equal(t, KindProduct, p.Kind)
	assert.Equal(t, "Ciment gris 35kg", p.Name)
	assert.Equal(t, int64(1200), p.PriceTTC)
	assert.Nil(t, p.EndsAt)

	promo := favorites[1]
	assert.Equal(t, KindPromotion, promo.Kind)
	assert.Equal(t, "Parpaing par palette", promo.Name)
	assert.Equal(t, int64(10800), promo.PriceTTC)
	require.NotNil(t, promo.EndsAt)
}

func TestToggle_SameIDDifferentKindsAreDistinct(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)

	ok, err := s.IsFavorite(ctx, "dev-1", KindPromotion, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggle_UnknownReferenceRejected(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "dev-1", KindProduct, 99)
	assert.ErrorIs(t, err, product.ErrNotFound)

	_, err = s.Toggle(ctx, "dev-1", Kind("category"), 1)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFavorites_AreScopedPerDevice(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)

	ok, err := s.IsFavorite(ctx, "dev-2", KindProduct, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavorites_SurviveServiceRestart(t *testing.T) {
	kv := newMemKV()
	log := logrus.New()
	log.SetOutput(io.Discard)
	ctx := context.Background()

	s1 := NewService(kv, fakeCatalog{}, log)
	_, err := s1.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)

	s2 := NewService(kv, fakeCatalog{}, log)
	ok, err := s2.IsFavorite(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestList_CorruptDataResetsInsteadOfFailing(t *testing.T) {
	kv := newMemKV()
	kv.data[storageKey("dev-1")] = []byte("{not json")
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := NewService(kv, fakeCatalog{}, log)
	favorites, err := s.List(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestClear(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Toggle(ctx, "dev-1", KindProduct, 1)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "dev-1"))

	favorites, err := s.List(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, favorites)
}
