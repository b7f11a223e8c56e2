// internal/domain/cart/guest_store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Persister writes guest cart snapshots to durable storage. Persistence is a
// side-effect of mutations, decoupled from the mutation logic so the store
// stays testable without a storage backend.
type Persister interface {
	Load(ctx context.Context, sessionID string) (*GuestCart, error)
	Save(ctx context.Context, cart *GuestCart) error
	Delete(ctx context.Context, sessionID string) error
}

// GuestStore holds cart state for unauthenticated sessions. The in-memory
// state is authoritative for the lifetime of the process; every mutation is
// followed by a persist attempt that fails soft: storage being unavailable is
// logged, never surfaced to the caller.
type GuestStore struct {
	mu        sync.Mutex
	carts     map[string]*GuestCart
	persister Persister
	log       *logrus.Logger
}

// NewGuestStore creates a guest cart store backed by the given persister.
// A nil persister keeps carts in memory only.
func NewGuestStore(persister Persister, log *logrus.Logger) *GuestStore {
	if log == nil {
		log = logrus.New()
	}
	return &GuestStore{
		carts:     make(map[string]*GuestCart),
		persister: persister,
		log:       log,
	}
}

// Get returns a snapshot of the session's cart, loading it from storage on
// first access. A missing or unreadable snapshot yields an empty cart.
func (s *GuestStore) Get(ctx context.Context, sessionID string) *GuestCart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.locked(ctx, sessionID))
}

// AddItem appends a line or, if the product is already present, increments
// its quantity. Requests with a non-positive quantity are clamped to a no-op.
func (s *GuestStore) AddItem(ctx context.Context, sessionID string, item GuestCartItem) *GuestCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.locked(ctx, sessionID)
	if item.Quantity <= 0 {
		return snapshot(c)
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		if item.AddedAt.IsZero() {
			item.AddedAt = time.Now().UTC()
		}
		c.Items = append(c.Items, item)
	}

	s.commit(ctx, c)
	return snapshot(c)
}

// UpdateQuantity sets a line's quantity exactly; a non-positive quantity
// removes the line. Updating an absent product is a no-op.
func (s *GuestStore) UpdateQuantity(ctx context.Context, sessionID string, productID uint, quantity int) *GuestCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.locked(ctx, sessionID)
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		} else {
			c.Items[i].Quantity = quantity
		}
		s.commit(ctx, c)
		break
	}
	return snapshot(c)
}

// RemoveItem removes the line for the given product. Removing an absent
// product leaves the cart unchanged.
func (s *GuestStore) RemoveItem(ctx context.Context, sessionID string, productID uint) *GuestCart {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// Clear empties the session's cart.
func (s *GuestStore) Clear(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)

	if s.persister == nil {
		return
	}
	if err := s.persister.Delete(ctx, sessionID); err != nil {
		s.log.WithError(err).WithField("session_id", sessionID).
			Warn("Failed to delete persisted guest cart")
	}
}

// locked returns the live cart for the session, loading it from the persister
// on first access. Callers must hold s.mu.
func (s *GuestStore) locked(ctx context.Context, sessionID string) *GuestCart {
	if c, ok := s.carts[sessionID]; ok {
		return c
	}

	if s.persister != nil {
		c, err := s.persister.Load(ctx, sessionID)
		if err != nil {
			s.log.WithError(err).WithField("session_id", sessionID).
				Warn("Failed to load persisted guest cart, starting empty")
		} else if c != nil {
			s.carts[sessionID] = c
			return c
		}
	}

	now := time.Now().UTC()
	c := &GuestCart{
		SessionID: sessionID,
		Items:     []GuestCartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.carts[sessionID] = c
	return c
}

// commit recomputes totals and persists the snapshot. Callers must hold s.mu.
func (s *GuestStore) commit(ctx context.Context, c *GuestCart) {
	c.recalcTotals()
	c.UpdatedAt = time.Now().UTC()

	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, c); err != nil {
		// Fail soft: private browsing, quota, or a Redis outage must not
		// break the in-memory cart.
		s.log.WithError(err).WithField("session_id", c.SessionID).
			Warn("Failed to persist guest cart")
	}
}

func snapshot(c *GuestCart) *GuestCart {
	out := *c
	out.Items = make([]GuestCartItem, len(c.Items))
	copy(out.Items, c.Items)
	return &out
}

// RedisPersister stores guest cart snapshots in Redis as JSON values with a
// sliding TTL.
type RedisPersister struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPersister creates a Redis-backed guest cart persister
func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{
		client: client,
		ttl:    ttl,
	}
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load retrieves a persisted cart; a missing key yields (nil, nil).
func (p *RedisPersister) Load(ctx context.Context, sessionID string) (*GuestCart, error) {
	data, err := p.client.Get(ctx, guestCartKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c GuestCart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes the full snapshot, lines and totals in a single SET.
func (p *RedisPersister) Save(ctx context.Context, cart *GuestCart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, guestCartKey(cart.SessionID), data, p.ttl).Err()
}

// Delete drops the persisted snapshot.
func (p *RedisPersister) Delete(ctx context.Context, sessionID string) error {
	return p.client.Del(ctx, guestCartKey(sessionID)).Err()
}
