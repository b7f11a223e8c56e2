// internal/domain/favorite/service.go
package favorite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// ErrUnknownKind rejects a favorite kind outside the known set.
var ErrUnknownKind = errors.New("unknown favorite kind")

// KV is the key-value persistence favorites live in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Catalog resolves favorite references against the live catalog.
type Catalog interface {
	Get(id uint) (*product.Product, error)
	GetPromotion(id uint) (*product.Promotion, error)
}

// Service keeps per-device favorite lists. Lists are keyed by session, never
// by user: logging in does not move or merge them, the device keeps its own
// list.
type Service struct {
	kv      KV
	catalog Catalog
	log     *logrus.Logger
}

// NewService creates a new favorites service
func NewService(kv KV, catalog Catalog, log *logrus.Logger) *Service {
	return &Service{kv: kv, catalog: catalog, log: log}
}

func storageKey(sessionID string) string {
	return fmt.Sprintf("favorites:session:%s", sessionID)
}

// List returns the device's favorites, oldest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Favorite, error) {
	return s.load(ctx, sessionID)
}

// Toggle adds the referenced product or promotion to the device's favorites,
// or removes it when already present. Returns whether it is a favorite after
// the call.
func (s *Service) Toggle(ctx context.Context, sessionID string, kind Kind, refID uint) (bool, error) {
	favorites, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}

	entry, err := s.normalize(kind, refID)
	if err != nil {
		return false, err
	}

	kept := favorites[:0]
	removed := false
	for _, f := range favorites {
		if f.Key() == entry.Key() {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	if !removed {
		kept = append(kept, entry)
	}

	if err := s.save(ctx, sessionID, kept); err != nil {
		return false, err
	}
	return !removed, nil
}

// IsFavorite reports whether the reference is in the device's favorites.
func (s *Service) IsFavorite(ctx context.Context, sessionID string, kind Kind, refID uint) (bool, error) {
	favorites, err := s.load(ctx, sessionID)
	if err != nil {
		return false, err
	}
	key := Favorite{Kind: kind, RefID: refID}.Key()
	for _, f := range favorites {
		if f.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

// Clear empties the device's favorites.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.save(ctx, sessionID, nil)
}

func (s *Service) normalize(kind Kind, refID uint) (Favorite, error) {
	switch kind {
	case KindProduct:
		p, err := s.catalog.Get(refID)
		if err != nil {
			return Favorite{}, err
		}
		return FromProduct(p), nil
	case KindPromotion:
		p, err := s.catalog.GetPromotion(refID)
		if err != nil {
			return Favorite{}, err
		}
		return FromPromotion(p), nil
	default:
		return Favorite{}, ErrUnknownKind
	}
}

func (s *Service) load(ctx context.Context, sessionID string) ([]Favorite, error) {
	data, err := s.kv.Get(ctx, storageKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var favorites []Favorite
	if err := json.Unmarshal(data, &favorites); err != nil {
		// A corrupt list is unrecoverable; start over rather than wedge
		// the device.
		s.log.WithError(err).WithField("session_id", sessionID).Warn("Discarding corrupt favorites list")
		return nil, nil
	}
	return favorites, nil
}

func (s *Service) save(ctx context.Context, sessionID string, favorites []Favorite) error {
	data, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}
	// No TTL: favorites follow the device until cleared.
	if err := s.kv.Set(ctx, storageKey(sessionID), data, 0); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// RedisKV backs favorites with Redis.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV creates the Redis-backed store.
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get returns nil with no error for a missing key.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set stores the value, without expiry when ttl is zero.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
