// Package local keeps the anonymous shopper's cart under a single key.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

// DefaultKey is the key the cart lives under when no device namespace is set.
const DefaultKey = "cart"

var _ Store = (*store)(nil)

// Store reads and writes the whole local cart at once.
type Store interface {
	// Load returns the stored cart. A missing or unparseable value yields an
	// empty cart and no error; only transport failures are returned.
	Load(ctx context.Context) (models.Cart, error)
	// Save overwrites the key with the serialized cart.
	Save(ctx context.Context, cart models.Cart) error
	// Clear removes the key.
	Clear(ctx context.Context) error
}

type store struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

func NewStore(client *redis.Client, key string, logger *zap.Logger) Store {
	if key == "" {
		key = DefaultKey
	}
	return &store{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Key builds the storage key for a device. An empty device keeps the bare base key.
func Key(base, device string) string {
	if base == "" {
		base = DefaultKey
	}
	if device == "" {
		return base
	}
	return fmt.Sprintf("%s:%s", base, device)
}

func (s *store) Load(ctx context.Context) (models.Cart, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(), nil
	}
	if err != nil {
		return models.NewCart(), fmt.Errorf("redis get failed: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Debug("Discarding malformed local cart", zap.String("key", s.key), zap.Error(err))
		return models.NewCart(), nil
	}

	return cart.Sanitize(), nil
}

func (s *store) Save(ctx context.Context, cart models.Cart) error {
	if cart == nil {
		cart = models.NewCart()
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
