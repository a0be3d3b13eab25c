package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gofalre.io/storefront/driver"
	"gofalre.io/storefront/models"
)

var _ Repository = (*postgresRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	cart       JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const (
	getCartQuery    = `SELECT cart FROM users WHERE id = $1`
	upsertCartQuery = `
INSERT INTO users (id, cart, updated_at) VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET cart = EXCLUDED.cart, updated_at = EXCLUDED.updated_at`
)

type postgresRepository struct {
	conn   driver.PostgresPool
	logger *zap.Logger
}

func NewPostgresRepository(conn driver.PostgresPool, logger *zap.Logger) Repository {
	return &postgresRepository{
		conn:   conn,
		logger: logger,
	}
}

// CreateSchema creates the users table if it does not exist yet.
func CreateSchema(ctx context.Context, conn driver.PostgresPool) error {
	if _, err := conn.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	var raw []byte
	err := r.conn.QueryRow(ctx, getCartQuery, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewCart(), nil
	}
	if err != nil {
		r.logger.Error("Failed to get user cart", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	if len(raw) == 0 {
		return models.NewCart(), nil
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		r.logger.Error("Failed to decode user cart", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to decode cart for user %s: %w", userID, err)
	}
	if cart == nil {
		return models.NewCart(), nil
	}

	return cart.Sanitize(), nil
}

func (r *postgresRepository) UpdateCart(ctx context.Context, userID string, cart models.Cart) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if cart == nil {
		cart = models.NewCart()
	}

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if _, err := r.conn.Exec(ctx, upsertCartQuery, userID, data); err != nil {
		r.logger.Error("Failed to update user cart", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to update cart for user %s: %w", userID, err)
	}

	return nil
}
