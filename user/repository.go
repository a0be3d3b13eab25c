// Package user stores the cart field of a signed-in user's record.
package user

import (
	"context"
	"errors"

	"gofalre.io/storefront/models"
)

var ErrEmptyUserID = errors.New("user: empty user id")

// Repository is the remote half of the cart. Reads are point lookups by user
// id; writes overwrite the whole cart field (last writer wins).
type Repository interface {
	// GetCart returns the user's cart. A missing record or a record without a
	// cart field yields an empty cart and no error.
	GetCart(ctx context.Context, userID string) (models.Cart, error)
	// UpdateCart replaces the cart field, creating the record when absent.
	UpdateCart(ctx context.Context, userID string, cart models.Cart) error
}
