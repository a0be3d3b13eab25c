package user

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gofalre.io/storefront/models"
)

var _ Repository = (*firestoreRepository)(nil)

// UsersCollection holds one document per signed-in user, keyed by uid.
const UsersCollection = "users"

type firestoreRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

func NewFirestoreRepository(client *firestore.Client, logger *zap.Logger) Repository {
	return &firestoreRepository{
		client: client,
		logger: logger,
	}
}

// userDoc only maps the fields this package owns; the rest of the user
// document is left alone.
type userDoc struct {
	Cart []models.CartItem `firestore:"cart"`
}

func (r *firestoreRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(UsersCollection).Doc(userID)
}

func (r *firestoreRepository) GetCart(ctx context.Context, userID string) (models.Cart, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	snap, err := r.doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.NewCart(), nil
	}
	if err != nil {
		r.logger.Error("Failed to get user document", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}

	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		r.logger.Error("Failed to decode user document", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to decode user %s: %w", userID, err)
	}
	if d.Cart == nil {
		return models.NewCart(), nil
	}

	return models.Cart(d.Cart).Sanitize(), nil
}

func (r *firestoreRepository) UpdateCart(ctx context.Context, userID string, cart models.Cart) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if cart == nil {
		cart = models.NewCart()
	}

	_, err := r.doc(userID).Set(ctx, map[string]any{
		"cart":      []models.CartItem(cart),
		"updatedAt": firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		r.logger.Error("Failed to update user cart", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to update cart for user %s: %w", userID, err)
	}

	return nil
}
