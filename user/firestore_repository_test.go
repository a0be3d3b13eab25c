package user

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/storefront/models"
)

// setupFirestore talks to the Firestore emulator; the client library picks
// up FIRESTORE_EMULATOR_HOST on its own.
func setupFirestore(t *testing.T) (Repository, *firestore.Client) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()

	client, err := firestore.NewClient(ctx, "storefront-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewFirestoreRepository(client, zap.NewNop()), client
}

func TestFirestore_GetCart_MissingDocIsEmpty(t *testing.T) {
	repo, _ := setupFirestore(t)

	cart, err := repo.GetCart(context.Background(), "missing-"+t.Name())
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestFirestore_GetCart_DocWithoutCartIsEmpty(t *testing.T) {
	repo, client := setupFirestore(t)
	ctx := context.Background()
	uid := "nocart-" + t.Name()
	_, err := client.Collection(UsersCollection).Doc(uid).Set(ctx, map[string]any{"email": "a@b.c"})
	require.NoError(t, err)

	cart, err := repo.GetCart(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestFirestore_UpdateCart_KeepsOtherFields(t *testing.T) {
	repo, client := setupFirestore(t)
	ctx := context.Background()
	uid := "merge-" + t.Name()
	_, err := client.Collection(UsersCollection).Doc(uid).Set(ctx, map[string]any{"email": "a@b.c"})
	require.NoError(t, err)

	in := models.Cart{{ID: "p1", Name: "Mug", Price: 10, Quantity: 2}}
	require.NoError(t, repo.UpdateCart(ctx, uid, in))

	out, err := repo.GetCart(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	snap, err := client.Collection(UsersCollection).Doc(uid).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", snap.Data()["email"])
}
