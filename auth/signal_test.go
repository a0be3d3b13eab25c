package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gofalre.io/storefront/models"
)

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()
	var got1, got2 []models.AuthState

	_, err := b.Subscribe(func(_ context.Context, s models.AuthState) { got1 = append(got1, s) })
	require.NoError(t, err)
	_, err = b.Subscribe(func(_ context.Context, s models.AuthState) { got2 = append(got2, s) })
	require.NoError(t, err)

	b.Publish(context.Background(), models.AuthState{UserID: "u1"})

	assert.Equal(t, []models.AuthState{{UserID: "u1"}}, got1)
	assert.Equal(t, []models.AuthState{{UserID: "u1"}}, got2)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()
	calls := 0

	unsubscribe, err := b.Subscribe(func(context.Context, models.AuthState) { calls++ })
	require.NoError(t, err)

	b.Publish(context.Background(), models.Anonymous())
	unsubscribe()
	unsubscribe()
	b.Publish(context.Background(), models.Anonymous())

	assert.Equal(t, 1, calls)
}
