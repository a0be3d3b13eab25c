package main

import (
	"bytes"
	"context"
	"flag"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gofalre.io/storefront"
	"gofalre.io/storefront/config"
	"gofalre.io/storefront/local"
	"gofalre.io/storefront/models"
)

type memoryRepository map[string]models.Cart

func (m memoryRepository) GetCart(_ context.Context, uid string) (models.Cart, error) {
	return m[uid].Clone(), nil
}

func (m memoryRepository) UpdateCart(_ context.Context, uid string, cart models.Cart) error {
	m[uid] = cart.Clone()
	return nil
}

type plainFormatter struct{}

func (plainFormatter) Format(a float64) string { return "N" + strconv.FormatFloat(a, 'f', 2, 64) }

func TestRun_UnknownCommand(t *testing.T) {
	err := run(context.Background(), config.Config{}, zap.NewNop(), "explode", nil, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown command "explode"`)
	assert.ErrorContains(t, err, "add an item (-id -item-name -price -qty)")
}

func TestShopperFlags(t *testing.T) {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var f shopperFlags
	f.register(fs)
	require.NoError(t, fs.Parse([]string{"-uid", "u1", "-email", "a@b.c"}))

	assert.Equal(t, models.AuthState{UserID: "u1", Email: "a@b.c"}, f.state())
}

func TestPrintCart(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc, err := storefront.NewService(local.NewStore(rdb, "cart", zap.NewNop()), memoryRepository{}, nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()
	svc.Load(ctx)
	require.NoError(t, svc.AddItem(ctx, models.CartItem{ID: "p1", Name: "Mug", Price: 30}, 2))

	var out bytes.Buffer
	require.NoError(t, printCart(&out, svc, plainFormatter{}))

	assert.Contains(t, out.String(), "cart (local)")
	assert.Contains(t, out.String(), "Mug")
	assert.Contains(t, out.String(), "x2")
	assert.Contains(t, out.String(), "FREE")
}
