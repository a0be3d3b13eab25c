package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v79"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"REDIS_DB", "LOCAL_CART_KEY", "REMOTE_BACKEND", "VERIFY_ID_TOKENS", "CURRENCY", "AUTH_SUBJECT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "cart", cfg.LocalCartKey)
	assert.Equal(t, BackendPostgres, cfg.RemoteBackend)
	assert.False(t, cfg.VerifyIDTokens)
	assert.Equal(t, stripe.CurrencyNGN, cfg.Currency)
	assert.Equal(t, "auth.state.>", cfg.AuthSubject)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REMOTE_BACKEND", "Firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "shop-dev")
	t.Setenv("VERIFY_ID_TOKENS", "true")
	t.Setenv("CURRENCY", "USD")

	cfg := Load()

	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, BackendFirestore, cfg.RemoteBackend)
	assert.True(t, cfg.VerifyIDTokens)
	assert.Equal(t, stripe.CurrencyUSD, cfg.Currency)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("VERIFY_ID_TOKENS", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.VerifyIDTokens)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown backend", cfg: Config{RemoteBackend: "mongo"}},
		{name: "firestore without project", cfg: Config{RemoteBackend: BackendFirestore}},
		{name: "postgres without url", cfg: Config{RemoteBackend: BackendPostgres}},
		{name: "verification without project", cfg: Config{RemoteBackend: BackendPostgres, DatabaseURL: "postgres://x", VerifyIDTokens: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}
