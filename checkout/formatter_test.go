package checkout

import (
	"testing"

	"github.com/stripe/stripe-go/v79"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestFormatter_GroupsAndScales(t *testing.T) {
	f, err := NewFormatter(stripe.CurrencyUSD, language.English)
	require.NoError(t, err)

	assert.Equal(t, "USD", f.Currency())
	assert.Contains(t, f.Format(1234.5), "1,234.50")
	assert.Contains(t, f.Format(0), "0.00")
}

func TestFormatter_UnknownCurrency(t *testing.T) {
	_, err := NewFormatter(stripe.Currency("zzz"), language.English)
	assert.Error(t, err)
}

func TestDefaultFormatter(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "NGN", f.Currency())
	assert.Contains(t, f.Format(10), "10.00")
}
