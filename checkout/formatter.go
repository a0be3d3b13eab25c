package checkout

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PriceFormatter renders an amount for display.
type PriceFormatter interface {
	Format(amount float64) string
}

var _ PriceFormatter = (*Formatter)(nil)

// Formatter prints amounts with the currency symbol and locale grouping,
// e.g. "₦1,234.50" for NGN in English.
type Formatter struct {
	unit    currency.Unit
	scale   int
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a formatter for a Stripe currency code.
func NewFormatter(code stripe.Currency, tag language.Tag) (*Formatter, error) {
	unit, err := currency.ParseISO(strings.ToUpper(string(code)))
	if err != nil {
		return nil, fmt.Errorf("unknown currency %q: %w", code, err)
	}

	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(tag)

	return &Formatter{
		unit:    unit,
		scale:   scale,
		symbol:  strings.TrimSpace(p.Sprint(currency.NarrowSymbol(unit))),
		printer: p,
	}, nil
}

// DefaultFormatter formats Nigerian naira in English, the storefront's
// display currency.
func DefaultFormatter() *Formatter {
	f, err := NewFormatter(stripe.CurrencyNGN, language.English)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Formatter) Currency() string {
	return f.unit.String()
}

func (f *Formatter) Format(amount float64) string {
	return f.symbol + f.printer.Sprint(number.Decimal(amount, number.Scale(f.scale)))
}
