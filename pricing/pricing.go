// Package pricing derives the figures shown next to a cart.
// Everything here is pure and recomputed from the cart on every call.
package pricing

import "gofalre.io/storefront/models"

const (
	// FreeShippingThreshold is exclusive: a subtotal must be strictly above it.
	FreeShippingThreshold = 50.0
	ShippingFee           = 5.99
	TaxRate               = 0.08
)

// Totals is the summary displayed with a cart.
type Totals struct {
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
}

// FreeShipping reports whether the shipping line is waived.
func (t Totals) FreeShipping() bool {
	return t.Shipping == 0
}

// ItemCount is the sum of all quantities, not the number of lines.
func ItemCount(c models.Cart) int {
	n := 0
	for _, it := range c {
		n += it.Quantity
	}
	return n
}

func Subtotal(c models.Cart) float64 {
	sum := 0.0
	for _, it := range c {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

func Shipping(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

func Total(subtotal float64) float64 {
	return subtotal + Shipping(subtotal) + Tax(subtotal)
}

// Compute derives every figure for c.
func Compute(c models.Cart) Totals {
	subtotal := Subtotal(c)
	return Totals{
		ItemCount: ItemCount(c),
		Subtotal:  subtotal,
		Shipping:  Shipping(subtotal),
		Tax:       Tax(subtotal),
		Total:     Total(subtotal),
	}
}
