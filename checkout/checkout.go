// Package checkout turns a cart into the order message handed off to an
// external chat link. Nothing here persists an order.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gofalre.io/storefront/models"
	"gofalre.io/storefront/pricing"
)

var (
	ErrEmptyCart      = errors.New("checkout: cart is empty")
	ErrSignInRequired = errors.New("checkout: sign in required")
	ErrNoPhoneNumber  = errors.New("checkout: no phone number configured")
)

const chatBaseURL = "https://wa.me/"

// Message renders the order text for customer. The customer must be
// signed in and the cart must not be empty.
func Message(customer models.AuthState, cart models.Cart, f PriceFormatter) (string, error) {
	if len(cart) == 0 {
		return "", ErrEmptyCart
	}
	if !customer.Authenticated() {
		return "", ErrSignInRequired
	}

	totals := pricing.Compute(cart)

	name := customer.DisplayName
	if name == "" {
		name = customer.Email
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *New Order from %s*\n\n", name)
	fmt.Fprintf(&b, "📧 Email: %s\n\n", customer.Email)
	b.WriteString("*Order Details:*\n")

	for i, it := range cart {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Name)
		fmt.Fprintf(&b, "   Qty: %d x %s = %s\n\n",
			it.Quantity, f.Format(it.Price), f.Format(it.Price*float64(it.Quantity)))
	}

	shipping := "Free"
	if !totals.FreeShipping() {
		shipping = f.Format(totals.Shipping)
	}

	b.WriteString("*Order Summary:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", f.Format(totals.Subtotal))
	fmt.Fprintf(&b, "Shipping: %s\n", shipping)
	fmt.Fprintf(&b, "Tax: %s\n", f.Format(totals.Tax))
	fmt.Fprintf(&b, "*Total: %s*\n\n", f.Format(totals.Total))
	b.WriteString("Please confirm this order and provide delivery details.")

	return b.String(), nil
}

// Link builds the chat deep link carrying text to number. Anything but
// digits is stripped from number.
func Link(number, text string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return "", ErrNoPhoneNumber
	}

	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return chatBaseURL + digits + "?text=" + escaped, nil
}
