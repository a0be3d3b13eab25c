package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_IndexOf(t *testing.T) {
	c := Cart{{ID: "a", Quantity: 1}, {ID: "b", Quantity: 2}}

	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("z"))
	assert.Equal(t, -1, Cart(nil).IndexOf("a"))
}

func TestCart_CloneIsIndependent(t *testing.T) {
	c := Cart{{ID: "a", Quantity: 1}}
	cp := c.Clone()
	cp[0].Quantity = 9

	assert.Equal(t, 1, c[0].Quantity)
	assert.NotNil(t, Cart(nil).Clone())
}

func TestCart_Valid(t *testing.T) {
	assert.True(t, Cart{}.Valid())
	assert.True(t, Cart{{ID: "a", Quantity: 1, Price: 0}}.Valid())
	assert.False(t, Cart{{ID: "", Quantity: 1}}.Valid())
	assert.False(t, Cart{{ID: "a", Quantity: 0}}.Valid())
	assert.False(t, Cart{{ID: "a", Quantity: 1, Price: -1}}.Valid())
	assert.False(t, Cart{{ID: "a", Quantity: 1}, {ID: "a", Quantity: 2}}.Valid())
}

func TestCart_Sanitize(t *testing.T) {
	in := Cart{
		{ID: "a", Quantity: 2},
		{ID: "", Quantity: 1},
		{ID: "b", Quantity: 0},
		{ID: "a", Quantity: 7},
		{ID: "c", Quantity: 1},
	}

	out := in.Sanitize()

	assert.Equal(t, Cart{{ID: "a", Quantity: 2}, {ID: "c", Quantity: 1}}, out)
}

func TestAuthState(t *testing.T) {
	assert.False(t, Anonymous().Authenticated())
	assert.True(t, AuthState{UserID: "u1"}.Authenticated())
}
