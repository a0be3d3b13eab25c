package models

// CartItem is one line of a cart. The same shape is stored under the local
// cart key and in the cart field of a user record.
type CartItem struct {
	ID       string  `json:"id" firestore:"id"`
	Name     string  `json:"name" firestore:"name"`
	Price    float64 `json:"price" firestore:"price"`
	Image    string  `json:"image" firestore:"image"`
	Category string  `json:"category" firestore:"category"`
	Quantity int     `json:"quantity" firestore:"quantity"`
}

// Cart is an ordered list of line items keyed by ID.
type Cart []CartItem

func NewCart() Cart {
	return Cart{}
}

// IndexOf returns the position of the line with the given id, or -1.
func (c Cart) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
// A nil cart clones to an empty one.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Valid reports whether every line has a non-empty unique id, a positive
// quantity and a non-negative price.
func (c Cart) Valid() bool {
	seen := make(map[string]struct{}, len(c))
	for _, it := range c {
		if it.ID == "" || it.Quantity <= 0 || it.Price < 0 {
			return false
		}
		if _, dup := seen[it.ID]; dup {
			return false
		}
		seen[it.ID] = struct{}{}
	}
	return true
}

// Sanitize drops lines that can't exist in a cart (empty id, quantity <= 0)
// and keeps the first occurrence of a repeated id. Used on data read back
// from storage.
func (c Cart) Sanitize() Cart {
	out := make(Cart, 0, len(c))
	seen := make(map[string]struct{}, len(c))
	for _, it := range c {
		if it.ID == "" || it.Quantity <= 0 {
			continue
		}
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
