package domain

import "encoding/json"

// Local persistence keys.
const (
	GuestCartKey = "guest_cart"
	UserKey      = "user"
)

// UserCartKey returns the local mirror key for a user's cart.
func UserCartKey(userID string) string {
	return "cart_" + userID
}

// CartLine is a single product entry in a cart. Quantity is always >= 1.
type CartLine struct {
	ProductID string `json:"productId" bson:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  bson:"quantity"  validate:"min=1"`
}

// Cart is an ordered sequence of lines with at most one line per product.
type Cart []CartLine

// RemoteCartRecord is the single server-side document holding a user's cart.
type RemoteCartRecord struct {
	ID     string `json:"id"     bson:"_id"    validate:"required"`
	UserID string `json:"userId" bson:"userId" validate:"required"`
	Items  Cart   `json:"items"  bson:"items"  validate:"dive"`
}

// Clone returns an independent copy. A nil cart clones to an empty one.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

func (c Cart) indexOf(productID string) int {
	for i, l := range c {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Find returns the line for productID, if present.
func (c Cart) Find(productID string) (CartLine, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c[i], true
	}
	return CartLine{}, false
}

// Add sums quantity into an existing line or appends a new one.
// Quantity is floored at 1.
func (c Cart) Add(productID string, quantity int) Cart {
	out := c.Clone()
	quantity = floorQuantity(quantity)
	if i := out.indexOf(productID); i >= 0 {
		out[i].Quantity += quantity
		return out
	}
	return append(out, CartLine{ProductID: productID, Quantity: quantity})
}

// Remove drops the line for productID. Absent products are a no-op.
func (c Cart) Remove(productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	return out
}

// SetQuantity replaces the quantity of an existing line, floored at 1.
// Absent products are a no-op.
func (c Cart) SetQuantity(productID string, quantity int) Cart {
	out := c.Clone()
	if i := out.indexOf(productID); i >= 0 {
		out[i].Quantity = floorQuantity(quantity)
	}
	return out
}

// Merge folds other into c: shared products have their quantities summed,
// new products are appended in the order they appear in other.
func (c Cart) Merge(other Cart) Cart {
	out := c.Clone()
	for _, l := range other {
		out = out.Add(l.ProductID, l.Quantity)
	}
	return out
}

// TotalQuantity sums the quantity of every line.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c {
		total += l.Quantity
	}
	return total
}

// Normalize collapses duplicate products and floors quantities, so that
// any decoded cart satisfies the line invariants.
func (c Cart) Normalize() Cart {
	out := make(Cart, 0, len(c))
	for _, l := range c {
		if l.ProductID == "" {
			continue
		}
		out = out.Add(l.ProductID, l.Quantity)
	}
	return out
}

// HasDuplicates reports whether two lines share a productId.
func (c Cart) HasDuplicates() bool {
	seen := make(map[string]struct{}, len(c))
	for _, l := range c {
		if _, ok := seen[l.ProductID]; ok {
			return true
		}
		seen[l.ProductID] = struct{}{}
	}
	return false
}

// ParseCart decodes a persisted cart blob. Empty, "null" and "undefined"
// blobs decode to an empty cart; malformed JSON returns ErrMalformedCart.
func ParseCart(raw string) (Cart, error) {
	if raw == "" || raw == "null" || raw == "undefined" {
		return Cart{}, nil
	}
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{}, ErrMalformedCart
	}
	if c == nil {
		return Cart{}, nil
	}
	return c.Normalize(), nil
}

// Encode serializes the cart for local persistence. A nil cart encodes as [].
func (c Cart) Encode() string {
	if c == nil {
		c = Cart{}
	}
	b, _ := json.Marshal(c)
	return string(b)
}

func floorQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}
