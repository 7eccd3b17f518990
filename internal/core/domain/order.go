package domain

import "time"

const OrderPending = "pending"

// ShippingInfo is where an order is delivered. Phone and ZIP code are
// digits only.
type ShippingInfo struct {
	Name    string `json:"name"    bson:"name"    validate:"required,min=2"`
	Email   string `json:"email"   bson:"email"   validate:"required,email"`
	Phone   string `json:"phone"   bson:"phone"   validate:"required,len=10,numeric"`
	Address string `json:"address" bson:"address" validate:"required,min=5"`
	City    string `json:"city"    bson:"city"    validate:"required"`
	ZipCode string `json:"zipCode" bson:"zipCode" validate:"required,len=5,numeric"`
}

// OrderLine is a cart line priced at the moment the order was placed.
type OrderLine struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name"      bson:"name"`
	Price     float64 `json:"price"     bson:"price"`
	Quantity  int     `json:"quantity"  bson:"quantity"`
}

// Order is a placed checkout of a user's cart.
type Order struct {
	ID        string       `json:"id"           bson:"_id"`
	UserID    string       `json:"userId"       bson:"userId"`
	Items     []OrderLine  `json:"items"        bson:"items"`
	Total     float64      `json:"total"        bson:"total"`
	Status    string       `json:"status"       bson:"status"`
	Shipping  ShippingInfo `json:"shippingInfo" bson:"shippingInfo"`
	CreatedAt time.Time    `json:"date"         bson:"createdAt"`
}

// PriceOrder turns cart lines into priced order lines and their total.
// Every product must be in the catalog.
func PriceOrder(cart Cart, products []Product) ([]OrderLine, float64, error) {
	if len(cart) == 0 {
		return nil, 0, ErrEmptyOrder
	}
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]OrderLine, 0, len(cart))
	total := 0.0
	for _, l := range cart.Normalize() {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, 0, ErrProductNotFound
		}
		lines = append(lines, OrderLine{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: l.Quantity})
		total += p.Price * float64(l.Quantity)
	}
	return lines, total, nil
}
