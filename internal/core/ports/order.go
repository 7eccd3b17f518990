package ports

import (
	"context"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// PlaceOrderInput is a checkout request: the cart lines to buy and where to
// ship them. Prices are looked up on the backend.
type PlaceOrderInput struct {
	UserID   string
	Items    domain.Cart
	Shipping domain.ShippingInfo
}

// OrderRepository persists placed orders on the backend.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// OrderService places and lists orders. Non-admin callers only see their own.
type OrderService interface {
	Place(ctx context.Context, caller Caller, input PlaceOrderInput) (*domain.Order, error)
	ListByUser(ctx context.Context, caller Caller, userID string) ([]domain.Order, error)
}

// OrderGateway is the client's view of the backend /orders collection.
type OrderGateway interface {
	Place(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
