package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// OrderGateway places and lists orders on the backend /orders collection.
type OrderGateway struct {
	c *Client
}

func NewOrderGateway(c *Client) *OrderGateway {
	return &OrderGateway{c: c}
}

type orderBody struct {
	UserID       string              `json:"userId"`
	Items        domain.Cart         `json:"items"`
	ShippingInfo domain.ShippingInfo `json:"shippingInfo"`
}

func (g *OrderGateway) Place(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	body := orderBody{UserID: input.UserID, Items: input.Items.Normalize(), ShippingInfo: input.Shipping}
	var order domain.Order
	if err := g.c.do(ctx, http.MethodPost, "/orders", body, &order); err != nil {
		return nil, fmt.Errorf("place order: %w", orderError(err))
	}
	if order.ID == "" {
		return nil, fmt.Errorf("place order: %w: reply has no id", domain.ErrMalformedRecord)
	}
	return &order, nil
}

func (g *OrderGateway) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := g.c.do(ctx, http.MethodGet, "/orders?userId="+url.QueryEscape(userID), nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", orderError(err))
	}
	return orders, nil
}

func orderError(err error) error {
	switch statusCode(err) {
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", domain.ErrProductNotFound, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	}
	return err
}
