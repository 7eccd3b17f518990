package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// OrderService turns a checked-out cart into a stored order. Lines are
// priced from the catalog, never from the client.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, logger: logger}
}

func (s *OrderService) Place(ctx context.Context, caller ports.Caller, input ports.PlaceOrderInput) (*domain.Order, error) {
	if err := authorize(caller, input.UserID); err != nil {
		return nil, err
	}

	items := input.Items.Normalize()
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	products := make([]domain.Product, 0, len(items))
	for _, l := range items {
		p, err := s.products.FindByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("price %s: %w", l.ProductID, err)
		}
		products = append(products, *p)
	}
	lines, total, err := domain.PriceOrder(items, products)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:        "order-" + uuid.NewString(),
		UserID:    input.UserID,
		Items:     lines,
		Total:     total,
		Status:    domain.OrderPending,
		Shipping:  input.Shipping,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to store order")
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID).Str("user_id", order.UserID).Float64("total", order.Total).Msg("order placed")
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, caller ports.Caller, userID string) ([]domain.Order, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
