package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

type stubOrderRepo struct {
	orders    []domain.Order
	createErr error
}

func (r *stubOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.orders = append(r.orders, *order)
	return nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func newTestOrderService() (*OrderService, *stubOrderRepo) {
	products := &stubProductRepo{products: []domain.Product{
		{ID: "mug", Name: "Mug", Price: 8},
		{ID: "lamp", Name: "Lamp", Price: 30},
	}}
	repo := &stubOrderRepo{}
	return NewOrderService(repo, products, discardLogger), repo
}

var testShipping = domain.ShippingInfo{
	Name: "Ana", Email: "ana@example.com", Phone: "5551234567",
	Address: "1 Main St", City: "Springfield", ZipCode: "12345",
}

func TestOrderService_Place_PricesFromCatalog(t *testing.T) {
	svc, repo := newTestOrderService()
	caller := ports.Caller{UserID: "u1", Role: domain.RoleUser}

	order, err := svc.Place(context.Background(), caller, ports.PlaceOrderInput{
		UserID:   "u1",
		Items:    domain.Cart{{ProductID: "mug", Quantity: 2}, {ProductID: "lamp", Quantity: 1}},
		Shipping: testShipping,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Total != 46 {
		t.Errorf("expected total 46, got %v", order.Total)
	}
	if order.Status != domain.OrderPending {
		t.Errorf("expected pending status, got %q", order.Status)
	}
	if len(order.Items) != 2 || order.Items[0].Name != "Mug" || order.Items[0].Price != 8 {
		t.Errorf("unexpected priced lines: %+v", order.Items)
	}
	if len(repo.orders) != 1 || repo.orders[0].ID != order.ID {
		t.Fatalf("order was not stored: %+v", repo.orders)
	}
}

func TestOrderService_Place_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		caller  ports.Caller
		items   domain.Cart
		wantErr error
	}{
		{"empty cart", ports.Caller{UserID: "u1", Role: domain.RoleUser}, domain.Cart{}, domain.ErrEmptyOrder},
		{"unknown product", ports.Caller{UserID: "u1", Role: domain.RoleUser}, domain.Cart{{ProductID: "ghost", Quantity: 1}}, domain.ErrProductNotFound},
		{"someone else's order", ports.Caller{UserID: "u2", Role: domain.RoleUser}, domain.Cart{{ProductID: "mug", Quantity: 1}}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestOrderService()
			_, err := svc.Place(context.Background(), tt.caller, ports.PlaceOrderInput{UserID: "u1", Items: tt.items, Shipping: testShipping})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(repo.orders) != 0 {
				t.Error("rejected orders must not be stored")
			}
		})
	}
}

func TestOrderService_Place_StoreFailure(t *testing.T) {
	svc, repo := newTestOrderService()
	repo.createErr = errors.New("disk full")

	_, err := svc.Place(context.Background(), ports.Caller{UserID: "u1", Role: domain.RoleUser}, ports.PlaceOrderInput{
		UserID: "u1", Items: domain.Cart{{ProductID: "mug", Quantity: 1}}, Shipping: testShipping,
	})
	if err == nil {
		t.Fatal("expected error when the order cannot be stored")
	}
}

func TestOrderService_ListByUser(t *testing.T) {
	svc, _ := newTestOrderService()
	ctx := context.Background()
	user := ports.Caller{UserID: "u1", Role: domain.RoleUser}

	for _, q := range []int{1, 3} {
		if _, err := svc.Place(ctx, user, ports.PlaceOrderInput{
			UserID: "u1", Items: domain.Cart{{ProductID: "mug", Quantity: q}}, Shipping: testShipping,
		}); err != nil {
			t.Fatalf("place: %v", err)
		}
	}

	orders, err := svc.ListByUser(ctx, user, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 || orders[0].Items[0].Quantity != 3 {
		t.Fatalf("expected newest order first, got %+v", orders)
	}

	if _, err := svc.ListByUser(ctx, ports.Caller{UserID: "u2", Role: domain.RoleUser}, "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for another user, got %v", err)
	}
	if _, err := svc.ListByUser(ctx, ports.Caller{UserID: "admin", Role: domain.RoleAdmin}, "u1"); err != nil {
		t.Errorf("admin should list any user's orders, got %v", err)
	}
}
