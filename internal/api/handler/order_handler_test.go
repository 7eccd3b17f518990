package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

type stubOrderService struct {
	placeFn func(ctx context.Context, caller ports.Caller, input ports.PlaceOrderInput) (*domain.Order, error)
	listFn  func(ctx context.Context, caller ports.Caller, userID string) ([]domain.Order, error)
}

func (s *stubOrderService) Place(ctx context.Context, caller ports.Caller, input ports.PlaceOrderInput) (*domain.Order, error) {
	return s.placeFn(ctx, caller, input)
}

func (s *stubOrderService) ListByUser(ctx context.Context, caller ports.Caller, userID string) ([]domain.Order, error) {
	return s.listFn(ctx, caller, userID)
}

const validShipping = `"shippingInfo":{"name":"Ada","email":"ada@example.com","phone":"5512345678","address":"Main 123","city":"Lima","zipCode":"01234"}`

func TestOrderHandler_Create(t *testing.T) {
	e := newEcho()
	var got ports.PlaceOrderInput
	stub := &stubOrderService{
		placeFn: func(ctx context.Context, caller ports.Caller, input ports.PlaceOrderInput) (*domain.Order, error) {
			got = input
			return &domain.Order{ID: "order-1", UserID: input.UserID, Total: 16, Status: domain.OrderPending}, nil
		},
	}
	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPost, "/orders", `{"items":[{"productId":"p1","quantity":2}],`+validShipping+`}`)
	c := authedContext(e, req, rec, "u1", domain.RoleUser)

	if err := NewOrderHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	if got.UserID != "u1" {
		t.Errorf("expected userId to default to the caller, got %q", got.UserID)
	}
	if got.Shipping.City != "Lima" || len(got.Items) != 1 {
		t.Errorf("unexpected input: %+v", got)
	}

	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if order.ID != "order-1" || order.Status != domain.OrderPending {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestOrderHandler_CreateRejects(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		want    int
		message string
	}{
		{
			name:    "bad zip code",
			body:    `{"items":[{"productId":"p1","quantity":1}],"shippingInfo":{"name":"Ada","email":"ada@example.com","phone":"5512345678","address":"Main 123","city":"Lima","zipCode":"12ab"}}`,
			want:    http.StatusBadRequest,
			message: "zipCode",
		},
		{
			name:    "no items",
			body:    `{"items":[],` + validShipping + `}`,
			want:    http.StatusBadRequest,
			message: "items",
		},
		{
			name:    "unknown product",
			body:    `{"items":[{"productId":"zzz","quantity":1}],` + validShipping + `}`,
			err:     domain.ErrProductNotFound,
			want:    http.StatusUnprocessableEntity,
			message: "unknown product",
		},
		{
			name:    "other user",
			body:    `{"userId":"u2","items":[{"productId":"p1","quantity":1}],` + validShipping + `}`,
			err:     domain.ErrForbidden,
			want:    http.StatusForbidden,
			message: "forbidden",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho()
			stub := &stubOrderService{
				placeFn: func(ctx context.Context, caller ports.Caller, input ports.PlaceOrderInput) (*domain.Order, error) {
					if tt.err == nil {
						t.Fatalf("service should not be called")
					}
					return nil, tt.err
				},
			}
			rec := httptest.NewRecorder()
			c := authedContext(e, jsonRequest(http.MethodPost, "/orders", tt.body), rec, "u1", domain.RoleUser)

			if err := NewOrderHandler(stub).Create(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d %s", tt.want, rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Errorf("expected %q in %s", tt.message, rec.Body.String())
			}
		})
	}
}

func TestOrderHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubOrderService{
		listFn: func(ctx context.Context, caller ports.Caller, userID string) ([]domain.Order, error) {
			if userID != "u1" {
				t.Fatalf("expected caller's orders, got %s", userID)
			}
			return []domain.Order{{ID: "order-2"}, {ID: "order-1"}}, nil
		},
	}
	rec := httptest.NewRecorder()
	c := authedContext(e, httptest.NewRequest(http.MethodGet, "/orders", nil), rec, "u1", domain.RoleUser)

	if err := NewOrderHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var orders []domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusOK || len(orders) != 2 || orders[0].ID != "order-2" {
		t.Fatalf("unexpected response: %d %+v", rec.Code, orders)
	}
}
