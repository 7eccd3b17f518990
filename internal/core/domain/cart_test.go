package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestCart_Add_IsOrderIndependent(t *testing.T) {
	a := Cart{}.Add("p1", 2).Add("p1", 3).Add("p1", 4)
	b := Cart{}.Add("p1", 4).Add("p1", 2).Add("p1", 3)

	if !reflect.DeepEqual(a, b) || a[0].Quantity != 9 {
		t.Fatalf("expected both orders to yield p1x9, got %+v and %+v", a, b)
	}
}

func TestCart_Add_DoesNotMutateReceiver(t *testing.T) {
	base := Cart{{ProductID: "p1", Quantity: 1}}
	_ = base.Add("p1", 5)

	if base[0].Quantity != 1 {
		t.Fatalf("receiver was mutated: %+v", base)
	}
}

func TestCart_Merge(t *testing.T) {
	user := Cart{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 3}}
	guest := Cart{{ProductID: "p1", Quantity: 2}, {ProductID: "p4", Quantity: 1}}

	got := user.Merge(guest)
	want := Cart{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 3}, {ProductID: "p4", Quantity: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseCart(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Cart
		wantErr bool
	}{
		{"empty", "", Cart{}, false},
		{"null", "null", Cart{}, false},
		{"undefined", "undefined", Cart{}, false},
		{"garbage", "{oops", Cart{}, true},
		{"object", `{"productId":"p1"}`, Cart{}, true},
		{"duplicates collapse", `[{"productId":"p1","quantity":1},{"productId":"p1","quantity":2}]`, Cart{{ProductID: "p1", Quantity: 3}}, false},
		{"zero quantity floors", `[{"productId":"p1","quantity":0}]`, Cart{{ProductID: "p1", Quantity: 1}}, false},
	}

	for _, tc := range cases {
		got, err := ParseCart(tc.raw)
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: unexpected error state: %v", tc.name, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestCartTotal_SkipsUnknownProducts(t *testing.T) {
	cart := Cart{{ProductID: "p1", Quantity: 2}, {ProductID: "gone", Quantity: 9}}
	products := []Product{{ID: "p1", Price: 12.5}}

	if got := CartTotal(cart, products); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if lines := Annotate(cart, products); len(lines) != 1 {
		t.Fatalf("expected unknown product to be dropped, got %+v", lines)
	}
}

func TestIdentity_CartKey(t *testing.T) {
	if Guest.CartKey() != "guest_cart" {
		t.Errorf("guest key: %q", Guest.CartKey())
	}
	if UserIdentity("42").CartKey() != "cart_42" {
		t.Errorf("user key: %q", UserIdentity("42").CartKey())
	}
}

func TestPriceOrder(t *testing.T) {
	products := []Product{{ID: "mug", Name: "Mug", Price: 8}, {ID: "lamp", Name: "Lamp", Price: 30}}

	lines, total, err := PriceOrder(Cart{{ProductID: "lamp", Quantity: 1}, {ProductID: "mug", Quantity: 2}}, products)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 46 {
		t.Errorf("expected total 46, got %v", total)
	}
	if len(lines) != 2 || lines[0].ProductID != "lamp" || lines[1].Name != "Mug" {
		t.Errorf("lines must keep cart order and carry names: %+v", lines)
	}

	if _, _, err := PriceOrder(Cart{}, products); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("expected ErrEmptyOrder, got %v", err)
	}
	if _, _, err := PriceOrder(Cart{{ProductID: "ghost", Quantity: 1}}, products); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
