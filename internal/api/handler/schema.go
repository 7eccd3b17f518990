package handler

import "github.com/shopfront/cart-sync/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type cartRequest struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId" validate:"required"`
	Items  domain.Cart `json:"items"  validate:"unique=ProductID,dive"`
}

// replaceCartRequest mirrors cartRequest but the owner may be omitted; it
// can never change once the record exists.
type replaceCartRequest struct {
	ID     string      `json:"id"`
	UserID string      `json:"userId"`
	Items  domain.Cart `json:"items" validate:"unique=ProductID,dive"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// orderRequest is a checkout. userId defaults to the caller; prices are
// taken from the catalog.
type orderRequest struct {
	UserID       string              `json:"userId"`
	Items        domain.Cart         `json:"items"        validate:"required,min=1,unique=ProductID,dive"`
	ShippingInfo domain.ShippingInfo `json:"shippingInfo" validate:"required"`
}
