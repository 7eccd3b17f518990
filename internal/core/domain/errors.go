package domain

import "errors"

var ErrCartNotFound = errors.New("cart not found")
var ErrCartExists = errors.New("cart already exists for user")
var ErrProductNotFound = errors.New("product not found")
var ErrForbidden = errors.New("access forbidden")

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTransport marks a failed call to the remote cart backend.
var ErrTransport = errors.New("remote transport failure")

// ErrMalformedRecord marks a remote payload that failed schema validation.
var ErrMalformedRecord = errors.New("malformed remote cart record")

// ErrMalformedCart marks a locally persisted cart that is not valid JSON.
var ErrMalformedCart = errors.New("malformed persisted cart")

var ErrEmptyOrder = errors.New("order has no items")
