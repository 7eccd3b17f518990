package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// respondError renders known domain errors and hands anything else back to
// the echo error handler, which logs it and answers 500.
func respondError(c echo.Context, err error) error {
	status, msg, ok := classify(err)
	if !ok {
		return err
	}
	return c.JSON(status, errorResponse{Error: msg})
}

func classify(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, "cart not found", true
	case errors.Is(err, domain.ErrCartExists):
		return http.StatusConflict, "cart already exists for user", true
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrEmptyOrder):
		return http.StatusBadRequest, "order has no items", true
	}
	return 0, "", false
}

// resultLabel turns an error into a metrics result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrCartNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrProductNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCartExists):
		return "conflict"
	case errors.Is(err, domain.ErrUserExists):
		return "exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrEmptyOrder):
		return "invalid"
	default:
		return "error"
	}
}
