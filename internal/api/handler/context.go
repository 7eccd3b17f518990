package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/cart-sync/internal/core/ports"
)

// ctxCaller reads the principal injected by the Auth middleware. An empty
// role means the middleware never ran.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return ports.Caller{UserID: userID, Role: role}, nil
}
