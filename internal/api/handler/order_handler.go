package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/cart-sync/internal/api/metrics"
	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// OrderHandler serves checkout and order history.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders.
//
// @Summary      Place an order
// @Description  Prices the submitted cart lines from the catalog and stores a pending order.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      orderRequest  true  "Checkout"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		metrics.OrdersPlacedTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.OrdersPlacedTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if req.UserID == "" {
		req.UserID = caller.UserID
	}

	order, err := h.service.Place(c.Request().Context(), caller, ports.PlaceOrderInput{
		UserID:   req.UserID,
		Items:    req.Items,
		Shipping: req.ShippingInfo,
	})
	metrics.OrdersPlacedTotal.WithLabelValues(resultLabel(err)).Inc()
	if errors.Is(err, domain.ErrProductNotFound) {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "order references an unknown product"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// List handles GET /orders?userId=.
//
// @Summary      List a user's orders
// @Description  Newest first. userId defaults to the caller.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        userId  query     string  false  "Owner of the orders"
// @Success      200     {array}   domain.Order
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		userID = caller.UserID
	}

	orders, err := h.service.ListByUser(c.Request().Context(), caller, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}
