package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/cart-sync/internal/api/metrics"
	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// CartHandler serves the /cart collection the storefront syncs against.
type CartHandler struct {
	service ports.CartRecordService
}

func NewCartHandler(service ports.CartRecordService) *CartHandler {
	return &CartHandler{service: service}
}

// List handles GET /cart?userId=.
//
// @Summary      Find a user's cart
// @Description  Returns an array with zero or one record. userId defaults to the caller.
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        userId  query     string  false  "Owner of the cart"
// @Success      200     {array}   domain.RemoteCartRecord
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /cart [get]
func (h *CartHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	userID := c.QueryParam("userId")
	if userID == "" {
		userID = caller.UserID
	}

	records, err := h.service.ListByUser(c.Request().Context(), caller, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}

// Create handles POST /cart.
//
// @Summary      Create a cart record
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartRequest  true  "Cart record"
// @Success      201   {object}  domain.RemoteCartRecord
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /cart [post]
func (h *CartHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req cartRequest
	if err := c.Bind(&req); err != nil {
		metrics.CartWritesTotal.WithLabelValues("create", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.CartWritesTotal.WithLabelValues("create", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	record, err := h.service.Create(c.Request().Context(), caller, domain.RemoteCartRecord{
		ID:     req.ID,
		UserID: req.UserID,
		Items:  req.Items,
	})
	metrics.CartWritesTotal.WithLabelValues("create", resultLabel(err)).Inc()
	if err != nil {
		if resultLabel(err) == "conflict" {
			metrics.CartConflictsTotal.Inc()
		}
		return respondError(c, err)
	}

	metrics.CartLinesWritten.Observe(float64(len(record.Items)))
	return c.JSON(http.StatusCreated, record)
}

// Replace handles PUT /cart/:id.
//
// @Summary      Replace a cart record
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Cart record id"
// @Param        body  body      replaceCartRequest  true  "Full record"
// @Success      200   {object}  domain.RemoteCartRecord
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /cart/{id} [put]
func (h *CartHandler) Replace(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req replaceCartRequest
	if err := c.Bind(&req); err != nil {
		metrics.CartWritesTotal.WithLabelValues("replace", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.CartWritesTotal.WithLabelValues("replace", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	id := c.Param("id")
	if req.ID != "" && req.ID != id {
		metrics.CartWritesTotal.WithLabelValues("replace", "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "id does not match path"})
	}

	record, err := h.service.Replace(c.Request().Context(), caller, id, domain.RemoteCartRecord{
		ID:     id,
		UserID: req.UserID,
		Items:  req.Items,
	})
	metrics.CartWritesTotal.WithLabelValues("replace", resultLabel(err)).Inc()
	if err != nil {
		return respondError(c, err)
	}

	metrics.CartLinesWritten.Observe(float64(len(record.Items)))
	return c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /cart/:id.
//
// @Summary      Delete a cart record
// @Tags         cart
// @Security     BearerAuth
// @Param        id  path  string  true  "Cart record id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /cart/{id} [delete]
func (h *CartHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), caller, c.Param("id"))
	metrics.CartWritesTotal.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
