package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/cart-sync/internal/core/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        categoryId  query     string  false  "Only products in this category"
// @Param        q           query     string  false  "Substring of name or description"
// @Success      200         {array}   domain.Product
// @Router       /products [get]
func (h *CatalogHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context(), ports.ProductFilter{
		CategoryID: c.QueryParam("categoryId"),
		Query:      c.QueryParam("q"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	product, err := h.service.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}
