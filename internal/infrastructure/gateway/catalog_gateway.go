package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// CatalogGateway reads products for cart display.
type CatalogGateway struct {
	c *Client
}

func NewCatalogGateway(c *Client) *CatalogGateway {
	return &CatalogGateway{c: c}
}

func (g *CatalogGateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := g.c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
