package ports

import (
	"context"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// CartGateway is the client's view of the remote cart collection, one
// record per user.
type CartGateway interface {
	// FetchByUser returns the user's record, or nil when none exists.
	FetchByUser(ctx context.Context, userID string) (*domain.RemoteCartRecord, error)
	// Replace overwrites the user's items, creating the record if needed.
	Replace(ctx context.Context, userID string, lines domain.Cart) (*domain.RemoteCartRecord, error)
	// Delete removes the user's record. Absent records are a no-op.
	Delete(ctx context.Context, userID string) error
}

// CatalogGateway reads products for display annotation.
type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
