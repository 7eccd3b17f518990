package ports

import (
	"context"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// Caller identifies the authenticated principal of a backend request.
type Caller struct {
	UserID string
	Role   string
}

// CartRecordService is the backend use-case layer over the cart collection.
// Non-admin callers may only read or write records they own.
type CartRecordService interface {
	ListByUser(ctx context.Context, caller Caller, userID string) ([]domain.RemoteCartRecord, error)
	Create(ctx context.Context, caller Caller, record domain.RemoteCartRecord) (*domain.RemoteCartRecord, error)
	Replace(ctx context.Context, caller Caller, id string, record domain.RemoteCartRecord) (*domain.RemoteCartRecord, error)
	Delete(ctx context.Context, caller Caller, id string) error
}

// CatalogService is the backend use-case layer over products.
type CatalogService interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
