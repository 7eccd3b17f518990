package ports

import (
	"context"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// CartRepository persists remote cart records on the backend.
type CartRepository interface {
	// FindByUser returns domain.ErrCartNotFound when the user has no record.
	FindByUser(ctx context.Context, userID string) (*domain.RemoteCartRecord, error)
	FindByID(ctx context.Context, id string) (*domain.RemoteCartRecord, error)
	// Create returns domain.ErrCartExists when the user already owns a record.
	Create(ctx context.Context, record *domain.RemoteCartRecord) error
	// Update replaces the record's items. It returns domain.ErrCartNotFound for unknown ids.
	Update(ctx context.Context, record *domain.RemoteCartRecord) error
	Delete(ctx context.Context, id string) error
}

// ProductFilter narrows catalog listings. Empty fields do not filter.
type ProductFilter struct {
	CategoryID string
	Query      string
}

// ProductRepository reads the catalog on the backend.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
}
