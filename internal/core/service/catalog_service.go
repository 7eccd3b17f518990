package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

type catalogService struct {
	repo ports.ProductRepository
	log  zerolog.Logger
}

// NewCatalogService returns a read-only CatalogService.
func NewCatalogService(repo ports.ProductRepository, log zerolog.Logger) ports.CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list products")
		return nil, err
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}
