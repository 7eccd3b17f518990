package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// CartRecordService serves the remote cart collection. Records are keyed
// one per user; a second create for the same user fails with ErrCartExists.
type CartRecordService struct {
	repo   ports.CartRepository
	logger zerolog.Logger
}

func NewCartRecordService(repo ports.CartRepository, logger zerolog.Logger) *CartRecordService {
	return &CartRecordService{repo: repo, logger: logger}
}

// ListByUser returns the user's record as a zero- or one-element slice.
func (s *CartRecordService) ListByUser(ctx context.Context, caller ports.Caller, userID string) ([]domain.RemoteCartRecord, error) {
	if err := authorize(caller, userID); err != nil {
		return nil, err
	}

	record, err := s.repo.FindByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return []domain.RemoteCartRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	return []domain.RemoteCartRecord{*record}, nil
}

func (s *CartRecordService) Create(ctx context.Context, caller ports.Caller, record domain.RemoteCartRecord) (*domain.RemoteCartRecord, error) {
	if err := authorize(caller, record.UserID); err != nil {
		return nil, err
	}
	if record.ID == "" {
		record.ID = "cart-" + uuid.NewString()
	}
	record.Items = record.Items.Normalize()

	if err := s.repo.Create(ctx, &record); err != nil {
		if !errors.Is(err, domain.ErrCartExists) {
			s.logger.Error().Err(err).Str("user_id", record.UserID).Msg("failed to create cart")
		}
		return nil, err
	}

	s.logger.Info().Str("cart_id", record.ID).Str("user_id", record.UserID).Int("lines", len(record.Items)).Msg("cart created")
	return &record, nil
}

// Replace overwrites the record stored under id. The owner cannot change.
func (s *CartRecordService) Replace(ctx context.Context, caller ports.Caller, id string, record domain.RemoteCartRecord) (*domain.RemoteCartRecord, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, existing.UserID); err != nil {
		return nil, err
	}
	if record.UserID != "" && record.UserID != existing.UserID {
		return nil, domain.ErrForbidden
	}

	existing.Items = record.Items.Normalize()
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("replace cart: %w", err)
	}

	s.logger.Debug().Str("cart_id", id).Int("lines", len(existing.Items)).Msg("cart replaced")
	return existing, nil
}

func (s *CartRecordService) Delete(ctx context.Context, caller ports.Caller, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(caller, existing.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	s.logger.Info().Str("cart_id", id).Str("user_id", existing.UserID).Msg("cart deleted")
	return nil
}

// authorize lets admins through and scopes everyone else to their own records.
func authorize(caller ports.Caller, ownerID string) error {
	if caller.Role == domain.RoleAdmin {
		return nil
	}
	if caller.UserID == "" || caller.UserID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
