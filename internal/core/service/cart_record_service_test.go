package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub cart repository
// ---------------------------------------------------------------------------

type stubCartRepo struct {
	byID      map[string]*domain.RemoteCartRecord
	createErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{byID: make(map[string]*domain.RemoteCartRecord)}
}

func (r *stubCartRepo) FindByUser(_ context.Context, userID string) (*domain.RemoteCartRecord, error) {
	for _, rec := range r.byID {
		if rec.UserID == userID {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, domain.ErrCartNotFound
}

func (r *stubCartRepo) FindByID(_ context.Context, id string) (*domain.RemoteCartRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	clone := *rec
	return &clone, nil
}

// Create mirrors the unique index on userId.
func (r *stubCartRepo) Create(ctx context.Context, rec *domain.RemoteCartRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, err := r.FindByUser(ctx, rec.UserID); err == nil {
		return domain.ErrCartExists
	}
	clone := *rec
	r.byID[rec.ID] = &clone
	return nil
}

func (r *stubCartRepo) Update(_ context.Context, rec *domain.RemoteCartRecord) error {
	if _, ok := r.byID[rec.ID]; !ok {
		return domain.ErrCartNotFound
	}
	clone := *rec
	r.byID[rec.ID] = &clone
	return nil
}

func (r *stubCartRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

var (
	owner = ports.Caller{UserID: "u1", Role: domain.RoleUser}
	other = ports.Caller{UserID: "u2", Role: domain.RoleUser}
	admin = ports.Caller{UserID: "root", Role: domain.RoleAdmin}
)

func TestCartRecordService_Create_GeneratesID(t *testing.T) {
	svc := NewCartRecordService(newStubCartRepo(), discardLogger)

	rec, err := svc.Create(context.Background(), owner, domain.RemoteCartRecord{
		UserID: "u1",
		Items:  domain.Cart{{ProductID: "p1", Quantity: 1}, {ProductID: "p1", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected a generated id")
	}
	if len(rec.Items) != 1 || rec.Items[0].Quantity != 3 {
		t.Errorf("expected duplicate lines to be collapsed, got %+v", rec.Items)
	}
}

func TestCartRecordService_Create_OnePerUser(t *testing.T) {
	svc := NewCartRecordService(newStubCartRepo(), discardLogger)

	_, _ = svc.Create(context.Background(), owner, domain.RemoteCartRecord{UserID: "u1"})
	_, err := svc.Create(context.Background(), owner, domain.RemoteCartRecord{UserID: "u1"})
	if !errors.Is(err, domain.ErrCartExists) {
		t.Fatalf("expected ErrCartExists, got %v", err)
	}
}

func TestCartRecordService_ListByUser(t *testing.T) {
	svc := NewCartRecordService(newStubCartRepo(), discardLogger)

	empty, err := svc.ListByUser(context.Background(), owner, "u1")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v, %v", empty, err)
	}

	_, _ = svc.Create(context.Background(), owner, domain.RemoteCartRecord{UserID: "u1", Items: domain.Cart{{ProductID: "p1", Quantity: 1}}})
	list, err := svc.ListByUser(context.Background(), owner, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one record, got %v, %v", list, err)
	}
}

func TestCartRecordService_OwnershipEnforced(t *testing.T) {
	svc := NewCartRecordService(newStubCartRepo(), discardLogger)
	rec, _ := svc.Create(context.Background(), owner, domain.RemoteCartRecord{UserID: "u1"})

	if _, err := svc.ListByUser(context.Background(), other, "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("list: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Replace(context.Background(), other, rec.ID, domain.RemoteCartRecord{}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("replace: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), other, rec.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), other, domain.RemoteCartRecord{UserID: "u1"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("create: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListByUser(context.Background(), admin, "u1"); err != nil {
		t.Errorf("admin should see any cart, got %v", err)
	}
}

func TestCartRecordService_Replace(t *testing.T) {
	repo := newStubCartRepo()
	svc := NewCartRecordService(repo, discardLogger)
	rec, _ := svc.Create(context.Background(), owner, domain.RemoteCartRecord{UserID: "u1"})

	updated, err := svc.Replace(context.Background(), owner, rec.ID, domain.RemoteCartRecord{
		UserID: "u1",
		Items:  domain.Cart{{ProductID: "p9", Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Items) != 1 || repo.byID[rec.ID].Items[0].ProductID != "p9" {
		t.Errorf("expected stored items to be replaced, got %+v", repo.byID[rec.ID].Items)
	}

	if _, err := svc.Replace(context.Background(), owner, rec.ID, domain.RemoteCartRecord{UserID: "u2"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("changing the owner must be forbidden, got %v", err)
	}
	if _, err := svc.Replace(context.Background(), owner, "missing", domain.RemoteCartRecord{}); !errors.Is(err, domain.ErrCartNotFound) {
		t.Errorf("expected ErrCartNotFound, got %v", err)
	}
}

func TestCartRecordService_Delete(t *testing.T) {
	repo := newStubCartRepo()
	svc := NewCartRecordService(repo, discardLogger)
	rec, _ := svc.Create(context.Background(), owner, domain.RemoteCartRecord{UserID: "u1"})

	if err := svc.Delete(context.Background(), owner, rec.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Error("expected record to be removed")
	}
	if err := svc.Delete(context.Background(), owner, rec.ID); !errors.Is(err, domain.ErrCartNotFound) {
		t.Errorf("expected ErrCartNotFound on second delete, got %v", err)
	}
}
