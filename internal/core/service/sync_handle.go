package service

import (
	"context"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// SyncResult reports how a scheduled dual-write went. Failures are already
// recovered by the engine; Err is informational only.
type SyncResult struct {
	Identity     domain.Identity
	Lines        int
	RemoteSynced bool
	Err          error
}

// SyncHandle tracks one scheduled dual-write. Callers may ignore it.
type SyncHandle struct {
	done   chan struct{}
	result SyncResult
}

func newSyncHandle() *SyncHandle {
	return &SyncHandle{done: make(chan struct{})}
}

func (h *SyncHandle) finish(r SyncResult) {
	h.result = r
	close(h.done)
}

// Done is closed once the write has completed.
func (h *SyncHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the write completes or ctx is done. Cancelling ctx
// stops the wait, not the write.
func (h *SyncHandle) Wait(ctx context.Context) (SyncResult, error) {
	select {
	case <-h.done:
		return h.result, nil
	case <-ctx.Done():
		return SyncResult{}, ctx.Err()
	}
}
