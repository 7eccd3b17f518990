package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// MergeGuard remembers guest snapshots that were already merged into a
// user's cart, so a replayed merge of the same snapshot is skipped.
type MergeGuard interface {
	IsDuplicate(ctx context.Context, userID, digest string) (bool, error)
	Mark(ctx context.Context, userID, digest string) error
}

// CartEngine owns the in-memory cart for the current identity and keeps the
// local mirror and the remote record aligned with it.
//
// Mutations apply synchronously and return a SyncHandle for the dual-write
// they schedule. Overlapping writes are neither serialized nor coalesced.
type CartEngine struct {
	local  ports.LocalStore
	remote ports.CartGateway
	guard  MergeGuard
	log    zerolog.Logger

	mu          sync.Mutex
	identity    domain.Identity
	lines       domain.Cart
	initialized bool
	pending     map[*SyncHandle]struct{}

	inflight atomic.Int32
}

// EngineOption configures optional CartEngine collaborators.
type EngineOption func(*CartEngine)

// WithMergeGuard enables replay suppression for guest cart merges.
func WithMergeGuard(g MergeGuard) EngineOption {
	return func(e *CartEngine) { e.guard = g }
}

func NewCartEngine(local ports.LocalStore, remote ports.CartGateway, log zerolog.Logger, opts ...EngineOption) *CartEngine {
	e := &CartEngine{
		local:   local,
		remote:  remote,
		log:     log,
		lines:   domain.Cart{},
		pending: make(map[*SyncHandle]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize loads the cart for identity. For a user, an existing remote
// record wins and is mirrored locally; otherwise a non-empty local mirror is
// adopted and pushed to the remote side; otherwise the cart starts empty.
func (e *CartEngine) Initialize(ctx context.Context, identity domain.Identity) domain.Cart {
	var lines domain.Cart
	if identity.IsGuest() {
		lines = e.loadLocal(ctx, domain.GuestCartKey)
	} else {
		lines = e.reconcileUser(ctx, identity.UserID)
	}

	e.mu.Lock()
	e.identity = identity
	e.lines = lines
	e.initialized = true
	e.mu.Unlock()

	e.log.Debug().Str("scope", identity.String()).Int("lines", len(lines)).Msg("cart initialized")
	return lines.Clone()
}

func (e *CartEngine) reconcileUser(ctx context.Context, userID string) domain.Cart {
	key := domain.UserCartKey(userID)

	record, err := e.remote.FetchByUser(ctx, userID)
	if err != nil {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("remote cart fetch failed, treating as absent")
		record = nil
	}
	local := e.loadLocal(ctx, key)

	switch {
	case record != nil && record.Items != nil:
		lines := record.Items.Normalize()
		if err := e.local.Set(ctx, key, lines.Encode()); err != nil {
			e.log.Warn().Err(err).Str("user_id", userID).Msg("failed to mirror remote cart locally")
		}
		return lines
	case len(local) > 0:
		if _, err := e.remote.Replace(ctx, userID, local); err != nil {
			e.log.Warn().Err(err).Str("user_id", userID).Msg("failed to push local cart to remote")
		}
		return local
	default:
		return domain.Cart{}
	}
}

// MergeGuestCart folds the guest cart into userID's cart and reports whether
// the merge took place. The merged cart becomes active, and the guest cart is
// removed, only once the merged cart reached the remote side. On failure the
// user's cart is left as it was and the guest cart stays the only copy of the
// guest lines, so a later attempt does not count them twice.
func (e *CartEngine) MergeGuestCart(ctx context.Context, userID string) (domain.Cart, bool) {
	guest := e.loadLocal(ctx, domain.GuestCartKey)
	if len(guest) == 0 {
		return e.Lines(), false
	}

	if e.Identity() != domain.UserIdentity(userID) || !e.Initialized() {
		e.Initialize(ctx, domain.UserIdentity(userID))
	}

	digest := cartDigest(guest)
	if e.guard != nil {
		dup, err := e.guard.IsDuplicate(ctx, userID, digest)
		if err != nil {
			e.log.Warn().Err(err).Str("user_id", userID).Msg("merge guard check failed, merging anyway")
		} else if dup {
			e.log.Info().Str("user_id", userID).Msg("guest cart already merged, discarding replay")
			e.removeLocal(ctx, domain.GuestCartKey)
			return e.Lines(), false
		}
	}

	merged := e.Lines().Merge(guest)

	e.inflight.Add(1)
	_, err := e.remote.Replace(ctx, userID, merged)
	e.inflight.Add(-1)
	if err != nil {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("merged cart not synced, guest cart retained")
		return e.Lines(), false
	}

	e.mu.Lock()
	e.lines = merged
	e.mu.Unlock()

	key := domain.UserCartKey(userID)
	if err := e.local.Set(ctx, key, merged.Encode()); err != nil {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist merged cart locally")
	}
	if e.guard != nil {
		if err := e.guard.Mark(ctx, userID, digest); err != nil {
			e.log.Warn().Err(err).Str("user_id", userID).Msg("failed to record merge")
		}
	}
	e.removeLocal(ctx, domain.GuestCartKey)

	e.log.Info().Str("user_id", userID).Int("guest_lines", len(guest)).Int("lines", len(merged)).Msg("guest cart merged")
	return merged.Clone(), true
}

// GuestPending reports whether a guest cart is waiting to be merged.
func (e *CartEngine) GuestPending(ctx context.Context) bool {
	return len(e.loadLocal(ctx, domain.GuestCartKey)) > 0
}

// HandleIdentityChange re-initializes the cart for the new identity and,
// on sign-in, merges the guest cart. It is meant to be subscribed to the session.
func (e *CartEngine) HandleIdentityChange(ctx context.Context, change domain.IdentityChange) {
	e.Initialize(ctx, change.To)
	if change.IsSignIn() {
		e.MergeGuestCart(ctx, change.To.UserID)
	}
}

// AddLine adds quantity (floored at 1) of productID to the cart.
func (e *CartEngine) AddLine(ctx context.Context, productID string, quantity int) (domain.Cart, *SyncHandle) {
	return e.mutate(ctx, func(c domain.Cart) domain.Cart { return c.Add(productID, quantity) })
}

// RemoveLine drops productID from the cart.
func (e *CartEngine) RemoveLine(ctx context.Context, productID string) (domain.Cart, *SyncHandle) {
	return e.mutate(ctx, func(c domain.Cart) domain.Cart { return c.Remove(productID) })
}

// SetQuantity replaces the quantity of an existing line, floored at 1.
func (e *CartEngine) SetQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, *SyncHandle) {
	return e.mutate(ctx, func(c domain.Cart) domain.Cart { return c.SetQuantity(productID, quantity) })
}

func (e *CartEngine) mutate(ctx context.Context, apply func(domain.Cart) domain.Cart) (domain.Cart, *SyncHandle) {
	e.mu.Lock()
	next := apply(e.lines)
	e.lines = next
	identity := e.identity
	snapshot := next.Clone()
	e.mu.Unlock()

	return next.Clone(), e.schedule(ctx, identity, snapshot)
}

// schedule runs the dual-write for snapshot in the background. The write
// outlives ctx cancellation.
func (e *CartEngine) schedule(ctx context.Context, identity domain.Identity, snapshot domain.Cart) *SyncHandle {
	h := newSyncHandle()
	ctx = context.WithoutCancel(ctx)

	e.mu.Lock()
	e.pending[h] = struct{}{}
	e.mu.Unlock()

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Add(-1)
		res := e.persist(ctx, identity, snapshot)

		e.mu.Lock()
		delete(e.pending, h)
		e.mu.Unlock()
		h.finish(res)
	}()
	return h
}

// persist writes snapshot locally and, for users, remotely. A failed remote
// write falls back to a local-only write.
func (e *CartEngine) persist(ctx context.Context, identity domain.Identity, snapshot domain.Cart) SyncResult {
	result := SyncResult{Identity: identity, Lines: len(snapshot)}
	key := identity.CartKey()

	if err := e.local.Set(ctx, key, snapshot.Encode()); err != nil {
		e.log.Warn().Err(err).Str("scope", identity.String()).Msg("local cart write failed")
		result.Err = err
	}
	if identity.IsGuest() {
		return result
	}

	if _, err := e.remote.Replace(ctx, identity.UserID, snapshot); err != nil {
		e.log.Warn().Err(err).Str("scope", identity.String()).Msg("remote cart sync failed, kept local copy")
		if err := e.local.Set(ctx, key, snapshot.Encode()); err != nil {
			e.log.Error().Err(err).Str("scope", identity.String()).Msg("local fallback write failed")
		}
		result.Err = err
		return result
	}
	result.RemoteSynced = true
	return result
}

// Clear empties the cart and deletes its persisted copies. Unlike the
// other mutations it completes before returning. Writes scheduled before
// the call are awaited first so they cannot recreate what Clear deletes.
func (e *CartEngine) Clear(ctx context.Context) {
	if err := e.Flush(ctx); err != nil {
		e.log.Warn().Err(err).Msg("clearing cart with syncs still pending")
	}

	e.mu.Lock()
	e.lines = domain.Cart{}
	identity := e.identity
	e.mu.Unlock()

	e.inflight.Add(1)
	defer e.inflight.Add(-1)

	if !identity.IsGuest() {
		if err := e.remote.Delete(ctx, identity.UserID); err != nil {
			e.log.Warn().Err(err).Str("scope", identity.String()).Msg("failed to delete remote cart")
		}
	}
	e.removeLocal(ctx, identity.CartKey())
	e.log.Info().Str("scope", identity.String()).Msg("cart cleared")
}

// Flush waits for every write scheduled before the call to finish, or for
// ctx to be done.
func (e *CartEngine) Flush(ctx context.Context) error {
	e.mu.Lock()
	handles := make([]*SyncHandle, 0, len(e.pending))
	for h := range e.pending {
		handles = append(handles, h)
	}
	e.mu.Unlock()

	for _, h := range handles {
		select {
		case <-h.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Lines returns a copy of the current cart.
func (e *CartEngine) Lines() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.Clone()
}

// Count returns the number of distinct products in the cart.
func (e *CartEngine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.lines)
}

// TotalQuantity returns the sum of all line quantities.
func (e *CartEngine) TotalQuantity() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lines.TotalQuantity()
}

// Identity returns the identity the cart was last initialized for.
func (e *CartEngine) Identity() domain.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity
}

// Initialized reports whether Initialize has run at least once.
func (e *CartEngine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// Syncing reports whether any write is in flight.
func (e *CartEngine) Syncing() bool {
	return e.inflight.Load() > 0
}

func (e *CartEngine) loadLocal(ctx context.Context, key string) domain.Cart {
	raw, ok, err := e.local.Get(ctx, key)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("local cart read failed")
		return domain.Cart{}
	}
	if !ok {
		return domain.Cart{}
	}
	lines, err := domain.ParseCart(raw)
	if err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable local cart")
		return domain.Cart{}
	}
	return lines
}

func (e *CartEngine) removeLocal(ctx context.Context, key string) {
	if err := e.local.Remove(ctx, key); err != nil {
		e.log.Warn().Err(err).Str("key", key).Msg("local cart remove failed")
	}
}

// cartDigest fingerprints a cart for merge replay detection.
func cartDigest(c domain.Cart) string {
	sum := sha256.Sum256([]byte(c.Encode()))
	return hex.EncodeToString(sum[:])
}
