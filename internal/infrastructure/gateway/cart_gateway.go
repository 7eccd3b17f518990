package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// CartGateway talks to the /cart collection. The backend holds at most one
// record per user; the gateway looks the record id up before every write.
type CartGateway struct {
	c *Client
}

func NewCartGateway(c *Client) *CartGateway {
	return &CartGateway{c: c}
}

// FetchByUser returns the user's record or nil. Records failing schema
// validation are rejected with domain.ErrMalformedRecord.
func (g *CartGateway) FetchByUser(ctx context.Context, userID string) (*domain.RemoteCartRecord, error) {
	var records []domain.RemoteCartRecord
	if err := g.c.do(ctx, http.MethodGet, "/cart?userId="+url.QueryEscape(userID), nil, &records); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	record := records[0]
	if err := g.check(record, userID); err != nil {
		g.c.log.Warn().Err(err).Str("user_id", userID).Msg("rejecting remote cart record")
		return nil, err
	}
	return &record, nil
}

func (g *CartGateway) check(record domain.RemoteCartRecord, userID string) error {
	if err := g.c.validate.Struct(record); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	if record.UserID != userID {
		return fmt.Errorf("%w: record belongs to %q", domain.ErrMalformedRecord, record.UserID)
	}
	if record.Items.HasDuplicates() {
		return fmt.Errorf("%w: duplicate product lines", domain.ErrMalformedRecord)
	}
	return nil
}

// recordRef is the part of a stored record the write paths need. Items are
// not decoded, so a record that fails validation can still be overwritten
// or deleted.
type recordRef struct {
	ID string `json:"id"`
}

// lookupID returns the id of the user's record, or "" when none exists.
func (g *CartGateway) lookupID(ctx context.Context, userID string) (string, error) {
	var refs []recordRef
	if err := g.c.do(ctx, http.MethodGet, "/cart?userId="+url.QueryEscape(userID), nil, &refs); err != nil {
		return "", fmt.Errorf("lookup cart: %w", err)
	}
	if len(refs) == 0 {
		return "", nil
	}
	return refs[0].ID, nil
}

// Replace overwrites the user's items, creating the record when none exists.
// A create that loses a race to another client is retried as an update.
func (g *CartGateway) Replace(ctx context.Context, userID string, lines domain.Cart) (*domain.RemoteCartRecord, error) {
	if lines == nil {
		lines = domain.Cart{}
	}

	id, err := g.lookupID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if id != "" {
		return g.put(ctx, id, userID, lines)
	}

	created := domain.RemoteCartRecord{ID: "cart-" + uuid.NewString(), UserID: userID, Items: lines}
	var out domain.RemoteCartRecord
	err = g.c.do(ctx, http.MethodPost, "/cart", created, &out)
	if statusCode(err) == http.StatusConflict {
		id, lerr := g.lookupID(ctx, userID)
		if lerr != nil {
			return nil, lerr
		}
		if id == "" {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		return g.put(ctx, id, userID, lines)
	}
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return &out, nil
}

func (g *CartGateway) put(ctx context.Context, id, userID string, lines domain.Cart) (*domain.RemoteCartRecord, error) {
	record := domain.RemoteCartRecord{ID: id, UserID: userID, Items: lines}
	var out domain.RemoteCartRecord
	if err := g.c.do(ctx, http.MethodPut, "/cart/"+url.PathEscape(id), record, &out); err != nil {
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return &out, nil
}

// Delete removes the user's record, if any.
func (g *CartGateway) Delete(ctx context.Context, userID string) error {
	id, err := g.lookupID(ctx, userID)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	err = g.c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(id), nil, nil)
	if statusCode(err) == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// IsTransport reports whether err came from an unreachable or failing backend.
func IsTransport(err error) bool {
	return errors.Is(err, domain.ErrTransport)
}
