package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
)

// Client is the full CRUD client for one collection of R.
type Client[R any] struct {
	*Lister[R]
}

func New[R any](doer transport.Doer, path string, opts ...Option) *Client[R] {
	return &Client[R]{Lister: NewLister[R](doer, path, opts...)}
}

func (c *Client[R]) Get(ctx context.Context, id string) (R, error) {
	var out R
	if id == "" {
		return out, ErrEmptyID
	}

	if err := c.doer.Do(ctx, c.request(http.MethodGet, id, nil, nil), &out); err != nil {
		return out, fmt.Errorf("failed to get %s/%s: %w", c.path, id, err)
	}
	return out, nil
}

// Create posts rec and returns the record as stored by the server, which
// assigns its id. Records that already carry an id are refused.
func (c *Client[R]) Create(ctx context.Context, rec R) (R, error) {
	var out R
	if r, ok := any(rec).(Record); ok && r.RecordID() != "" {
		return out, ErrIDAssigned
	}

	if err := c.doer.Do(ctx, c.request(http.MethodPost, "", nil, rec), &out); err != nil {
		return out, fmt.Errorf("failed to create %s: %w", c.path, err)
	}
	return out, nil
}

// Update writes rec over the record at id. Every field is sent except empty
// ones tagged omitempty, so a zero number or false overwrites the stored
// value. Callers edit a copy of the current record (Get or a listing) rather
// than a sparse one.
func (c *Client[R]) Update(ctx context.Context, id string, rec R) (R, error) {
	var out R
	if id == "" {
		return out, ErrEmptyID
	}

	if err := c.doer.Do(ctx, c.request(http.MethodPut, id, nil, rec), &out); err != nil {
		return out, fmt.Errorf("failed to update %s/%s: %w", c.path, id, err)
	}
	return out, nil
}

func (c *Client[R]) Remove(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}

	if err := c.doer.Do(ctx, c.request(http.MethodDelete, id, nil, nil), nil); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", c.path, id, err)
	}
	return nil
}

// MutateThenRefresh runs op and, only when it succeeds, re-fetches the list
// with filters. A failed op returns its error and no list; a failed refresh
// returns the refresh error.
func (c *Client[R]) MutateThenRefresh(ctx context.Context, op func(ctx context.Context) error, filters Filters) ([]R, error) {
	if err := op(ctx); err != nil {
		return nil, err
	}
	return c.List(ctx, filters)
}

func escapeID(id string) string {
	return url.PathEscape(id)
}
