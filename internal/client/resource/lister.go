package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
)

// Lister is the read-only view of a collection, used on its own for
// sub-collections that only support GET.
type Lister[R any] struct {
	doer transport.Doer
	path string
	opts options
}

func NewLister[R any](doer transport.Doer, path string, opts ...Option) *Lister[R] {
	return &Lister[R]{doer: doer, path: strings.Trim(path, "/"), opts: buildOptions(opts)}
}

func (l *Lister[R]) Path() string { return l.path }

// List fetches the collection in server order. A successful empty response
// is an empty, non-nil slice.
func (l *Lister[R]) List(ctx context.Context, filters Filters) ([]R, error) {
	var out []R
	err := l.doer.Do(ctx, l.request(http.MethodGet, "", filters.Values(), nil), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.path, err)
	}
	if out == nil {
		out = []R{}
	}
	return out, nil
}

func (l *Lister[R]) request(method, id string, query url.Values, body any) transport.Request {
	path := l.path
	if id != "" {
		path += "/" + escapeID(id)
	}

	r := transport.Request{Method: method, Path: path, Query: query, Body: body}
	if l.opts.headers != nil {
		r.Header = l.opts.headers()
	}
	return r
}
