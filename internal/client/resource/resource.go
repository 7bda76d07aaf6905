package resource

import (
	"errors"
	"net/http"
	"net/url"
	"sort"
)

var (
	ErrEmptyID    = errors.New("record id is empty")
	ErrIDAssigned = errors.New("record already has an id")
)

// Record is implemented by record types that carry a server-assigned id.
type Record interface {
	RecordID() string
}

// Filters become the list query string. Empty values are dropped.
type Filters map[string]string

func (f Filters) Values() url.Values {
	if len(f) == 0 {
		return nil
	}

	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := url.Values{}
	for _, k := range keys {
		if f[k] != "" {
			v.Set(k, f[k])
		}
	}
	if len(v) == 0 {
		return nil
	}
	return v
}

// HeaderFunc yields extra headers evaluated per request.
type HeaderFunc func() http.Header

type Option func(*options)

type options struct {
	headers HeaderFunc
}

// WithHeaders attaches headers computed at request time.
func WithHeaders(fn HeaderFunc) Option {
	return func(o *options) { o.headers = fn }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
