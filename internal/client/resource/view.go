package resource

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by View.Refresh when a newer refresh started
// before this one completed. Its result was discarded.
var ErrSuperseded = errors.New("refresh superseded by a newer request")

// ListFunc fetches a list; Lister.List satisfies it as a method value.
type ListFunc[R any] func(ctx context.Context, filters Filters) ([]R, error)

// View holds the rows a list screen shows. When refreshes overlap, the most
// recently started one wins regardless of completion order. A failed
// refresh clears the rows.
type View[R any] struct {
	list ListFunc[R]

	mu    sync.Mutex
	gen   uint64
	items []R
	err   error
}

func NewView[R any](list ListFunc[R]) *View[R] {
	return &View[R]{list: list}
}

// Refresh fetches with filters and applies the outcome if no newer refresh
// has been started meanwhile.
func (v *View[R]) Refresh(ctx context.Context, filters Filters) ([]R, error) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	items, err := v.list(ctx, filters)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		return nil, ErrSuperseded
	}

	if err != nil {
		v.items, v.err = nil, err
		return nil, err
	}
	v.items, v.err = items, nil
	return clone(items), nil
}

// Replace installs items directly, e.g. the result of MutateThenRefresh.
// It supersedes any refresh in flight.
func (v *View[R]) Replace(items []R) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.items, v.err = items, nil
}

// Items returns a copy of the current rows.
func (v *View[R]) Items() []R {
	v.mu.Lock()
	defer v.mu.Unlock()
	return clone(v.items)
}

// Err is the error of the last applied refresh.
func (v *View[R]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Find returns the first row matching pred.
func (v *View[R]) Find(pred func(R) bool) (R, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, it := range v.items {
		if pred(it) {
			return it, true
		}
	}
	var zero R
	return zero, false
}

func clone[R any](in []R) []R {
	if in == nil {
		return nil
	}
	return append(make([]R, 0, len(in)), in...)
}
