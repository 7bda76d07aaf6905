// Package counter keeps an integer derived from a collection (for instance
// the unread notification badge) and publishes it to subscribers.
//
// The value is recomputed from every successful fetch. Failed fetches leave
// the last published value in place.
package counter

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/broadcast"
	"github.com/dmitrijs2005/pharmaintel/internal/logging"
)

// FetchFunc loads the collection the counter is derived from.
type FetchFunc[R any] func(ctx context.Context) ([]R, error)

type Counter[R any] struct {
	name   string
	fetch  FetchFunc[R]
	match  func(R) bool
	logger logging.Logger
	stream *broadcast.Stream[int]

	mu sync.Mutex // serializes refreshes
}

type Option func(*config)

type config struct {
	name   string
	logger logging.Logger
}

func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

func WithLogger(l logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New returns a Counter of the records satisfying match, starting at 0.
func New[R any](fetch FetchFunc[R], match func(R) bool, opts ...Option) *Counter[R] {
	cfg := config{name: "counter", logger: logging.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Counter[R]{
		name:   cfg.name,
		fetch:  fetch,
		match:  match,
		logger: cfg.logger,
		stream: broadcast.New(0),
	}
}

// Refresh fetches once and publishes the new count. On failure the
// previous value is returned alongside the error and nothing is published.
func (c *Counter[R]) Refresh(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.fetch(ctx)
	if err != nil {
		prev := c.stream.Value()
		c.logger.Warn(ctx, "counter refresh failed, keeping previous value",
			"counter", c.name, "value", prev, "error", err)
		return prev, err
	}

	n := 0
	for _, it := range items {
		if c.match(it) {
			n++
		}
	}

	c.stream.Publish(n)
	return n, nil
}

// Value is the last published count.
func (c *Counter[R]) Value() int { return c.stream.Value() }

// Subscribe returns a channel primed with the current count.
func (c *Counter[R]) Subscribe() (<-chan int, func()) { return c.stream.Subscribe() }

// Watch refreshes immediately and then every interval until ctx is done.
// Each refresh is bounded by interval. A non-positive interval refreshes
// once and returns.
func (c *Counter[R]) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		c.logger.Warn(ctx, "non-positive refresh interval, refreshing once", "counter", c.name, "interval", interval)
		_, _ = c.Refresh(ctx)
		return
	}

	refresh := func() {
		rctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		_, _ = c.Refresh(rctx)
	}

	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}

// Close releases every subscriber.
func (c *Counter[R]) Close() { c.stream.Close() }
