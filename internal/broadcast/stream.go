// Package broadcast implements a latest-value stream: subscribers receive the
// current value on subscription and every later publication, and a slow
// subscriber only ever misses intermediate values, never the newest one.
package broadcast

import "sync"

type Stream[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]chan T
}

// New returns a stream whose current value is initial.
func New[T any](initial T) *Stream[T] {
	return &Stream[T]{value: initial, subs: make(map[int]chan T)}
}

// Value returns the most recently published value.
func (s *Stream[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish replaces the current value and forwards it to every subscriber.
// It never blocks.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe returns a channel primed with the current value and a cancel
// function that closes it. Cancel is safe to call more than once.
func (s *Stream[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan T, 1)
	ch <- s.value
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close cancels every subscription.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// offer delivers v replacing a pending unread value. Callers hold s.mu, so
// the channel has no other writer.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
