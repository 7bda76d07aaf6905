package session

import "sync"

type EventKind string

const (
	EventLoggedIn      EventKind = "logged-in"
	EventProfileLoaded EventKind = "profile-loaded"
	// EventLoginRequired asks the presentation layer to route to login.
	EventLoginRequired EventKind = "login-required"
)

type Event struct {
	Kind   EventKind
	Reason string
}

const eventBuffer = 8

// events fans lifecycle events out to subscribers. Unlike session state,
// events are not replayed to late subscribers, and a subscriber whose
// buffer is full misses the event.
type events struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func newEvents() *events {
	return &events{subs: make(map[int]chan Event)}
}

func (e *events) subscribe() (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.next
	e.next++
	ch := make(chan Event, eventBuffer)
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
}

func (e *events) emit(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (e *events) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id, ch := range e.subs {
		delete(e.subs, id)
		close(ch)
	}
}
