package resource

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
)

type widget struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (w widget) RecordID() string { return w.ID }

type fakeDoer struct {
	mu       sync.Mutex
	requests []transport.Request
	respond  func(r transport.Request) (any, error)
}

func (f *fakeDoer) Do(_ context.Context, r transport.Request, out any) error {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	respond := f.respond
	f.mu.Unlock()

	var payload any
	if respond != nil {
		var err error
		payload, err = respond(r)
		if err != nil {
			return err
		}
	}
	if out == nil || payload == nil {
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeDoer) calls() []transport.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transport.Request(nil), f.requests...)
}
