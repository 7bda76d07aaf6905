package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type memSlot struct {
	mu      sync.Mutex
	data    map[string][]byte
	failDel bool
}

func newMemSlot() *memSlot { return &memSlot{data: map[string][]byte{}} }

func (s *memSlot) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memSlot) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memSlot) SetMany(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range values {
		s.data[k] = v
	}
	return nil
}

func (s *memSlot) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel {
		return errors.New("disk full")
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *memSlot) List(context.Context) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}

type fakeAuth struct {
	mu       sync.Mutex
	login    func(email, password string) (LoginResult, error)
	me       func() (Session, error)
	meCalls  int
	register func(email, password string) (Session, error)
	// faults, when set, sees every fault the way the interpreter's hooks do.
	faults transport.FaultHook
}

func (f *fakeAuth) interpret(ctx context.Context, err error) {
	if fault, ok := transport.AsFault(err); ok && f.faults != nil {
		f.faults(ctx, fault)
	}
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := f.login(email, password)
	f.interpret(ctx, err)
	return res, err
}

func (f *fakeAuth) Me(ctx context.Context) (Session, error) {
	f.mu.Lock()
	f.meCalls++
	f.mu.Unlock()
	s, err := f.me()
	f.interpret(ctx, err)
	return s, err
}

func (f *fakeAuth) Register(_ context.Context, email, password string) (Session, error) {
	return f.register(email, password)
}

func signToken(t *testing.T, email, role, userID string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}
