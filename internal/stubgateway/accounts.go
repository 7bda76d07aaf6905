package stubgateway

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAccountExists   = errors.New("email already registered")
	ErrAccountNotFound = errors.New("user not found")
	ErrBadCredentials  = errors.New("invalid credentials")
)

const (
	RoleAdmin     = "ADMIN"
	RoleAnalyst   = "ANALYST"
	RoleExecutive = "EXECUTIVE"
)

type account struct {
	ID        string
	Email     string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

// profile is the public user shape.
func (a account) profile() Record {
	return Record{
		"id":        a.ID,
		"email":     a.Email,
		"role":      a.Role,
		"isActive":  a.Active,
		"createdAt": a.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type accounts struct {
	mu      sync.RWMutex
	byEmail map[string]*account
	order   []string
	now     func() time.Time
}

func newAccounts(now func() time.Time) *accounts {
	return &accounts{byEmail: make(map[string]*account), now: now}
}

// add registers an account. An empty role defaults to ANALYST.
func (s *accounts) add(email, password, role string) (account, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = RoleAnalyst
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[key]; ok {
		return account{}, ErrAccountExists
	}

	a := &account{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(email),
		Password:  password,
		Role:      strings.ToUpper(role),
		Active:    true,
		CreatedAt: s.now(),
	}
	s.byEmail[key] = a
	s.order = append(s.order, key)
	return *a, nil
}

func (s *accounts) authenticate(email, password string) (account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok || a.Password != password || !a.Active {
		return account{}, ErrBadCredentials
	}
	return *a, nil
}

func (s *accounts) byEmailAddr(email string) (account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return account{}, ErrAccountNotFound
	}
	return *a, nil
}

func (s *accounts) list() []account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]account, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.byEmail[k])
	}
	return out
}

func (s *accounts) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, k := range s.order {
		if s.byEmail[k].ID == id {
			delete(s.byEmail, k)
			s.order = append(s.order[:i], s.order[i+1:]...)
			return nil
		}
	}
	return ErrAccountNotFound
}
