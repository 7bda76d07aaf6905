package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/broadcast"
	"github.com/dmitrijs2005/pharmaintel/internal/client/slot"
	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
	"github.com/dmitrijs2005/pharmaintel/internal/logging"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
	// ErrSessionChanged is returned when the session ended or was replaced
	// while a profile fetch was in flight.
	ErrSessionChanged = errors.New("session changed during request")
)

// LoginResult is the body of a successful login.
type LoginResult struct {
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
	ExpiresIn   int      `json:"expiresIn,omitempty"`
	User        *Session `json:"user,omitempty"`
}

// AuthAPI is the slice of the backend the Manager talks to.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Me(ctx context.Context) (Session, error)
	Register(ctx context.Context, email, password string) (Session, error)
}

type Manager struct {
	store  slot.Slot
	api    AuthAPI
	logger logging.Logger
	now    func() time.Time

	mu      sync.RWMutex
	token   string
	current Session
	gen     uint64

	state  *broadcast.Stream[Snapshot]
	events *events
}

type Option func(*Manager)

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store slot.Slot, api AuthAPI, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		api:    api,
		logger: logging.Nop(),
		now:    time.Now,
		state:  broadcast.New(Snapshot{}),
		events: newEvents(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token returns the credential token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Current returns the latest known session. ok is false when logged out.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.token != ""
}

func (m *Manager) HasRole(roles ...Role) bool {
	s, ok := m.Current()
	return ok && s.HasAny(roles...)
}

func (m *Manager) IsAdmin() bool     { return m.HasRole(RoleAdmin) }
func (m *Manager) IsAnalyst() bool   { return m.HasRole(RoleAnalyst) }
func (m *Manager) IsExecutive() bool { return m.HasRole(RoleExecutive) }

// Subscribe returns a channel primed with the current snapshot.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) { return m.state.Subscribe() }

// Events returns a channel of lifecycle events emitted after subscribing.
func (m *Manager) Events() (<-chan Event, func()) { return m.events.subscribe() }

// Authenticate logs in and stores the issued token together with the
// provisional session taken from the login response or the token claims.
// Rejections (400, 401, 403) yield ErrInvalidCredentials.
func (m *Manager) Authenticate(ctx context.Context, identifier, secret string) (Session, error) {
	res, err := m.api.Login(withCredentialExchange(ctx), identifier, secret)
	if err != nil {
		if isRejection(err) {
			return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return Session{}, fmt.Errorf("login failed: %w", err)
	}
	if res.AccessToken == "" {
		return Session{}, fmt.Errorf("login failed: empty access token")
	}

	var provisional Session
	if res.User != nil {
		provisional = *res.User
	} else if c, ok := inspectToken(res.AccessToken); ok {
		provisional = c.session()
	}

	profile, err := json.Marshal(provisional)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.store.SetMany(ctx, map[string][]byte{
		slot.KeyToken:       []byte(res.AccessToken),
		slot.KeyCurrentUser: profile,
	}); err != nil {
		return Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	m.install(res.AccessToken, provisional)
	m.logger.Info(ctx, "logged in", "email", provisional.Identity, "role", string(provisional.Role))
	m.events.emit(Event{Kind: EventLoggedIn})
	return provisional, nil
}

// LoadProfile fetches the full profile for the held token, persists it and
// publishes it.
func (m *Manager) LoadProfile(ctx context.Context) (Session, error) {
	m.mu.RLock()
	token, gen := m.token, m.gen
	m.mu.RUnlock()

	if token == "" {
		return Session{}, ErrNoSession
	}

	profile, err := m.api.Me(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to load profile: %w", err)
	}

	b, err := json.Marshal(profile)
	if err != nil {
		return Session{}, fmt.Errorf("failed to encode session: %w", err)
	}

	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		return Session{}, ErrSessionChanged
	}
	if err := m.store.Set(ctx, slot.KeyCurrentUser, b); err != nil {
		m.mu.Unlock()
		return Session{}, fmt.Errorf("failed to persist profile: %w", err)
	}
	m.current = profile
	m.mu.Unlock()

	m.state.Publish(Snapshot{Session: profile, LoggedIn: true})
	m.events.emit(Event{Kind: EventProfileLoaded})
	return profile, nil
}

// End clears the token and the profile from memory and from the slot,
// publishes "no session" and emits EventLoginRequired. In-memory state is
// cleared even when the slot fails; that error is returned.
func (m *Manager) End(ctx context.Context, reason string) error {
	m.mu.Lock()
	err := m.store.Delete(ctx, slot.KeyToken, slot.KeyCurrentUser)
	if err != nil {
		err = fmt.Errorf("failed to clear persisted session: %w", err)
	}
	m.token, m.current = "", Session{}
	m.gen++
	m.mu.Unlock()

	m.state.Publish(Snapshot{})
	m.logger.Info(ctx, "session ended", "reason", reason)
	m.events.emit(Event{Kind: EventLoginRequired, Reason: reason})
	return err
}

// Restore rehydrates the session persisted by an earlier run. Expired JWTs
// are discarded. A token without a cached profile triggers LoadProfile.
func (m *Manager) Restore(ctx context.Context) (Session, bool, error) {
	raw, err := m.store.Get(ctx, slot.KeyToken)
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to read token: %w", err)
	}
	token := string(raw)
	if token == "" {
		return Session{}, false, nil
	}

	claims, isJWT := inspectToken(token)
	if isJWT && claims.expired(m.now()) {
		m.logger.Info(ctx, "stored token expired", "expired_at", claims.ExpiresAt.Time)
		if err := m.store.Delete(ctx, slot.KeyToken, slot.KeyCurrentUser); err != nil {
			return Session{}, false, fmt.Errorf("failed to clear expired session: %w", err)
		}
		return Session{}, false, nil
	}

	var cached Session
	if b, err := m.store.Get(ctx, slot.KeyCurrentUser); err != nil {
		return Session{}, false, fmt.Errorf("failed to read profile: %w", err)
	} else if len(b) > 0 {
		if err := json.Unmarshal(b, &cached); err != nil {
			m.logger.Warn(ctx, "discarding unreadable cached profile", "error", err)
			cached = Session{}
		}
	}
	if cached.IsZero() && isJWT {
		cached = claims.session()
	}

	m.install(token, cached)

	if cached.Identity == "" {
		s, err := m.LoadProfile(ctx)
		if err != nil {
			_, ok := m.Current()
			return cached, ok, err
		}
		return s, true, nil
	}
	return cached, true, nil
}

// Register creates an account. It does not log in.
func (m *Manager) Register(ctx context.Context, email, password string) (Session, error) {
	s, err := m.api.Register(ctx, email, password)
	if err != nil {
		return Session{}, fmt.Errorf("registration failed: %w", err)
	}
	return s, nil
}

type credentialExchangeKey struct{}

// withCredentialExchange marks ctx as carrying a login round trip. A rejected
// login says nothing about the token already held.
func withCredentialExchange(ctx context.Context) context.Context {
	return context.WithValue(ctx, credentialExchangeKey{}, true)
}

func isCredentialExchange(ctx context.Context) bool {
	v, _ := ctx.Value(credentialExchangeKey{}).(bool)
	return v
}

// FaultHook ends the live session on an authentication fault. Other kinds
// never touch the session, and neither does a rejected login.
func (m *Manager) FaultHook() transport.FaultHook {
	return func(ctx context.Context, f *transport.Fault) {
		if f.Kind != transport.KindAuthentication || m.Token() == "" || isCredentialExchange(ctx) {
			return
		}
		if err := m.End(ctx, "authentication fault"); err != nil {
			m.logger.Error(ctx, "failed to end session", "error", err)
		}
	}
}

// Close releases subscribers.
func (m *Manager) Close() {
	m.state.Close()
	m.events.close()
}

func (m *Manager) install(token string, s Session) {
	m.mu.Lock()
	m.token, m.current = token, s
	m.gen++
	m.mu.Unlock()

	m.state.Publish(Snapshot{Session: s, LoggedIn: true})
}

func isRejection(err error) bool {
	if errors.Is(err, transport.ErrAuthentication) || errors.Is(err, transport.ErrAuthorization) {
		return true
	}
	f, ok := transport.AsFault(err)
	return ok && f.Status == 400
}
