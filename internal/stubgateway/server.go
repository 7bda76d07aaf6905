package stubgateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/logging"
	"github.com/dmitrijs2005/pharmaintel/internal/stubgateway/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Collection names accepted by Seed.
const (
	CollectionCompetitors   = "competitors"
	CollectionTrials        = "trials"
	CollectionInsights      = "insights"
	CollectionJobs          = "crawl/jobs"
	CollectionDocuments     = "crawl/documents"
	CollectionSubscriptions = "subscriptions"
	CollectionNotifications = "notifications"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr     string
	key      []byte
	validity time.Duration
	logger   logging.Logger
	now      func() time.Time

	accounts    *accounts
	collections map[string]*collection
	router      chi.Router
}

type Option func(*Server)

// WithClock overrides time.Now for token issuing and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds a Server from cfg and registers its seed accounts.
func New(cfg *config.Config, logger logging.Logger, opts ...Option) (*Server, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("signing key is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Server{
		addr:     cfg.ListenAddr,
		key:      []byte(cfg.SigningKey),
		validity: cfg.TokenValidity,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validity <= 0 {
		s.validity = 30 * time.Minute
	}

	s.accounts = newAccounts(s.now)
	s.collections = make(map[string]*collection)
	for _, name := range []string{
		CollectionCompetitors, CollectionTrials, CollectionInsights, CollectionJobs,
		CollectionDocuments, CollectionSubscriptions, CollectionNotifications,
	} {
		s.collections[name] = newCollection(s.now)
	}

	seeds, err := cfg.SeedAccounts()
	if err != nil {
		return nil, err
	}
	for _, a := range seeds {
		if _, err := s.accounts.add(a.Email, a.Password, a.Role); err != nil {
			return nil, fmt.Errorf("seed account %s: %w", a.Email, err)
		}
	}

	s.router = s.routes()
	return s, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Seed inserts records into a collection and returns them with their ids.
func (s *Server) Seed(name string, recs ...Record) ([]Record, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", name)
	}
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, c.insert(r))
	}
	return out, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "stub gateway listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info(ctx, "stub gateway shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:4200", "http://127.0.0.1:4200"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "X-User-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	writers := []string{RoleAdmin, RoleAnalyst}

	competitors := &crud{s: s, coll: s.collections[CollectionCompetitors], noun: "Competitor", required: []string{"name"}, writeRoles: writers}
	insights := &crud{s: s, coll: s.collections[CollectionInsights], noun: "Insight", required: []string{"title"}, writeRoles: writers}
	jobs := &crud{s: s, coll: s.collections[CollectionJobs], noun: "Crawl job", required: []string{"source", "query"}}
	subscriptions := &crud{s: s, coll: s.collections[CollectionSubscriptions], noun: "Subscription", owned: true}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/users", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users/me", s.me)
			r.With(requireRole(RoleAdmin)).Get("/users", s.listUsers)
			r.With(requireRole(RoleAdmin)).Delete("/users/{id}", s.deleteUser)

			r.Route("/competitors", func(r chi.Router) {
				competitors.mount(r)
				r.Get("/{id}/trials", s.listTrials)
			})
			r.Route("/insights", insights.mount)

			r.Route("/crawl", func(r chi.Router) {
				r.Use(requireRole(RoleAdmin))
				r.Route("/jobs", jobs.mount)
				r.Post("/run", s.runCrawl)
				r.Get("/documents", s.listDocuments)
			})

			r.Route("/subscriptions", subscriptions.mount)
			r.Get("/notifications/me", s.myNotifications)
		})
	})

	return r
}
