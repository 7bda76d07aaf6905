package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/pharmaintel/internal/client/counter"
	"github.com/dmitrijs2005/pharmaintel/internal/client/resource"
	"github.com/dmitrijs2005/pharmaintel/internal/client/session"
	"github.com/dmitrijs2005/pharmaintel/internal/client/slot"
	"github.com/dmitrijs2005/pharmaintel/internal/client/transport"
	"github.com/dmitrijs2005/pharmaintel/internal/logging"
)

const headerUserID = "X-User-Id"

type Services struct {
	Transport   *transport.Client
	Interpreter *transport.Interpreter
	Session     *session.Manager

	Competitors   *resource.Client[Competitor]
	Insights      *resource.Client[Insight]
	CrawlJobs     *resource.Client[CrawlJob]
	Documents     *resource.Lister[Document]
	Subscriptions *resource.Client[Subscription]
	Notifications *resource.Lister[NotificationHistory]
	Users         *resource.Client[User]

	// Unread counts notifications not yet read.
	Unread *counter.Counter[NotificationHistory]

	logger logging.Logger
}

type Options struct {
	BaseURL  string
	Store    slot.Slot
	Notifier transport.Notifier
	Logger   logging.Logger

	Transport []transport.Option
	Session   []session.Option
}

// New builds the services around one transport. Authentication faults end
// the live session through the interpreter's fault hook.
func New(opts Options) (*Services, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	interp := transport.NewInterpreter(opts.Notifier, logger.With("component", "interpreter"))

	var mgr *session.Manager
	tokens := transport.TokenFunc(func() string { return mgr.Token() })

	topts := append([]transport.Option{transport.WithLogger(logger.With("component", "transport"))}, opts.Transport...)
	tc, err := transport.NewClient(opts.BaseURL, tokens, interp, topts...)
	if err != nil {
		return nil, err
	}

	sopts := append([]session.Option{session.WithLogger(logger.With("component", "session"))}, opts.Session...)
	mgr = session.NewManager(opts.Store, NewAuthClient(tc), sopts...)
	interp.OnFault(mgr.FaultHook())

	s := &Services{
		Transport:     tc,
		Interpreter:   interp,
		Session:       mgr,
		Competitors:   resource.New[Competitor](tc, "competitors"),
		Insights:      resource.New[Insight](tc, "insights"),
		CrawlJobs:     resource.New[CrawlJob](tc, "crawl/jobs"),
		Documents:     resource.NewLister[Document](tc, "crawl/documents"),
		Subscriptions: resource.New[Subscription](tc, "subscriptions"),
		Notifications: resource.NewLister[NotificationHistory](tc, "notifications/me"),
		Users:         resource.New[User](tc, "users"),
		logger:        logger,
	}

	s.Unread = counter.New(
		func(ctx context.Context) ([]NotificationHistory, error) { return s.Notifications.List(ctx, nil) },
		func(n NotificationHistory) bool { return !n.Read },
		counter.WithName("unread"),
		counter.WithLogger(logger.With("component", "counter")),
	)
	return s, nil
}

// Trials lists the clinical trials of one competitor.
func (s *Services) Trials(competitorID string) *resource.Lister[ClinicalTrial] {
	return resource.NewLister[ClinicalTrial](s.Transport, "competitors/"+url.PathEscape(competitorID)+"/trials")
}

// RunCrawl triggers one run of a crawl job.
func (s *Services) RunCrawl(ctx context.Context, jobID string) (CrawlRun, error) {
	var out CrawlRun
	if jobID == "" {
		return out, resource.ErrEmptyID
	}

	err := s.Transport.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "crawl/run",
		Query:  url.Values{"job_id": {jobID}},
	}, &out)
	if err != nil {
		return out, fmt.Errorf("failed to run crawl job %s: %w", jobID, err)
	}
	return out, nil
}

// CreateSubscription posts sub, sending its owner in X-User-Id when set.
func (s *Services) CreateSubscription(ctx context.Context, sub Subscription) (Subscription, error) {
	if sub.UserID == "" {
		return s.Subscriptions.Create(ctx, sub)
	}

	owned := resource.New[Subscription](s.Transport, s.Subscriptions.Path(), resource.WithHeaders(func() http.Header {
		return http.Header{headerUserID: {sub.UserID}}
	}))
	return owned.Create(ctx, sub)
}

// OpenInsight returns the insight with id from the loaded rows, falling
// back to a fetch when it is not among them.
func (s *Services) OpenInsight(ctx context.Context, loaded *resource.View[Insight], id string) (Insight, error) {
	if loaded != nil {
		if it, ok := loaded.Find(func(i Insight) bool { return i.ID == id }); ok {
			return it, nil
		}
	}
	return s.Insights.Get(ctx, id)
}

// Close releases subscribers of the session and the unread counter.
func (s *Services) Close() {
	s.Unread.Close()
	s.Session.Close()
}
