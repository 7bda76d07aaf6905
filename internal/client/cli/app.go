package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/pharmaintel/internal/client/api"
	"github.com/dmitrijs2005/pharmaintel/internal/client/config"
	"github.com/dmitrijs2005/pharmaintel/internal/client/resource"
	"github.com/dmitrijs2005/pharmaintel/internal/client/session"
	"github.com/dmitrijs2005/pharmaintel/internal/logging"
)

type App struct {
	config *config.Config
	svc    *api.Services
	reader *bufio.Reader
	out    io.Writer
	logger logging.Logger

	// Last loaded lists. Show and edit look records up here first.
	competitors *resource.View[api.Competitor]
	insights    *resource.View[api.Insight]

	closers []func() error
}

// NewApp builds the console over svc. out should be the Notifier's Writer
// so that fault messages and command output share one lock.
func NewApp(c *config.Config, svc *api.Services, in io.Reader, out io.Writer, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	return &App{
		config:      c,
		svc:         svc,
		reader:      bufio.NewReader(in),
		out:         newConsole(out),
		logger:      logger,
		competitors: resource.NewView(svc.Competitors.List),
		insights:    resource.NewView(svc.Insights.List),
	}
}

// Run restores any persisted session and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.svc.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, ok, err := a.svc.Session.Restore(ctx)
	switch {
	case err != nil:
		a.logger.Warn(ctx, "failed to restore session", "error", err)
	case ok:
		a.printf("Welcome back, %s\n", s.Identity)
	}

	go a.watchSession(ctx)

	a.printf("PharmaIntel console (type 'help' for commands)\n")
	runREPL(ctx, a, a.status, a.reader)
}

// watchSession keeps the unread badge refreshing while a session is live and
// reports forced logouts.
func (a *App) watchSession(ctx context.Context) {
	snaps, unsubscribe := a.svc.Session.Subscribe()
	defer unsubscribe()
	events, stopEvents := a.svc.Session.Events()
	defer stopEvents()

	var (
		loggedIn bool
		stop     = func() {}
	)
	defer func() { stop() }()

	for {
		select {
		case <-ctx.Done():
			return

		case snap, ok := <-snaps:
			if !ok {
				return
			}
			if snap.LoggedIn == loggedIn {
				continue
			}
			loggedIn = snap.LoggedIn
			stop()
			stop = func() {}
			if loggedIn {
				wctx, cancel := context.WithCancel(ctx)
				stop = cancel
				go a.svc.Unread.Watch(wctx, a.config.UnreadRefreshInterval)
			}

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Kind == session.EventLoginRequired && ev.Reason != reasonLogout {
				a.printf("Session ended (%s): login required\n", ev.Reason)
			}
		}
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.svc.Session.Current()
	return ok
}

func (a *App) isAdmin() bool { return a.svc.Session.IsAdmin() }

func (a *App) status() string {
	cur, ok := a.svc.Session.Current()
	if !ok {
		return ""
	}
	parts := []string{}
	if cur.Identity != "" {
		parts = append(parts, cur.Identity)
	}
	if cur.Role != "" {
		parts = append(parts, string(cur.Role))
	}
	s := strings.Join(parts, " ")
	if n := a.svc.Unread.Value(); n > 0 {
		s += fmt.Sprintf(", %d unread", n)
	}
	return "(" + s + ")"
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// fail prints the call-site message for err.
func (a *App) fail(err error, action, noun string) error {
	a.printf("%s\n", resource.SecondaryMessage(err, action, noun))
	return err
}
