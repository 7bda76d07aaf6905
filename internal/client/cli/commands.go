package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/pharmaintel/internal/client/api"
	"github.com/dmitrijs2005/pharmaintel/internal/client/resource"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	a.printf("Usage: %s\n", text)
	return errUsage
}

func (a *App) Dashboard(ctx context.Context) error {
	a.printf("%s", renderDashboard(a.svc.Dashboard(ctx)))
	return nil
}

// List prints one collection. Extra key=value arguments become query
// filters, e.g. "list insights therapeutic_area=Oncology".
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage("list <kind> [key=value...]")
	}
	filters := resource.Filters(parseFilters(args[1:]))

	switch args[0] {
	case "competitors":
		rows, err := a.competitors.Refresh(ctx, filters)
		if err != nil {
			return a.listFailed(err, "competitors")
		}
		a.printf("%s", renderCompetitors(rows))

	case "insights":
		rows, err := a.insights.Refresh(ctx, filters)
		if err != nil {
			return a.listFailed(err, "insights")
		}
		a.printf("%s", renderInsights(rows))

	case "trials":
		if len(args) < 2 {
			return a.usage("list trials <competitor-id>")
		}
		rows, err := a.svc.Trials(args[1]).List(ctx, resource.Filters(parseFilters(args[2:])))
		if err != nil {
			return a.listFailed(err, "trials")
		}
		a.printf("%s", renderTrials(rows))

	case "jobs":
		rows, err := a.svc.CrawlJobs.List(ctx, filters)
		if err != nil {
			return a.listFailed(err, "crawl jobs")
		}
		a.printf("%s", renderJobs(rows))

	case "documents":
		rows, err := a.svc.Documents.List(ctx, filters)
		if err != nil {
			return a.listFailed(err, "documents")
		}
		a.printf("%s", renderDocuments(rows))

	case "subscriptions":
		rows, err := a.svc.Subscriptions.List(ctx, filters)
		if err != nil {
			return a.listFailed(err, "subscriptions")
		}
		a.printf("%s", renderSubscriptions(rows))

	case "notifications":
		rows, err := a.svc.Notifications.List(ctx, filters)
		if err != nil {
			return a.listFailed(err, "notifications")
		}
		a.printf("%s", renderNotifications(rows))

	case "users":
		rows, err := a.svc.Users.List(ctx, filters)
		if err != nil {
			return a.listFailed(err, "users")
		}
		a.printf("%s", renderUsers(rows))

	default:
		a.printf("Unknown kind: %s\n", args[0])
		return errUsage
	}
	return nil
}

func (a *App) listFailed(err error, noun string) error {
	if errors.Is(err, resource.ErrSuperseded) {
		return err
	}
	return a.fail(err, "load", noun)
}

// Show prints one insight, from the last listing when possible.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("show <insight-id>")
	}
	in, err := a.svc.OpenInsight(ctx, a.insights, args[0])
	if err != nil {
		return a.fail(err, "load", "insight")
	}
	a.printf("%s", renderInsight(in))
	return nil
}

func (a *App) Unread(ctx context.Context) error {
	n, err := a.svc.Unread.Refresh(ctx)
	if err != nil {
		return a.fail(err, "load", "notifications")
	}
	a.printf("%d unread notification(s)\n", n)
	return nil
}

// RunCrawl triggers one run of a crawl job.
func (a *App) RunCrawl(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("run <job-id>")
	}
	run, err := a.svc.RunCrawl(ctx, args[0])
	if err != nil {
		return a.fail(err, "run", "crawl job")
	}
	a.printf("Crawl %s for job %s, document %s\n", run.Status, run.JobID, run.DocumentID)
	return nil
}

// Delete removes one record and reloads the affected listing.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("delete <competitor|insight|job|subscription|user> <id>")
	}
	kind, id := args[0], args[1]

	var err error
	switch kind {
	case "competitor":
		var rows []api.Competitor
		rows, err = a.svc.Competitors.MutateThenRefresh(ctx, func(ctx context.Context) error {
			return a.svc.Competitors.Remove(ctx, id)
		}, nil)
		if err == nil {
			a.competitors.Replace(rows)
		}
	case "insight":
		var rows []api.Insight
		rows, err = a.svc.Insights.MutateThenRefresh(ctx, func(ctx context.Context) error {
			return a.svc.Insights.Remove(ctx, id)
		}, nil)
		if err == nil {
			a.insights.Replace(rows)
		}
	case "job":
		err = a.svc.CrawlJobs.Remove(ctx, id)
	case "subscription":
		err = a.svc.Subscriptions.Remove(ctx, id)
	case "user":
		err = a.svc.Users.Remove(ctx, id)
	default:
		a.printf("Unknown kind: %s\n", kind)
		return errUsage
	}

	if err != nil {
		return a.fail(err, "delete", kind)
	}
	a.printf("%s %s %s\n", okStyle.Render("Deleted"), kind, id)
	return nil
}
