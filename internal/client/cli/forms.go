package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/pharmaintel/internal/client/api"
)

// Add prompts for a new record of the given kind and creates it.
func (a *App) Add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.usage("add <competitor|insight|job|subscription>")
	}

	switch args[0] {
	case "competitor":
		c, err := a.competitorForm(api.Competitor{})
		if err != nil {
			return err
		}
		var created api.Competitor
		rows, err := a.svc.Competitors.MutateThenRefresh(ctx, func(ctx context.Context) error {
			var err error
			created, err = a.svc.Competitors.Create(ctx, c)
			return err
		}, nil)
		if err != nil {
			return a.fail(err, "create", "competitor")
		}
		a.competitors.Replace(rows)
		a.created("competitor", created.ID)

	case "insight":
		in, err := a.insightForm(api.Insight{})
		if err != nil {
			return err
		}
		var created api.Insight
		rows, err := a.svc.Insights.MutateThenRefresh(ctx, func(ctx context.Context) error {
			var err error
			created, err = a.svc.Insights.Create(ctx, in)
			return err
		}, nil)
		if err != nil {
			return a.fail(err, "create", "insight")
		}
		a.insights.Replace(rows)
		a.created("insight", created.ID)

	case "job":
		j, err := a.jobForm()
		if err != nil {
			return err
		}
		created, err := a.svc.CrawlJobs.Create(ctx, j)
		if err != nil {
			return a.fail(err, "create", "crawl job")
		}
		a.created("crawl job", created.ID)

	case "subscription":
		s, err := a.subscriptionForm()
		if err != nil {
			return err
		}
		created, err := a.svc.CreateSubscription(ctx, s)
		if err != nil {
			return a.fail(err, "create", "subscription")
		}
		a.created("subscription", created.ID)

	default:
		a.printf("Unknown kind: %s\n", args[0])
		return errUsage
	}
	return nil
}

// Edit loads a competitor or insight, prompts with its current values and
// saves the result.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("edit <competitor|insight> <id>")
	}
	id := args[1]

	switch args[0] {
	case "competitor":
		cur, ok := a.competitors.Find(func(c api.Competitor) bool { return c.ID == id })
		if !ok {
			var err error
			if cur, err = a.svc.Competitors.Get(ctx, id); err != nil {
				return a.fail(err, "load", "competitor")
			}
		}
		c, err := a.competitorForm(cur)
		if err != nil {
			return err
		}
		rows, err := a.svc.Competitors.MutateThenRefresh(ctx, func(ctx context.Context) error {
			_, err := a.svc.Competitors.Update(ctx, id, c)
			return err
		}, nil)
		if err != nil {
			return a.fail(err, "update", "competitor")
		}
		a.competitors.Replace(rows)

	case "insight":
		cur, err := a.svc.OpenInsight(ctx, a.insights, id)
		if err != nil {
			return a.fail(err, "load", "insight")
		}
		in, err := a.insightForm(cur)
		if err != nil {
			return err
		}
		rows, err := a.svc.Insights.MutateThenRefresh(ctx, func(ctx context.Context) error {
			_, err := a.svc.Insights.Update(ctx, id, in)
			return err
		}, nil)
		if err != nil {
			return a.fail(err, "update", "insight")
		}
		a.insights.Replace(rows)

	default:
		a.printf("Unknown kind: %s\n", args[0])
		return errUsage
	}

	a.printf("%s %s %s\n", okStyle.Render("Updated"), args[0], id)
	return nil
}

func (a *App) created(noun, id string) {
	a.printf("%s %s %s\n", okStyle.Render("Created"), noun, id)
}

func (a *App) competitorForm(c api.Competitor) (api.Competitor, error) {
	var err error
	out := api.Competitor{}

	if out.Name, err = GetDefault(a.reader, "Name", c.Name, a.out); err != nil {
		return out, err
	}
	if out.Headquarters, err = GetDefault(a.reader, "Headquarters", c.Headquarters, a.out); err != nil {
		return out, err
	}
	if out.TherapeuticAreas, err = GetList(a.reader, "Therapeutic areas", c.TherapeuticAreas, a.out); err != nil {
		return out, err
	}
	active, err := GetNumber(a.reader, "Active drugs", float64(c.ActiveDrugs), a.out)
	if err != nil {
		return out, err
	}
	pipeline, err := GetNumber(a.reader, "Pipeline drugs", float64(c.PipelineDrugs), a.out)
	if err != nil {
		return out, err
	}
	out.ActiveDrugs, out.PipelineDrugs = int(active), int(pipeline)
	return out, nil
}

// insightForm collects insight fields. Classification fields are title-cased
// before they are sent.
func (a *App) insightForm(in api.Insight) (api.Insight, error) {
	var err error
	out := api.Insight{CompetitorID: in.CompetitorID, Source: in.Source, SourceDocumentID: in.SourceDocumentID, PublishedDate: in.PublishedDate}

	if out.Title, err = GetDefault(a.reader, "Title", in.Title, a.out); err != nil {
		return out, err
	}
	if out.Description, err = GetDefault(a.reader, "Description", in.Description, a.out); err != nil {
		return out, err
	}
	if out.Category, err = GetDefault(a.reader, "Category", in.Category, a.out); err != nil {
		return out, err
	}
	if out.TherapeuticArea, err = GetDefault(a.reader, "Therapeutic area", in.TherapeuticArea, a.out); err != nil {
		return out, err
	}
	if out.ImpactLevel, err = GetDefault(a.reader, "Impact level", in.ImpactLevel, a.out); err != nil {
		return out, err
	}
	if out.RelevanceScore, err = GetNumber(a.reader, "Relevance score (0-10)", in.RelevanceScore, a.out); err != nil {
		return out, err
	}
	if out.Content, err = GetMultiline(a.reader, "Content", a.out); err != nil {
		return out, err
	}
	if out.Content == "" {
		out.Content = in.Content
	}
	return api.NormalizeInsight(out), nil
}

func (a *App) jobForm() (api.CrawlJob, error) {
	var (
		j   = api.CrawlJob{Enabled: true}
		err error
	)
	if j.Source, err = GetSimpleText(a.reader, "Source (e.g. pubmed, clinicaltrials)", a.out); err != nil {
		return j, err
	}
	if j.Query, err = GetSimpleText(a.reader, "Query", a.out); err != nil {
		return j, err
	}
	if j.Schedule, err = GetSimpleText(a.reader, "Schedule (cron, optional)", a.out); err != nil {
		return j, err
	}
	enabled, err := GetDefault(a.reader, "Enabled", strconv.FormatBool(j.Enabled), a.out)
	if err != nil {
		return j, err
	}
	if b, perr := strconv.ParseBool(enabled); perr == nil {
		j.Enabled = b
	}
	return j, nil
}

func (a *App) subscriptionForm() (api.Subscription, error) {
	var (
		s   api.Subscription
		err error
	)
	if s.TherapeuticAreas, err = GetList(a.reader, "Therapeutic areas", nil, a.out); err != nil {
		return s, err
	}
	if s.CompetitorIDs, err = GetList(a.reader, "Competitor ids", nil, a.out); err != nil {
		return s, err
	}
	if s.Channels, err = GetList(a.reader, "Channels", []string{"in-app"}, a.out); err != nil {
		return s, err
	}
	if a.svc.Session.IsAdmin() {
		if s.UserID, err = GetSimpleText(a.reader, "Owner user id (empty for yourself)", a.out); err != nil {
			return s, err
		}
	}
	return s, nil
}
