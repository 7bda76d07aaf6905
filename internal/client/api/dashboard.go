package api

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/pharmaintel/internal/client/resource"
	"golang.org/x/sync/errgroup"
)

const recentInsights = 5

type DashboardStats struct {
	Competitors   int
	Insights      int
	Documents     int
	Notifications int
	Recent        []Insight
}

// Dashboard fetches the four collections concurrently. A failed fetch
// counts as empty; the global interpreter has already reported it.
func (s *Services) Dashboard(ctx context.Context) DashboardStats {
	var (
		g             errgroup.Group
		competitors   []Competitor
		insights      []Insight
		documents     []Document
		notifications []NotificationHistory
	)

	g.Go(fetchAll(ctx, s, "competitors", s.Competitors.List, &competitors))
	g.Go(fetchAll(ctx, s, "insights", s.Insights.List, &insights))
	g.Go(fetchAll(ctx, s, "documents", s.Documents.List, &documents))
	g.Go(fetchAll(ctx, s, "notifications", s.Notifications.List, &notifications))
	_ = g.Wait()

	return DashboardStats{
		Competitors:   len(competitors),
		Insights:      len(insights),
		Documents:     len(documents),
		Notifications: len(notifications),
		Recent:        MostRecent(insights, recentInsights),
	}
}

func fetchAll[R any](ctx context.Context, s *Services, name string, list func(context.Context, resource.Filters) ([]R, error), dst *[]R) func() error {
	return func() error {
		items, err := list(ctx, nil)
		if err != nil {
			s.logger.Warn(ctx, "dashboard fetch failed", "collection", name, "error", err)
			return nil
		}
		*dst = items
		return nil
	}
}

// MostRecent returns up to n insights ordered by createdAt, newest first.
// Unparseable timestamps sort last. The input is not modified.
func MostRecent(insights []Insight, n int) []Insight {
	out := append([]Insight(nil), insights...)
	sort.SliceStable(out, func(i, j int) bool {
		return parseTime(out[i].CreatedAt).After(parseTime(out[j].CreatedAt))
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
