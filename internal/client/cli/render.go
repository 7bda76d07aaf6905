package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/pharmaintel/internal/client/api"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func priorityStyle(p api.Priority) lipgloss.Style {
	switch p {
	case api.PriorityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	case api.PriorityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
}

// table lays rows out in left-aligned columns. Cell widths are measured
// with lipgloss so styled cells line up.
func table(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return labelStyle.Render("(none)") + "\n"
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		for i, cell := range cells {
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		return strings.TrimRight(b.String(), " ") + "\n"
	}

	var b strings.Builder
	b.WriteString(line(headers, &headerStyle))
	for _, r := range rows {
		b.WriteString(line(r, nil))
	}
	return b.String()
}

func renderCompetitors(rows []api.Competitor) string {
	out := make([][]string, 0, len(rows))
	for _, c := range rows {
		out = append(out, []string{c.ID, c.Name, c.Headquarters, strings.Join(c.TherapeuticAreas, ", "),
			strconv.Itoa(c.ActiveDrugs), strconv.Itoa(c.PipelineDrugs)})
	}
	return table([]string{"ID", "NAME", "HQ", "AREAS", "ACTIVE", "PIPELINE"}, out)
}

func renderTrials(rows []api.ClinicalTrial) string {
	out := make([][]string, 0, len(rows))
	for _, t := range rows {
		out = append(out, []string{t.TrialID, t.DrugName, api.TitleCase(t.Phase), t.Indication, api.TitleCase(t.Status), strconv.Itoa(t.EnrollmentTarget)})
	}
	return table([]string{"TRIAL", "DRUG", "PHASE", "INDICATION", "STATUS", "ENROLLMENT"}, out)
}

func renderPriority(score float64) string {
	p := api.PriorityOf(score)
	return priorityStyle(p).Render(p.Label())
}

func renderInsights(rows []api.Insight) string {
	out := make([][]string, 0, len(rows))
	for _, i := range rows {
		out = append(out, []string{i.ID, i.Title, api.TitleCase(i.TherapeuticArea), api.TitleCase(i.ImpactLevel), renderPriority(i.RelevanceScore)})
	}
	return table([]string{"ID", "TITLE", "AREA", "IMPACT", "PRIORITY"}, out)
}

func renderInsight(i api.Insight) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i.Title) + "  " + renderPriority(i.RelevanceScore) + "\n")
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), value)
		}
	}
	field("ID", i.ID)
	field("Competitor", i.CompetitorID)
	field("Category", api.TitleCase(i.Category))
	field("Area", api.TitleCase(i.TherapeuticArea))
	field("Impact", api.TitleCase(i.ImpactLevel))
	field("Score", strconv.FormatFloat(i.RelevanceScore, 'f', -1, 64))
	field("Source", i.Source)
	field("Published", i.PublishedDate)
	field("Created", i.CreatedAt)
	if i.Description != "" {
		b.WriteString("\n" + i.Description + "\n")
	}
	if i.Content != "" {
		b.WriteString("\n" + i.Content + "\n")
	}
	return b.String()
}

func renderJobs(rows []api.CrawlJob) string {
	out := make([][]string, 0, len(rows))
	for _, j := range rows {
		enabled := "no"
		if j.Enabled {
			enabled = "yes"
		}
		out = append(out, []string{j.ID, j.Source, j.Query, j.Schedule, enabled, j.LastRunAt})
	}
	return table([]string{"ID", "SOURCE", "QUERY", "SCHEDULE", "ENABLED", "LAST RUN"}, out)
}

func renderDocuments(rows []api.Document) string {
	out := make([][]string, 0, len(rows))
	for _, d := range rows {
		out = append(out, []string{d.ID, d.Source, d.Title, d.IngestedAt})
	}
	return table([]string{"ID", "SOURCE", "TITLE", "INGESTED"}, out)
}

func renderSubscriptions(rows []api.Subscription) string {
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, []string{s.ID, strings.Join(s.TherapeuticAreas, ", "), strings.Join(s.CompetitorIDs, ", "), strings.Join(s.Channels, ", ")})
	}
	return table([]string{"ID", "AREAS", "COMPETITORS", "CHANNELS"}, out)
}

func renderNotifications(rows []api.NotificationHistory) string {
	out := make([][]string, 0, len(rows))
	for _, n := range rows {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		out = append(out, []string{mark, n.SentAt, n.Channel, n.Message})
	}
	return table([]string{"", "SENT", "CHANNEL", "MESSAGE"}, out)
}

func renderUsers(rows []api.User) string {
	out := make([][]string, 0, len(rows))
	for _, u := range rows {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		out = append(out, []string{u.ID, u.Email, u.Role, active})
	}
	return table([]string{"ID", "EMAIL", "ROLE", "ACTIVE"}, out)
}

func renderDashboard(s api.DashboardStats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard") + "\n\n")
	count := func(label string, n int) {
		fmt.Fprintf(&b, "  %-15s %s\n", label+":", headerStyle.Render(strconv.Itoa(n)))
	}
	count("Competitors", s.Competitors)
	count("Insights", s.Insights)
	count("Documents", s.Documents)
	count("Notifications", s.Notifications)
	b.WriteString("\n" + labelStyle.Render("Recent insights:") + "\n")
	b.WriteString(renderInsights(s.Recent))
	return b.String()
}
