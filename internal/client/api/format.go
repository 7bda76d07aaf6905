package api

import "strings"

type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// PriorityOf buckets a relevance score: 8 and above is high, 5 and above
// medium, anything else low.
func PriorityOf(score float64) Priority {
	switch {
	case score >= 8:
		return PriorityHigh
	case score >= 5:
		return PriorityMedium
	}
	return PriorityLow
}

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High Priority"
	case PriorityMedium:
		return "Medium Priority"
	}
	return "Low Priority"
}

// TitleCase upper-cases the first letter of every space-separated word and
// lower-cases the rest ("PHASE III" becomes "Phase Iii").
func TitleCase(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}

// NormalizeInsight title-cases the free-form classification fields the way
// the edit form expects them.
func NormalizeInsight(in Insight) Insight {
	in.Category = TitleCase(in.Category)
	in.TherapeuticArea = TitleCase(in.TherapeuticArea)
	in.ImpactLevel = TitleCase(in.ImpactLevel)
	return in
}
