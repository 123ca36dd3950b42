package heuristic

import (
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const (
	noDetails          = "No additional details available."
	biographyDetails   = "Noted in the biographical record."
	bioActivityWindow  = 3
	bioActivityDate    = "2024"
	activityDateLayout = "2006-01"
)

// Activities turns headlines naming the politician into activities. With
// no such headline it falls back to recent-sounding biography sentences.
func (a *Analyzer) Activities(name string, bio model.BiographyRecord, news []model.NewsItem) []model.Activity {
	activities := make([]model.Activity, 0)
	needle := strings.ToLower(strings.TrimSpace(name))

	for _, item := range newsWindow(news) {
		if needle == "" || !strings.Contains(strings.ToLower(item.Title), needle) {
			continue
		}
		text := newsText(item)
		details := strings.TrimSpace(item.Description)
		if details == "" {
			details = noDetails
		}
		activities = append(activities, model.Activity{
			Activity: item.Title,
			Date:     a.month(item.PublishedAt),
			Category: a.category(text),
			Impact:   a.impact(text),
			Details:  details,
		})
	}

	if len(activities) == 0 {
		activities = a.biographyActivities(bio.Extract)
	}

	if len(activities) > model.MaxActivities {
		activities = activities[:model.MaxActivities]
	}
	return activities
}

func (a *Analyzer) biographyActivities(extract string) []model.Activity {
	activities := make([]model.Activity, 0)
	all := sentences(extract)
	if len(all) > bioActivityWindow {
		all = all[len(all)-bioActivityWindow:]
	}
	for _, s := range all {
		if !a.recency.Any(s) {
			continue
		}
		activities = append(activities, model.Activity{
			Activity: s,
			Date:     bioActivityDate,
			Category: model.CategoryGeneralActivity,
			Impact:   model.ImpactNeutral,
			Details:  biographyDetails,
		})
	}
	return activities
}

// month formats a publish timestamp as YYYY-MM, defaulting to the current month.
func (a *Analyzer) month(publishedAt string) string {
	if t, ok := parsePublished(publishedAt); ok {
		return t.Format(activityDateLayout)
	}
	return a.now().Format(activityDateLayout)
}

func (a *Analyzer) category(text string) string {
	for _, g := range a.categories {
		if g.Words.Any(text) {
			return g.Label
		}
	}
	return model.CategoryGeneralActivity
}

func (a *Analyzer) impact(text string) string {
	pos, neg := a.positive.Count(text), a.negative.Count(text)
	switch {
	case pos > neg:
		return model.ImpactPositive
	case neg > pos:
		return model.ImpactControversial
	default:
		return model.ImpactNeutral
	}
}
