package heuristic

import (
	"strconv"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const maxBioControversiesPerKeyword = 2

// Controversies lists disputes from headlines first, then from the biography.
func (a *Analyzer) Controversies(_ string, bio model.BiographyRecord, news []model.NewsItem) []model.Controversy {
	out := make([]model.Controversy, 0)

	for _, item := range newsWindow(news) {
		if !a.anyControversy(newsText(item)) {
			continue
		}
		out = append(out, model.Controversy{
			Issue:      item.Title,
			Year:       a.year(item.PublishedAt),
			Resolution: "Ongoing news coverage",
		})
	}

	all := sentences(bio.Extract)
	seen := make(map[string]bool)
	for _, kw := range a.controversy {
		n := 0
		for _, s := range all {
			if n == maxBioControversiesPerKeyword {
				break
			}
			if seen[s] || !kw.words.Any(s) {
				continue
			}
			seen[s] = true
			n++
			out = append(out, model.Controversy{
				Issue:      s,
				Year:       yearIn(s),
				Resolution: "Historical record",
			})
		}
	}

	if len(out) > model.MaxControversies {
		out = out[:model.MaxControversies]
	}
	return out
}

func (a *Analyzer) anyControversy(text string) bool {
	for _, kw := range a.controversy {
		if kw.words.Any(text) {
			return true
		}
	}
	return false
}

// year returns the publish year of a headline, or the current year.
func (a *Analyzer) year(publishedAt string) string {
	if t, ok := parsePublished(publishedAt); ok {
		return strconv.Itoa(t.Year())
	}
	return strconv.Itoa(a.now().Year())
}
