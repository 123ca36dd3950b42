package heuristic

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// defaultYear stands in when a sentence carries no year of its own.
const defaultYear = "2024"

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
	yearToken   = regexp.MustCompile(`\b\d{4}\b`)
)

// sentences splits text on terminal punctuation, dropping empty pieces.
func sentences(text string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// yearIn returns the first four-digit token in s, or defaultYear.
func yearIn(s string) string {
	if y := yearToken.FindString(s); y != "" {
		return y
	}
	return defaultYear
}

// parsePublished parses an ISO-8601 publish timestamp. A trailing "Z" is
// normalized to an explicit UTC offset first.
func parsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// leadingWords returns up to n lower-cased words of s with surrounding
// punctuation trimmed.
func leadingWords(s string, n int) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(s)) {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w == "" {
			continue
		}
		out = append(out, w)
		if len(out) == n {
			break
		}
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// titleCase upper-cases the first letter of every word. A fresh Caser is
// used per call since Casers carry state.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func newsText(item model.NewsItem) string {
	return item.Title + " " + item.Description
}

func newsWindow(news []model.NewsItem) []model.NewsItem {
	if len(news) > maxNewsItems {
		return news[:maxNewsItems]
	}
	return news
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
