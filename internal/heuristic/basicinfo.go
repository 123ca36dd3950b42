package heuristic

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const (
	unknownParty    = "Unknown"
	defaultPosition = "Political Figure"
	unknownTerm     = "N/A"
)

// BasicInfo is the headline section of a report.
type BasicInfo struct {
	Party      string
	Position   string
	TermPeriod string
	Summary    string
}

// BasicInfo extracts party, position, term and a one-sentence summary.
func (a *Analyzer) BasicInfo(name string, bio model.BiographyRecord) BasicInfo {
	text := bio.Extract
	info := BasicInfo{
		Party:      a.party(text),
		Position:   a.position(text),
		TermPeriod: a.termPeriod(text),
	}
	info.Summary = a.summary(name, info, text)
	return info
}

func (a *Analyzer) party(text string) string {
	lower := strings.ToLower(text)
	for _, re := range a.partyPatterns {
		if m := re.FindStringSubmatch(lower); len(m) > 1 {
			return titleCase(strings.TrimSpace(m[1])) + " Party"
		}
	}
	for _, s := range a.spectrum {
		if s.words.Any(lower) {
			return s.label + " Political Party"
		}
	}
	return unknownParty
}

func (a *Analyzer) position(text string) string {
	for _, tier := range a.positions {
		for _, t := range tier.titles {
			if !t.words.Any(text) {
				continue
			}
			if tier.formerPrefix && a.former.Any(text) {
				return "Former " + t.title
			}
			return t.title
		}
	}
	for _, c := range a.countries {
		if !c.names.Any(text) {
			continue
		}
		for _, t := range c.titles {
			if t.words.Any(text) {
				return t.title
			}
		}
	}
	return defaultPosition
}

func (a *Analyzer) termPeriod(text string) string {
	for _, tp := range a.terms {
		idx := tp.re.FindStringSubmatchIndex(text)
		if idx == nil {
			continue
		}
		return string(tp.re.ExpandString(nil, tp.format, text, idx))
	}
	return unknownTerm
}

func (a *Analyzer) summary(name string, info BasicInfo, text string) string {
	var b strings.Builder
	if info.Party == unknownParty {
		fmt.Fprintf(&b, "%s holds the role of %s and has no clearly identified party affiliation", name, info.Position)
	} else {
		fmt.Fprintf(&b, "%s holds the role of %s and is affiliated with the %s", name, info.Position, info.Party)
	}

	var focus []string
	for _, g := range a.focusAreas {
		if g.Words.Any(text) {
			focus = appendUnique(focus, g.Label)
		}
	}
	if len(focus) > 0 {
		b.WriteString(", focusing on ")
		b.WriteString(strings.Join(focus, ", "))
	}
	b.WriteString(".")
	return b.String()
}
