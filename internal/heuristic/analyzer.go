// Package heuristic builds a politician report from a biography and news
// headlines with keyword and pattern rules alone. It performs no I/O and
// holds no mutable state, so one Analyzer can serve concurrent queries.
//
// Malformed or empty input never fails: every field degrades to its
// default ("Unknown" party, empty lists, and so on).
package heuristic

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/policy"
)

// StrategyName identifies reports produced by this package.
const StrategyName = "heuristic"

// maxNewsItems is how many headlines, newest first, any extractor reads.
const maxNewsItems = 6

type titleMatcher struct {
	words lexicon.WordSet
	title string
}

type positionTier struct {
	formerPrefix bool
	titles       []titleMatcher
}

type countryTitles struct {
	names  lexicon.WordSet
	titles []titleMatcher
}

type spectrum struct {
	label     string
	alignment string
	words     lexicon.WordSet
}

type termPattern struct {
	re     *regexp.Regexp
	format string
}

type keywordMatcher struct {
	word  string
	words lexicon.WordSet
}

// Analyzer is the heuristic strategy.
type Analyzer struct {
	partyPatterns []*regexp.Regexp
	spectrum      []spectrum
	positions     []positionTier
	former        lexicon.WordSet
	countries     []countryTitles
	terms         []termPattern
	focusAreas    []lexicon.Group

	categories []lexicon.Group
	positive   lexicon.WordSet
	negative   lexicon.WordSet
	recency    lexicon.WordSet

	commitment    lexicon.WordSet
	bioCompletion lexicon.WordSet
	newsProgress  lexicon.WordSet
	newsDone      lexicon.WordSet

	legislative lexicon.WordSet
	billName    *regexp.Regexp
	billStatus  []lexicon.Group
	billRoles   []lexicon.KeywordGroup

	votePattern *regexp.Regexp
	voteMarkers []string

	controversy []keywordMatcher

	classifier *policy.Classifier
	now        func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock overrides the clock used for undated headlines.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// New compiles the lexicon's tables into an Analyzer. The lexicon must have
// passed Validate.
func New(lex *lexicon.Lexicon, opts ...Option) *Analyzer {
	a := &Analyzer{
		former:        lexicon.NewWordSet(lex.FormerMarkers),
		focusAreas:    lexicon.CompileGroups(lex.FocusAreas),
		categories:    lexicon.CompileGroups(lex.ActivityCategories),
		positive:      lexicon.NewWordSet(lex.Sentiment.Positive),
		negative:      lexicon.NewWordSet(lex.Sentiment.Negative),
		recency:       lexicon.NewWordSet(lex.RecencyMarkers),
		commitment:    lexicon.NewWordSet(lex.Commitment),
		bioCompletion: lexicon.NewWordSet(lex.BiographyCompletion),
		newsProgress:  lexicon.NewWordSet(lex.NewsProgress),
		newsDone:      lexicon.NewWordSet(lex.NewsCompletion),
		legislative:   lexicon.NewWordSet(lex.Legislative),
		billName:      regexp.MustCompile(lex.BillNamePattern),
		billStatus:    lexicon.CompileGroups(lex.BillStatus),
		billRoles:     lex.BillRoles,
		votePattern:   regexp.MustCompile(lex.VotePattern),
		classifier:    policy.NewClassifier(lex),
		now:           time.Now,
	}

	for _, p := range lex.Party.Patterns {
		a.partyPatterns = append(a.partyPatterns, regexp.MustCompile(p))
	}
	for _, s := range lex.Spectrum {
		a.spectrum = append(a.spectrum, spectrum{
			label:     s.Label,
			alignment: s.Alignment,
			words:     lexicon.NewWordSet(s.Keywords),
		})
	}
	for _, cat := range lex.Positions {
		a.positions = append(a.positions, positionTier{
			formerPrefix: cat.FormerPrefix,
			titles:       compileTitles(cat.Titles),
		})
	}
	for _, c := range lex.Countries {
		a.countries = append(a.countries, countryTitles{
			names:  lexicon.NewWordSet(c.Names),
			titles: compileTitles(c.Titles),
		})
	}
	for _, tp := range lex.TermPatterns {
		a.terms = append(a.terms, termPattern{re: regexp.MustCompile(tp.Pattern), format: tp.Format})
	}
	for _, m := range lex.VoteMarkers {
		a.voteMarkers = append(a.voteMarkers, strings.ToLower(m))
	}
	for _, w := range lex.Controversy {
		a.controversy = append(a.controversy, keywordMatcher{word: w, words: lexicon.NewWordSet([]string{w})})
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func compileTitles(titles []lexicon.Title) []titleMatcher {
	out := make([]titleMatcher, len(titles))
	for i, t := range titles {
		out[i] = titleMatcher{words: lexicon.NewWordSet([]string{t.Keyword}), title: t.Title}
	}
	return out
}

// Name implements engine.Strategy.
func (a *Analyzer) Name() string { return StrategyName }

// Analyze builds a report from raw data. It never returns an error.
func (a *Analyzer) Analyze(_ context.Context, name string, raw model.RawData) (*model.Report, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(raw.Wikipedia.Title)
	}
	bio := raw.Wikipedia
	info := a.BasicInfo(name, bio)
	activities := a.Activities(name, bio, raw.News)

	report := &model.Report{
		Politician:    name,
		Party:         info.Party,
		Position:      info.Position,
		TermPeriod:    info.TermPeriod,
		Summary:       info.Summary,
		Activities:    activities,
		Promises:      a.Promises(name, bio, raw.News),
		Bills:         a.Bills(name, bio, activities),
		VotingRecord:  a.VotingPattern(name, bio),
		Controversies: a.Controversies(name, bio, raw.News),
	}
	report.Cap()
	return report, nil
}

// ClassifyPolicyArea exposes the analyzer's policy-area classifier.
func (a *Analyzer) ClassifyPolicyArea(text string) model.PolicyArea {
	return a.classifier.Classify(text)
}
