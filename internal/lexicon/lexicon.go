// Package lexicon holds the keyword and pattern tables the heuristic
// analyzer classifies text with. Tables are data, not code: the English
// defaults are embedded and a YAML file can replace any of them.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed en.yaml
var defaultYAML []byte

// KeywordGroup is a labelled keyword list. Groups are always evaluated in
// file order and the first group with a hit wins.
type KeywordGroup struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Spectrum is one left/center/right bucket.
type Spectrum struct {
	Label     string   `yaml:"label"`
	Alignment string   `yaml:"alignment"`
	Keywords  []string `yaml:"keywords"`
}

// Title maps a keyword found in text to the title reported for it.
type Title struct {
	Keyword string `yaml:"keyword"`
	Title   string `yaml:"title"`
}

// PositionCategory is a priority tier of office titles.
type PositionCategory struct {
	Category     string  `yaml:"category"`
	FormerPrefix bool    `yaml:"former_prefix"`
	Titles       []Title `yaml:"titles"`
}

// Country lists office titles specific to one country.
type Country struct {
	Names  []string `yaml:"names"`
	Titles []Title  `yaml:"titles"`
}

// TermPattern is a regular expression and the template its match expands to.
type TermPattern struct {
	Pattern string `yaml:"pattern"`
	Format  string `yaml:"format"`
}

// PartyRules holds the explicit party phrases, tried in order.
type PartyRules struct {
	Patterns []string `yaml:"patterns"`
}

// Sentiment holds the keyword lists used to judge an activity's impact.
type Sentiment struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// Lexicon is the full set of tables.
type Lexicon struct {
	Party               PartyRules         `yaml:"party"`
	Spectrum            []Spectrum         `yaml:"spectrum"`
	Positions           []PositionCategory `yaml:"positions"`
	FormerMarkers       []string           `yaml:"former_markers"`
	Countries           []Country          `yaml:"countries"`
	TermPatterns        []TermPattern      `yaml:"term_patterns"`
	FocusAreas          []KeywordGroup     `yaml:"focus_areas"`
	ActivityCategories  []KeywordGroup     `yaml:"activity_categories"`
	Sentiment           Sentiment          `yaml:"sentiment"`
	RecencyMarkers      []string           `yaml:"recency_markers"`
	Commitment          []string           `yaml:"commitment"`
	BiographyCompletion []string           `yaml:"biography_completion"`
	NewsProgress        []string           `yaml:"news_progress"`
	NewsCompletion      []string           `yaml:"news_completion"`
	Legislative         []string           `yaml:"legislative"`
	BillNamePattern     string             `yaml:"bill_name_pattern"`
	BillStatus          []KeywordGroup     `yaml:"bill_status"`
	BillRoles           []KeywordGroup     `yaml:"bill_roles"`
	VotePattern         string             `yaml:"vote_pattern"`
	VoteMarkers         []string           `yaml:"vote_markers"`
	Controversy         []string           `yaml:"controversy"`
	PolicyAreas         []KeywordGroup     `yaml:"policy_areas"`
}

// Default returns a fresh copy of the embedded English tables.
// It panics if the embedded file is malformed.
func Default() *Lexicon {
	lex, err := parse(nil)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded tables: %v", err))
	}
	return lex
}

// Load reads a YAML file whose top-level keys replace the matching
// default tables. Keys absent from the file keep their defaults.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return parse(data)
}

func parse(override []byte) (*Lexicon, error) {
	lex := &Lexicon{}
	if err := yaml.Unmarshal(defaultYAML, lex); err != nil {
		return nil, fmt.Errorf("parsing default lexicon: %w", err)
	}
	if len(override) > 0 {
		if err := yaml.Unmarshal(override, lex); err != nil {
			return nil, fmt.Errorf("parsing lexicon: %w", err)
		}
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// Validate checks that every pattern compiles and the required tables exist.
func (l *Lexicon) Validate() error {
	patterns := append([]string{}, l.Party.Patterns...)
	patterns = append(patterns, l.BillNamePattern, l.VotePattern)
	for _, tp := range l.TermPatterns {
		patterns = append(patterns, tp.Pattern)
	}
	for _, p := range patterns {
		if p == "" {
			return fmt.Errorf("lexicon: empty pattern")
		}
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("lexicon: pattern %q: %w", p, err)
		}
	}
	if len(l.PolicyAreas) == 0 {
		return fmt.Errorf("lexicon: policy_areas is empty")
	}
	if len(l.Positions) == 0 {
		return fmt.Errorf("lexicon: positions is empty")
	}
	return nil
}
