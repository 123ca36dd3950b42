package lexicon

import (
	"regexp"
	"strings"
)

// WordSet matches whole keywords case-insensitively. Multi-word keywords
// tolerate any run of whitespace between words.
type WordSet struct {
	words []string
	res   []*regexp.Regexp
}

// NewWordSet compiles a matcher for the given keywords, preserving order.
func NewWordSet(words []string) WordSet {
	ws := WordSet{
		words: make([]string, 0, len(words)),
		res:   make([]*regexp.Regexp, 0, len(words)),
	}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		ws.words = append(ws.words, w)
		ws.res = append(ws.res, compileWord(w))
	}
	return ws
}

func compileWord(w string) *regexp.Regexp {
	parts := strings.Fields(w)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(parts, `\s+`) + `\b`)
}

// Any reports whether any keyword occurs in text.
func (ws WordSet) Any(text string) bool {
	for _, re := range ws.res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Count returns how many distinct keywords occur in text.
func (ws WordSet) Count(text string) int {
	n := 0
	for _, re := range ws.res {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// First returns the first keyword, in table order, that occurs in text.
func (ws WordSet) First(text string) (string, bool) {
	for i, re := range ws.res {
		if re.MatchString(text) {
			return ws.words[i], true
		}
	}
	return "", false
}

// Words returns the keywords in table order.
func (ws WordSet) Words() []string {
	return append([]string(nil), ws.words...)
}

// Len returns the number of keywords.
func (ws WordSet) Len() int {
	return len(ws.words)
}

// Group is a compiled KeywordGroup.
type Group struct {
	Label string
	Words WordSet
}

// CompileGroups compiles labelled keyword groups, preserving order.
func CompileGroups(groups []KeywordGroup) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Label: g.Label, Words: NewWordSet(g.Keywords)}
	}
	return out
}

// FirstGroup returns the label of the first group with a hit in text.
func FirstGroup(groups []Group, text string) (string, bool) {
	for _, g := range groups {
		if g.Words.Any(text) {
			return g.Label, true
		}
	}
	return "", false
}
