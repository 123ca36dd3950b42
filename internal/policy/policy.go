// Package policy tags free text with a coarse policy area.
package policy

import (
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// Classifier maps text to the first policy area whose keywords occur in it.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	groups []lexicon.Group
}

// NewClassifier compiles the lexicon's policy-area table.
func NewClassifier(lex *lexicon.Lexicon) *Classifier {
	return &Classifier{groups: lexicon.CompileGroups(lex.PolicyAreas)}
}

// Classify returns the policy area for text, or GeneralPolicy when nothing matches.
func (c *Classifier) Classify(text string) model.PolicyArea {
	label, ok := lexicon.FirstGroup(c.groups, text)
	if !ok {
		return model.AreaGeneralPolicy
	}
	return model.ParsePolicyArea(label)
}
