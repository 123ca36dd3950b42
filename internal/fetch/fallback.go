package fetch

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

var fallbackBiographies = map[string]model.BiographyRecord{
	"joe biden": {
		Title:   "Joe Biden",
		Extract: "Joseph Robinette Biden Jr. is an American politician who is the 46th and current president of the United States. A member of the Democratic Party, he previously served as the 47th vice president from 2009 to 2017 under Barack Obama.",
	},
	"donald trump": {
		Title:   "Donald Trump",
		Extract: "Donald John Trump is an American politician, media personality, and businessman who served as the 45th president of the United States from 2017 to 2021.",
	},
	"kamala harris": {
		Title:   "Kamala Harris",
		Extract: "Kamala Devi Harris is an American politician and attorney who is the 49th and current vice president of the United States.",
	},
}

// FallbackBiography returns the built-in biography for name, or a
// placeholder record when none is known.
func FallbackBiography(name string) model.BiographyRecord {
	if bio, ok := fallbackBiographies[strings.ToLower(strings.TrimSpace(name))]; ok {
		return bio
	}
	return model.BiographyRecord{
		Title:   name,
		Extract: fmt.Sprintf("Political figure: %s. Please configure API keys for detailed information.", name),
	}
}
