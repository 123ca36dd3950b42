package heuristic

import (
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// VotingPattern derives an alignment and up to three key votes from the biography.
func (a *Analyzer) VotingPattern(_ string, bio model.BiographyRecord) model.VotingRecord {
	record := model.VotingRecord{
		KeyVotes:  make([]model.KeyVote, 0),
		Alignment: model.AlignmentModerate,
	}
	for _, s := range a.spectrum {
		if s.words.Any(bio.Extract) {
			record.Alignment = s.alignment
			break
		}
	}

	var candidates []string
	for _, s := range sentences(bio.Extract) {
		if containsAny(strings.ToLower(s), a.voteMarkers) {
			candidates = append(candidates, s)
		}
		if len(candidates) == model.MaxKeyVotes {
			break
		}
	}

	for _, s := range candidates {
		m := a.votePattern.FindStringSubmatch(s)
		if len(m) < 3 {
			continue
		}
		position := "Voted"
		if strings.Contains(strings.ToLower(s), "support") {
			position = "For"
		}
		record.KeyVotes = append(record.KeyVotes, model.KeyVote{
			Issue:    strings.TrimSpace(m[1] + " " + m[2]),
			Position: position,
			Year:     yearIn(s),
		})
	}
	return record
}
