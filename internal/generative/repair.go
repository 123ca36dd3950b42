package generative

import (
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const (
	unknownParty    = "Unknown"
	defaultPosition = "Political Figure"
	unknownTerm     = "N/A"
	noBillNumber    = "N/A"
)

func orDefault(s flexString, def string) string {
	if v := strings.TrimSpace(string(s)); v != "" {
		return v
	}
	return def
}

// repair converts the decoded response into a Report with every field
// defaulted, statuses normalized and lists capped.
func (a *Analyzer) repair(name string, w *wireReport) *model.Report {
	r := &model.Report{
		Politician:    orDefault(w.Politician, name),
		Party:         orDefault(w.Party, unknownParty),
		Position:      orDefault(w.Position, defaultPosition),
		TermPeriod:    orDefault(w.TermPeriod, unknownTerm),
		Summary:       string(w.Summary),
		Activities:    make([]model.Activity, 0, len(w.Activities)),
		Promises:      make([]model.Promise, 0, len(w.Promises)),
		Bills:         make([]model.Bill, 0, len(w.Bills)),
		Controversies: make([]model.Controversy, 0, len(w.Controversies)),
		VotingRecord: model.VotingRecord{
			KeyVotes:  make([]model.KeyVote, 0, len(w.VotingRecord.KeyVotes)),
			Alignment: normalizeAlignment(string(w.VotingRecord.Alignment)),
		},
	}

	for _, act := range w.Activities {
		if act.Activity == "" {
			continue
		}
		r.Activities = append(r.Activities, model.Activity{
			Activity: string(act.Activity),
			Date:     string(act.Date),
			Category: orDefault(act.Category, model.CategoryGeneralActivity),
			Impact:   normalizeImpact(string(act.Impact)),
			Details:  string(act.Details),
		})
	}

	for _, p := range w.Promises {
		if p.Promise == "" {
			continue
		}
		r.Promises = append(r.Promises, repairPromise(p))
	}

	for _, b := range w.Bills {
		if b.Title == "" {
			continue
		}
		area := model.ParsePolicyArea(string(b.ImpactArea))
		if area == model.AreaGeneralPolicy {
			area = a.classifier.Classify(string(b.Title) + " " + string(b.Description))
		}
		r.Bills = append(r.Bills, model.Bill{
			Title:       string(b.Title),
			BillNumber:  orDefault(b.BillNumber, noBillNumber),
			Year:        string(b.Year),
			Description: string(b.Description),
			Status:      orDefault(b.Status, model.BillUnknown),
			Role:        orDefault(b.Role, model.RoleInvolved),
			ImpactArea:  area,
		})
	}

	for _, v := range w.VotingRecord.KeyVotes {
		if v.Issue == "" {
			continue
		}
		r.VotingRecord.KeyVotes = append(r.VotingRecord.KeyVotes, model.KeyVote{
			Issue:    string(v.Issue),
			Position: string(v.Position),
			Year:     string(v.Year),
		})
	}

	for _, c := range w.Controversies {
		if c.Issue == "" {
			continue
		}
		r.Controversies = append(r.Controversies, model.Controversy{
			Issue:      string(c.Issue),
			Year:       string(c.Year),
			Resolution: string(c.Resolution),
		})
	}

	for _, s := range w.DataSources {
		if s != "" {
			r.DataSources = append(r.DataSources, string(s))
		}
	}

	r.Cap()
	return r
}

// repairPromise keeps status and percentage consistent. A present
// percentage is clamped to 0-100 and decides the status; otherwise the
// stated status is normalized and the percentage stays absent.
func repairPromise(p wirePromise) model.Promise {
	out := model.Promise{
		Promise:    string(p.Promise),
		MadeDuring: string(p.MadeDuring),
		Evidence:   string(p.Evidence),
		Timeline:   string(p.Timeline),
		Impact:     string(p.Impact),
	}
	if p.FulfillmentPercentage.Set {
		pct := min(max(p.FulfillmentPercentage.Value, 0), 100)
		out.FulfillmentPercentage = &pct
		out.Status = model.StatusForScore(pct)
		return out
	}
	out.Status, _ = model.ParseStatus(string(p.Status))
	return out
}

func normalizeImpact(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return model.ImpactPositive
	case "controversial", "negative":
		return model.ImpactControversial
	default:
		return model.ImpactNeutral
	}
}

func normalizeAlignment(s string) string {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "progressive"), strings.Contains(s, "liberal"), strings.Contains(s, "left"):
		return model.AlignmentProgressive
	case strings.Contains(s, "conservative"), strings.Contains(s, "right"):
		return model.AlignmentConservative
	default:
		return model.AlignmentModerate
	}
}
