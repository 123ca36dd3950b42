package heuristic

import (
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

const noBillNumber = "N/A"

// Bills extracts named legislation from the biography and converts
// legislation-category activities into bill entries.
func (a *Analyzer) Bills(name string, bio model.BiographyRecord, activities []model.Activity) []model.Bill {
	bills := make([]model.Bill, 0)

	for _, s := range sentences(bio.Extract) {
		if !a.legislative.Any(s) {
			continue
		}
		m := a.billName.FindStringSubmatch(s)
		if len(m) < 2 {
			continue
		}
		bills = append(bills, model.Bill{
			Title:       strings.TrimSpace(m[1]),
			BillNumber:  noBillNumber,
			Year:        yearIn(s),
			Description: s,
			Status:      a.billStatusOf(s),
			Role:        billRole(a.billRoles, name, s),
			ImpactArea:  a.classifier.Classify(s),
		})
	}

	for _, act := range activities {
		if act.Category != model.CategoryLegislation {
			continue
		}
		year := defaultYear
		if len(act.Date) >= 4 {
			year = act.Date[:4]
		}
		bills = append(bills, model.Bill{
			Title:       act.Activity,
			BillNumber:  noBillNumber,
			Year:        year,
			Description: act.Details,
			Status:      model.BillRecentActivity,
			Role:        model.RoleInvolved,
			ImpactArea:  a.classifier.Classify(act.Activity + " " + act.Details),
		})
	}

	if len(bills) > model.MaxBills {
		bills = bills[:model.MaxBills]
	}
	return bills
}

func (a *Analyzer) billStatusOf(sentence string) string {
	if label, ok := lexicon.FirstGroup(a.billStatus, sentence); ok {
		return label
	}
	return model.BillUnknown
}

// billRole looks for "<name> <verb>" phrases such as "Jane Doe introduced".
func billRole(roles []lexicon.KeywordGroup, name, sentence string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return model.RoleInvolved
	}
	lower := strings.ToLower(sentence)
	for _, r := range roles {
		for _, verb := range r.Keywords {
			if strings.Contains(lower, name+" "+strings.ToLower(verb)) {
				return r.Label
			}
		}
	}
	return model.RoleInvolved
}
