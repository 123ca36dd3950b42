package compose

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

var statusLabels = map[model.Status]string{
	model.StatusFulfilled:          "Fulfilled",
	model.StatusPartiallyFulfilled: "Partially fulfilled",
	model.StatusInProgress:         "In progress",
	model.StatusNotFulfilled:       "Not fulfilled",
}

// StatusLabel returns the display form of a promise status.
func StatusLabel(s model.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Markdown renders a report as a Markdown document.
func Markdown(r *model.Report) string {
	if r == nil {
		return ""
	}

	sections := []string{header(r)}
	sections = append(sections, promiseSection(r))
	if len(r.Activities) > 0 {
		sections = append(sections, activitySection(r.Activities))
	}
	if len(r.Bills) > 0 {
		sections = append(sections, billSection(r.Bills))
	}
	sections = append(sections, votingSection(r.VotingRecord))
	if len(r.Controversies) > 0 {
		sections = append(sections, controversySection(r.Controversies))
	}
	if len(r.DataSources) > 0 {
		sections = append(sections, fmt.Sprintf("*Sources: %s. Analysis mode: %s.*",
			strings.Join(r.DataSources, ", "), r.Strategy))
	}

	return strings.Join(sections, "\n\n---\n\n") + "\n"
}

func header(r *model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Politician)
	fmt.Fprintf(&b, "**Party:** %s  \n", r.Party)
	fmt.Fprintf(&b, "**Position:** %s  \n", r.Position)
	fmt.Fprintf(&b, "**Term:** %s", r.TermPeriod)
	if r.Summary != "" {
		fmt.Fprintf(&b, "\n\n%s", r.Summary)
	}
	return b.String()
}

func promiseSection(r *model.Report) string {
	var b strings.Builder
	b.WriteString("## Promises")

	if m := r.PromiseMetrics; m != nil {
		fmt.Fprintf(&b, "\n\n**Fulfillment rate:** %s (%d tracked: %d fulfilled, %d partial, %d in progress, %d not fulfilled)",
			m.CalculatedFulfillmentRate, m.TotalPromisesTracked, m.FulfilledCount,
			m.PartiallyFulfilledCount, m.InProgressCount, m.NotFulfilledCount)
		if len(m.StrongestAreas) > 0 {
			fmt.Fprintf(&b, "\n\n**Strongest areas:** %s", strings.Join(m.StrongestAreas, ", "))
		}
		if len(m.WeakestAreas) > 0 {
			fmt.Fprintf(&b, "\n\n**Weakest areas:** %s", strings.Join(m.WeakestAreas, ", "))
		}
		if m.AnalysisSummary != "" {
			fmt.Fprintf(&b, "\n\n%s", m.AnalysisSummary)
		}
	}

	if len(r.Promises) == 0 {
		b.WriteString("\n\nNo promises identified.")
		return b.String()
	}

	b.WriteString("\n\n| Promise | Status | Fulfillment | Impact |\n|---|---|---|---|")
	for _, p := range r.Promises {
		score := "n/a"
		if p.FulfillmentPercentage != nil {
			score = fmt.Sprintf("%d%%", *p.FulfillmentPercentage)
		}
		fmt.Fprintf(&b, "\n| %s | %s | %s | %s |", cell(p.Promise), StatusLabel(p.Status), score, cell(p.Impact))
	}
	return b.String()
}

func activitySection(activities []model.Activity) string {
	lines := []string{"## Recent Activities", ""}
	for _, a := range activities {
		line := fmt.Sprintf("- **%s** (%s, %s, %s)", a.Activity, a.Date, a.Category, a.Impact)
		if a.Details != "" {
			line += ": " + a.Details
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func billSection(bills []model.Bill) string {
	var b strings.Builder
	b.WriteString("## Legislation\n\n| Bill | Number | Year | Status | Role | Area |\n|---|---|---|---|---|---|")
	for _, bill := range bills {
		fmt.Fprintf(&b, "\n| %s | %s | %s | %s | %s | %s |",
			cell(bill.Title), bill.BillNumber, bill.Year, bill.Status, bill.Role, bill.ImpactArea)
	}
	return b.String()
}

func votingSection(v model.VotingRecord) string {
	lines := []string{"## Voting Record", "", fmt.Sprintf("**Alignment:** %s", v.Alignment)}
	if len(v.KeyVotes) > 0 {
		lines = append(lines, "")
		for _, kv := range v.KeyVotes {
			lines = append(lines, fmt.Sprintf("- %s: %s (%s)", kv.Issue, kv.Position, kv.Year))
		}
	}
	return strings.Join(lines, "\n")
}

func controversySection(items []model.Controversy) string {
	lines := []string{"## Controversies", ""}
	for _, c := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s", c.Issue, c.Year, c.Resolution))
	}
	return strings.Join(lines, "\n")
}

// cell makes text safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
