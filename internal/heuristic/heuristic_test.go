package heuristic

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

var fixedNow = time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(lexicon.Default(), WithClock(func() time.Time { return fixedNow }))
}

func bio(extract string) model.BiographyRecord {
	return model.BiographyRecord{Extract: extract, Title: "Test"}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)

	r, err := a.Analyze(context.Background(), "Nobody", model.RawData{})
	require.NoError(t, err)

	assert.Equal(t, "Nobody", r.Politician)
	assert.Equal(t, "Unknown", r.Party)
	assert.Equal(t, "Political Figure", r.Position)
	assert.Equal(t, "N/A", r.TermPeriod)
	assert.NotNil(t, r.Activities)
	assert.NotNil(t, r.Promises)
	assert.NotNil(t, r.Bills)
	assert.NotNil(t, r.Controversies)
	assert.NotNil(t, r.VotingRecord.KeyVotes)
	assert.Empty(t, r.Activities)
	assert.Empty(t, r.Promises)
	assert.Empty(t, r.Bills)
	assert.Empty(t, r.Controversies)
	assert.Equal(t, model.AlignmentModerate, r.VotingRecord.Alignment)
}

func TestAnalyzeBlankNameUsesTitle(t *testing.T) {
	a := newTestAnalyzer(t)

	r, err := a.Analyze(context.Background(), "  ", model.RawData{
		Wikipedia: model.BiographyRecord{Title: "Jane Doe"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", r.Politician)
}

func TestAnalyzeJaneDoe(t *testing.T) {
	a := newTestAnalyzer(t)
	raw := model.RawData{
		Wikipedia: bio("Jane Doe is a senator who has passed healthcare legislation and pledged to expand coverage."),
	}

	r, err := a.Analyze(context.Background(), "Jane Doe", raw)
	require.NoError(t, err)

	assert.Contains(t, r.Position, "Senator")
	assert.Equal(t, "Unknown", r.Party)
	assert.Equal(t,
		"Jane Doe holds the role of Senator and has no clearly identified party affiliation, focusing on healthcare.",
		r.Summary)

	require.Len(t, r.Promises, 1)
	p := r.Promises[0]
	assert.Contains(t, p.Promise, "pledged to expand coverage")
	require.NotNil(t, p.FulfillmentPercentage)
	assert.Equal(t, 0, *p.FulfillmentPercentage)
	assert.Equal(t, model.StatusNotFulfilled, p.Status)
	assert.Equal(t, "Affects Healthcare", p.Impact)

	assert.Empty(t, r.Bills)
	assert.Empty(t, r.Activities)
}

func TestBasicInfoParty(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name    string
		extract string
		want    string
	}{
		{"explicit membership", "She is a member of the Democratic Party.", "Democratic Party"},
		{"party member phrase", "He is a Labour party member from Leeds.", "Labour Party"},
		{"spectrum keyword", "A conservative politician from Ohio.", "Right Political Party"},
		{"centrist keyword", "An independent candidate.", "Center Political Party"},
		{"nothing", "A person from Ohio.", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.BasicInfo("X", bio(tt.extract))
			assert.Equal(t, tt.want, got.Party)
		})
	}
}

func TestBasicInfoPosition(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name    string
		extract string
		want    string
	}{
		{"executive", "She is the president of the republic.", "President"},
		{"former executive", "He was the 46th president of the United States.", "Former President"},
		{"legislature", "A senator from Delaware.", "Senator"},
		{"multi-word title", "She has served as a Member of Parliament.", "Member of Parliament"},
		{"regional", "The mayor of Springfield.", "Mayor"},
		{"country specific", "An American lawyer who served as attorney general.", "Attorney General"},
		{"no word fragments", "She studied representation theory.", "Political Figure"},
		{"default", "A writer.", "Political Figure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.BasicInfo("X", bio(tt.extract))
			assert.Equal(t, tt.want, got.Position)
		})
	}
}

func TestBasicInfoTermPeriod(t *testing.T) {
	a := newTestAnalyzer(t)

	assert.Equal(t, "2009-2017", a.BasicInfo("X", bio("Served 2009-2017 in office.")).TermPeriod)
	assert.Equal(t, "2021-present", a.BasicInfo("X", bio("In office 2021 – present.")).TermPeriod)
	assert.Equal(t, "2019-present", a.BasicInfo("X", bio("Mayor since 2019.")).TermPeriod)
	assert.Equal(t, "N/A", a.BasicInfo("X", bio("No dates here.")).TermPeriod)
}

func TestBasicInfoSummaryWithParty(t *testing.T) {
	a := newTestAnalyzer(t)

	info := a.BasicInfo("Sam Roe", bio("Sam Roe is a governor and a member of the Green Party who talks about climate and schools."))
	assert.Equal(t,
		"Sam Roe holds the role of Governor and is affiliated with the Green Party, focusing on environmental issues, education.",
		info.Summary)
}

func TestActivitiesFromNews(t *testing.T) {
	a := newTestAnalyzer(t)
	news := []model.NewsItem{
		{Title: "Jane Doe signs climate bill", Description: "The measure won broad support.", PublishedAt: "2024-03-05T10:00:00Z"},
		{Title: "Jane Doe faces protest at rally", Description: "", PublishedAt: ""},
		{Title: "Unrelated weather report", Description: "Rain expected.", PublishedAt: "2024-03-06T10:00:00Z"},
	}

	got := a.Activities("Jane Doe", model.BiographyRecord{}, news)
	require.Len(t, got, 2)

	assert.Equal(t, "2024-03", got[0].Date)
	assert.Equal(t, model.CategoryLegislation, got[0].Category)
	assert.Equal(t, model.ImpactPositive, got[0].Impact)
	assert.Equal(t, "The measure won broad support.", got[0].Details)

	assert.Equal(t, "2025-02", got[1].Date)
	assert.Equal(t, model.CategoryCampaign, got[1].Category)
	assert.Equal(t, model.ImpactControversial, got[1].Impact)
	assert.Equal(t, "No additional details available.", got[1].Details)
}

func TestActivitiesBiographyFallback(t *testing.T) {
	a := newTestAnalyzer(t)
	extract := "She was born in 1960. She studied law. She is currently serving a second term. She recently opened a clinic."

	got := a.Activities("Jane Doe", bio(extract), nil)
	require.Len(t, got, 2)
	for _, act := range got {
		assert.Equal(t, "2024", act.Date)
		assert.Equal(t, model.CategoryGeneralActivity, act.Category)
		assert.Equal(t, model.ImpactNeutral, act.Impact)
	}
	assert.Equal(t, "She is currently serving a second term", got[0].Activity)
}

func TestActivitiesOnlyReadFirstSixHeadlines(t *testing.T) {
	a := newTestAnalyzer(t)
	var news []model.NewsItem
	for i := range 6 {
		news = append(news, model.NewsItem{Title: fmt.Sprintf("Weather %d", i)})
	}
	news = append(news, model.NewsItem{Title: "Jane Doe speaks"})

	got := a.Activities("Jane Doe", model.BiographyRecord{}, news)
	assert.Empty(t, got)
}

func TestFulfillmentScore(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name      string
		promise   string
		biography string
		news      []model.NewsItem
		want      int
	}{
		{"nothing", "Expand healthcare coverage", "", nil, 0},
		{"biography completion anywhere", "Expand healthcare coverage", "She achieved a budget surplus.", nil, 40},
		{"progress headline", "Expand healthcare coverage", "", []model.NewsItem{
			{Title: "Healthcare talks show progress"},
		}, 20},
		{"completion headline", "Expand healthcare coverage", "", []model.NewsItem{
			{Title: "Coverage expansion completed"},
		}, 50},
		{"unrelated headline", "Expand healthcare coverage", "", []model.NewsItem{
			{Title: "Bridge work completed"},
		}, 0},
		{"capped", "Expand healthcare coverage", "Delivered on trade.", []model.NewsItem{
			{Title: "Healthcare progress", Description: "Work completed"},
			{Title: "Coverage delivered"},
		}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.FulfillmentScore(tt.promise, tt.biography, tt.news))
		})
	}
}

func TestPromisesFromNews(t *testing.T) {
	a := newTestAnalyzer(t)
	news := []model.NewsItem{
		{Title: "Governor pledges new school funding", Description: "Budget talks continue.", PublishedAt: "2024-05-01T08:00:00Z"},
	}

	got := a.Promises("Jane Doe", model.BiographyRecord{}, news)
	require.Len(t, got, 1)
	assert.Equal(t, "Governor pledges new school funding", got[0].Promise)
	assert.Equal(t, "News coverage (2024-05)", got[0].MadeDuring)
	assert.Equal(t, "Budget talks continue.", got[0].Evidence)
	assert.Equal(t, "Affects Education", got[0].Impact)
}

func TestPromisesBiographyLimit(t *testing.T) {
	a := newTestAnalyzer(t)
	extract := "She promised lower taxes. She pledged new roads. She will fix schools. She intends to build homes."

	got := a.Promises("Jane Doe", bio(extract), nil)
	require.Len(t, got, 3)
	assert.Equal(t, "She promised lower taxes", got[0].Promise)
	assert.Equal(t, "She will fix schools", got[2].Promise)
}

func TestBills(t *testing.T) {
	a := newTestAnalyzer(t)
	extract := "Jane Doe introduced the Clean Energy Act in 2015. " +
		"In 2018 the Fair Wages Bill was passed. " +
		"She talked about laws in general."
	activities := []model.Activity{
		{Activity: "Senate vote on hospital funding", Date: "2024-03", Category: model.CategoryLegislation, Details: "Passed narrowly."},
		{Activity: "Campaign stop", Date: "2024-04", Category: model.CategoryCampaign},
	}

	got := a.Bills("Jane Doe", bio(extract), activities)
	require.Len(t, got, 3)

	assert.Equal(t, model.Bill{
		Title:       "Clean Energy Act",
		BillNumber:  "N/A",
		Year:        "2015",
		Description: "Jane Doe introduced the Clean Energy Act in 2015",
		Status:      model.BillIntroduced,
		Role:        model.RoleSponsor,
		ImpactArea:  model.AreaEnvironment,
	}, got[0])

	assert.Equal(t, "Fair Wages Bill", got[1].Title)
	assert.Equal(t, model.BillPassed, got[1].Status)
	assert.Equal(t, model.RoleInvolved, got[1].Role)
	assert.Equal(t, model.AreaEconomy, got[1].ImpactArea)

	assert.Equal(t, "Senate vote on hospital funding", got[2].Title)
	assert.Equal(t, "2024", got[2].Year)
	assert.Equal(t, model.BillRecentActivity, got[2].Status)
	assert.Equal(t, model.AreaHealthcare, got[2].ImpactArea)
}

func TestVotingPattern(t *testing.T) {
	a := newTestAnalyzer(t)
	extract := "She is a progressive voice. She voted against the 2017 tax bill. She supported the climate accord in 2015."

	got := a.VotingPattern("Jane Doe", bio(extract))
	assert.Equal(t, model.AlignmentProgressive, got.Alignment)
	require.Len(t, got.KeyVotes, 2)
	assert.Equal(t, model.KeyVote{Issue: "voted against the 2017 tax bill", Position: "Voted", Year: "2017"}, got.KeyVotes[0])
	assert.Equal(t, model.KeyVote{Issue: "supported the climate accord in 2015", Position: "For", Year: "2015"}, got.KeyVotes[1])
}

func TestVotingPatternDefaults(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.VotingPattern("Jane Doe", bio("She likes gardening."))
	assert.Equal(t, model.AlignmentModerate, got.Alignment)
	assert.NotNil(t, got.KeyVotes)
	assert.Empty(t, got.KeyVotes)
}

func TestControversies(t *testing.T) {
	a := newTestAnalyzer(t)
	news := []model.NewsItem{
		{Title: "Senator faces investigation over funds", PublishedAt: "2023-06-01T00:00:00Z"},
		{Title: "Allegations surface", Description: "Details unclear."},
		{Title: "Senator opens library"},
	}
	extract := "In 2019 she faced criticism over a housing scandal. She won re-election."

	got := a.Controversies("Jane Doe", bio(extract), news)
	require.Len(t, got, 3)
	assert.Equal(t, model.Controversy{Issue: "Senator faces investigation over funds", Year: "2023", Resolution: "Ongoing news coverage"}, got[0])
	assert.Equal(t, "2025", got[1].Year)
	assert.Equal(t, model.Controversy{Issue: "In 2019 she faced criticism over a housing scandal", Year: "2019", Resolution: "Historical record"}, got[2])
}

func TestBiographyControversiesPerKeyword(t *testing.T) {
	a := newTestAnalyzer(t)
	extract := "A scandal hit in 2010. Another scandal broke in 2012. A third scandal followed in 2014. The scandal drew criticism in 2016."

	got := a.Controversies("Jane Doe", bio(extract), nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2010", "2012", "2016"}, []string{got[0].Year, got[1].Year, got[2].Year})
	for _, c := range got {
		assert.Equal(t, "Historical record", c.Resolution)
	}
}

func TestBiographySentenceCountsOnce(t *testing.T) {
	a := newTestAnalyzer(t)

	got := a.Controversies("Jane Doe", bio("The scandal was widely criticized in 2018."), nil)
	require.Len(t, got, 1)
	assert.Equal(t, "2018", got[0].Year)
}

func TestCapsHoldForLargeInput(t *testing.T) {
	a := newTestAnalyzer(t)

	var b strings.Builder
	for i := range 12 {
		fmt.Fprintf(&b, "Jane Doe pledged plan %d. ", i)
		fmt.Fprintf(&b, "Jane Doe introduced the Number%d Act in 20%02d. ", i, i)
		fmt.Fprintf(&b, "She voted for measure %d. ", i)
		fmt.Fprintf(&b, "A scandal number %d erupted. ", i)
	}
	var news []model.NewsItem
	for i := range 20 {
		news = append(news, model.NewsItem{
			Title:       fmt.Sprintf("Jane Doe will pass law %d amid scandal", i),
			PublishedAt: "2024-01-01T00:00:00Z",
		})
	}

	r, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{Wikipedia: bio(b.String()), News: news})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(r.Activities), model.MaxActivities)
	assert.LessOrEqual(t, len(r.Promises), model.MaxPromises)
	assert.LessOrEqual(t, len(r.Bills), model.MaxBills)
	assert.LessOrEqual(t, len(r.Controversies), model.MaxControversies)
	assert.LessOrEqual(t, len(r.VotingRecord.KeyVotes), model.MaxKeyVotes)
	assert.NotEmpty(t, r.Bills)

	for _, p := range r.Promises {
		require.NotNil(t, p.FulfillmentPercentage)
		assert.GreaterOrEqual(t, *p.FulfillmentPercentage, 0)
		assert.LessOrEqual(t, *p.FulfillmentPercentage, 100)
		assert.Equal(t, model.StatusForScore(*p.FulfillmentPercentage), p.Status)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	a := newTestAnalyzer(t)
	raw := model.RawData{
		Wikipedia: bio("Jane Doe is a senator who has passed healthcare legislation and pledged to expand coverage."),
		News:      []model.NewsItem{{Title: "Jane Doe announces tax plan", PublishedAt: "2024-02-01"}},
	}

	first, err := a.Analyze(context.Background(), "Jane Doe", raw)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), "Jane Doe", raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
