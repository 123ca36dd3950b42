package generative

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

type mockProvider struct {
	configured bool
	response   string
	err        error
	calls      int
	prompt     string
	checkCtx   context.Context
}

func (m *mockProvider) Generate(_ context.Context, prompt string, _ int) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockProvider) IsConfigured(ctx context.Context) bool {
	m.checkCtx = ctx
	return m.configured
}

const sampleResponse = "```json\n" + `{
  "politician": "Jane Doe",
  "party": "Green Party",
  "position": "Senator",
  "term_period": 2019,
  "summary": "A senator.",
  "activities": [
    {"activity": "Introduced a climate bill", "date": "2024-03", "category": "Legislation", "impact": "Positive", "details": "Passed committee."},
    {"activity": "", "date": "2024-01"}
  ],
  "promises": [
    {"promise": "Expand coverage", "status": "fulfilled", "fulfillment_percentage": "45%"},
    {"promise": "Cut taxes", "status": "broken"},
    {"promise": "Build rail", "status": "in_progress", "fulfillment_percentage": 140},
    {"promise": "Fund schools", "status": "weird", "fulfillment_percentage": null}
  ],
  "bills": [
    {"title": "Clean Energy Act", "year": 2021, "status": "Passed", "role": "Sponsor", "impact_area": "environment"},
    {"title": "Hospital Funding Bill", "year": "2022", "impact_area": "Health stuff"}
  ],
  "promise_analysis": {"total_promises_tracked": 99, "fulfilled_count": 99},
  "voting_record_summary": {"key_votes": {"issue": "Climate accord", "position": "For", "year": 2015}, "alignment": "Centrist"},
  "controversies": [{"issue": "Funding dispute", "year": "2020", "resolution": "Dismissed"}],
  "data_sources": ["Wikipedia", "News"]
}` + "\n```"

func newTestAnalyzer(p *mockProvider) *Analyzer {
	return New(p, lexicon.Default(), WithCredential("Groq", "GROQ_API_KEY"))
}

func TestAnalyzeMissingCredential(t *testing.T) {
	p := &mockProvider{configured: false}
	a := newTestAnalyzer(p)

	r, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{})
	assert.Nil(t, r)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Groq API key not configured. Please set GROQ_API_KEY in the environment.", err.Error())
	assert.Zero(t, p.calls)
}

func TestAnalyzeNilProvider(t *testing.T) {
	a := New(nil, lexicon.Default())

	_, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.False(t, a.Configured(context.Background()))
}

type ctxKey struct{}

func TestAnalyzeChecksProviderWithRequestContext(t *testing.T) {
	p := &mockProvider{configured: true, response: sampleResponse}
	a := newTestAnalyzer(p)

	ctx := context.WithValue(context.Background(), ctxKey{}, "request")
	_, err := a.Analyze(ctx, "Jane Doe", model.RawData{})
	require.NoError(t, err)

	require.NotNil(t, p.checkCtx)
	assert.Equal(t, "request", p.checkCtx.Value(ctxKey{}))
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	cause := errors.New("429 rate limited")
	a := newTestAnalyzer(&mockProvider{configured: true, err: cause})

	_, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{})

	var upErr *UpstreamCallError
	require.ErrorAs(t, err, &upErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "An error occurred while communicating with the AI model: 429 rate limited", err.Error())
	assert.False(t, upErr.Timeout())
}

func TestAnalyzeUpstreamTimeout(t *testing.T) {
	a := newTestAnalyzer(&mockProvider{configured: true, err: context.DeadlineExceeded})

	_, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{})

	var upErr *UpstreamCallError
	require.ErrorAs(t, err, &upErr)
	assert.True(t, upErr.Timeout())
}

func TestAnalyzeParseError(t *testing.T) {
	for _, resp := range []string{"I cannot help with that.", "{}", `["a", "b"]`, `{"party": {"nested": true}}`} {
		t.Run(resp, func(t *testing.T) {
			a := newTestAnalyzer(&mockProvider{configured: true, response: resp})

			_, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{})

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "Failed to parse AI analysis", err.Error())
			assert.NotContains(t, err.Error(), resp)
		})
	}
}

func TestAnalyzeRepairsResponse(t *testing.T) {
	p := &mockProvider{configured: true, response: sampleResponse}
	a := newTestAnalyzer(p)

	r, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{
		Wikipedia: model.BiographyRecord{Extract: "Jane Doe is a senator."},
		News:      []model.NewsItem{{Title: "Jane Doe speaks", Description: "On climate."}},
	})
	require.NoError(t, err)

	assert.Contains(t, p.prompt, `"Jane Doe"`)
	assert.Contains(t, p.prompt, "Jane Doe is a senator.")
	assert.Contains(t, p.prompt, "- Jane Doe speaks: On climate.")

	assert.Equal(t, "Green Party", r.Party)
	assert.Equal(t, "2019", r.TermPeriod)

	require.Len(t, r.Activities, 1)
	assert.Equal(t, model.ImpactPositive, r.Activities[0].Impact)

	require.Len(t, r.Promises, 4)
	require.NotNil(t, r.Promises[0].FulfillmentPercentage)
	assert.Equal(t, 45, *r.Promises[0].FulfillmentPercentage)
	assert.Equal(t, model.StatusInProgress, r.Promises[0].Status)
	assert.Nil(t, r.Promises[1].FulfillmentPercentage)
	assert.Equal(t, model.StatusNotFulfilled, r.Promises[1].Status)
	assert.Equal(t, 100, *r.Promises[2].FulfillmentPercentage)
	assert.Equal(t, model.StatusFulfilled, r.Promises[2].Status)
	assert.Equal(t, model.StatusNotFulfilled, r.Promises[3].Status)

	require.Len(t, r.Bills, 2)
	assert.Equal(t, "2021", r.Bills[0].Year)
	assert.Equal(t, "N/A", r.Bills[0].BillNumber)
	assert.Equal(t, model.AreaEnvironment, r.Bills[0].ImpactArea)
	assert.Equal(t, model.AreaHealthcare, r.Bills[1].ImpactArea)
	assert.Equal(t, model.BillUnknown, r.Bills[1].Status)
	assert.Equal(t, model.RoleInvolved, r.Bills[1].Role)

	assert.Equal(t, model.AlignmentModerate, r.VotingRecord.Alignment)
	require.Len(t, r.VotingRecord.KeyVotes, 1)
	assert.Equal(t, "2015", r.VotingRecord.KeyVotes[0].Year)

	assert.Nil(t, r.PromiseMetrics)
	assert.Equal(t, []string{"Wikipedia", "News"}, r.DataSources)
}

func TestAnalyzeDefaultsAndCaps(t *testing.T) {
	resp := `{"summary": "Sparse.", "activities": [` +
		`{"activity":"a"},{"activity":"b"},{"activity":"c"},{"activity":"d"},` +
		`{"activity":"e"},{"activity":"f"},{"activity":"g"},{"activity":"h"}]}`
	a := newTestAnalyzer(&mockProvider{configured: true, response: resp})

	r, err := a.Analyze(context.Background(), "Jane Doe", model.RawData{})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", r.Politician)
	assert.Equal(t, "Unknown", r.Party)
	assert.Equal(t, "Political Figure", r.Position)
	assert.Equal(t, "N/A", r.TermPeriod)
	assert.Len(t, r.Activities, model.MaxActivities)
	assert.Equal(t, model.CategoryGeneralActivity, r.Activities[0].Category)
	assert.NotNil(t, r.Promises)
	assert.NotNil(t, r.Bills)
	assert.NotNil(t, r.Controversies)
	assert.NotNil(t, r.VotingRecord.KeyVotes)
}

func TestBuildPromptWithoutData(t *testing.T) {
	prompt := BuildPrompt("Sam Roe", model.RawData{})
	assert.Contains(t, prompt, "Biography: No biography available.")
	assert.Contains(t, prompt, "- none")
}

func TestNormalizeAlignment(t *testing.T) {
	tests := map[string]string{
		"Progressive":            model.AlignmentProgressive,
		"left-leaning liberal":   model.AlignmentProgressive,
		"Conservative":           model.AlignmentConservative,
		"centre-right":           model.AlignmentConservative,
		"centrist":               model.AlignmentModerate,
		"":                       model.AlignmentModerate,
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeAlignment(in), in)
	}
}
