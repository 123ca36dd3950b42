package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/database"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/generative"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/pipeline"
)

type stubRunner struct {
	report *model.Report
	err    error
	panic  any
	names  []string
}

func (s *stubRunner) Run(_ context.Context, name string, _ pipeline.Options) *pipeline.Result {
	if s.panic != nil {
		panic(s.panic)
	}
	s.names = append(s.names, name)
	return &pipeline.Result{Name: name, Report: s.report, Err: s.err, Duration: 1200 * time.Millisecond}
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func sampleReport() *model.Report {
	return &model.Report{
		Politician:   "Jane Doe",
		Party:        "Green Party",
		Position:     "Senator",
		TermPeriod:   "Current",
		Activities:   []model.Activity{},
		Promises:     []model.Promise{},
		Bills:        []model.Bill{},
		VotingRecord: model.VotingRecord{KeyVotes: []model.KeyVote{}, Alignment: model.AlignmentModerate},
		DataSources:  []string{"Wikipedia"},
		Strategy:     "heuristic",
	}
}

func newTestServer(t *testing.T, runner Runner, history History) *Server {
	t.Helper()
	srv, err := New(runner, history, nil)
	require.NoError(t, err)
	return srv
}

func serve(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body model.ErrorResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body.Error
}

func TestAnalyzeRoute(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := newTestServer(t, runner, nil)

	rec := serve(srv, "GET", "/analyze?name=Jane+Doe")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var got model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.Politician)
	assert.Equal(t, "heuristic", got.Strategy)
	assert.Equal(t, []string{"Jane Doe"}, runner.names)
}

func TestAnalyzeRequiresName(t *testing.T) {
	runner := &stubRunner{report: sampleReport()}
	srv := newTestServer(t, runner, nil)

	for _, target := range []string{"/analyze", "/analyze?name=", "/analyze?name=%20%20"} {
		rec := serve(srv, "GET", target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "Politician name is required.", decodeError(t, rec), target)
	}
	assert.Empty(t, runner.names, "runner is not called without a name")
}

func TestAnalyzeErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "configuration",
			err:    &generative.ConfigurationError{Provider: "Groq", CredentialEnv: "GROQ_API_KEY"},
			status: http.StatusInternalServerError,
			msg:    "Groq API key not configured. Please set GROQ_API_KEY in the environment.",
		},
		{
			name:   "parse",
			err:    &generative.ParseError{},
			status: http.StatusInternalServerError,
			msg:    "Failed to parse AI analysis",
		},
		{
			name:   "timeout",
			err:    &generative.UpstreamCallError{Err: context.DeadlineExceeded},
			status: http.StatusGatewayTimeout,
			msg:    "An error occurred while communicating with the AI model: context deadline exceeded",
		},
		{
			name:   "other",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			msg:    "boom",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &stubRunner{err: tc.err}, nil)
			rec := serve(srv, "GET", "/analyze?name=Jane")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decodeError(t, rec))
		})
	}
}

func TestAnalyzePanicRecovered(t *testing.T) {
	srv := newTestServer(t, &stubRunner{panic: "nil map"}, nil)

	rec := serve(srv, "GET", "/analyze?name=Jane")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred: nil map", decodeError(t, rec))
}

func TestAnalyzePreflight(t *testing.T) {
	srv := newTestServer(t, &stubRunner{report: sampleReport()}, nil)

	rec := serve(srv, "OPTIONS", "/analyze")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubRunner{report: sampleReport()}, nil)
	rec := serve(srv, "POST", "/analyze?name=Jane")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIndexRoute(t *testing.T) {
	db := openTestDB(t)
	_, err := db.InsertQuery(database.QueryRecord{Name: "Jane Doe", Strategy: "heuristic", PromiseCount: 2, FulfillmentRate: ptr("50.0%")})
	require.NoError(t, err)
	_, err = db.InsertQuery(database.QueryRecord{Name: "Sam Roe", Strategy: "generative", Outcome: database.OutcomeError, ErrorMessage: ptr("Failed to parse AI analysis")})
	require.NoError(t, err)
	srv := newTestServer(t, &stubRunner{}, db)

	rec := serve(srv, "GET", "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{"Recent Queries", "Jane Doe", "50.0%", "Sam Roe", "failed"} {
		assert.Contains(t, body, want)
	}
}

func TestIndexWithoutHistory(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, nil)
	rec := serve(srv, "GET", "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No queries yet")
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, nil)
	rec := serve(srv, "GET", "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportRoute(t *testing.T) {
	srv := newTestServer(t, &stubRunner{report: sampleReport()}, nil)

	rec := serve(srv, "GET", "/report?name=Jane+Doe")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Jane Doe</h1>")
	assert.Contains(t, body, "<strong>Party:</strong> Green Party")
	assert.Contains(t, body, "1.2s")
}

func TestReportRouteError(t *testing.T) {
	srv := newTestServer(t, &stubRunner{err: &generative.UpstreamCallError{Err: context.DeadlineExceeded}}, nil)

	rec := serve(srv, "GET", "/report?name=Jane")

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "communicating with the AI model")
}

func TestReportRouteRedirectsWithoutName(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, nil)
	rec := serve(srv, "GET", "/report")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestStaticRoute(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, nil)

	rec := serve(srv, "GET", "/static/style.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "font-sans")
}

func TestServeShutsDown(t *testing.T) {
	srv := newTestServer(t, &stubRunner{}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, "127.0.0.1", 0, nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
