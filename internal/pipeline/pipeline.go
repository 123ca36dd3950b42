package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/config"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/database"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/engine"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/fetch"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/generative"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/llm"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// DataSource supplies raw data for a name. *fetch.Fetcher implements it.
type DataSource interface {
	GetData(ctx context.Context, name string) model.RawData
	Refresh(ctx context.Context, name string) model.RawData
}

// Analyzer turns raw data into a report. *engine.Engine implements it.
type Analyzer interface {
	Analyze(ctx context.Context, name string, raw model.RawData) (*model.Report, error)
	StrategyName() string
}

// QueryLog records finished queries. *database.DB implements it.
type QueryLog interface {
	InsertQuery(rec database.QueryRecord) (string, error)
}

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the outcome of one query.
type Result struct {
	Name     string
	Report   *model.Report
	Err      error
	Steps    []StepResult
	Duration time.Duration
}

// Pipeline runs fetch, analyze and record for one politician at a time.
type Pipeline struct {
	source   DataSource
	analyzer Analyzer
	log      QueryLog
	logger   *zap.Logger
}

// New creates a pipeline. log may be nil to skip recording.
func New(source DataSource, analyzer Analyzer, log QueryLog, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{source: source, analyzer: analyzer, log: log, logger: logger}
}

// Build wires a pipeline from configuration. strategy overrides
// cfg.Analysis.Strategy when non-empty. db may be nil.
func Build(ctx context.Context, cfg *config.Config, db *database.DB, strategy string, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	lex := lexicon.Default()
	if cfg.Analysis.LexiconPath != "" {
		var err error
		lex, err = lexicon.Load(cfg.Analysis.LexiconPath)
		if err != nil {
			return nil, err
		}
	}

	llmCfg := cfg.LLM
	provider, err := llm.CreateProvider(ctx, llm.Options{
		Provider:    llmCfg.Provider,
		Model:       llmCfg.Model,
		BaseURL:     llmCfg.BaseURL,
		OllamaURL:   llmCfg.OllamaURL,
		APIKey:      config.Credential(llmCfg.APIKeyEnv),
		Temperature: llmCfg.Temperature,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating llm provider: %w", err)
	}

	if strategy == "" {
		strategy = cfg.Analysis.Strategy
	}
	credentialEnv := llmCfg.APIKeyEnv
	if strings.EqualFold(llmCfg.Provider, "ollama") {
		credentialEnv = ""
	}
	genOpts := []generative.Option{
		generative.WithMaxTokens(llmCfg.MaxTokens),
		generative.WithCredential(providerLabel(llmCfg.Provider), credentialEnv),
	}
	strat, err := engine.Select(ctx, strategy, provider, lex, genOpts, logger)
	if err != nil {
		return nil, err
	}
	eng := engine.New(strat, lex, engine.WithTimeout(cfg.Analysis.Timeout), engine.WithLogger(logger))

	var store fetch.SnapshotStore
	var qlog QueryLog
	if db != nil {
		store = db
		qlog = db
	}
	fetcher := fetch.NewFetcher(cfg, store, logger)

	return New(fetcher, eng, qlog, logger), nil
}

// StrategyName returns the analysis strategy in use.
func (p *Pipeline) StrategyName() string { return p.analyzer.StrategyName() }

// Options tune a single run.
type Options struct {
	// NoCache fetches from the network even when a fresh snapshot exists.
	NoCache bool
}

// Run analyzes one politician.
func (p *Pipeline) Run(ctx context.Context, name string, opts Options) *Result {
	start := time.Now()
	name = strings.TrimSpace(name)
	r := &Result{Name: name}

	// Step 1: Fetch
	p.logger.Debug("step 1/3: fetching sources", zap.String("name", name))
	var raw model.RawData
	if opts.NoCache {
		raw = p.source.Refresh(ctx, name)
	} else {
		raw = p.source.GetData(ctx, name)
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Fetch",
		Summary: fmt.Sprintf("Biography: %d chars, %d news articles", len(raw.Wikipedia.Extract), len(raw.News)),
	})

	// Step 2: Analyze
	p.logger.Debug("step 2/3: analyzing", zap.String("name", name), zap.String("strategy", p.analyzer.StrategyName()))
	report, err := p.analyzer.Analyze(ctx, name, raw)
	if err != nil {
		r.Err = err
		r.Steps = append(r.Steps, StepResult{Name: "Analyze", Err: err})
	} else {
		r.Report = report
		r.Steps = append(r.Steps, StepResult{
			Name: "Analyze",
			Summary: fmt.Sprintf("%d activities, %d promises, %d bills (%s)",
				len(report.Activities), len(report.Promises), len(report.Bills), report.Strategy),
		})
	}
	r.Duration = time.Since(start)

	// Step 3: Record
	if p.log != nil {
		r.Steps = append(r.Steps, p.record(r))
	}
	return r
}

func (p *Pipeline) record(r *Result) StepResult {
	rec := database.QueryRecord{
		Name:     r.Name,
		Strategy: p.analyzer.StrategyName(),
		Outcome:  database.OutcomeOK,
		Duration: r.Duration,
	}
	if r.Err != nil {
		msg := r.Err.Error()
		rec.Outcome = database.OutcomeError
		rec.ErrorMessage = &msg
	}
	if r.Report != nil {
		rec.PromiseCount = len(r.Report.Promises)
		if m := r.Report.PromiseMetrics; m != nil {
			rate := m.CalculatedFulfillmentRate
			rec.FulfillmentRate = &rate
		}
	}

	id, err := p.log.InsertQuery(rec)
	if err != nil {
		p.logger.Warn("recording query failed", zap.String("name", r.Name), zap.Error(err))
		return StepResult{Name: "Record", Err: err}
	}
	return StepResult{Name: "Record", Summary: "Logged query " + id}
}

func providerLabel(provider string) string {
	switch strings.ToLower(provider) {
	case "", "groq":
		return "Groq"
	case "openai":
		return "OpenAI"
	case "ollama":
		return "Ollama"
	case "gemini":
		return "Gemini"
	default:
		return provider
	}
}
