// Package generative delegates report writing to a remote text-generation
// model and repairs whatever comes back into a well-formed report.
package generative

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/llm"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/policy"
)

// StrategyName identifies reports produced by this package.
const StrategyName = "generative"

const defaultMaxTokens = 4096

// Analyzer is the generative strategy.
type Analyzer struct {
	provider      llm.Provider
	providerName  string
	credentialEnv string
	maxTokens     int
	classifier    *policy.Classifier
	logger        *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxTokens caps the length of the model's response.
func WithMaxTokens(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxTokens = n
		}
	}
}

// WithCredential names the provider and the environment variable holding
// its key, for error messages.
func WithCredential(providerName, env string) Option {
	return func(a *Analyzer) {
		a.providerName = providerName
		a.credentialEnv = env
	}
}

// New creates a generative analyzer. provider may be nil, in which case
// every call fails with a ConfigurationError.
func New(provider llm.Provider, lex *lexicon.Lexicon, opts ...Option) *Analyzer {
	a := &Analyzer{
		provider:     provider,
		providerName: "LLM",
		maxTokens:    defaultMaxTokens,
		classifier:   policy.NewClassifier(lex),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements engine.Strategy.
func (a *Analyzer) Name() string { return StrategyName }

// Configured reports whether the provider can be called.
func (a *Analyzer) Configured(ctx context.Context) bool {
	return a.provider != nil && a.provider.IsConfigured(ctx)
}

// Analyze asks the model for a report. Errors are *ConfigurationError,
// *UpstreamCallError or *ParseError.
func (a *Analyzer) Analyze(ctx context.Context, name string, raw model.RawData) (*model.Report, error) {
	if !a.Configured(ctx) {
		return nil, &ConfigurationError{Provider: a.providerName, CredentialEnv: a.credentialEnv}
	}

	start := time.Now()
	text, err := a.provider.Generate(ctx, BuildPrompt(name, raw), a.maxTokens)
	if err != nil {
		a.logger.Warn("model call failed", zap.String("politician", name), zap.Error(err))
		return nil, &UpstreamCallError{Err: err}
	}
	a.logger.Debug("model responded",
		zap.String("politician", name),
		zap.Int("bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	var w wireReport
	if err := llm.DecodeJSON(text, &w); err != nil {
		a.logger.Warn("unparseable model response", zap.String("politician", name), zap.Error(err))
		return nil, &ParseError{}
	}
	if w.empty() {
		a.logger.Warn("model response has no report fields", zap.String("politician", name))
		return nil, &ParseError{}
	}
	return a.repair(name, &w), nil
}

func (w *wireReport) empty() bool {
	return w.Politician == "" && w.Party == "" && w.Position == "" && w.Summary == "" &&
		len(w.Activities) == 0 && len(w.Promises) == 0 && len(w.Bills) == 0 &&
		len(w.Controversies) == 0 && len(w.VotingRecord.KeyVotes) == 0
}
