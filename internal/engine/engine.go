// Package engine runs one analysis strategy per query and finishes every
// report the same way, whichever strategy wrote it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/generative"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/heuristic"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/lexicon"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/llm"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/metrics"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/policy"
)

// Strategy produces a report from fetched data.
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, name string, raw model.RawData) (*model.Report, error)
}

// Selection modes.
const (
	ModeHeuristic  = "heuristic"
	ModeGenerative = "generative"
	ModeAuto       = "auto"
)

// DataSources is the fixed list of source labels attached to every report.
var DataSources = []string{"Wikipedia", "NewsAPI", "News RSS feeds"}

const defaultTimeout = 60 * time.Second

// Engine wraps a strategy with a timeout and the final metrics pass.
type Engine struct {
	strategy   Strategy
	calculator *metrics.Calculator
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds each analysis. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine around strategy. The lexicon supplies the policy
// areas used by the metrics pass.
func New(strategy Strategy, lex *lexicon.Lexicon, opts ...Option) *Engine {
	e := &Engine{
		strategy:   strategy,
		calculator: metrics.NewCalculator(policy.NewClassifier(lex)),
		timeout:    defaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StrategyName returns the name of the wrapped strategy.
func (e *Engine) StrategyName() string { return e.strategy.Name() }

// Analyze runs the strategy under the engine timeout, labels the report
// and recomputes its promise metrics. A strategy that overruns the timeout
// fails with an *generative.UpstreamCallError wrapping
// context.DeadlineExceeded.
func (e *Engine) Analyze(ctx context.Context, name string, raw model.RawData) (*model.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	report, err := e.strategy.Analyze(ctx, name, raw)
	if err == nil && ctx.Err() != nil {
		err = &generative.UpstreamCallError{Err: ctx.Err()}
	}
	if err != nil {
		e.logger.Warn("analysis failed",
			zap.String("politician", name),
			zap.String("strategy", e.strategy.Name()),
			zap.Error(err))
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("strategy %s returned no report", e.strategy.Name())
	}

	report.Strategy = e.strategy.Name()
	report.DataSources = append([]string(nil), DataSources...)
	e.calculator.Apply(report)

	e.logger.Info("analysis complete",
		zap.String("politician", name),
		zap.String("strategy", report.Strategy),
		zap.Int("promises", len(report.Promises)),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// IsRetryable reports whether err is a timeout the caller may retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var upErr *generative.UpstreamCallError
	if errors.As(err, &upErr) {
		return upErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Select builds the strategy for mode. Auto picks the generative strategy
// when the provider is configured and the heuristic one otherwise.
func Select(ctx context.Context, mode string, provider llm.Provider, lex *lexicon.Lexicon, genOpts []generative.Option, logger *zap.Logger) (Strategy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := append(append([]generative.Option(nil), genOpts...), generative.WithLogger(logger))

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeHeuristic, "":
		return heuristic.New(lex), nil
	case ModeGenerative:
		return generative.New(provider, lex, opts...), nil
	case ModeAuto:
		gen := generative.New(provider, lex, opts...)
		if gen.Configured(ctx) {
			return gen, nil
		}
		logger.Info("no configured model provider, using heuristic analysis")
		return heuristic.New(lex), nil
	default:
		return nil, fmt.Errorf("unknown analysis strategy %q", mode)
	}
}
