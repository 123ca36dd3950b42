// Package metrics derives aggregate promise statistics. The numbers are
// always recomputed from the promise list and never trusted from upstream.
package metrics

import (
	"fmt"
	"math"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
	"github.com/TobiSchelling/PoliticianAnalyzer/internal/policy"
)

const maxAreas = 3

// Rate buckets for the summary descriptor.
const (
	strongAbove   = 60.0
	moderateAbove = 30.0
)

// Calculator computes PromiseMetrics. It is pure and safe for concurrent use.
type Calculator struct {
	classifier *policy.Classifier
}

// NewCalculator creates a calculator that tags areas with the given classifier.
func NewCalculator(classifier *policy.Classifier) *Calculator {
	return &Calculator{classifier: classifier}
}

// Apply replaces the report's metrics with ones computed from its promises.
func (c *Calculator) Apply(r *model.Report) {
	r.PromiseMetrics = c.Calculate(r.Promises)
}

// Calculate returns metrics for promises, or nil when there are none.
func (c *Calculator) Calculate(promises []model.Promise) *model.PromiseMetrics {
	if len(promises) == 0 {
		return nil
	}

	m := &model.PromiseMetrics{
		TotalPromisesTracked: len(promises),
		StrongestAreas:       []string{},
		WeakestAreas:         []string{},
	}

	var strong, weak areaSet
	var pctSum, pctCount int
	for _, p := range promises {
		switch p.Status {
		case model.StatusFulfilled:
			m.FulfilledCount++
		case model.StatusPartiallyFulfilled:
			m.PartiallyFulfilledCount++
		case model.StatusInProgress:
			m.InProgressCount++
		default:
			m.NotFulfilledCount++
		}

		switch p.Status {
		case model.StatusFulfilled, model.StatusPartiallyFulfilled:
			strong.add(c.classifier.Classify(p.Promise))
		case model.StatusNotFulfilled:
			weak.add(c.classifier.Classify(p.Promise))
		}

		if p.FulfillmentPercentage != nil {
			pctSum += *p.FulfillmentPercentage
			pctCount++
		}
	}

	rate := FulfillmentRate(m.FulfilledCount, m.PartiallyFulfilledCount, m.TotalPromisesTracked)
	m.CalculatedFulfillmentRate = FormatRate(rate)
	m.StrongestAreas = append(m.StrongestAreas, strong.list...)
	m.WeakestAreas = append(m.WeakestAreas, weak.list...)
	if pctCount > 0 {
		avg := round1(float64(pctSum) / float64(pctCount))
		m.AverageFulfillmentPercentage = &avg
	}
	m.AnalysisSummary = summarize(m, rate)
	return m
}

// FulfillmentRate is 100 * (fulfilled + 0.5*partial) / total, rounded to one decimal.
func FulfillmentRate(fulfilled, partial, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(100 * (float64(fulfilled) + 0.5*float64(partial)) / float64(total))
}

// FormatRate renders a rate the way reports carry it, e.g. "50.0%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate)
}

// Descriptor buckets a fulfillment rate into a qualitative word.
func Descriptor(rate float64) string {
	switch {
	case rate > strongAbove:
		return "strong"
	case rate > moderateAbove:
		return "moderate"
	default:
		return "developing"
	}
}

func summarize(m *model.PromiseMetrics, rate float64) string {
	return fmt.Sprintf(
		"Of %d tracked promises, %d were fulfilled and %d partially fulfilled, giving a calculated fulfillment rate of %s. This points to a %s record of delivering on stated commitments.",
		m.TotalPromisesTracked, m.FulfilledCount, m.PartiallyFulfilledCount,
		m.CalculatedFulfillmentRate, Descriptor(rate),
	)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// areaSet keeps first-seen order, skips GeneralPolicy and stops at maxAreas.
type areaSet struct {
	list []string
}

func (s *areaSet) add(a model.PolicyArea) {
	if a == model.AreaGeneralPolicy || len(s.list) >= maxAreas {
		return
	}
	for _, existing := range s.list {
		if existing == string(a) {
			return
		}
	}
	s.list = append(s.list, string(a))
}
