package heuristic

import (
	"fmt"
	"strings"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// Fulfillment score weights. Scores are additive and capped at maxScore.
const (
	bioCompletionWeight  = 40
	newsProgressWeight   = 20
	newsCompletionWeight = 50
	maxScore             = 100

	maxBioPromises = 3
	promiseKeyLen  = 3
)

// Promises collects commitments from the biography and headlines and
// scores each one.
func (a *Analyzer) Promises(name string, bio model.BiographyRecord, news []model.NewsItem) []model.Promise {
	promises := make([]model.Promise, 0)
	window := newsWindow(news)

	for _, s := range sentences(bio.Extract) {
		if len(promises) == maxBioPromises {
			break
		}
		if !a.commitment.Any(s) {
			continue
		}
		promises = append(promises, model.Promise{
			Promise:    s,
			MadeDuring: "Biographical record",
			Evidence:   "Commitment stated in the biography.",
			Timeline:   "Not specified",
		})
	}

	for _, item := range window {
		if !a.commitment.Any(newsText(item)) {
			continue
		}
		evidence := strings.TrimSpace(item.Description)
		if evidence == "" {
			evidence = noDetails
		}
		promises = append(promises, model.Promise{
			Promise:    item.Title,
			MadeDuring: fmt.Sprintf("News coverage (%s)", a.month(item.PublishedAt)),
			Evidence:   evidence,
			Timeline:   "Ongoing",
		})
	}

	if len(promises) > model.MaxPromises {
		promises = promises[:model.MaxPromises]
	}
	for i := range promises {
		p := &promises[i]
		score := a.FulfillmentScore(p.Promise, bio.Extract, window)
		p.FulfillmentPercentage = &score
		p.Status = model.StatusForScore(score)
		p.Impact = fmt.Sprintf("Affects %s", a.classifier.Classify(p.Promise))
	}
	return promises
}

// FulfillmentScore estimates how far a promise has been realised.
//
// The biography bonus fires when the biography mentions any completion at
// all, not only completion of this promise. Headlines count when they share
// any of the promise's first three words; the progress and completion
// bonuses are independent and accumulate across headlines.
func (a *Analyzer) FulfillmentScore(promise, biography string, news []model.NewsItem) int {
	score := 0
	if a.bioCompletion.Any(biography) {
		score += bioCompletionWeight
	}

	keys := leadingWords(promise, promiseKeyLen)
	for _, item := range news {
		text := strings.ToLower(newsText(item))
		if !containsAny(text, keys) {
			continue
		}
		if a.newsProgress.Any(text) {
			score += newsProgressWeight
		}
		if a.newsDone.Any(text) {
			score += newsCompletionWeight
		}
	}
	return min(score, maxScore)
}
