package model

import (
	"encoding/json"
	"strings"
)

// Status is the fulfillment state of a promise.
type Status string

// Canonical promise statuses. "broken" is accepted on input as an alias of
// StatusNotFulfilled and never emitted.
const (
	StatusFulfilled          Status = "fulfilled"
	StatusPartiallyFulfilled Status = "partially_fulfilled"
	StatusInProgress         Status = "in_progress"
	StatusNotFulfilled       Status = "not_fulfilled"
)

// Score thresholds for status buckets.
const (
	FulfilledThreshold = 80
	PartialThreshold   = 60
	ProgressThreshold  = 30
)

// StatusForScore maps a fulfillment percentage to its status bucket.
func StatusForScore(score int) Status {
	switch {
	case score >= FulfilledThreshold:
		return StatusFulfilled
	case score >= PartialThreshold:
		return StatusPartiallyFulfilled
	case score >= ProgressThreshold:
		return StatusInProgress
	default:
		return StatusNotFulfilled
	}
}

// ParseStatus normalizes free-form status text. The second return is false
// when the text is not a recognised status.
func ParseStatus(s string) (Status, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "fulfilled", "kept", "completed":
		return StatusFulfilled, true
	case "partially_fulfilled", "partial", "partially":
		return StatusPartiallyFulfilled, true
	case "in_progress", "ongoing", "pending":
		return StatusInProgress, true
	case "not_fulfilled", "broken", "unfulfilled":
		return StatusNotFulfilled, true
	}
	return StatusNotFulfilled, false
}

// UnmarshalJSON accepts any spelling ParseStatus understands.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s, _ = ParseStatus(raw)
	return nil
}

// PolicyArea is a coarse topical bucket.
type PolicyArea string

// Policy areas.
const (
	AreaHealthcare     PolicyArea = "Healthcare"
	AreaEconomy        PolicyArea = "Economy"
	AreaEnvironment    PolicyArea = "Environment"
	AreaDefense        PolicyArea = "Defense"
	AreaEducation      PolicyArea = "Education"
	AreaInfrastructure PolicyArea = "Infrastructure"
	AreaSocialPolicy   PolicyArea = "Social Policy"
	AreaGeneralPolicy  PolicyArea = "General Policy"
)

// PolicyAreas lists every area in classification order, GeneralPolicy last.
var PolicyAreas = []PolicyArea{
	AreaHealthcare,
	AreaEconomy,
	AreaEnvironment,
	AreaDefense,
	AreaEducation,
	AreaInfrastructure,
	AreaSocialPolicy,
	AreaGeneralPolicy,
}

// ParsePolicyArea maps free-form text onto a known area, defaulting to GeneralPolicy.
func ParsePolicyArea(s string) PolicyArea {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, a := range PolicyAreas {
		if strings.ToLower(string(a)) == norm {
			return a
		}
	}
	if strings.ReplaceAll(norm, " ", "") == "socialpolicy" {
		return AreaSocialPolicy
	}
	return AreaGeneralPolicy
}
