package generative

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// flexString accepts a JSON string, number or boolean.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = flexString(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*s = flexString(strconv.FormatBool(b))
	return nil
}

// flexInt accepts a number or a numeric string such as "75" or "75%".
// Unparseable values leave it unset.
type flexInt struct {
	Value int
	Set   bool
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	*n = flexInt{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		n.Value, n.Set = int(math.Round(f)), true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return nil
	}
	str = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(str), "%"))
	if f, err := strconv.ParseFloat(str, 64); err == nil {
		n.Value, n.Set = int(math.Round(f)), true
	}
	return nil
}

// flexList decodes an array, tolerating a single object or null.
type flexList[T any] []T

func (l *flexList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '{':
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*l = flexList[T]{one}
		return nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

type wireActivity struct {
	Activity flexString `json:"activity"`
	Date     flexString `json:"date"`
	Category flexString `json:"category"`
	Impact   flexString `json:"impact"`
	Details  flexString `json:"details"`
}

type wirePromise struct {
	Promise               flexString `json:"promise"`
	MadeDuring            flexString `json:"made_during"`
	Evidence              flexString `json:"evidence"`
	Timeline              flexString `json:"timeline"`
	Impact                flexString `json:"impact"`
	FulfillmentPercentage flexInt    `json:"fulfillment_percentage"`
	Status                flexString `json:"status"`
}

type wireBill struct {
	Title       flexString `json:"title"`
	BillNumber  flexString `json:"bill_number"`
	Year        flexString `json:"year"`
	Description flexString `json:"description"`
	Status      flexString `json:"status"`
	Role        flexString `json:"role"`
	ImpactArea  flexString `json:"impact_area"`
}

type wireKeyVote struct {
	Issue    flexString `json:"issue"`
	Position flexString `json:"position"`
	Year     flexString `json:"year"`
}

type wireVotingRecord struct {
	KeyVotes  flexList[wireKeyVote] `json:"key_votes"`
	Alignment flexString            `json:"alignment"`
}

type wireControversy struct {
	Issue      flexString `json:"issue"`
	Year       flexString `json:"year"`
	Resolution flexString `json:"resolution"`
}

// wireReport is the model's response shape. Any promise_analysis the model
// supplies is ignored; metrics are always recomputed.
type wireReport struct {
	Politician    flexString                `json:"politician"`
	Party         flexString                `json:"party"`
	Position      flexString                `json:"position"`
	TermPeriod    flexString                `json:"term_period"`
	Summary       flexString                `json:"summary"`
	Activities    flexList[wireActivity]    `json:"activities"`
	Promises      flexList[wirePromise]     `json:"promises"`
	Bills         flexList[wireBill]        `json:"bills"`
	VotingRecord  wireVotingRecord          `json:"voting_record_summary"`
	Controversies flexList[wireControversy] `json:"controversies"`
	DataSources   flexList[flexString]      `json:"data_sources"`
}
