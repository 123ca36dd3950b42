package model

// BiographyRecord is the biography snippet supplied by the fetch collaborator.
type BiographyRecord struct {
	Extract string `json:"extract"`
	Title   string `json:"title"`
}

// NewsItem is a single headline supplied by the fetch collaborator.
type NewsItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
}

// RawData is everything the engine gets to look at for one query.
type RawData struct {
	Wikipedia BiographyRecord `json:"wikipedia"`
	News      []NewsItem      `json:"news"`
}

// Activity categories.
const (
	CategoryLegislation      = "Legislation"
	CategoryCampaign         = "Campaign"
	CategoryDiplomacy        = "Diplomacy"
	CategoryPublicStatement  = "Public Statement"
	CategoryExecutiveAction  = "Executive Action"
	CategoryPolicyInitiative = "Policy Initiative"
	CategoryGeneralActivity  = "General Activity"
)

// Activity impacts.
const (
	ImpactPositive      = "positive"
	ImpactNeutral       = "neutral"
	ImpactControversial = "controversial"
)

// Activity is a recent action attributed to the politician.
type Activity struct {
	Activity string `json:"activity"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Impact   string `json:"impact"`
	Details  string `json:"details"`
}

// Promise is a commitment together with its fulfillment estimate.
// FulfillmentPercentage is nil only for generated promises that carried no score.
type Promise struct {
	Promise               string `json:"promise"`
	MadeDuring            string `json:"made_during"`
	Evidence              string `json:"evidence"`
	Timeline              string `json:"timeline"`
	Impact                string `json:"impact"`
	FulfillmentPercentage *int   `json:"fulfillment_percentage,omitempty"`
	Status                Status `json:"status"`
}

// Bill statuses produced by the heuristic extractor.
const (
	BillPassed         = "Passed"
	BillIntroduced     = "Introduced"
	BillFailed         = "Failed"
	BillUnknown        = "Unknown"
	BillRecentActivity = "Recent Activity"
)

// Bill roles.
const (
	RoleSponsor   = "Sponsor"
	RoleSupporter = "Supporter"
	RoleVoter     = "Voter"
	RoleInvolved  = "Involved"
)

// Bill is a piece of legislation associated with the politician.
type Bill struct {
	Title       string     `json:"title"`
	BillNumber  string     `json:"bill_number"`
	Year        string     `json:"year"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Role        string     `json:"role"`
	ImpactArea  PolicyArea `json:"impact_area"`
}

// Alignments.
const (
	AlignmentProgressive  = "progressive"
	AlignmentModerate     = "moderate"
	AlignmentConservative = "conservative"
)

// KeyVote is one recorded position.
type KeyVote struct {
	Issue    string `json:"issue"`
	Position string `json:"position"`
	Year     string `json:"year"`
}

// VotingRecord summarizes recorded positions and overall leaning.
type VotingRecord struct {
	KeyVotes  []KeyVote `json:"key_votes"`
	Alignment string    `json:"alignment"`
}

// Controversy is a reported dispute or allegation.
type Controversy struct {
	Issue      string `json:"issue"`
	Year       string `json:"year"`
	Resolution string `json:"resolution"`
}

// PromiseMetrics is derived from a promise list and never authored directly.
type PromiseMetrics struct {
	TotalPromisesTracked         int      `json:"total_promises_tracked"`
	FulfilledCount               int      `json:"fulfilled_count"`
	PartiallyFulfilledCount      int      `json:"partially_fulfilled_count"`
	InProgressCount              int      `json:"in_progress_count"`
	NotFulfilledCount            int      `json:"not_fulfilled_count"`
	CalculatedFulfillmentRate    string   `json:"calculated_fulfillment_rate"`
	StrongestAreas               []string `json:"strongest_areas"`
	WeakestAreas                 []string `json:"weakest_areas"`
	AverageFulfillmentPercentage *float64 `json:"average_fulfillment_percentage,omitempty"`
	AnalysisSummary              string   `json:"analysis_summary"`
}

// Report is the full answer to one query. It is built fresh for every query.
type Report struct {
	Politician     string          `json:"politician"`
	Party          string          `json:"party"`
	Position       string          `json:"position"`
	TermPeriod     string          `json:"term_period"`
	Summary        string          `json:"summary"`
	Activities     []Activity      `json:"activities"`
	Promises       []Promise       `json:"promises"`
	Bills          []Bill          `json:"bills"`
	PromiseMetrics *PromiseMetrics `json:"promise_analysis,omitempty"`
	VotingRecord   VotingRecord    `json:"voting_record_summary"`
	Controversies  []Controversy   `json:"controversies"`
	DataSources    []string        `json:"data_sources"`
	Strategy       string          `json:"analysis_mode"`
}

// Result caps.
const (
	MaxActivities    = 6
	MaxPromises      = 6
	MaxBills         = 5
	MaxControversies = 3
	MaxKeyVotes      = 3
)

// Cap truncates every list in the report to its maximum length.
func (r *Report) Cap() {
	if len(r.Activities) > MaxActivities {
		r.Activities = r.Activities[:MaxActivities]
	}
	if len(r.Promises) > MaxPromises {
		r.Promises = r.Promises[:MaxPromises]
	}
	if len(r.Bills) > MaxBills {
		r.Bills = r.Bills[:MaxBills]
	}
	if len(r.Controversies) > MaxControversies {
		r.Controversies = r.Controversies[:MaxControversies]
	}
	if len(r.VotingRecord.KeyVotes) > MaxKeyVotes {
		r.VotingRecord.KeyVotes = r.VotingRecord.KeyVotes[:MaxKeyVotes]
	}
}

// ErrorResult is the wire form of a failed analysis.
type ErrorResult struct {
	Error string `json:"error"`
}

// ErrorResultFrom converts an analysis error into its wire form.
func ErrorResultFrom(err error) ErrorResult {
	if err == nil {
		return ErrorResult{}
	}
	return ErrorResult{Error: err.Error()}
}
