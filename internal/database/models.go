package database

import (
	"time"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

// Snapshot is cached source data for one politician.
type Snapshot struct {
	Name      string
	Data      model.RawData
	FetchedAt time.Time
}

// Query outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// QueryRecord is one entry in the query log.
type QueryRecord struct {
	ID              string
	Name            string
	Strategy        string
	Outcome         string
	ErrorMessage    *string
	PromiseCount    int
	FulfillmentRate *string
	Duration        time.Duration
	CreatedAt       string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Snapshots     int
	Queries       int
	FailedQueries int
	DistinctNames int
}
