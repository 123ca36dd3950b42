package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertQuery records one analysis. ID and CreatedAt are assigned when
// empty; the stored ID is returned.
func (db *DB) InsertQuery(rec QueryRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = db.timestamp()
	}
	if rec.Outcome == "" {
		rec.Outcome = OutcomeOK
	}

	_, err := db.conn.Exec(
		`INSERT INTO query_log (id, name, strategy, outcome, error_message, promise_count,
			fulfillment_rate, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Strategy, rec.Outcome, rec.ErrorMessage, rec.PromiseCount,
		rec.FulfillmentRate, rec.Duration.Milliseconds(), rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting query: %w", err)
	}
	return rec.ID, nil
}

// GetRecentQueries returns up to limit queries, newest first.
func (db *DB) GetRecentQueries(limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		`SELECT id, name, strategy, outcome, error_message, promise_count,
			fulfillment_rate, duration_ms, created_at
		FROM query_log ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QueryRecord
	for rows.Next() {
		var (
			rec        QueryRecord
			errMsg     sql.NullString
			rate       sql.NullString
			durationMs int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Strategy, &rec.Outcome, &errMsg,
			&rec.PromiseCount, &rate, &durationMs, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			rec.ErrorMessage = &errMsg.String
		}
		if rate.Valid {
			rec.FulfillmentRate = &rate.String
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetStats returns aggregate counts.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	queries := []struct {
		dest  *int
		query string
	}{
		{&s.Snapshots, "SELECT COUNT(*) FROM source_snapshots"},
		{&s.Queries, "SELECT COUNT(*) FROM query_log"},
		{&s.FailedQueries, "SELECT COUNT(*) FROM query_log WHERE outcome = 'error'"},
		{&s.DistinctNames, "SELECT COUNT(DISTINCT lower(name)) FROM query_log"},
	}
	for _, q := range queries {
		if err := db.conn.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("reading stats: %w", err)
		}
	}
	return s, nil
}
