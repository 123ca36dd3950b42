package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TobiSchelling/PoliticianAnalyzer/internal/model"
)

func snapshotKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SaveSnapshot stores the fetched data for name, replacing any older copy.
func (db *DB) SaveSnapshot(name string, data model.RawData) error {
	news := data.News
	if news == nil {
		news = []model.NewsItem{}
	}
	newsJSON, err := json.Marshal(news)
	if err != nil {
		return fmt.Errorf("encoding news: %w", err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO source_snapshots (name, title, extract, news_json, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			extract = excluded.extract,
			news_json = excluded.news_json,
			fetched_at = excluded.fetched_at`,
		snapshotKey(name), data.Wikipedia.Title, data.Wikipedia.Extract, string(newsJSON), db.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the snapshot for name if it is younger than maxAge,
// or nil when there is none.
func (db *DB) GetSnapshot(name string, maxAge time.Duration) (*Snapshot, error) {
	cutoff := db.now().Add(-maxAge).UTC().Format(timeLayout)

	var (
		title, extract, newsJSON, fetchedAt string
	)
	err := db.conn.QueryRow(
		`SELECT title, extract, news_json, fetched_at FROM source_snapshots
		WHERE name = ? AND fetched_at > ?`,
		snapshotKey(name), cutoff,
	).Scan(&title, &extract, &newsJSON, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	snap := &Snapshot{
		Name: snapshotKey(name),
		Data: model.RawData{
			Wikipedia: model.BiographyRecord{Title: title, Extract: extract},
			News:      []model.NewsItem{},
		},
	}
	if err := json.Unmarshal([]byte(newsJSON), &snap.Data.News); err != nil {
		return nil, fmt.Errorf("decoding news: %w", err)
	}
	if t, err := time.Parse(timeLayout, fetchedAt); err == nil {
		snap.FetchedAt = t
	}
	return snap, nil
}

// PurgeSnapshots deletes snapshots older than maxAge and returns how many
// were removed.
func (db *DB) PurgeSnapshots(maxAge time.Duration) (int64, error) {
	cutoff := db.now().Add(-maxAge).UTC().Format(timeLayout)
	res, err := db.conn.Exec("DELETE FROM source_snapshots WHERE fetched_at <= ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging snapshots: %w", err)
	}
	return res.RowsAffected()
}
