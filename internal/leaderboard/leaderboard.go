// Package leaderboard persists completed-episode scores to Postgres. An
// entry records a seed, the agent (or "human") that produced the score,
// and the score itself.
package leaderboard

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Entry is one completed-episode record.
type Entry struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedEntry adds an entry's position within the top-results query.
type RankedEntry struct {
	Entry
	Rank int `json:"rank"`
}

// Board is the optional Postgres-backed top-scores store. A nil *Board
// (returned by New when no database URL is configured) is safe to call
// every method on: they become no-ops, keeping the leaderboard feature
// fully optional — the engine and session have no hard dependency on
// persistence.
type Board struct {
	db *sql.DB
}

// New opens the leaderboard database. An empty databaseURL disables the
// feature: New returns (nil, nil) rather than an error, since no
// SPEC_FULL.md component requires a leaderboard to run.
func New(databaseURL string) (*Board, error) {
	if databaseURL == "" {
		return nil, nil
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("leaderboard: ping: %w", err)
	}
	return &Board{db: db}, nil
}

// Close releases the underlying connection pool, if any.
func (b *Board) Close() error {
	if b == nil {
		return nil
	}
	return b.db.Close()
}

// RecordResult inserts one completed-episode score.
func (b *Board) RecordResult(player string, score int, seed int64) (*Entry, error) {
	if b == nil {
		return nil, nil
	}
	now := time.Now()
	var id int64
	row := b.db.QueryRow(
		"INSERT INTO leaderboard_entries (player, score, seed, created_at) VALUES ($1, $2, $3, $4) RETURNING id",
		player, score, seed, now,
	)
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("leaderboard: insert result: %w", err)
	}
	return &Entry{ID: id, Player: player, Score: score, Seed: seed, CreatedAt: now}, nil
}

// TopResults returns the top `limit` scores, ranked by score descending
// then earliest first on ties.
func (b *Board) TopResults(limit int) ([]RankedEntry, error) {
	if b == nil {
		return nil, nil
	}
	rows, err := b.db.Query(`
		SELECT id, player, score, seed, created_at,
		       ROW_NUMBER() OVER (ORDER BY score DESC, created_at ASC) AS rank
		FROM leaderboard_entries
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: query top results: %w", err)
	}
	defer rows.Close()

	var results []RankedEntry
	for rows.Next() {
		var e RankedEntry
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.Seed, &e.CreatedAt, &e.Rank); err != nil {
			return nil, fmt.Errorf("leaderboard: scan top result: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: iterate top results: %w", err)
	}
	return results, nil
}
