package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/ottava/internal"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS compose_requests (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		topic_kind TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- compose_attempts records every assessed draft of a run, in order.
	CREATE TABLE IF NOT EXISTS compose_attempts (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		attempt INTEGER NOT NULL,
		poem_text TEXT NOT NULL,
		validation_json TEXT NOT NULL,
		passed BOOLEAN NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES compose_requests(id)
	);

	CREATE TABLE IF NOT EXISTS compose_outcomes (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL,
		state TEXT NOT NULL,
		poem_text TEXT NOT NULL,
		repair_attempts INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (request_id) REFERENCES compose_requests(id)
	);

	-- poem_memory caches accepted poems by topic so a repeat request can
	-- skip the pipeline entirely.
	CREATE TABLE IF NOT EXISTS poem_memory (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		poem_text TEXT NOT NULL,
		line_count INTEGER NOT NULL,
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(topic)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_topic ON poem_memory(topic);
	CREATE INDEX IF NOT EXISTS idx_attempts_request ON compose_attempts(request_id);
	CREATE INDEX IF NOT EXISTS idx_outcomes_request ON compose_outcomes(request_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) SaveRequest(ctx context.Context, req internal.ComposeRequest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compose_requests (id, topic, topic_kind, created_at) VALUES (?, ?, ?, ?)`,
		req.ID, req.Topic, req.TopicKind, req.Timestamp)
	return err
}

// SaveAttempt persists one assessed draft. attempt is zero-based in run
// order; validationJSON is the serialized assessment.
func (s *Store) SaveAttempt(ctx context.Context, requestID string, attempt int, poemText, validationJSON string, passed bool) error {
	id := fmt.Sprintf("%s_a%d", requestID, attempt)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compose_attempts (id, request_id, attempt, poem_text, validation_json, passed) VALUES (?, ?, ?, ?, ?, ?)`,
		id, requestID, attempt, poemText, validationJSON, passed)
	return err
}

// SaveOutcome persists the terminal state of a run, including best-effort
// poems from runs that did not converge.
func (s *Store) SaveOutcome(ctx context.Context, requestID, state, poemText string, repairAttempts int) error {
	id := fmt.Sprintf("%s_final", requestID)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compose_outcomes (id, request_id, state, poem_text, repair_attempts) VALUES (?, ?, ?, ?, ?)`,
		id, requestID, state, poemText, repairAttempts)
	return err
}

// GetCachedPoem returns the accepted poem for a topic, bumping its usage
// counter on a hit. Invalidated entries miss.
func (s *Store) GetCachedPoem(ctx context.Context, topic string) (string, bool, error) {
	var poemText string
	var invalidated bool

	err := s.db.QueryRowContext(ctx,
		`SELECT poem_text, invalidated FROM poem_memory WHERE topic = ?`,
		normalizeTopic(topic)).Scan(&poemText, &invalidated)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if invalidated {
		return "", false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE poem_memory SET usage_count = usage_count + 1, last_used = ? WHERE topic = ?`,
		time.Now(), normalizeTopic(topic))

	return poemText, true, err
}

// SaveToMemory stores an accepted poem for its topic, replacing any prior
// entry.
func (s *Store) SaveToMemory(ctx context.Context, topic, poemText string, lineCount int) error {
	id := fmt.Sprintf("mem_%d", time.Now().UnixNano())
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO poem_memory (id, topic, poem_text, line_count, usage_count, invalidated, last_used, created_at) VALUES (?, ?, ?, ?, 1, FALSE, ?, ?)`,
		id, normalizeTopic(topic), poemText, lineCount, time.Now(), time.Now())
	return err
}

// MemoryEntry is a row from the poem_memory table.
type MemoryEntry struct {
	ID          string
	Topic       string
	PoemText    string
	LineCount   int
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// CacheStats summarises poem memory usage.
type CacheStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE poem_memory SET invalidated = TRUE WHERE id = ?`, id)
	return err
}

// DeleteMemory permanently removes a poem memory entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM poem_memory WHERE id = ?`, id)
	return err
}

// ClearMemory removes all poem memory entries.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM poem_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all poem memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, poem_text, line_count, usage_count, invalidated, last_used FROM poem_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.Topic, &e.PoemText, &e.LineCount, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the poem memory.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM poem_memory`).Scan(
		&stats.TotalEntries,
		&stats.ActiveEntries,
		&stats.InvalidEntries,
		&stats.TotalUsage,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeTopic trims whitespace, lowercases, and applies Unicode NFC
// normalization for consistent cache key comparison.
func normalizeTopic(topic string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(topic)))
}
