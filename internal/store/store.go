package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/valpere/perekladach/internal"
)

// Store is an append-only journal of delivered translations. It is never
// consulted before a request is issued.
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
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translation_history (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		service_name TEXT NOT NULL,
		latency_ms INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_pair ON translation_history(source_lang, target_lang);
	CREATE INDEX IF NOT EXISTS idx_history_created ON translation_history(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record appends a translation. Missing ID and timestamp are filled in.
func (s *Store) Record(ctx context.Context, t internal.Translation) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO translation_history (id, source_text, source_lang, target_lang, translated_text, service_name, latency_ms, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, normalizeText(t.SourceText), t.SourceLang, t.TargetLang, t.TranslatedText, t.Service, t.Latency.Milliseconds(), t.Timestamp)
	return err
}

// Filter narrows List. Empty fields match everything; Limit <= 0 means no limit.
type Filter struct {
	SourceLang string
	TargetLang string
	Limit      int
}

// List returns history entries, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]internal.Translation, error) {
	q := sq.Select("id", "source_text", "source_lang", "target_lang", "translated_text", "service_name", "latency_ms", "created_at").
		From("translation_history").
		OrderBy("created_at DESC", "id")

	if f.SourceLang != "" {
		q = q.Where(sq.Eq{"source_lang": f.SourceLang})
	}
	if f.TargetLang != "" {
		q = q.Where(sq.Eq{"target_lang": f.TargetLang})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []internal.Translation
	for rows.Next() {
		var e internal.Translation
		var latencyMs int64
		if err := rows.Scan(&e.ID, &e.SourceText, &e.SourceLang, &e.TargetLang, &e.TranslatedText, &e.Service, &latencyMs, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Latency = time.Duration(latencyMs) * time.Millisecond
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Delete removes one history entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_history WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("history entry not found: %s", id)
	}
	return nil
}

// Clear removes all history entries.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM translation_history`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// PairCount is the number of history entries for one language pair.
type PairCount struct {
	SourceLang string
	TargetLang string
	Count      int
}

// Stats summarises the history journal.
type Stats struct {
	TotalEntries int
	AvgLatency   time.Duration
	Pairs        []PairCount
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var avgMs float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(latency_ms), 0) FROM translation_history`).Scan(&stats.TotalEntries, &avgMs)
	if err != nil {
		return nil, err
	}
	stats.AvgLatency = time.Duration(avgMs * float64(time.Millisecond))

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_lang, target_lang, COUNT(*) FROM translation_history GROUP BY source_lang, target_lang ORDER BY COUNT(*) DESC, source_lang, target_lang`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p PairCount
		if err := rows.Scan(&p.SourceLang, &p.TargetLang, &p.Count); err != nil {
			return nil, err
		}
		stats.Pairs = append(stats.Pairs, p)
	}

	return stats, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
