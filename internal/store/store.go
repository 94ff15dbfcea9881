// Package store is the sqlite-backed translation memory. Identical cue text
// translated with the same model and prompt is served from the memory on
// later runs instead of being sent to the remote service again.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sql.Open is lazy; force the file open so a bad path fails here.
	if err := db.Ping(); err != nil {
		db.Close()
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
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		model TEXT NOT NULL,
		cue_count INTEGER NOT NULL,
		merged_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cue_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		model TEXT NOT NULL,
		prompt_hash TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		service_used TEXT,
		usage_count INTEGER DEFAULT 1,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, model, prompt_hash)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON cue_memory(source_text, model, prompt_hash);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Run records one pipeline invocation.
type Run struct {
	ID          string
	InputFile   string
	OutputFile  string
	Model       string
	CueCount    int
	MergedCount int
}

func (s *Store) SaveRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, output_file, model, cue_count, merged_count) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputFile, run.OutputFile, run.Model, run.CueCount, run.MergedCount)
	return err
}

// GetCached looks up a cue translation and bumps its usage counters on a hit.
func (s *Store) GetCached(ctx context.Context, sourceText, model, promptHash string) (string, bool, error) {
	key := normalizeText(sourceText)

	var id, translated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, translated_text FROM cue_memory WHERE source_text = ? AND model = ? AND prompt_hash = ?`,
		key, model, promptHash).Scan(&id, &translated)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	_, _ = s.db.ExecContext(ctx,
		`UPDATE cue_memory SET usage_count = usage_count + 1, last_used = ? WHERE id = ?`,
		time.Now(), id)
	return translated, true, nil
}

// SaveCue stores (or refreshes) one cue's translation.
func (s *Store) SaveCue(ctx context.Context, sourceText, model, promptHash, translatedText, serviceUsed string) error {
	key := normalizeText(sourceText)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cue_memory (id, source_text, model, prompt_hash, translated_text, service_used)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_text, model, prompt_hash)
		 DO UPDATE SET translated_text = excluded.translated_text, service_used = excluded.service_used, last_used = CURRENT_TIMESTAMP`,
		uuid.New().String(), key, model, promptHash, translatedText, serviceUsed)
	return err
}

// MemoryEntry is one row of the translation memory as shown by `cache list`.
type MemoryEntry struct {
	ID             string
	SourceText     string
	Model          string
	TranslatedText string
	ServiceUsed    string
	UsageCount     int
	LastUsed       time.Time
}

// ListMemory returns all entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, model, translated_text, COALESCE(service_used, ''), usage_count, last_used
		 FROM cue_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		if err := rows.Scan(&e.ID, &e.SourceText, &e.Model, &e.TranslatedText, &e.ServiceUsed, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheStats summarizes the translation memory.
type CacheStats struct {
	TotalEntries int
	TotalUsage   int
	Models       int
}

func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(usage_count), 0), COUNT(DISTINCT model)
		FROM cue_memory`).Scan(&stats.TotalEntries, &stats.TotalUsage, &stats.Models)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteMemory permanently removes one entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cue_memory WHERE id = ?`, id)
	return err
}

// ClearMemory removes all entries and returns how many were deleted.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cue_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PromptHash keys the memory on the exact system prompt so edits to the
// instructions invalidate cached translations.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(normalizeText(prompt)))
	return hex.EncodeToString(sum[:8])
}

// normalizeText trims whitespace and applies Unicode NFC normalization for
// consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
