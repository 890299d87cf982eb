package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

// dayLayout keys the exchange-rate cache by calendar day.
const dayLayout = "2006-01-02"

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
	CREATE TABLE IF NOT EXISTS exchange_rates (
		day TEXT NOT NULL,
		code TEXT NOT NULL,
		czk REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (day, code)
	);

	CREATE TABLE IF NOT EXISTS fix_memory (
		id TEXT PRIMARY KEY,
		source_text TEXT NOT NULL,
		target_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		mode TEXT NOT NULL,
		fixed_text TEXT NOT NULL,
		marks TEXT NOT NULL DEFAULT '',
		usage_count INTEGER DEFAULT 1,
		invalidated BOOLEAN DEFAULT FALSE,
		last_used TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(source_text, target_text, source_lang, target_lang, mode)
	);

	-- runs records one batch invocation
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input_file TEXT NOT NULL,
		output_file TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		mode TEXT NOT NULL,
		status TEXT DEFAULT 'running',
		pairs INTEGER DEFAULT 0,
		changed INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS run_marks (
		run_id TEXT NOT NULL,
		mark TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, mark),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_memory_lookup ON fix_memory(source_text, target_text, source_lang, target_lang, mode);
	CREATE INDEX IF NOT EXISTS idx_run_marks ON run_marks(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRates replaces the cached CZK values for day.
func (s *Store) SaveRates(ctx context.Context, day time.Time, czk map[string]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	key := day.Format(dayLayout)
	if _, err := tx.ExecContext(ctx, `DELETE FROM exchange_rates WHERE day = ?`, key); err != nil {
		return err
	}
	for code, v := range czk {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exchange_rates (day, code, czk) VALUES (?, ?, ?)`,
			key, strings.ToUpper(code), v); err != nil {
			return fmt.Errorf("failed to save rate %s: %w", code, err)
		}
	}
	return tx.Commit()
}

// GetRates returns the cached rates for day; found is false when the day was
// never saved.
func (s *Store) GetRates(ctx context.Context, day time.Time) (map[string]float64, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, czk FROM exchange_rates WHERE day = ?`, day.Format(dayLayout))
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var code string
		var v float64
		if err := rows.Scan(&code, &v); err != nil {
			return nil, false, err
		}
		rates[code] = v
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return rates, len(rates) > 0, nil
}

// FixKey identifies a pair in the fix memory. Texts are NFC-normalized
// before they are used as keys.
type FixKey struct {
	Source     string
	Target     string
	SourceLang string
	TargetLang string
	Mode       string
}

func (k FixKey) normalized() FixKey {
	k.Source = normalizeText(k.Source)
	k.Target = normalizeText(k.Target)
	return k
}

// MemoryEntry is a row from the fix_memory table.
type MemoryEntry struct {
	ID          string
	Key         FixKey
	FixedText   string
	Marks       []string
	UsageCount  int
	Invalidated bool
	LastUsed    time.Time
}

// CacheStats summarises fix memory usage.
type CacheStats struct {
	TotalEntries   int
	ActiveEntries  int
	InvalidEntries int
	TotalUsage     int
}

// GetCachedFix looks the pair up and bumps its usage count on a hit.
func (s *Store) GetCachedFix(ctx context.Context, key FixKey) (string, []string, bool, error) {
	k := key.normalized()

	var fixed, marks string
	var invalidated bool
	err := s.db.QueryRowContext(ctx,
		`SELECT fixed_text, marks, invalidated FROM fix_memory
		 WHERE source_text = ? AND target_text = ? AND source_lang = ? AND target_lang = ? AND mode = ?`,
		k.Source, k.Target, k.SourceLang, k.TargetLang, k.Mode).Scan(&fixed, &marks, &invalidated)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}
	if invalidated {
		return "", nil, false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE fix_memory SET usage_count = usage_count + 1, last_used = ?
		 WHERE source_text = ? AND target_text = ? AND source_lang = ? AND target_lang = ? AND mode = ?`,
		time.Now(), k.Source, k.Target, k.SourceLang, k.TargetLang, k.Mode)

	return fixed, splitMarks(marks), true, err
}

func (s *Store) SaveFix(ctx context.Context, key FixKey, fixed string, marks []string) error {
	k := key.normalized()
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fix_memory
		 (id, source_text, target_text, source_lang, target_lang, mode, fixed_text, marks, usage_count, invalidated, last_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, FALSE, ?, ?)`,
		uuid.NewString(), k.Source, k.Target, k.SourceLang, k.TargetLang, k.Mode,
		fixed, strings.Join(marks, ","), now, now)
	return err
}

func (s *Store) InvalidateMemory(ctx context.Context, id string) error {
	return s.execOne(ctx, `UPDATE fix_memory SET invalidated = TRUE WHERE id = ?`, id)
}

// DeleteMemory permanently removes a fix memory entry by ID.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	return s.execOne(ctx, `DELETE FROM fix_memory WHERE id = ?`, id)
}

// ClearMemory removes all fix memory entries.
func (s *Store) ClearMemory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fix_memory`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListMemory returns all fix memory entries ordered by most recently used.
func (s *Store) ListMemory(ctx context.Context) ([]MemoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_text, target_text, source_lang, target_lang, mode, fixed_text, marks, usage_count, invalidated, last_used
		 FROM fix_memory ORDER BY last_used DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []MemoryEntry
	for rows.Next() {
		var e MemoryEntry
		var marks string
		if err := rows.Scan(&e.ID, &e.Key.Source, &e.Key.Target, &e.Key.SourceLang, &e.Key.TargetLang, &e.Key.Mode,
			&e.FixedText, &marks, &e.UsageCount, &e.Invalidated, &e.LastUsed); err != nil {
			return nil, err
		}
		e.Marks = splitMarks(marks)
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats returns summary statistics for the fix memory.
func (s *Store) Stats(ctx context.Context) (*CacheStats, error) {
	stats := &CacheStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN NOT invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN invalidated THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(usage_count), 0)
		FROM fix_memory`).Scan(
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

// Run is a batch invocation and its outcome.
type Run struct {
	ID         string
	InputFile  string
	OutputFile string
	SourceLang string
	TargetLang string
	Mode       string
	Status     string
	Pairs      int
	Changed    int
	Failed     int
	CreatedAt  time.Time
	// Marks is only filled by GetRun.
	Marks map[string]int
}

// CreateRun records a new running batch and returns its ID.
func (s *Store) CreateRun(ctx context.Context, inputFile, outputFile, sourceLang, targetLang, mode string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, output_file, source_lang, target_lang, mode) VALUES (?, ?, ?, ?, ?, ?)`,
		id, inputFile, outputFile, sourceLang, targetLang, mode)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun stores the totals and mark counts of a finished run.
func (s *Store) CompleteRun(ctx context.Context, id string, pairs, changed, failed int, marks map[string]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = 'completed', pairs = ?, changed = ?, failed = ?, updated_at = ? WHERE id = ?`,
		pairs, changed, failed, time.Now(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}

	for mark, count := range marks {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO run_marks (run_id, mark, count) VALUES (?, ?, ?)`,
			id, mark, count); err != nil {
			return fmt.Errorf("failed to save mark %s: %w", mark, err)
		}
	}
	return tx.Commit()
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, output_file, source_lang, target_lang, mode, status, pairs, changed, failed, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := scanRun(rows, &r); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a run together with its mark counts.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var r Run
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_file, output_file, source_lang, target_lang, mode, status, pairs, changed, failed, created_at
		 FROM runs WHERE id = ?`, id)
	if err := scanRun(row, &r); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT mark, count FROM run_marks WHERE run_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	r.Marks = make(map[string]int)
	for rows.Next() {
		var mark string
		var count int
		if err := rows.Scan(&mark, &count); err != nil {
			return nil, err
		}
		r.Marks[mark] = count
	}
	return &r, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner, r *Run) error {
	return sc.Scan(&r.ID, &r.InputFile, &r.OutputFile, &r.SourceLang, &r.TargetLang, &r.Mode,
		&r.Status, &r.Pairs, &r.Changed, &r.Failed, &r.CreatedAt)
}

func (s *Store) execOne(ctx context.Context, query string, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %s: %w", id, ErrNotFound)
	}
	return nil
}

// normalizeText trims whitespace and applies Unicode NFC normalization
// for consistent cache key comparison.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func splitMarks(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// SortedMarks returns the keys of counts in a stable order.
func SortedMarks(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
