package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"xbvrkit/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// DefaultListLimit bounds History queries that do not set a limit.
const DefaultListLimit = 50

// Entry is one recorded per-item outcome.
type Entry struct {
	ID         int64
	RunID      string
	Task       string
	Key        string
	Status     string
	SceneID    string
	Detail     string
	RecordedAt time.Time
}

// Query filters History results.
type Query struct {
	Limit int
	Task  string
	RunID string
}

// Recorder persists outcomes.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Store is the SQLite-backed outcome journal.
type Store struct {
	db   *sql.DB
	path string
}

var _ Recorder = (*Store)(nil)

// Open opens the journal in the configured state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath opens or creates the journal database at path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends an outcome. A zero RecordedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.Task) == "" || strings.TrimSpace(entry.Key) == "" {
		return errors.New("journal entry requires task and key")
	}
	at := entry.RecordedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO outcomes (run_id, task, item_key, status, scene_id, detail, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Task,
		entry.Key,
		entry.Status,
		nullableString(entry.SceneID),
		nullableString(entry.Detail),
		at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// History returns recorded outcomes, newest first.
func (s *Store) History(ctx context.Context, q Query) ([]Entry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var (
		where []string
		args  []any
	)
	if task := strings.TrimSpace(q.Task); task != "" {
		where = append(where, "task = ?")
		args = append(args, task)
	}
	if run := strings.TrimSpace(q.RunID); run != "" {
		where = append(where, "run_id = ?")
		args = append(args, run)
	}
	query := `SELECT id, run_id, task, item_key, status, scene_id, detail, recorded_at FROM outcomes`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry    Entry
			sceneID  sql.NullString
			detail   sql.NullString
			recorded string
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Task, &entry.Key, &entry.Status, &sceneID, &detail, &recorded); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		entry.SceneID = sceneID.String
		entry.Detail = detail.String
		if parsed, err := time.Parse(time.RFC3339Nano, recorded); err == nil {
			entry.RecordedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return entries, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset the journal)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
