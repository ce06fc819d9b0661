package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	schemaLockRetry         = 25 * time.Millisecond
	schemaLockTimeout       = 5 * time.Second
)

// Open initializes or connects to the journal database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchemaLocked(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchemaLocked(ctx context.Context) error {
	lock := flock.New(s.path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, schemaLockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, schemaLockRetry)
	if err != nil {
		return fmt.Errorf("acquire journal lock: %w", err)
	}
	if !locked {
		return errors.New("acquire journal lock: held by another process")
	}
	defer func() { _ = lock.Unlock() }()

	return s.initSchema(ctx)
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts an entry. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.ID) == "" {
		return errors.New("journal entry id is required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.execWithRetry(ctx,
		`INSERT INTO deliveries (
            id, created_at, endpoint, url, status, ptype, uid, vidname,
            fstype, outcome, status_code, error, duration_ms
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
		entry.Endpoint,
		entry.URL,
		nullableString(entry.Status),
		nullableString(entry.PType),
		nullableString(entry.UID),
		nullableString(entry.VidName),
		entry.FSType,
		entry.Outcome,
		nullableInt(entry.StatusCode),
		nullableText(entry.Error),
		entry.Duration.Milliseconds(),
	)
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, endpoint, url, status, ptype, uid, vidname,
                fstype, outcome, status_code, error, duration_ms
         FROM deliveries ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	match := newNameMatcher(filter.VidName)
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		if !match(entry.VidName) {
			continue
		}
		entries = append(entries, entry)
		if filter.Limit > 0 && len(entries) >= filter.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return entries, nil
}

// Prune keeps the newest keep entries and deletes the rest. It returns the
// number of removed rows.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be >= 0, got %d", keep)
	}
	ctx = ensureContext(ctx)
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM deliveries WHERE seq NOT IN (
                SELECT seq FROM deliveries ORDER BY seq DESC LIMIT ?
            )`, keep)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("prune deliveries: %w", err)
	}
	return removed, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry      Entry
		createdAt  string
		status     sql.NullString
		ptype      sql.NullString
		uid        sql.NullString
		vidname    sql.NullString
		statusCode sql.NullInt64
		errText    sql.NullString
		durationMS int64
	)
	if err := row.Scan(
		&entry.ID, &createdAt, &entry.Endpoint, &entry.URL,
		&status, &ptype, &uid, &vidname,
		&entry.FSType, &entry.Outcome, &statusCode, &errText, &durationMS,
	); err != nil {
		return Entry{}, fmt.Errorf("scan delivery: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = ts
	entry.Status = stringPtr(status)
	entry.PType = stringPtr(ptype)
	entry.UID = stringPtr(uid)
	entry.VidName = stringPtr(vidname)
	if statusCode.Valid {
		entry.StatusCode = int(statusCode.Int64)
	}
	entry.Error = errText.String
	entry.Duration = time.Duration(durationMS) * time.Millisecond
	return entry, nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullableText(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullableInt(value int) sql.NullInt64 {
	if value == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(value), Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
