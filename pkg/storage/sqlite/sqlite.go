// Package sqlite provides a file-backed implementation of
// transport.ActivityStore for single-node deployments without a database
// server.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/storage"
	"github.com/reactivities/reactivities/pkg/transport"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	driverName    = "sqlite3"
	selectColumns = `SELECT id, title, date, description, category, city, venue FROM activities`
)

// Config holds SQLite settings.
type Config struct {
	// Path is the database file. ":memory:" is not supported because each
	// pooled connection would see its own database.
	Path string
}

// Store is a SQLite-backed ActivityStore.
type Store struct {
	db *sql.DB
}

// Ensure Store implements transport.ActivityStore at compile time.
var _ transport.ActivityStore = (*Store)(nil)

// New opens the database file, creating it if needed, and applies the
// embedded schema.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: path is required")
	}

	db, err := sql.Open(driverName, cfg.Path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := NewFromDB(db)
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// NewFromDB wraps an already opened database. The schema is not applied.
func NewFromDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) migrate(ctx context.Context) error {
	schema, err := migrationFiles.ReadFile("migrations/001_create_activities.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(schema))
	return err
}

// ListActivities returns the caller's activities ordered by date.
func (s *Store) ListActivities(ctx context.Context) ([]api.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE tenant_id = ? ORDER BY date, id`,
		storage.GetTenant(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	out := []api.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading activities: %w", err)
	}
	return out, nil
}

// GetActivity retrieves an activity by ID.
func (s *Store) GetActivity(ctx context.Context, id string) (*api.Activity, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE id = ? AND tenant_id = ?`,
		id, storage.GetTenant(ctx),
	)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateActivity inserts a new activity.
func (s *Store) CreateActivity(ctx context.Context, a *api.Activity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, tenant_id, title, date, description, category, city, venue)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, storage.GetTenant(ctx), a.Title, formatDate(a.Date), a.Description, a.Category, a.City, a.Venue,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

// UpdateActivity replaces all fields of an existing activity.
func (s *Store) UpdateActivity(ctx context.Context, a *api.Activity) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE activities
		SET title = ?, date = ?, description = ?, category = ?, city = ?, venue = ?
		WHERE id = ? AND tenant_id = ?
	`,
		a.Title, formatDate(a.Date), a.Description, a.Category, a.City, a.Venue, a.ID, storage.GetTenant(ctx),
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return requireAffected(res)
}

// DeleteActivity removes an activity.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM activities WHERE id = ? AND tenant_id = ?`,
		id, storage.GetTenant(ctx),
	)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return requireAffected(res)
}

// HealthCheck verifies the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(row scanner) (api.Activity, error) {
	var (
		a    api.Activity
		date string
	)
	if err := row.Scan(&a.ID, &a.Title, &date, &a.Description, &a.Category, &a.City, &a.Venue); err != nil {
		return a, err
	}
	t, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return a, fmt.Errorf("activity %s: invalid date %q: %w", a.ID, date, err)
	}
	a.Date = t
	return a, nil
}

// dateLayout is RFC 3339 with a fixed nine-digit fraction. Stored in UTC,
// its lexical order matches chronological order.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var sqlErr sqlite3.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	return sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
