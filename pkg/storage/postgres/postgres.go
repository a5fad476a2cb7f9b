// Package postgres provides a PostgreSQL implementation of
// transport.ActivityStore backed by a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/storage"
	"github.com/reactivities/reactivities/pkg/transport"
)

const selectColumns = `SELECT id, title, date, description, category, city, venue FROM activities`

// Store is a PostgreSQL-backed ActivityStore.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements transport.ActivityStore at compile time.
var _ transport.ActivityStore = (*Store)(nil)

// New opens a connection pool and verifies connectivity. If MigrateOnStart
// is set, schema migrations are applied before returning.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// ListActivities returns the caller's activities ordered by date.
func (s *Store) ListActivities(ctx context.Context) ([]api.Activity, error) {
	rows, err := s.pool.Query(ctx,
		selectColumns+` WHERE tenant_id = $1 ORDER BY date, id`,
		storage.GetTenant(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanActivity)
	if err != nil {
		return nil, fmt.Errorf("reading activities: %w", err)
	}
	if out == nil {
		out = []api.Activity{}
	}
	return out, nil
}

// GetActivity retrieves an activity by ID.
func (s *Store) GetActivity(ctx context.Context, id string) (*api.Activity, error) {
	rows, err := s.pool.Query(ctx,
		selectColumns+` WHERE id = $1 AND tenant_id = $2`,
		id, storage.GetTenant(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanActivity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity: %w", err)
	}
	return &a, nil
}

// CreateActivity inserts a new activity.
func (s *Store) CreateActivity(ctx context.Context, a *api.Activity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO activities (id, tenant_id, title, date, description, category, city, venue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		a.ID, storage.GetTenant(ctx), a.Title, a.Date, a.Description, a.Category, a.City, a.Venue,
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
	tag, err := s.pool.Exec(ctx, `
		UPDATE activities
		SET title = $3, date = $4, description = $5, category = $6, city = $7, venue = $8, updated_at = now()
		WHERE id = $1 AND tenant_id = $2
	`,
		a.ID, storage.GetTenant(ctx), a.Title, a.Date, a.Description, a.Category, a.City, a.Venue,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteActivity removes an activity.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM activities WHERE id = $1 AND tenant_id = $2`,
		id, storage.GetTenant(ctx),
	)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanActivity(row pgx.CollectableRow) (api.Activity, error) {
	var a api.Activity
	err := row.Scan(&a.ID, &a.Title, &a.Date, &a.Description, &a.Category, &a.City, &a.Venue)
	if err == nil {
		a.Date = a.Date.UTC()
	}
	return a, err
}

// isDuplicateKey reports whether err is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
