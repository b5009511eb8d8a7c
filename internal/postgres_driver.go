package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/inkstone-data/docmap"
)

// documentPool is the narrow pool surface the driver needs. pgxpool.Pool
// satisfies it, and so does a pgxmock pool in tests.
type documentPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresDriver stores documents as JSONB rows in a single documents
// table keyed by (database, collection, id). It implements the
// collaborator boundary the mapping layer consumes.
type PostgresDriver struct {
	table   string
	pool    documentPool
	nowFunc func() time.Time
}

// NewPostgresDriver creates a driver that dials a pgx pool per
// connection URL.
func NewPostgresDriver(table string) *PostgresDriver {
	return &PostgresDriver{
		table:   table,
		nowFunc: time.Now,
	}
}

// NewPostgresDriverWithPool creates a driver bound to an existing pool.
// Connect returns the same pooled connection for every URL; the caller
// owns the pool's lifecycle.
func NewPostgresDriverWithPool(pool documentPool, table string) *PostgresDriver {
	return &PostgresDriver{
		table:   table,
		pool:    pool,
		nowFunc: time.Now,
	}
}

func (d *PostgresDriver) withClock(now func() time.Time) {
	if now == nil {
		return
	}
	d.nowFunc = now
}

// Connect opens a connection handle. Drivers bound to an existing pool
// hand it out directly; otherwise a new pool is dialed and the documents
// table is ensured.
func (d *PostgresDriver) Connect(ctx context.Context, url string) (docmap.Connection, error) {
	if d.pool != nil {
		return &postgresConnection{pool: d.pool, table: d.table, nowFunc: d.nowFunc}, nil
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	conn := &postgresConnection{pool: pool, table: d.table, nowFunc: d.nowFunc, owned: true}
	if err := conn.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return conn, nil
}

// EnsureSchema creates the documents table when the driver is bound to
// an existing pool.
func (d *PostgresDriver) EnsureSchema(ctx context.Context) error {
	if d.pool == nil {
		return fmt.Errorf("driver has no bound pool")
	}
	conn := &postgresConnection{pool: d.pool, table: d.table, nowFunc: d.nowFunc}
	return conn.EnsureSchema(ctx)
}

type postgresConnection struct {
	pool    documentPool
	table   string
	nowFunc func() time.Time
	owned   bool
}

// EnsureSchema creates the documents table if it does not exist.
func (c *postgresConnection) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		database_name text NOT NULL,
		collection_name text NOT NULL,
		doc_id text NOT NULL,
		body jsonb NOT NULL,
		created_at bigint NOT NULL,
		updated_at bigint NOT NULL,
		PRIMARY KEY (database_name, collection_name, doc_id)
	)`, sanitizeIdentifier(c.table))

	if _, err := c.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure documents table: %w", err)
	}
	zap.S().Debugw("documents table ensured", "table", c.table)
	return nil
}

func (c *postgresConnection) Collection(ctx context.Context, database, name string) (docmap.Collection, error) {
	if database == "" {
		return nil, fmt.Errorf("database name cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}
	return &postgresCollection{
		pool:     c.pool,
		table:    c.table,
		database: database,
		name:     name,
		nowFunc:  c.nowFunc,
	}, nil
}

func (c *postgresConnection) Close(ctx context.Context) error {
	if c.owned {
		c.pool.Close()
	}
	return nil
}

type postgresCollection struct {
	pool     documentPool
	table    string
	database string
	name     string
	nowFunc  func() time.Time
}

func (c *postgresCollection) Name() string { return c.name }

func (c *postgresCollection) nowMillis() int64 {
	if c.nowFunc == nil {
		return time.Now().UnixMilli()
	}
	return c.nowFunc().UnixMilli()
}

func (c *postgresCollection) Save(ctx context.Context, id string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal document body: %w", err)
	}

	now := c.nowMillis()
	query := fmt.Sprintf(
		`INSERT INTO %s (database_name, collection_name, doc_id, body, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (database_name, collection_name, doc_id)
			DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		sanitizeIdentifier(c.table),
	)

	if _, err := c.pool.Exec(ctx, query, c.database, c.name, id, payload, now, now); err != nil {
		return fmt.Errorf("failed to save document %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *postgresCollection) Get(ctx context.Context, id string) (map[string]any, error) {
	query := fmt.Sprintf(
		`SELECT body FROM %s WHERE database_name = $1 AND collection_name = $2 AND doc_id = $3`,
		sanitizeIdentifier(c.table),
	)

	var payload []byte
	err := c.pool.QueryRow(ctx, query, c.database, c.name, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, docmap.NewDocumentNotFoundError(c.name, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s/%s: %w", c.name, id, err)
	}

	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document body: %w", err)
	}
	return body, nil
}

func (c *postgresCollection) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE database_name = $1 AND collection_name = $2 AND doc_id = $3`,
		sanitizeIdentifier(c.table),
	)
	if _, err := c.pool.Exec(ctx, query, c.database, c.name, id); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *postgresCollection) RemoveAll(ctx context.Context) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE database_name = $1 AND collection_name = $2`,
		sanitizeIdentifier(c.table),
	)
	if _, err := c.pool.Exec(ctx, query, c.database, c.name); err != nil {
		return fmt.Errorf("failed to remove collection %s: %w", c.name, err)
	}
	return nil
}

func (c *postgresCollection) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE database_name = $1 AND collection_name = $2`,
		sanitizeIdentifier(c.table),
	)
	var count int64
	if err := c.pool.QueryRow(ctx, query, c.database, c.name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count collection %s: %w", c.name, err)
	}
	return count, nil
}
