package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createCollectionsTable = `
CREATE TABLE IF NOT EXISTS collections (
	name       text PRIMARY KEY,
	data       jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// Postgres persists each collection as a jsonb snapshot row. It backs
// the "real" mode where several dashboards share one database.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, pings and ensures the collections table exists.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createCollectionsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure collections table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Load reads a collection snapshot into v. A missing row leaves v
// untouched and returns nil.
func (p *Postgres) Load(ctx context.Context, collection string, v any) error {
	var data []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM collections WHERE name = $1`, collection,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Save upserts the collection snapshot.
func (p *Postgres) Save(ctx context.Context, collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `
		INSERT INTO collections (name, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, data)
	return err
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}
