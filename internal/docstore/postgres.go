package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores every collection in one JSONB table. See migrations/.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func ConnectPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Pool() *pgxpool.Pool { return p.pool }

func (p *Postgres) ReadAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`, collection)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func (p *Postgres) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s filter: %w", field, err)
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, data FROM documents
		 WHERE collection = $1 AND data -> $2 = $3::jsonb
		 ORDER BY id`, collection, field, string(want))
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

func (p *Postgres) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	plain, stamps := splitServerTimestamps(fields)
	data, err := json.Marshal(plain)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	id := uuid.New().String()
	// stamped keys get now() from the database clock
	_, err = p.pool.Exec(ctx,
		`INSERT INTO documents (collection, id, data)
		 SELECT $1, $2, $3::jsonb || COALESCE(
		     (SELECT jsonb_object_agg(k, to_jsonb(now())) FROM unnest($4::text[]) AS k),
		     '{}'::jsonb)`,
		collection, id, string(data), stamps,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	plain, stamps := splitServerTimestamps(fields)
	data, err := json.Marshal(plain)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE documents
		 SET data = data || $3::jsonb || COALESCE(
		         (SELECT jsonb_object_agg(k, to_jsonb(now())) FROM unnest($4::text[]) AS k),
		         '{}'::jsonb),
		     updated_at = NOW()
		 WHERE collection = $1 AND id = $2`,
		collection, id, string(data), stamps,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Fields); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
