package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Gateway on PostgreSQL. Every kind is one table
// with an (id UUID, doc JSONB) shape; filters evaluate against top-level
// document fields. Schema lives in pkg/storage/postgres/migrations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// kindTable guards against table names reaching SQL from anywhere but the
// Kind constants.
func kindTable(kind Kind) (string, error) {
	switch kind {
	case KindUser, KindPortfolio, KindPosition:
		return string(kind), nil
	}
	return "", fmt.Errorf("unknown record kind %q", kind)
}

func (s *PostgresStore) Get(ctx context.Context, kind Kind, id uuid.UUID) (Record, error) {
	table, err := kindTable(kind)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Kind: kind, ID: id}
	row := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, table), id)
	if err := row.Scan(&rec.Doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) (uuid.UUID, error) {
	table, err := kindTable(rec.Kind)
	if err != nil {
		return uuid.Nil, err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err = s.pool.Exec(ctx, fmt.Sprintf(`
INSERT INTO %s (id, doc) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
`, table), rec.ID, rec.Doc)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return uuid.Nil, ErrConflict
		}
		return uuid.Nil, err
	}
	return rec.ID, nil
}

func (s *PostgresStore) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	table, err := kindTable(kind)
	if err != nil {
		return err
	}
	cmd, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteMatching(ctx context.Context, kind Kind, f Filter) (int64, error) {
	table, err := kindTable(kind)
	if err != nil {
		return 0, err
	}
	if f.Field == "" {
		return 0, fmt.Errorf("delete matching on %s requires a filter field", kind)
	}
	cmd, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE doc->>$1 = $2`, table), f.Field, f.Value)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (s *PostgresStore) List(ctx context.Context, kind Kind, f Filter) ([]Record, error) {
	table, err := kindTable(kind)
	if err != nil {
		return nil, err
	}
	limit := f.Limit
	if limit == 0 {
		limit = 100
	}
	if limit < 0 {
		limit = 1 << 30 // effectively unbounded, used by cascade paths
	}
	var rows pgx.Rows
	if f.Field == "" {
		rows, err = s.pool.Query(ctx, fmt.Sprintf(`
SELECT id, doc FROM %s ORDER BY doc->>'created_at', id LIMIT $1 OFFSET $2
`, table), limit, f.Offset)
	} else {
		rows, err = s.pool.Query(ctx, fmt.Sprintf(`
SELECT id, doc FROM %s WHERE doc->>$1 = $2 ORDER BY doc->>'created_at', id LIMIT $3 OFFSET $4
`, table), f.Field, f.Value, limit, f.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec := Record{Kind: kind}
		if err := rows.Scan(&rec.ID, &rec.Doc); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
