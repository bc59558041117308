package tablestore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every table in a single SQL relation, one JSONB row
// per record, keyed by (table name, key column value). It implements the
// same tolerant Load/DeleteWhere semantics as the flat-file backend.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema Schema
}

func NewPostgresStore(pool *pgxpool.Pool, schema Schema) *PostgresStore {
	return &PostgresStore{pool: pool, schema: schema}
}

// Migrate creates the backing relation if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS records (
    tbl        TEXT NOT NULL,
    row_key    TEXT NOT NULL,
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (tbl, row_key)
)`)
	if err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, table string) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM records WHERE tbl = $1 ORDER BY row_key`, table)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", table, err)
	}
	defer rows.Close()

	recs := []Record{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan table %s: %w", table, err)
		}
		rec := Record{}
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode table %s row: %w", table, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load table %s: %w", table, err)
	}
	return recs, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, table, keyColumn string, rec Record) error {
	key := rec[keyColumn]
	if key == "" {
		return fmt.Errorf("table %s: %w (%s)", table, ErrNoKey, keyColumn)
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode table %s row: %w", table, err)
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO records (tbl, row_key, doc) VALUES ($1, $2, $3)
ON CONFLICT (tbl, row_key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
		table, key, doc)
	if err != nil {
		return fmt.Errorf("upsert table %s key %s: %w", table, key, err)
	}
	return nil
}

func (s *PostgresStore) DeleteWhere(ctx context.Context, table string, pred func(Record) bool) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin delete on table %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT row_key, doc FROM records WHERE tbl = $1 FOR UPDATE`, table)
	if err != nil {
		return 0, fmt.Errorf("select table %s for delete: %w", table, err)
	}

	var keys []string
	for rows.Next() {
		var key string
		var doc []byte
		if err := rows.Scan(&key, &doc); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan table %s: %w", table, err)
		}
		rec := Record{}
		if err := json.Unmarshal(doc, &rec); err != nil {
			rows.Close()
			return 0, fmt.Errorf("decode table %s row: %w", table, err)
		}
		if pred(rec) {
			keys = append(keys, key)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("select table %s for delete: %w", table, err)
	}

	removed := 0
	for _, key := range keys {
		tag, err := tx.Exec(ctx,
			`DELETE FROM records WHERE tbl = $1 AND row_key = $2`, table, key)
		if err != nil {
			return 0, fmt.Errorf("delete table %s key %s: %w", table, key, err)
		}
		removed += int(tag.RowsAffected())
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit delete on table %s: %w", table, err)
	}
	return removed, nil
}

func (s *PostgresStore) Replace(ctx context.Context, table string, recs []Record) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace of table %s: %w", table, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM records WHERE tbl = $1`, table); err != nil {
		return fmt.Errorf("clear table %s: %w", table, err)
	}
	for i, rec := range recs {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode table %s row: %w", table, err)
		}
		// Rows without a registered key column fall back to positional keys.
		key := fmt.Sprintf("row-%06d", i)
		if cols := s.schema.Columns(table); len(cols) > 0 && rec[cols[0]] != "" {
			key = rec[cols[0]]
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO records (tbl, row_key, doc) VALUES ($1, $2, $3)
ON CONFLICT (tbl, row_key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
			table, key, doc); err != nil {
			return fmt.Errorf("insert into table %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT tbl FROM records ORDER BY tbl`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
