// Package store caches fetched records in SQLite so repeat resolutions can
// be served without a relay round trip. It uses the pure Go driver
// (modernc.org/sqlite); open databases with Open, not sql.Open, so the right
// driver name is used.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Silberengel/wikistr-sub007/core/errors"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	author     TEXT NOT NULL,
	kind       INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	tags       TEXT NOT NULL,
	content    TEXT NOT NULL,
	sig        TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS batches (
	query     TEXT NOT NULL,
	position  INTEGER NOT NULL,
	record_id TEXT NOT NULL REFERENCES records(id),
	PRIMARY KEY (query, position)
);
CREATE TABLE IF NOT EXISTS batch_queries (
	query TEXT PRIMARY KEY
);
`

// Store is a SQLite-backed record cache.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path. ":memory:"
// yields an in-memory cache.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch stores the records and remembers them, in order, as the result
// of the given query. A previous batch for the same query is replaced.
func (s *Store) SaveBatch(ctx context.Context, query string, recs []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM batches WHERE query = ?`, query); err != nil {
		return fmt.Errorf("store: clear batch: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO batch_queries (query) VALUES (?) ON CONFLICT(query) DO NOTHING`, query)
	if err != nil {
		return fmt.Errorf("store: mark batch: %w", err)
	}
	for i, rec := range recs {
		tags, err := marshalTags(rec.Tags)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO records (id, author, kind, created_at, tags, content, sig)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			rec.ID, rec.Author, rec.Kind, rec.CreatedAt, tags, rec.Content, rec.Sig)
		if err != nil {
			return fmt.Errorf("store: insert record %s: %w", rec.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batches (query, position, record_id) VALUES (?, ?, ?)`,
			query, i, rec.ID)
		if err != nil {
			return fmt.Errorf("store: insert batch row: %w", err)
		}
	}
	return tx.Commit()
}

// LoadBatch returns the cached result of a query in stored order. A query
// never saved yields a NotFoundError; an empty saved batch yields an empty,
// non-error result.
func (s *Store) LoadBatch(ctx context.Context, query string) ([]record.Record, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM batches WHERE query = ?`, query).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("store: count batch: %w", err)
	}
	if n == 0 {
		if !s.batchSaved(ctx, query) {
			return nil, errors.NewNotFound("batch", query)
		}
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.author, r.kind, r.created_at, r.tags, r.content, r.sig
		FROM batches b JOIN records r ON r.id = b.record_id
		WHERE b.query = ?
		ORDER BY b.position`, query)
	if err != nil {
		return nil, fmt.Errorf("store: load batch: %w", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one record by id.
func (s *Store) Get(ctx context.Context, id string) (*record.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, author, kind, created_at, tags, content, sig
		FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("record", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Count returns the number of distinct cached records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	return n, err
}

// batchSaved distinguishes "never cached" from "cached as empty".
func (s *Store) batchSaved(ctx context.Context, query string) bool {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM batch_queries WHERE query = ?`, query).Scan(&n)
	return err == nil && n > 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (record.Record, error) {
	var rec record.Record
	var tags string
	err := row.Scan(&rec.ID, &rec.Author, &rec.Kind, &rec.CreatedAt,
		&tags, &rec.Content, &rec.Sig)
	if err != nil {
		return record.Record{}, err
	}
	rec.Tags, err = unmarshalTags(tags)
	if err != nil {
		return record.Record{}, fmt.Errorf("store: record %s: %w", rec.ID, err)
	}
	return rec, nil
}

func marshalTags(tags []record.Tag) (string, error) {
	pairs := make([][]string, len(tags))
	for i, t := range tags {
		pairs[i] = []string{t.Key, t.Value}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("store: marshal tags: %w", err)
	}
	return string(data), nil
}

func unmarshalTags(data string) ([]record.Tag, error) {
	var pairs [][]string
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		return nil, err
	}
	tags := make([]record.Tag, 0, len(pairs))
	for _, p := range pairs {
		t := record.Tag{}
		if len(p) > 0 {
			t.Key = p[0]
		}
		if len(p) > 1 {
			t.Value = p[1]
		}
		tags = append(tags, t)
	}
	return tags, nil
}
