// Package indexstore implements the Index Store interface (spec.md §6.3)
// over Postgres + pgvector: the documents container with its synchronized
// full-text index, the 1:1 vector sibling table, relationships, and a
// key/value provenance bag. It follows the same "template SQL string +
// pgxpool.Pool" idiom the pgEdge docmgmt schema uses for its own
// vector-backed document store, and wraps driver errors the way the
// teacher's internal/storage/sqlite/errors.go wraps database/sql errors,
// generalized to pgx's error types.
package indexstore

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaTemplate string

// DefaultDimensions is the embedding width used unless the caller overrides
// it (spec.md §6.3: "typical 1536 floats for the default embedding model").
const DefaultDimensions = 1536

// PostgresStore is the Index Store's sole physical implementation. The
// logical schema is engine-agnostic (spec.md §6.3 "physical engine is
// free"); Postgres + pgvector is the concrete choice this module makes,
// grounded on the pgEdge docmgmt example's identical choice for a
// semantic-search document store.
type PostgresStore struct {
	pool       *pgxpool.Pool
	dimensions int
}

// Open connects to dsn, applies the schema (idempotently, via CREATE TABLE
// IF NOT EXISTS / CREATE EXTENSION IF NOT EXISTS) and returns a ready store.
// dimensions of 0 selects DefaultDimensions.
func Open(ctx context.Context, dsn string, dimensions int) (*PostgresStore, error) {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, wrapDBError("connecting to index store", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapDBError("pinging index store", err)
	}
	store := &PostgresStore{pool: pool, dimensions: dimensions}
	if err := store.applySchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) applySchema(ctx context.Context) error {
	ddl := fmt.Sprintf(schemaTemplate, s.dimensions)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return wrapDBError("applying index store schema", err)
	}
	return nil
}

// Close releases the underlying connection pool. Safe to call once.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Dimensions reports the vector width the store was opened with.
func (s *PostgresStore) Dimensions() int {
	return s.dimensions
}

// Pool exposes the underlying pgxpool.Pool for callers (e.g. the
// optimization step) that need direct access beyond this package's API.
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}
