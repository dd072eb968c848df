package indexstore

import "context"

// Optimize rebuilds the full-text and vector indices, recomputes planner
// statistics, and compacts storage (spec.md §4.4.9). It is best-effort: the
// caller logs a failure here rather than treating it as fatal.
func (s *PostgresStore) Optimize(ctx context.Context) error {
	statements := []string{
		"REINDEX INDEX CONCURRENTLY idx_documents_fulltext",
		"REINDEX INDEX CONCURRENTLY idx_documents_vec_embedding",
		"VACUUM ANALYZE documents",
		"VACUUM ANALYZE documents_vec",
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return wrapDBError("optimizing index store", err)
		}
	}
	return nil
}
