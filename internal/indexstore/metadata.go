package indexstore

import "context"

// SetMetadata records a provenance key/value pair (plan_hash, manifest
// hash, last indexed_at, ...), the same upsert-by-key idiom the teacher's
// SQLiteStorage.SetConfig uses for its own config table.
func (s *PostgresStore) SetMetadata(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO index_metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = NOW()`
	_, err := s.pool.Exec(ctx, query, key, value)
	return wrapDBError("setting index metadata "+key, err)
}

// GetMetadata reads key, reporting false if it was never set.
func (s *PostgresStore) GetMetadata(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM index_metadata WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if isNotFound(wrapDBError("", err)) {
			return "", false, nil
		}
		return "", false, wrapDBError("getting index metadata "+key, err)
	}
	return value, true, nil
}

// IncrementKeywordFrequency bumps the optional keyword cache (spec.md
// §6.3's "keywords — optional cache of term → frequency, source_type").
func (s *PostgresStore) IncrementKeywordFrequency(ctx context.Context, term, sourceType string, delta int64) error {
	const query = `
		INSERT INTO keywords (term, source_type, frequency) VALUES ($1, $2, $3)
		ON CONFLICT (term, source_type) DO UPDATE SET frequency = keywords.frequency + excluded.frequency`
	_, err := s.pool.Exec(ctx, query, term, sourceType, delta)
	return wrapDBError("incrementing keyword frequency", err)
}
