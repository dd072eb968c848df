package indexstore

import "context"

// SearchResult is one ranked hit from either search mode.
type SearchResult struct {
	DocID    int64
	FilePath string
	DocType  string
	Score    float64
}

// FulltextSearch ranks documents against query using the generated
// fulltext tsvector column (spec.md §6.3's "tokenizer that supports
// stemming and unicode" requirement, satisfied by Postgres's english
// text-search configuration).
func (s *PostgresStore) FulltextSearch(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	const sqlQuery = `
		SELECT id, file_path, doc_type, ts_rank(fulltext, plainto_tsquery('english', $1)) AS score
		FROM documents
		WHERE fulltext @@ plainto_tsquery('english', $1)
		ORDER BY score DESC
		LIMIT $2`
	rows, err := s.pool.Query(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, wrapDBError("fulltext search", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.DocID, &r.FilePath, &r.DocType, &r.Score); err != nil {
			return nil, wrapDBError("scanning fulltext search row", err)
		}
		results = append(results, r)
	}
	return results, wrapDBError("iterating fulltext search rows", rows.Err())
}

// VectorSearch ranks documents by cosine distance between their stored
// embedding and query, nearest first. Distance is converted to a
// similarity score (1 - distance) so both search modes share a
// higher-is-better Score convention.
func (s *PostgresStore) VectorSearch(ctx context.Context, query []float32, limit int) ([]SearchResult, error) {
	const sqlQuery = `
		SELECT d.id, d.file_path, d.doc_type, 1 - (v.embedding <=> $1::vector) AS score
		FROM documents_vec v
		JOIN documents d ON d.id = v.doc_id
		ORDER BY v.embedding <=> $1::vector
		LIMIT $2`
	rows, err := s.pool.Query(ctx, sqlQuery, formatVector(query), limit)
	if err != nil {
		return nil, wrapDBError("vector search", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.DocID, &r.FilePath, &r.DocType, &r.Score); err != nil {
			return nil, wrapDBError("scanning vector search row", err)
		}
		results = append(results, r)
	}
	return results, wrapDBError("iterating vector search rows", rows.Err())
}
