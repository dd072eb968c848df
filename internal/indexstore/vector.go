package indexstore

import (
	"context"
	"strconv"
	"strings"
)

// formatVector renders embedding as a pgvector text literal ("[0.1,0.2]").
// No typed pgvector client binding exists anywhere in the example pack, so
// the literal is built by hand and cast with ::vector at the call site,
// the same way the pgEdge docmgmt schema leaves vector columns as plain
// SQL and lets the driver round-trip them as text.
func formatVector(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// UpsertVector writes the 1:1 vector sibling row for docID. An empty
// embedding deletes any existing row instead (spec.md §4.4.6: "if no
// embedding, delete any stale vector row for that id").
func (s *PostgresStore) UpsertVector(ctx context.Context, docID int64, embedding []float32) error {
	if len(embedding) == 0 {
		return s.DeleteVector(ctx, docID)
	}
	const query = `
		INSERT INTO documents_vec (doc_id, embedding) VALUES ($1, $2::vector)
		ON CONFLICT (doc_id) DO UPDATE SET embedding = excluded.embedding`
	_, err := s.pool.Exec(ctx, query, docID, formatVector(embedding))
	return wrapDBError("upserting vector for document", err)
}

// DeleteVector removes docID's vector row, if any.
func (s *PostgresStore) DeleteVector(ctx context.Context, docID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM documents_vec WHERE doc_id = $1`, docID)
	return wrapDBError("deleting vector for document", err)
}
