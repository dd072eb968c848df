package indexstore

import (
	"context"

	"github.com/schemadoc/schemadoc/internal/types"
)

// UpsertDocument writes doc into the documents container, keyed by its
// unique file_path (spec.md §6.3), returning the surrogate row id. parentID
// is nil for every doc_type except column, where it is the table document's
// surrogate id resolved by the caller via ResolveTableDocumentID.
func (s *PostgresStore) UpsertDocument(ctx context.Context, doc types.IndexDocument, parentID *int64) (int64, error) {
	const query = `
		INSERT INTO documents (
			file_path, doc_type, database, schema_name, table_name, column_name,
			domain, content, summary, keywords, content_hash, source_modified_at,
			parent_doc_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (file_path) DO UPDATE SET
			doc_type           = excluded.doc_type,
			database           = excluded.database,
			schema_name        = excluded.schema_name,
			table_name         = excluded.table_name,
			column_name        = excluded.column_name,
			domain             = excluded.domain,
			content            = excluded.content,
			summary            = excluded.summary,
			keywords           = excluded.keywords,
			content_hash       = excluded.content_hash,
			source_modified_at = excluded.source_modified_at,
			parent_doc_id      = excluded.parent_doc_id,
			indexed_at         = NOW()
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		doc.FilePath, string(doc.DocType), doc.Database, doc.Schema, doc.Table, doc.Column,
		doc.Domain, doc.Content, doc.Summary, doc.Keywords, doc.ContentHash, nullableTime(doc.SourceModifiedAt),
		parentID,
	).Scan(&id)
	return id, wrapDBError("upserting document "+doc.FilePath, err)
}

// ResolveTableDocumentID looks up the surrogate id of the table document
// identified by (database, schema, table), the parent-linkage step spec.md
// §4.4.6 requires before a column document can be inserted.
func (s *PostgresStore) ResolveTableDocumentID(ctx context.Context, database, schema, table string) (int64, bool, error) {
	const query = `
		SELECT id FROM documents
		WHERE doc_type = $1 AND database = $2 AND schema_name = $3 AND table_name = $4 AND column_name = ''`
	var id int64
	err := s.pool.QueryRow(ctx, query, string(types.DocTypeTable), database, schema, table).Scan(&id)
	if err != nil {
		if isNotFound(wrapDBError("", err)) {
			return 0, false, nil
		}
		return 0, false, wrapDBError("resolving table document for "+database+"."+schema+"."+table, err)
	}
	return id, true, nil
}

// DeleteDocument removes the document at filePath. The ON DELETE CASCADE
// foreign keys take its vector row and any column rows keyed by
// parent_doc_id with it (spec.md §6.3 "Deletion ... cascades").
func (s *PostgresStore) DeleteDocument(ctx context.Context, filePath string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE file_path = $1`, filePath)
	return wrapDBError("deleting document "+filePath, err)
}

// ContentHashes returns every indexed file_path's content_hash, the
// comparison set the Indexer's incremental mode (spec.md §4.4.8) diffs the
// current manifest against to classify new/changed/deleted/unchanged.
func (s *PostgresStore) ContentHashes(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT file_path, content_hash FROM documents`)
	if err != nil {
		return nil, wrapDBError("listing content hashes", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, wrapDBError("scanning content hash row", err)
		}
		hashes[path] = hash
	}
	return hashes, wrapDBError("iterating content hash rows", rows.Err())
}

func nullableTime(t interface{ IsZero() bool }) any {
	if t.IsZero() {
		return nil
	}
	return t
}
