package indexstore

import (
	"context"

	"github.com/schemadoc/schemadoc/internal/types"
)

// UpsertRelationship writes one join-graph edge (spec.md §4.4.7), unique on
// (database, source triple, target triple); BFS recomputation in the
// Indexer calls this once per direct or computed edge it wants persisted.
func (s *PostgresStore) UpsertRelationship(ctx context.Context, database string, rel types.Relationship) error {
	const query = `
		INSERT INTO relationships (
			database, source_schema, source_table, source_column,
			target_schema, target_table, target_column,
			relationship_type, hop_count, join_expression, confidence
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (database, source_schema, source_table, source_column, target_schema, target_table, target_column)
		DO UPDATE SET
			relationship_type = excluded.relationship_type,
			hop_count         = excluded.hop_count,
			join_expression   = excluded.join_expression,
			confidence        = excluded.confidence`
	_, err := s.pool.Exec(ctx, query,
		database,
		rel.Source.Schema, rel.Source.Table, rel.Source.Column,
		rel.Target.Schema, rel.Target.Table, rel.Target.Column,
		string(rel.Kind), rel.HopCount, rel.JoinExpression, rel.Confidence,
	)
	return wrapDBError("upserting relationship", err)
}

// ListRelationships returns every persisted edge for database. The
// Indexer's multi-hop BFS (spec.md §4.4.7) does not read it; it builds its
// bidirectional map from the direct edges parsed in the same run.
func (s *PostgresStore) ListRelationships(ctx context.Context, database string) ([]types.Relationship, error) {
	const query = `
		SELECT source_schema, source_table, source_column,
		       target_schema, target_table, target_column,
		       relationship_type, hop_count, join_expression, confidence
		FROM relationships WHERE database = $1`
	rows, err := s.pool.Query(ctx, query, database)
	if err != nil {
		return nil, wrapDBError("listing relationships", err)
	}
	defer rows.Close()

	var rels []types.Relationship
	for rows.Next() {
		var r types.Relationship
		var kind string
		if err := rows.Scan(
			&r.Source.Schema, &r.Source.Table, &r.Source.Column,
			&r.Target.Schema, &r.Target.Table, &r.Target.Column,
			&kind, &r.HopCount, &r.JoinExpression, &r.Confidence,
		); err != nil {
			return nil, wrapDBError("scanning relationship row", err)
		}
		r.Kind = types.RelationshipKind(kind)
		rels = append(rels, r)
	}
	return rels, wrapDBError("iterating relationship rows", rows.Err())
}

// DeleteRelationshipsByKind clears every row of kind for database, the
// step the Indexer takes before rebuilding computed multi-hop paths
// (spec.md §4.4.8: "rebuild the relationships and recompute multi-hop
// paths" on any table change).
func (s *PostgresStore) DeleteRelationshipsByKind(ctx context.Context, database string, kind types.RelationshipKind) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM relationships WHERE database = $1 AND relationship_type = $2`, database, string(kind))
	return wrapDBError("deleting relationships by kind", err)
}
