package indexer

import (
	"context"
	"fmt"

	"github.com/schemadoc/schemadoc/internal/indexstore"
	"github.com/schemadoc/schemadoc/internal/types"
)

// maxHops bounds the multi-hop BFS (spec.md §4.4.7): paths longer than
// this are not worth surfacing as a join suggestion.
const maxHops = 3

type edge struct {
	from, to string // "schema.table"
	rel      types.Relationship
}

func tableKey(ref types.TableRef) string {
	return ref.Schema + "." + ref.Table
}

// RebuildRelationships implements spec.md §4.4.7: every direct foreign key
// extracted from a table document gets hop_count 1 and confidence 1.0;
// every standalone documented relationship artifact gets hop_count 1 and
// confidence 0.9; then a bidirectional adjacency map over those direct
// edges is walked breadth-first, up to maxHops, to materialize computed
// multi-hop paths with confidence = max(0.1, 1.0 - 0.15*(hop_count-1)).
func RebuildRelationships(ctx context.Context, store *indexstore.PostgresStore, database string, direct []types.Relationship) error {
	if err := store.DeleteRelationshipsByKind(ctx, database, types.RelationshipComputed); err != nil {
		return fmt.Errorf("indexer: clearing computed relationships: %w", err)
	}

	adjacency := make(map[string][]edge)
	for _, rel := range direct {
		if err := store.UpsertRelationship(ctx, database, rel); err != nil {
			return fmt.Errorf("indexer: upserting direct relationship: %w", err)
		}
		from, to := tableKey(rel.Source), tableKey(rel.Target)
		adjacency[from] = append(adjacency[from], edge{from: from, to: to, rel: rel})
		adjacency[to] = append(adjacency[to], edge{from: to, to: from, rel: rel})
	}

	for start := range adjacency {
		for _, path := range bfsPaths(adjacency, start, maxHops) {
			if len(path) < 2 {
				continue
			}
			hopCount := len(path)
			confidence := 1.0 - 0.15*float64(hopCount-1)
			if confidence < 0.1 {
				confidence = 0.1
			}
			computed := types.Relationship{
				Source:     path[0].rel.Source,
				Target:     path[len(path)-1].rel.Target,
				Kind:       types.RelationshipComputed,
				HopCount:   hopCount,
				Confidence: confidence,
			}
			if err := store.UpsertRelationship(ctx, database, computed); err != nil {
				return fmt.Errorf("indexer: upserting computed relationship: %w", err)
			}
		}
	}
	return nil
}

// bfsPaths enumerates every simple path from start out to maxHops edges,
// returning each path's edges in traversal order. Used to surface multi-
// hop join suggestions, not to find a single shortest path.
func bfsPaths(adjacency map[string][]edge, start string, maxHops int) [][]edge {
	var results [][]edge
	var walk func(node string, path []edge, visited map[string]bool)
	walk = func(node string, path []edge, visited map[string]bool) {
		if len(path) > 0 {
			results = append(results, append([]edge(nil), path...))
		}
		if len(path) >= maxHops {
			return
		}
		for _, e := range adjacency[node] {
			if visited[e.to] {
				continue
			}
			visited[e.to] = true
			walk(e.to, append(path, e), visited)
			delete(visited, e.to)
		}
	}
	walk(start, nil, map[string]bool{start: true})
	return results
}
