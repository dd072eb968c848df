package indexer

import (
	"context"
	"fmt"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/indexstore"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/types"
)

// BuiltDocuments is the parsed-and-embedded working set Populate consumes,
// grouped the way spec.md §4.4.6 orders population: tables, domains,
// overviews, relationships, then columns (so every column's parent table
// row already exists when ResolveTableDocumentID runs).
type BuiltDocuments struct {
	Tables        []types.IndexDocument
	Domains       []types.IndexDocument
	Overviews     []types.IndexDocument
	Relationships []types.IndexDocument
	Columns       []types.IndexDocument

	// DirectRelationships are the FK- and documented-kind edges extracted
	// while parsing, keyed by database, the seed set RebuildRelationships
	// walks breadth-first for each database independently.
	DirectRelationships map[string][]types.Relationship
}

// ParseManifest reads and parses every file in the manifest's working set,
// grouping the resulting documents by type and collecting the direct
// (hop_count 1) relationship edges implied by table foreign keys and
// standalone relationship artifacts.
func ParseManifest(dict *domainrules.Dictionary, files []types.IndexableFile) (BuiltDocuments, []string, error) {
	built := BuiltDocuments{DirectRelationships: make(map[string][]types.Relationship)}
	var warnings []string

	for _, f := range files {
		doc, err := BuildDocument(dict, f)
		if err != nil {
			warnings = append(warnings, "skipping unparseable file "+f.Path+": "+err.Error())
			continue
		}

		switch f.Type {
		case types.IndexableTable:
			built.Tables = append(built.Tables, doc.Table)
			built.Columns = append(built.Columns, doc.Columns...)
			if doc.TableData != nil {
				built.DirectRelationships[f.Database] = append(built.DirectRelationships[f.Database], foreignKeyRelationships(f, *doc.TableData)...)
			}
		case types.IndexableDomain:
			built.Domains = append(built.Domains, doc.Table)
		case types.IndexableOverview:
			built.Overviews = append(built.Overviews, doc.Table)
		case types.IndexableRelationship:
			built.Relationships = append(built.Relationships, doc.Table)
			if doc.RelationshipData != nil {
				built.DirectRelationships[f.Database] = append(built.DirectRelationships[f.Database], documentedRelationship(f, *doc.RelationshipData))
			}
		}
	}

	return built, warnings, nil
}

// foreignKeyRelationships converts a table artifact's Foreign Keys section
// into direct (hop_count 1, confidence 1.0) relationship edges (spec.md
// §4.4.7: "Extract direct relationships from foreign keys").
func foreignKeyRelationships(f types.IndexableFile, parsed ParsedTable) []types.Relationship {
	rels := make([]types.Relationship, 0, len(parsed.ForeignKeys))
	for _, fk := range parsed.ForeignKeys {
		rels = append(rels, types.Relationship{
			Source:     types.TableRef{Schema: parsed.Schema, Table: parsed.Table, Column: fk.Column},
			Target:     types.TableRef{Schema: coalesce(fk.TargetSchema, parsed.Schema), Table: fk.TargetTable, Column: fk.TargetColumn},
			Kind:       types.RelationshipForeignKey,
			HopCount:   1,
			Confidence: 1.0,
		})
	}
	return rels
}

// documentedRelationship converts a standalone relationship artifact into
// a direct (hop_count 1, confidence 0.9) edge (spec.md §4.4.7: explicit
// relationship documents are trusted slightly less than an extracted FK
// only because they can drift from the schema without a migration
// catching it).
func documentedRelationship(f types.IndexableFile, parsed ParsedRelationship) types.Relationship {
	return types.Relationship{
		Source:     types.TableRef{Schema: parsed.SourceSchema, Table: parsed.SourceTable, Column: parsed.SourceColumn},
		Target:     types.TableRef{Schema: parsed.TargetSchema, Table: parsed.TargetTable, Column: parsed.TargetColumn},
		Kind:       types.RelationshipDocumented,
		HopCount:   1,
		Confidence: 0.9,
	}
}

// Embed requests embeddings for every document's Content in docs, in one
// batched llm.Client.Embed call (spec.md §4.3's chunk-and-average
// semantics live inside llm.Client.Embed itself), and returns the vectors
// keyed by document ID; a document whose slot came back empty has no entry.
func Embed(ctx context.Context, client *llm.Client, model string, docs []types.IndexDocument) (map[string][]float32, error) {
	if len(docs) == 0 {
		return map[string][]float32{}, nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	slots, err := client.Embed(ctx, texts, model)
	if err != nil {
		return nil, fmt.Errorf("indexer: embedding %d documents: %w", len(docs), err)
	}
	vectors := make(map[string][]float32, len(docs))
	for i, d := range docs {
		if i < len(slots) && slots[i].Present {
			vectors[d.ID] = slots[i].Vector
		}
	}
	return vectors, nil
}

// Populate writes built into store in parent-before-child order (spec.md
// §4.4.6): tables, then domains, overviews, and relationships (order
// between these three does not matter, none reference each other), then
// columns last so ResolveTableDocumentID can find each one's parent.
// vectors maps a document's identity ID to its embedding, absent entries
// meaning SkipEmbeddings was set or the embedding call failed for that
// document.
func Populate(ctx context.Context, store *indexstore.PostgresStore, built BuiltDocuments, vectors map[string][]float32) error {
	upsert := func(doc types.IndexDocument, parentID *int64) error {
		id, err := store.UpsertDocument(ctx, doc, parentID)
		if err != nil {
			return fmt.Errorf("indexer: upserting document %s: %w", doc.FilePath, err)
		}
		if err := store.UpsertVector(ctx, id, vectors[doc.ID]); err != nil {
			return fmt.Errorf("indexer: upserting vector for %s: %w", doc.FilePath, err)
		}
		return nil
	}

	for _, doc := range built.Tables {
		if err := upsert(doc, nil); err != nil {
			return err
		}
	}
	for _, doc := range built.Domains {
		if err := upsert(doc, nil); err != nil {
			return err
		}
	}
	for _, doc := range built.Overviews {
		if err := upsert(doc, nil); err != nil {
			return err
		}
	}
	for _, doc := range built.Relationships {
		if err := upsert(doc, nil); err != nil {
			return err
		}
	}
	for _, doc := range built.Columns {
		parentID, found, err := store.ResolveTableDocumentID(ctx, doc.Database, doc.Schema, doc.Table)
		if err != nil {
			return fmt.Errorf("indexer: resolving parent for column %s: %w", doc.FilePath, err)
		}
		var parent *int64
		if found {
			parent = &parentID
		}
		if err := upsert(doc, parent); err != nil {
			return err
		}
	}
	return nil
}
