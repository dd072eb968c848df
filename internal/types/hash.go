package types

import (
	"sort"

	"github.com/schemadoc/schemadoc/internal/canon"
)

// MetadataHash computes TableSpec.metadata_hash: a SHA-256 over the
// canonical serialization of TableMetadata (spec.md §3).
func MetadataHash(m TableMetadata) (string, error) {
	return canon.Hash(m)
}

// schemaTuple is the (table, column, type, nullable) shape schema_hash
// hashes, per spec.md §4.1 step 3.
type schemaTuple struct {
	Table    string `json:"table"`
	Column   string `json:"column"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// SchemaHash computes a database's schema_hash: a SHA-256 over the sorted
// set of (table, column, type, nullable) tuples across every table.
func SchemaHash(tables []TableMetadata) (string, error) {
	tuples := make([]schemaTuple, 0, len(tables)*4)
	for _, t := range tables {
		for _, c := range t.Columns {
			tuples = append(tuples, schemaTuple{
				Table:    t.Schema + "." + t.Table,
				Column:   c.Name,
				Type:     c.Type,
				Nullable: c.Nullable,
			})
		}
	}
	sort.Slice(tuples, func(i, j int) bool {
		if tuples[i].Table != tuples[j].Table {
			return tuples[i].Table < tuples[j].Table
		}
		return tuples[i].Column < tuples[j].Column
	})
	return canon.Hash(tuples)
}

// ContentHash computes WorkUnit.content_hash: a SHA-256 over the ordered
// list of metadata_hash values of its tables (order matters — this is not
// a canon.Hash over the set).
func ContentHash(tables []TableSpec) string {
	hashes := make([]string, len(tables))
	for i, t := range tables {
		hashes[i] = t.MetadataHash
	}
	return canon.HashStrings(hashes)
}
