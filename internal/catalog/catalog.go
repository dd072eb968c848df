// Package catalog implements the Catalog Connector interface (spec.md
// §6.1): connect/disconnect session lifecycle, table listing and metadata
// extraction, foreign-key relationship discovery, and ad-hoc sampling
// queries, over one driver per engine_kind. Concrete engines register
// themselves into a name-keyed factory registry exactly the way the
// teacher's internal/storage/factory package registers storage backends
// (RegisterBackend / backendRegistry / NewWithOptions), generalized from
// one hardcoded Dolt backend to four SQL engines behind database/sql.
package catalog

import (
	"context"

	"github.com/schemadoc/schemadoc/internal/types"
)

// ListOptions narrows ListTables per spec.md §6.1.
type ListOptions struct {
	SchemasInclude      []string
	SchemasExclude      []string
	TablesExclude       []string
	IncludeSystemTables bool
}

// Row is one result row from an ad-hoc sampling query, column name to value.
type Row map[string]any

// Connector is the capability surface every engine_kind plug-in implements.
type Connector interface {
	// Connect establishes the session described by cfg. ctx bounds the
	// connect attempt per DatabaseConfig.Timeouts.ConnectMillis.
	Connect(ctx context.Context, cfg types.DatabaseConfig) error
	// Disconnect releases the session. Safe to call on a Connector that
	// never successfully connected.
	Disconnect() error

	// ListTables enumerates tables visible to the session, eliding
	// engine-internal schemas unless IncludeSystemTables is set.
	ListTables(ctx context.Context, opts ListOptions) ([]types.TableMetadata, error)
	// GetTableMetadata fetches full metadata (columns, primary key,
	// outgoing foreign keys, indexes) for one table.
	GetTableMetadata(ctx context.Context, schema, table string) (types.TableMetadata, error)
	// GetRelationships returns the outgoing foreign-key edges of each of
	// the given tables. An edge that points into a given table from a
	// table outside the list is not returned. Engines without
	// relationship support return an empty slice, never an error.
	GetRelationships(ctx context.Context, tables []types.TableRef) ([]types.Relationship, error)
	// Query runs an ad-hoc read-only statement, used only for sampling.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
}
