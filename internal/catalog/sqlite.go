package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/schemadoc/schemadoc/internal/types"
)

func init() {
	RegisterEngine("sqlite", func() Connector { return &sqliteConnector{} })
}

// sqliteConnector implements Connector for sqlite catalogs — mainly small
// demo/test databases, since the system tables and SQL dialect differ too
// much from the information_schema-driven engines to share sqlConnector.
// Uses ncruces/go-sqlite3, a cgo-free driver, so the whole module stays
// buildable without a C toolchain even when sqlite is in the engine mix.
type sqliteConnector struct {
	db     *sql.DB
	schema string // sqlite has one implicit schema, "main"
}

func (c *sqliteConnector) Connect(ctx context.Context, cfg types.DatabaseConfig) error {
	if cfg.ConnectionRef.Credentials == nil || cfg.ConnectionRef.Credentials.LocalPath == "" {
		return fmt.Errorf("catalog: sqlite engine requires connection_ref.credentials.local_path")
	}
	db, err := sql.Open("sqlite3", cfg.ConnectionRef.Credentials.LocalPath)
	if err != nil {
		return fmt.Errorf("catalog: opening sqlite database %q: %w", cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("catalog: connecting to sqlite database %q: %w", cfg.Name, err)
	}
	c.db = db
	c.schema = "main"
	return nil
}

func (c *sqliteConnector) Disconnect() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *sqliteConnector) ListTables(ctx context.Context, opts ListOptions) ([]types.TableMetadata, error) {
	if !schemaAllowed(c.schema, opts.SchemasInclude, opts.SchemasExclude) {
		return nil, nil
	}

	rows, err := c.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing sqlite tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []types.TableMetadata
	for _, name := range names {
		if tableExcluded(c.schema, name, opts.TablesExclude) {
			continue
		}
		md, err := c.GetTableMetadata(ctx, c.schema, name)
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, nil
}

func (c *sqliteConnector) GetTableMetadata(ctx context.Context, schema, table string) (types.TableMetadata, error) {
	md := types.TableMetadata{Schema: schema, Table: table}

	rows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return md, fmt.Errorf("catalog: pragma table_info(%s): %w", table, err)
	}
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return md, err
		}
		md.Columns = append(md.Columns, types.Column{
			Name:     name,
			Type:     colType,
			Nullable: notNull == 0,
			Default:  dflt,
		})
		if pk > 0 {
			md.PrimaryKey = append(md.PrimaryKey, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return md, err
	}

	fkRows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table)))
	if err != nil {
		return md, fmt.Errorf("catalog: pragma foreign_key_list(%s): %w", table, err)
	}
	for fkRows.Next() {
		var id, seq int
		var targetTable, from, to, onUpdate, onDelete, match string
		if err := fkRows.Scan(&id, &seq, &targetTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			fkRows.Close()
			return md, err
		}
		md.ForeignKeys = append(md.ForeignKeys, types.ForeignKey{
			Column:       from,
			TargetSchema: schema,
			TargetTable:  targetTable,
			TargetColumn: to,
		})
	}
	fkRows.Close()
	if err := fkRows.Err(); err != nil {
		return md, err
	}

	idxRows, err := c.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(table)))
	if err == nil {
		for idxRows.Next() {
			var seq int
			var name, origin string
			var unique, partial int
			if err := idxRows.Scan(&seq, &name, &unique, &origin, &partial); err == nil {
				md.Indexes = append(md.Indexes, name)
			}
		}
		idxRows.Close()
	}

	var rowCount int64
	if err := c.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))).Scan(&rowCount); err == nil {
		md.RowCountApprox = rowCount
	}

	return md, nil
}

func (c *sqliteConnector) GetRelationships(ctx context.Context, tables []types.TableRef) ([]types.Relationship, error) {
	var rels []types.Relationship
	seen := make(map[string]bool)
	for _, t := range tables {
		md, err := c.GetTableMetadata(ctx, t.Schema, t.Table)
		if err != nil {
			continue
		}
		for _, fk := range md.ForeignKeys {
			key := fmt.Sprintf("%s.%s->%s.%s", t.Table, fk.Column, fk.TargetTable, fk.TargetColumn)
			if seen[key] {
				continue
			}
			seen[key] = true
			rels = append(rels, types.Relationship{
				Source:     types.TableRef{Schema: t.Schema, Table: t.Table, Column: fk.Column},
				Target:     types.TableRef{Schema: fk.TargetSchema, Table: fk.TargetTable, Column: fk.TargetColumn},
				Kind:       types.RelationshipForeignKey,
				HopCount:   1,
				Confidence: 1.0,
			})
		}
	}
	return rels, nil
}

func (c *sqliteConnector) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: sqlite query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, name := range cols {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// quoteIdent wraps a sqlite identifier in double quotes, escaping any
// embedded quote. Table/column names here always originate from
// sqlite_master/pragma introspection, never raw user input.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
