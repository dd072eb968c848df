package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/schemadoc/schemadoc/internal/types"
)

// dialect captures the handful of places Postgres, MySQL, and Dolt's
// information_schema queries diverge. All three are driven by the same
// sqlConnector; sqlite (no information_schema) gets its own implementation
// in sqlite.go.
type dialect struct {
	name string
	// defaultSystemSchemas are elided from ListTables unless
	// IncludeSystemTables is set.
	defaultSystemSchemas []string
	// placeholder formats the Nth (1-based) bind parameter for this engine.
	placeholder func(n int) string
}

var placeholderDollar = func(n int) string { return fmt.Sprintf("$%d", n) }
var placeholderQuestion = func(int) string { return "?" }

// sqlConnector implements Connector over database/sql for any engine whose
// catalog is queryable through the standard information_schema views
// (Postgres, MySQL, Dolt — Dolt speaks the MySQL wire protocol and exposes
// the same information_schema).
type sqlConnector struct {
	driverName string
	dialect    dialect
	buildDSN   func(*types.EngineCredentials) (string, error)

	db *sql.DB
}

func (c *sqlConnector) Connect(ctx context.Context, cfg types.DatabaseConfig) error {
	dsn, err := resolveDSN(cfg, c.buildDSN)
	if err != nil {
		return err
	}

	db, err := sql.Open(c.driverName, dsn)
	if err != nil {
		return fmt.Errorf("catalog: opening %s connection for %q: %w", c.dialect.name, cfg.Name, err)
	}

	connectCtx := ctx
	if cfg.Timeouts.ConnectMillis > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Timeouts.ConnectMillis)*time.Millisecond)
		defer cancel()
	}
	if err := db.PingContext(connectCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("catalog: connecting to %q (%s): %w", cfg.Name, c.dialect.name, err)
	}

	c.db = db
	return nil
}

func (c *sqlConnector) Disconnect() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *sqlConnector) isSystemSchema(schema string, includeSystem bool) bool {
	if includeSystem {
		return false
	}
	for _, s := range c.dialect.defaultSystemSchemas {
		if strings.EqualFold(s, schema) {
			return true
		}
	}
	return false
}

func schemaAllowed(schema string, include, exclude []string) bool {
	if len(include) > 0 {
		found := false
		for _, s := range include {
			if strings.EqualFold(s, schema) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, s := range exclude {
		if strings.EqualFold(s, schema) {
			return false
		}
	}
	return true
}

func tableExcluded(schema, table string, exclude []string) bool {
	fq := schema + "." + table
	for _, pattern := range exclude {
		if strings.EqualFold(pattern, fq) || strings.EqualFold(pattern, table) {
			return true
		}
	}
	return false
}

const listTablesQuery = `
SELECT table_schema, table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
ORDER BY table_schema, table_name`

func (c *sqlConnector) ListTables(ctx context.Context, opts ListOptions) ([]types.TableMetadata, error) {
	rows, err := c.db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing tables: %w", err)
	}
	defer rows.Close()

	var out []types.TableMetadata
	for rows.Next() {
		var schema, table string
		if err := rows.Scan(&schema, &table); err != nil {
			return nil, fmt.Errorf("catalog: scanning table list row: %w", err)
		}
		if c.isSystemSchema(schema, opts.IncludeSystemTables) {
			continue
		}
		if !schemaAllowed(schema, opts.SchemasInclude, opts.SchemasExclude) {
			continue
		}
		if tableExcluded(schema, table, opts.TablesExclude) {
			continue
		}

		md, err := c.GetTableMetadata(ctx, schema, table)
		if err != nil {
			return nil, err
		}
		out = append(out, md)
	}
	return out, rows.Err()
}

const columnsQuery = `
SELECT column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = %s AND table_name = %s
ORDER BY ordinal_position`

const primaryKeyQuery = `
SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = %s AND tc.table_name = %s
ORDER BY kcu.ordinal_position`

const foreignKeysQuery = `
SELECT kcu.column_name, ccu.table_schema, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = %s AND tc.table_name = %s`

func (c *sqlConnector) GetTableMetadata(ctx context.Context, schema, table string) (types.TableMetadata, error) {
	md := types.TableMetadata{Schema: schema, Table: table}

	q := fmt.Sprintf(columnsQuery, c.dialect.placeholder(1), c.dialect.placeholder(2))
	rows, err := c.db.QueryContext(ctx, q, schema, table)
	if err != nil {
		return md, fmt.Errorf("catalog: columns for %s.%s: %w", schema, table, err)
	}
	for rows.Next() {
		var name, dataType, isNullable string
		var def *string
		if err := rows.Scan(&name, &dataType, &isNullable, &def); err != nil {
			rows.Close()
			return md, fmt.Errorf("catalog: scanning column row: %w", err)
		}
		md.Columns = append(md.Columns, types.Column{
			Name:     name,
			Type:     dataType,
			Nullable: strings.EqualFold(isNullable, "YES"),
			Default:  def,
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return md, err
	}

	q = fmt.Sprintf(primaryKeyQuery, c.dialect.placeholder(1), c.dialect.placeholder(2))
	pkRows, err := c.db.QueryContext(ctx, q, schema, table)
	if err != nil {
		return md, fmt.Errorf("catalog: primary key for %s.%s: %w", schema, table, err)
	}
	for pkRows.Next() {
		var col string
		if err := pkRows.Scan(&col); err != nil {
			pkRows.Close()
			return md, err
		}
		md.PrimaryKey = append(md.PrimaryKey, col)
	}
	pkRows.Close()
	if err := pkRows.Err(); err != nil {
		return md, err
	}

	q = fmt.Sprintf(foreignKeysQuery, c.dialect.placeholder(1), c.dialect.placeholder(2))
	fkRows, err := c.db.QueryContext(ctx, q, schema, table)
	if err != nil {
		return md, fmt.Errorf("catalog: foreign keys for %s.%s: %w", schema, table, err)
	}
	for fkRows.Next() {
		var col, targetSchema, targetTable, targetCol string
		if err := fkRows.Scan(&col, &targetSchema, &targetTable, &targetCol); err != nil {
			fkRows.Close()
			return md, err
		}
		md.ForeignKeys = append(md.ForeignKeys, types.ForeignKey{
			Column:       col,
			TargetSchema: targetSchema,
			TargetTable:  targetTable,
			TargetColumn: targetCol,
		})
	}
	fkRows.Close()
	if err := fkRows.Err(); err != nil {
		return md, err
	}

	var rowCount int64
	countQuery := fmt.Sprintf("SELECT reltuples::bigint FROM pg_class WHERE oid = %s::regclass", c.dialect.placeholder(1))
	if c.dialect.name != "postgres" {
		countQuery = fmt.Sprintf("SELECT table_rows FROM information_schema.tables WHERE table_schema = %s AND table_name = %s", c.dialect.placeholder(1), c.dialect.placeholder(2))
		if err := c.db.QueryRowContext(ctx, countQuery, schema, table).Scan(&rowCount); err == nil {
			md.RowCountApprox = rowCount
		}
	} else {
		fq := schema + "." + table
		if err := c.db.QueryRowContext(ctx, countQuery, fq).Scan(&rowCount); err == nil && rowCount > 0 {
			md.RowCountApprox = rowCount
		}
	}

	return md, nil
}

func (c *sqlConnector) GetRelationships(ctx context.Context, tables []types.TableRef) ([]types.Relationship, error) {
	if len(tables) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var rels []types.Relationship
	for _, t := range tables {
		md, err := c.GetTableMetadata(ctx, t.Schema, t.Table)
		if err != nil {
			continue
		}
		for _, fk := range md.ForeignKeys {
			key := fmt.Sprintf("%s.%s.%s->%s.%s.%s", t.Schema, t.Table, fk.Column, fk.TargetSchema, fk.TargetTable, fk.TargetColumn)
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

func (c *sqlConnector) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: query: %w", err)
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
			return nil, fmt.Errorf("catalog: scanning query row: %w", err)
		}
		row := make(Row, len(cols))
		for i, name := range cols {
			row[name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
