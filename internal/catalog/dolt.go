//go:build cgo

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	embedded "github.com/dolthub/driver"

	"github.com/schemadoc/schemadoc/internal/types"
)

func init() {
	RegisterEngine("dolt", func() Connector {
		return &doltConnector{
			sqlConnector: sqlConnector{
				dialect: dialect{
					name:                 "dolt",
					defaultSystemSchemas: []string{"information_schema", "mysql", "performance_schema", "sys"},
					placeholder:          placeholderQuestion,
				},
			},
		}
	})
}

// doltConnector connects to an embedded Dolt database directory (CGO-only,
// via github.com/dolthub/driver) instead of a network address. Its
// ListTables/GetTableMetadata/GetRelationships/Query methods are inherited
// unmodified from sqlConnector — Dolt speaks the MySQL wire protocol and
// exposes the same information_schema views — only Connect/Disconnect
// differ, following the ParseDSN / NewConnector / sql.OpenDB / Close-both
// lifecycle in the teacher's internal/storage/dolt/embedded_uow.go.
type doltConnector struct {
	sqlConnector
	connector io.Closer
}

func (c *doltConnector) Connect(ctx context.Context, cfg types.DatabaseConfig) error {
	if cfg.ConnectionRef.Credentials == nil || cfg.ConnectionRef.Credentials.LocalPath == "" {
		return fmt.Errorf("catalog: dolt engine requires connection_ref.credentials.local_path")
	}
	dsn := "file://" + cfg.ConnectionRef.Credentials.LocalPath + "?commitname=schemadoc&commitemail=schemadoc@local"

	doltCfg, err := embedded.ParseDSN(dsn)
	if err != nil {
		return fmt.Errorf("catalog: parsing dolt dsn for %q: %w", cfg.Name, err)
	}

	connector, err := embedded.NewConnector(doltCfg)
	if err != nil {
		return fmt.Errorf("catalog: creating dolt connector for %q: %w", cfg.Name, err)
	}

	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = connector.Close()
		return fmt.Errorf("catalog: connecting to dolt database %q: %w", cfg.Name, err)
	}

	c.db = db
	c.connector = connector
	return nil
}

func (c *doltConnector) Disconnect() error {
	var errs []error
	if c.db != nil {
		errs = append(errs, c.db.Close())
		c.db = nil
	}
	if c.connector != nil {
		errs = append(errs, c.connector.Close())
		c.connector = nil
	}
	return errors.Join(errs...)
}
