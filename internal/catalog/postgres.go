package catalog

import (
	"fmt"
	"net/url"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/schemadoc/schemadoc/internal/types"
)

func init() {
	RegisterEngine("postgres", func() Connector {
		return &sqlConnector{
			driverName: "pgx",
			buildDSN:   buildPostgresDSN,
			dialect: dialect{
				name:                 "postgres",
				defaultSystemSchemas: []string{"pg_catalog", "information_schema", "pg_toast"},
				placeholder:          placeholderDollar,
			},
		}
	})
}

func buildPostgresDSN(creds *types.EngineCredentials) (string, error) {
	if creds.Host == "" || creds.Database == "" {
		return "", fmt.Errorf("catalog: postgres credentials require host and database")
	}
	port := creds.Port
	if port == 0 {
		port = 5432
	}
	sslMode := creds.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}
	password := resolvePassword(creds)
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(creds.User, password),
		Host:     fmt.Sprintf("%s:%d", creds.Host, port),
		Path:     "/" + creds.Database,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String(), nil
}
