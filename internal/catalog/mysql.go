package catalog

import (
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"

	"github.com/schemadoc/schemadoc/internal/types"
)

func init() {
	RegisterEngine("mysql", func() Connector {
		return &sqlConnector{
			driverName: "mysql",
			buildDSN:   buildMySQLDSN,
			dialect: dialect{
				name:                 "mysql",
				defaultSystemSchemas: []string{"information_schema", "mysql", "performance_schema", "sys"},
				placeholder:          placeholderQuestion,
			},
		}
	})
}

func buildMySQLDSN(creds *types.EngineCredentials) (string, error) {
	if creds.Host == "" || creds.Database == "" {
		return "", fmt.Errorf("catalog: mysql credentials require host and database")
	}
	port := creds.Port
	if port == 0 {
		port = 3306
	}

	cfg := mysqldriver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", creds.Host, port)
	cfg.User = creds.User
	cfg.Passwd = resolvePassword(creds)
	cfg.DBName = creds.Database
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}
