package catalog

import (
	"fmt"
	"os"

	"github.com/schemadoc/schemadoc/internal/types"
)

// resolveDSN turns a DatabaseConfig's ConnectionRef into a connection
// string. An env-var reference is a fully-formed DSN read verbatim from
// the named environment variable; a structured credential bundle is
// assembled with buildDSN, which is engine-specific.
func resolveDSN(cfg types.DatabaseConfig, buildDSN func(*types.EngineCredentials) (string, error)) (string, error) {
	ref := cfg.ConnectionRef
	switch ref.Kind {
	case types.ConnectionKindEnvVar:
		dsn := os.Getenv(ref.EnvVar)
		if dsn == "" {
			return "", fmt.Errorf("catalog: environment variable %q is unset or empty for database %q", ref.EnvVar, cfg.Name)
		}
		return dsn, nil
	case types.ConnectionKindCredentials:
		if ref.Credentials == nil {
			return "", fmt.Errorf("catalog: database %q has connection_ref kind=credentials but no credentials set", cfg.Name)
		}
		return buildDSN(ref.Credentials)
	default:
		return "", fmt.Errorf("catalog: database %q has an unrecognized connection_ref", cfg.Name)
	}
}

// resolvePassword reads the password named by creds.PasswordEnvVar, or
// returns "" if none is configured (some engines/auth modes need none).
func resolvePassword(creds *types.EngineCredentials) string {
	if creds.PasswordEnvVar == "" {
		return ""
	}
	return os.Getenv(creds.PasswordEnvVar)
}
