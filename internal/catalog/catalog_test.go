package catalog

import (
	"strings"
	"testing"

	"github.com/schemadoc/schemadoc/internal/types"
)

func TestSchemaAllowedIncludeExclude(t *testing.T) {
	if !schemaAllowed("public", nil, nil) {
		t.Fatal("expected no filters to allow everything")
	}
	if schemaAllowed("public", []string{"sales"}, nil) {
		t.Fatal("expected include filter to reject non-listed schema")
	}
	if !schemaAllowed("sales", []string{"sales"}, nil) {
		t.Fatal("expected include filter to allow listed schema")
	}
	if schemaAllowed("sales", nil, []string{"sales"}) {
		t.Fatal("expected exclude filter to reject listed schema")
	}
}

func TestTableExcludedMatchesFQNAndBareName(t *testing.T) {
	if !tableExcluded("public", "secrets", []string{"public.secrets"}) {
		t.Fatal("expected fully-qualified match to exclude")
	}
	if !tableExcluded("public", "secrets", []string{"secrets"}) {
		t.Fatal("expected bare-name match to exclude")
	}
	if tableExcluded("public", "users", []string{"secrets"}) {
		t.Fatal("did not expect unrelated table to be excluded")
	}
}

func TestResolveDSNEnvVar(t *testing.T) {
	t.Setenv("TEST_DB_DSN", "postgres://example/test")
	cfg := types.DatabaseConfig{
		Name: "demo",
		ConnectionRef: types.ConnectionRef{
			Kind:   types.ConnectionKindEnvVar,
			EnvVar: "TEST_DB_DSN",
		},
	}
	dsn, err := resolveDSN(cfg, buildPostgresDSN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dsn != "postgres://example/test" {
		t.Fatalf("unexpected dsn: %q", dsn)
	}
}

func TestResolveDSNEnvVarMissingErrors(t *testing.T) {
	cfg := types.DatabaseConfig{
		Name: "demo",
		ConnectionRef: types.ConnectionRef{
			Kind:   types.ConnectionKindEnvVar,
			EnvVar: "TEST_DB_DSN_NOT_SET",
		},
	}
	_, err := resolveDSN(cfg, buildPostgresDSN)
	if err == nil {
		t.Fatal("expected error for unset env var")
	}
}

func TestBuildPostgresDSNIncludesHostAndDatabase(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cr3t")
	creds := &types.EngineCredentials{
		Host:           "db.internal",
		Port:           5432,
		Database:       "appdb",
		User:           "reader",
		PasswordEnvVar: "TEST_DB_PASSWORD",
	}
	dsn, err := buildPostgresDSN(creds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(dsn, "db.internal:5432") || !strings.Contains(dsn, "appdb") {
		t.Fatalf("unexpected dsn: %q", dsn)
	}
}

func TestBuildMySQLDSNRequiresHostAndDatabase(t *testing.T) {
	_, err := buildMySQLDSN(&types.EngineCredentials{})
	if err == nil {
		t.Fatal("expected error for missing host/database")
	}
}

func TestNewUnknownEngineKindErrors(t *testing.T) {
	_, err := New("oracle")
	if err == nil {
		t.Fatal("expected error for unregistered engine_kind")
	}
}

func TestNewRegisteredEngineKinds(t *testing.T) {
	for _, kind := range []string{"postgres", "mysql", "sqlite"} {
		if _, err := New(kind); err != nil {
			t.Fatalf("expected %s to be registered, got error: %v", kind, err)
		}
	}
}
