package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/schemadoc/schemadoc/internal/types"
)

func writeCatalogFixture(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadParsesEnvVarAndCredentialsConnectionRefs(t *testing.T) {
	path := writeCatalogFixture(t, `
databases:
  - name: app_core
    engine_kind: postgres
    connection_ref: APP_CORE_DSN
    schemas_include: [public]
  - name: legacy
    engine_kind: mysql
    connection_ref:
      host: legacy-db.internal
      port: 3306
      database: legacy
      user: svc_schemadoc
      password_env_var: LEGACY_DB_PASSWORD
`)

	dbs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dbs) != 2 {
		t.Fatalf("expected 2 databases, got %d", len(dbs))
	}

	if dbs[0].ConnectionRef.Kind != types.ConnectionKindEnvVar || dbs[0].ConnectionRef.EnvVar != "APP_CORE_DSN" {
		t.Fatalf("expected app_core to be an env_var ref, got %+v", dbs[0].ConnectionRef)
	}
	if dbs[1].ConnectionRef.Kind != types.ConnectionKindCredentials || dbs[1].ConnectionRef.Credentials == nil || dbs[1].ConnectionRef.Credentials.Host != "legacy-db.internal" {
		t.Fatalf("expected legacy to be a credentials ref, got %+v", dbs[1].ConnectionRef)
	}
}

func TestLoadRejectsUnknownEngineKind(t *testing.T) {
	path := writeCatalogFixture(t, `
databases:
  - name: mystery
    engine_kind: oracle
    connection_ref: MYSTERY_DSN
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unregistered engine_kind")
	}
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	path := writeCatalogFixture(t, `
databases:
  - name: app_core
    engine_kind: postgres
    connection_ref: A
  - name: app_core
    engine_kind: postgres
    connection_ref: B
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a duplicate database name")
	}
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := writeCatalogFixture(t, `databases: []`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a catalog declaring no databases")
	}
}
