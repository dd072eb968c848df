package documenter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/types"
)

// registerFakeCatalogEngine registers a one-shot engine_kind that always
// returns conn from catalog.New, for the duration of the calling test.
func registerFakeCatalogEngine(t *testing.T, engineKind string, conn *fakeConnector) {
	t.Helper()
	catalog.RegisterEngine(engineKind, func() catalog.Connector { return conn })
}

func TestProcessWorkUnitDocumentsEveryTable(t *testing.T) {
	t.Setenv("DOCS_ROOT", t.TempDir())

	registerFakeCatalogEngine(t, "fake-ok", &fakeConnector{})

	unit := types.WorkUnit{
		ID:              "app_core",
		Database:        "app",
		Domain:          "core",
		OutputDirectory: "databases/app/domains/core",
		Tables: []types.TableSpec{
			{FullyQualifiedName: "public.users", Schema: "public", Table: "users", Priority: types.PriorityCore},
			{FullyQualifiedName: "public.orders", Schema: "public", Table: "orders", Priority: types.PriorityNormal},
		},
	}
	dbCfg := types.DatabaseConfig{Name: "app", EngineKind: "fake-ok"}

	outcome := processWorkUnit(context.Background(), unit, dbCfg, nil, "model", time.Second, time.Now())

	if outcome.ConnectionLost {
		t.Fatal("did not expect connection loss")
	}
	if outcome.Progress.TablesCompleted != 2 {
		t.Fatalf("expected 2 completed tables, got %+v", outcome.Progress)
	}
	if outcome.Progress.Status != types.WorkUnitCompleted {
		t.Fatalf("expected completed status, got %s", outcome.Progress.Status)
	}
}

func TestProcessWorkUnitFailsWhenConnectErrors(t *testing.T) {
	registerFakeCatalogEngine(t, "fake-connect-fail", &fakeConnector{connectErr: errors.New("refused")})

	unit := types.WorkUnit{ID: "app_core", Database: "app", Tables: []types.TableSpec{{Schema: "public", Table: "users"}}}
	dbCfg := types.DatabaseConfig{Name: "app", EngineKind: "fake-connect-fail"}

	outcome := processWorkUnit(context.Background(), unit, dbCfg, nil, "model", time.Second, time.Now())

	if !outcome.ConnectionLost {
		t.Fatal("expected a connection-lost outcome when Connect fails")
	}
	if outcome.Progress.Status != types.WorkUnitFailed {
		t.Fatalf("expected failed status, got %s", outcome.Progress.Status)
	}
}

func TestIsConnectionLostDetectsDroppedConnection(t *testing.T) {
	if !isConnectionLost(errors.New("connection reset by peer")) {
		t.Fatal("expected a reset-connection message to be detected")
	}
	if isConnectionLost(errors.New("table not found")) {
		t.Fatal("did not expect an unrelated error to be detected as connection loss")
	}
	if isConnectionLost(nil) {
		t.Fatal("nil should never be a connection loss")
	}
}
