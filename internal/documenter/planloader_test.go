package documenter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/schemadoc/schemadoc/internal/canon"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

func writeTestPlan(t *testing.T, plan types.DocumentationPlan) {
	t.Helper()
	if err := progressio.WriteJSONAtomic(progressio.PlanPath(), plan); err != nil {
		t.Fatalf("writing test plan: %v", err)
	}
}

func TestLoadPlanMissingFileIsFatal(t *testing.T) {
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())

	_, _, err := LoadPlan(nil)
	if err == nil {
		t.Fatal("expected an error when no plan exists")
	}
}

func TestLoadPlanRejectsWrongSchemaVersion(t *testing.T) {
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())
	writeTestPlan(t, types.DocumentationPlan{SchemaVersion: "0.9", GeneratedAt: time.Now(), WorkUnits: []types.WorkUnit{}})

	_, _, err := LoadPlan(nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported schema_version")
	}
}

func TestLoadPlanAcceptsWellFormedPlan(t *testing.T) {
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())
	cfgs := []types.DatabaseConfig{{Name: "app", EngineKind: "postgres"}}
	hash, err := canon.Hash(cfgs)
	if err != nil {
		t.Fatalf("hashing catalog: %v", err)
	}
	writeTestPlan(t, types.DocumentationPlan{
		SchemaVersion: types.PlanSchemaVersion,
		GeneratedAt:   time.Now(),
		ConfigHash:    hash,
		WorkUnits:     []types.WorkUnit{{ID: "app_core"}},
	})

	plan, stale, err := LoadPlan(cfgs)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if stale != nil {
		t.Fatalf("expected no staleness warning, got %v", stale)
	}
	if len(plan.WorkUnits) != 1 {
		t.Fatalf("expected 1 work unit, got %d", len(plan.WorkUnits))
	}
}

func TestLoadPlanFlagsStaleConfigAsWarningNotFatal(t *testing.T) {
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())
	writeTestPlan(t, types.DocumentationPlan{
		SchemaVersion: types.PlanSchemaVersion,
		GeneratedAt:   time.Now(),
		ConfigHash:    "stale-hash",
		WorkUnits:     []types.WorkUnit{},
	})

	plan, stale, err := LoadPlan([]types.DatabaseConfig{{Name: "app", EngineKind: "postgres"}})
	if err != nil {
		t.Fatalf("expected staleness to be non-fatal, got error: %v", err)
	}
	if stale == nil {
		t.Fatal("expected a staleness warning")
	}
	if plan == nil {
		t.Fatal("expected the stale plan to still be returned")
	}
}

func TestLoadPlanPathIsUnderProgressBase(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_PROGRESS_DIR", dir)
	want := filepath.Join(dir, "progress", "documentation-plan.json")
	if got := progressio.PlanPath(); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
