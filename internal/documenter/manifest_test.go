package documenter

import (
	"testing"

	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

func TestGenerateManifestCollectsWrittenArtifacts(t *testing.T) {
	t.Setenv("DOCS_ROOT", t.TempDir())
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())

	unit := types.WorkUnit{ID: "app_core", Database: "app", Domain: "core", OutputDirectory: "databases/app/domains/core"}
	plan := &types.DocumentationPlan{ConfigHash: "h1", WorkUnits: []types.WorkUnit{unit}}

	artifact := sampleArtifact()
	if _, err := writeTableArtifact(unit.OutputDirectory, artifact); err != nil {
		t.Fatalf("writeTableArtifact: %v", err)
	}

	progress := &types.DocumenterProgress{Status: types.OverallCompleted, PlanHash: "h1", WorkUnits: map[string]*types.WorkUnitProgress{
		"app_core": {ID: "app_core", Status: types.WorkUnitCompleted},
	}}

	if err := GenerateManifest(plan, progress); err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}

	var manifest types.Manifest
	if err := progressio.ReadJSON(progressio.ManifestPath(), &manifest); err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if manifest.TotalFiles != 2 {
		t.Fatalf("expected 2 files (md+json), got %d", manifest.TotalFiles)
	}
	if manifest.Status != types.ManifestComplete {
		t.Fatalf("expected complete status, got %s", manifest.Status)
	}
	if len(manifest.WorkUnits) != 1 || manifest.WorkUnits[0].FileCount != 2 {
		t.Fatalf("unexpected work unit summary: %+v", manifest.WorkUnits)
	}
}

func TestGenerateManifestMarksPartialOnIncompleteProgress(t *testing.T) {
	t.Setenv("DOCS_ROOT", t.TempDir())
	t.Setenv("TEST_PROGRESS_DIR", t.TempDir())

	plan := &types.DocumentationPlan{ConfigHash: "h1", WorkUnits: []types.WorkUnit{}}
	progress := &types.DocumenterProgress{Status: types.OverallPartial, PlanHash: "h1", WorkUnits: map[string]*types.WorkUnitProgress{}}

	if err := GenerateManifest(plan, progress); err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}

	var manifest types.Manifest
	if err := progressio.ReadJSON(progressio.ManifestPath(), &manifest); err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if manifest.Status != types.ManifestPartial {
		t.Fatalf("expected partial status, got %s", manifest.Status)
	}
	if manifest.TotalFiles != 0 {
		t.Fatalf("expected 0 files, got %d", manifest.TotalFiles)
	}
}

func TestWorkUnitOutputHashIsStableUnderInputSliceOrder(t *testing.T) {
	// Same files, given in two different slice orders: the function must
	// sort by Path itself, so the result doesn't depend on caller order.
	a := []types.IndexableFile{
		{Path: "b.md", ContentHash: "bbb"},
		{Path: "a.md", ContentHash: "aaa"},
	}
	b := []types.IndexableFile{
		{Path: "a.md", ContentHash: "aaa"},
		{Path: "b.md", ContentHash: "bbb"},
	}
	if workUnitOutputHash(a) != workUnitOutputHash(b) {
		t.Fatal("expected output hash to be independent of input slice order")
	}
}

func TestWorkUnitOutputHashOrdersByPathNotHashValue(t *testing.T) {
	// "z.md" sorts last by path but its content hash ("aaa") sorts first by
	// value: the hash must reflect path order (spec.md §4.2.7), so swapping
	// which file holds which hash, while keeping paths fixed, must change
	// the result.
	byPath := []types.IndexableFile{
		{Path: "a.md", ContentHash: "bbb"},
		{Path: "z.md", ContentHash: "aaa"},
	}
	swapped := []types.IndexableFile{
		{Path: "a.md", ContentHash: "aaa"},
		{Path: "z.md", ContentHash: "bbb"},
	}
	if workUnitOutputHash(byPath) == workUnitOutputHash(swapped) {
		t.Fatal("expected output hash to depend on path-ordered content hashes, not hash-sorted ones")
	}
}

func TestWorkUnitOutputHashEmptyIsSentinel(t *testing.T) {
	if workUnitOutputHash(nil) != emptyOutputHash {
		t.Fatal("expected empty file list to produce the sentinel hash")
	}
}

func TestTableNameFromArtifactPath(t *testing.T) {
	schema, table := tableNameFromArtifactPath("/docs/databases/app/domains/core/tables/public.users.md")
	if schema != "public" || table != "users" {
		t.Fatalf("got schema=%s table=%s", schema, table)
	}
}

func TestContentHashDiffersOnChange(t *testing.T) {
	if contentHash([]byte("a")) == contentHash([]byte("b")) {
		t.Fatal("expected different content to hash differently")
	}
}
