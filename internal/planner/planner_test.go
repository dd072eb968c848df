package planner

import (
	"context"
	"testing"
	"time"

	"github.com/schemadoc/schemadoc/internal/types"
)

func TestClassifyComplexity(t *testing.T) {
	cases := []struct {
		tables int
		want   types.PlanComplexity
	}{
		{5, types.ComplexitySimple},
		{20, types.ComplexitySimple},
		{21, types.ComplexityModerate},
		{200, types.ComplexityModerate},
		{201, types.ComplexityComplex},
	}
	for _, c := range cases {
		plan := &types.DocumentationPlan{Databases: []types.DatabaseAnalysis{{TableCount: c.tables}}}
		if got := classifyComplexity(plan); got != c.want {
			t.Errorf("tables=%d: got %v, want %v", c.tables, got, c.want)
		}
	}
}

func TestEstimatedMinutes(t *testing.T) {
	if got := estimatedMinutes(0); got != 1 {
		t.Fatalf("expected ceil(30/60)=1, got %d", got)
	}
	if got := estimatedMinutes(1); got != 2 {
		t.Fatalf("expected ceil(70/60)=2, got %d", got)
	}
	if got := estimatedMinutes(10); got != 8 {
		t.Fatalf("expected ceil(430/60)=8, got %d", got)
	}
}

func TestCountReachableAndCountTables(t *testing.T) {
	analyses := []types.DatabaseAnalysis{
		{Status: types.DatabaseReachable},
		{Status: types.DatabaseUnreachable},
		{Status: types.DatabaseReachable},
	}
	if got := countReachable(analyses); got != 2 {
		t.Fatalf("expected 2 reachable, got %d", got)
	}

	byDB := map[string][]types.TableMetadata{
		"a": {tableMeta("public", "t1", 1), tableMeta("public", "t2", 1)},
		"b": {tableMeta("public", "t3", 1)},
	}
	if got := countTables(byDB); got != 3 {
		t.Fatalf("expected 3 tables, got %d", got)
	}
}

func TestMinInt(t *testing.T) {
	if minInt(2, 5) != 2 {
		t.Fatal("expected 2")
	}
	if minInt(7, 5) != 5 {
		t.Fatal("expected 5")
	}
}

func TestSortTableMetadataOrdersBySchemaThenTable(t *testing.T) {
	tables := []types.TableMetadata{
		tableMeta("public", "zebra", 1),
		tableMeta("archive", "apple", 1),
		tableMeta("public", "apple", 1),
	}
	sortTableMetadata(tables)
	want := []string{"archive.apple", "public.apple", "public.zebra"}
	for i, t2 := range tables {
		if got := t2.FullyQualifiedName(); got != want[i] {
			t.Fatalf("index %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestWithConnectTimeoutFallsBackToOptionsDefault(t *testing.T) {
	opts := Options{ConnectTimeout: 50 * time.Millisecond}
	ctx, cancel := withConnectTimeout(context.Background(), opts, types.DatabaseConfig{})
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline from opts.ConnectTimeout")
	}
	if time.Until(deadline) > 50*time.Millisecond {
		t.Fatal("expected deadline to respect opts.ConnectTimeout")
	}
}

func TestWithConnectTimeoutPrefersConfigMillis(t *testing.T) {
	opts := Options{ConnectTimeout: time.Minute}
	cfg := types.DatabaseConfig{Timeouts: types.Timeouts{ConnectMillis: 10}}
	ctx, cancel := withConnectTimeout(context.Background(), opts, cfg)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline from cfg.Timeouts.ConnectMillis")
	}
	if time.Until(deadline) > 10*time.Millisecond {
		t.Fatal("expected deadline to respect cfg.Timeouts.ConnectMillis over opts.ConnectTimeout")
	}
}

func TestBatchSizeDefaultsTo20(t *testing.T) {
	opts := Options{}
	if got := opts.batchSize(); got != 20 {
		t.Fatalf("expected default batch size 20, got %d", got)
	}
	opts.Config.BatchSize = 5
	if got := opts.batchSize(); got != 5 {
		t.Fatalf("expected configured batch size 5, got %d", got)
	}
}

func TestDictionaryDefaultsToBuiltin(t *testing.T) {
	opts := Options{}
	if opts.dictionary() == nil {
		t.Fatal("expected a non-nil default dictionary")
	}
}
