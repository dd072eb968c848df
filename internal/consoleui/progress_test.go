package consoleui

import (
	"strings"
	"testing"

	"github.com/schemadoc/schemadoc/internal/types"
)

func TestWorkUnitBarIncludesCounts(t *testing.T) {
	p := types.WorkUnitProgress{ID: "app_core", Status: types.WorkUnitPartial, TablesTotal: 4, TablesCompleted: 2, TablesFailed: 1}
	line := WorkUnitBar(p)
	if !strings.Contains(line, "app_core") || !strings.Contains(line, "3/4") {
		t.Fatalf("expected bar to mention id and 3/4 progress, got %q", line)
	}
}

func TestPlanSummaryLinesReportsUnreachableDatabases(t *testing.T) {
	plan := types.DocumentationPlan{
		Summary: types.PlanSummary{TotalDatabases: 2, ReachableDatabases: 1, TotalTables: 3, TotalWorkUnits: 1},
		Databases: []types.DatabaseAnalysis{
			{Database: "app", Status: types.DatabaseReachable, TableCount: 3},
			{Database: "legacy", Status: types.DatabaseUnreachable, Error: "connection refused"},
		},
	}
	lines := PlanSummaryLines(plan)

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "legacy") || !strings.Contains(joined, "connection refused") {
		t.Fatalf("expected unreachable database detail in summary, got %v", lines)
	}
}
