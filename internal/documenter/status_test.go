package documenter

import (
	"testing"

	"github.com/schemadoc/schemadoc/internal/types"
)

func TestWorkUnitStatusAllSucceeded(t *testing.T) {
	p := types.WorkUnitProgress{TablesTotal: 3, TablesCompleted: 2, TablesSkipped: 1}
	if got := workUnitStatus(p, false); got != types.WorkUnitCompleted {
		t.Fatalf("got %s, want completed", got)
	}
}

func TestWorkUnitStatusMixedIsPartial(t *testing.T) {
	p := types.WorkUnitProgress{TablesTotal: 3, TablesCompleted: 2, TablesFailed: 1}
	if got := workUnitStatus(p, false); got != types.WorkUnitPartial {
		t.Fatalf("got %s, want partial", got)
	}
}

func TestWorkUnitStatusAllFailed(t *testing.T) {
	p := types.WorkUnitProgress{TablesTotal: 2, TablesFailed: 2}
	if got := workUnitStatus(p, false); got != types.WorkUnitFailed {
		t.Fatalf("got %s, want failed", got)
	}
}

func TestWorkUnitStatusConnectionLostWithPriorSuccessIsPartial(t *testing.T) {
	p := types.WorkUnitProgress{TablesTotal: 5, TablesCompleted: 2}
	if got := workUnitStatus(p, true); got != types.WorkUnitPartial {
		t.Fatalf("got %s, want partial", got)
	}
}

func TestWorkUnitStatusConnectionLostWithNoSuccessIsFailed(t *testing.T) {
	p := types.WorkUnitProgress{TablesTotal: 5}
	if got := workUnitStatus(p, true); got != types.WorkUnitFailed {
		t.Fatalf("got %s, want failed", got)
	}
}

func TestWorkUnitStatusEmptyIsCompleted(t *testing.T) {
	p := types.WorkUnitProgress{TablesTotal: 0}
	if got := workUnitStatus(p, false); got != types.WorkUnitCompleted {
		t.Fatalf("got %s, want completed", got)
	}
}

func TestOverallStatusAllCompleted(t *testing.T) {
	units := map[string]*types.WorkUnitProgress{
		"a": {Status: types.WorkUnitCompleted},
		"b": {Status: types.WorkUnitCompleted},
	}
	if got := overallStatus(units, false); got != types.OverallCompleted {
		t.Fatalf("got %s, want completed", got)
	}
}

func TestOverallStatusAllFailed(t *testing.T) {
	units := map[string]*types.WorkUnitProgress{
		"a": {Status: types.WorkUnitFailed},
		"b": {Status: types.WorkUnitFailed},
	}
	if got := overallStatus(units, false); got != types.OverallFailed {
		t.Fatalf("got %s, want failed", got)
	}
}

func TestOverallStatusMixedIsPartial(t *testing.T) {
	units := map[string]*types.WorkUnitProgress{
		"a": {Status: types.WorkUnitCompleted},
		"b": {Status: types.WorkUnitFailed},
	}
	if got := overallStatus(units, false); got != types.OverallPartial {
		t.Fatalf("got %s, want partial", got)
	}
}

func TestOverallStatusFatalOverridesEverything(t *testing.T) {
	units := map[string]*types.WorkUnitProgress{
		"a": {Status: types.WorkUnitCompleted},
	}
	if got := overallStatus(units, true); got != types.OverallFailed {
		t.Fatalf("got %s, want failed", got)
	}
}

func TestOverallStatusUnfinishedUnitsArePartial(t *testing.T) {
	units := map[string]*types.WorkUnitProgress{
		"a": {Status: types.WorkUnitCompleted},
		"b": {Status: types.WorkUnitPending},
	}
	if got := overallStatus(units, false); got != types.OverallPartial {
		t.Fatalf("got %s, want partial", got)
	}
}
