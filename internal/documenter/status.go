package documenter

import "github.com/schemadoc/schemadoc/internal/types"

// workUnitStatus implements spec.md §4.2.4's work-unit rollup: all tables
// succeeded (including skipped-success) -> completed; a mix of success and
// failure -> partial; every table failed -> failed; a connection lost
// mid-unit counts as partial if anything had already succeeded, failed
// otherwise; a unit with no tables at all is trivially completed.
func workUnitStatus(p types.WorkUnitProgress, connectionLost bool) types.WorkUnitStatus {
	succeeded := p.TablesCompleted + p.TablesSkipped

	if p.TablesTotal == 0 {
		return types.WorkUnitCompleted
	}

	if connectionLost {
		if succeeded > 0 {
			return types.WorkUnitPartial
		}
		return types.WorkUnitFailed
	}

	switch {
	case p.TablesFailed == 0:
		return types.WorkUnitCompleted
	case succeeded == 0:
		return types.WorkUnitFailed
	default:
		return types.WorkUnitPartial
	}
}

// overallStatus implements spec.md §4.2.4's run-level rollup: every unit
// completed -> completed; every unit failed, or a fatal error was recorded
// -> failed; anything still pending/running at termination, or a mix of
// completed/partial/failed -> partial.
func overallStatus(units map[string]*types.WorkUnitProgress, fatal bool) types.OverallStatus {
	if fatal {
		return types.OverallFailed
	}
	if len(units) == 0 {
		return types.OverallCompleted
	}

	allCompleted := true
	allFailed := true
	anyUnfinished := false

	for _, u := range units {
		switch u.Status {
		case types.WorkUnitCompleted:
			allFailed = false
		case types.WorkUnitPartial:
			allCompleted = false
			allFailed = false
		case types.WorkUnitFailed:
			allCompleted = false
		case types.WorkUnitPending, types.WorkUnitRunning:
			allCompleted = false
			allFailed = false
			anyUnfinished = true
		}
	}

	switch {
	case allCompleted:
		return types.OverallCompleted
	case allFailed:
		return types.OverallFailed
	case anyUnfinished:
		return types.OverallPartial
	default:
		return types.OverallPartial
	}
}
