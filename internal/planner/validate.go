package planner

import (
	"fmt"

	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/types"
)

// validatePlan implements spec.md §4.1 step 6: the assembled plan's
// counters must agree with its own contents, every work unit id must match
// its database_domain derivation, every TableSpec must be complete, and the
// depends_on graph (currently always empty — work units within a plan are
// independent) must not contain a cycle or a dangling reference.
func validatePlan(plan *types.DocumentationPlan) error {
	if plan.Summary.TotalWorkUnits != len(plan.WorkUnits) {
		return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
			fmt.Sprintf("plan summary.total_work_units=%d disagrees with %d work units", plan.Summary.TotalWorkUnits, len(plan.WorkUnits)))
	}

	tableCount := 0
	ids := make(map[string]bool, len(plan.WorkUnits))
	for _, wu := range plan.WorkUnits {
		if wu.ID != wu.Database+"_"+wu.Domain {
			return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
				fmt.Sprintf("work unit id %q does not match database_domain derivation", wu.ID)).
				WithContext("work_unit", wu.ID)
		}
		if ids[wu.ID] {
			return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
				fmt.Sprintf("duplicate work unit id %q", wu.ID))
		}
		ids[wu.ID] = true

		if len(wu.Tables) == 0 {
			return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
				fmt.Sprintf("work unit %q has no tables", wu.ID))
		}
		for _, t := range wu.Tables {
			if t.FullyQualifiedName == "" || t.MetadataHash == "" {
				return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
					fmt.Sprintf("work unit %q has an incomplete table spec", wu.ID)).
					WithContext("table", t.FullyQualifiedName)
			}
		}
		tableCount += len(wu.Tables)
	}

	if plan.Summary.TotalTables != tableCount {
		return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
			fmt.Sprintf("plan summary.total_tables=%d disagrees with %d tables across work units", plan.Summary.TotalTables, tableCount))
	}

	for _, wu := range plan.WorkUnits {
		for _, dep := range wu.DependsOn {
			if !ids[dep] {
				return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
					fmt.Sprintf("work unit %q depends_on unknown work unit %q", wu.ID, dep))
			}
			if dep == wu.ID {
				return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
					fmt.Sprintf("work unit %q depends on itself", wu.ID))
			}
		}
	}
	if cycle := findDependencyCycle(plan.WorkUnits); cycle != "" {
		return errs.New(errs.CodeConfigInvalid, errs.SeverityFatal, false,
			fmt.Sprintf("work unit dependency cycle detected at %q", cycle))
	}

	return nil
}

// findDependencyCycle runs a DFS over each work unit's depends_on edges and
// returns the id where a cycle was first detected, or "" if the graph is
// acyclic.
func findDependencyCycle(units []types.WorkUnit) string {
	edges := make(map[string][]string, len(units))
	for _, wu := range units {
		edges[wu.ID] = wu.DependsOn
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(units))

	var visit func(id string) bool
	visit = func(id string) bool {
		switch state[id] {
		case visiting:
			return true
		case done:
			return false
		}
		state[id] = visiting
		for _, dep := range edges[id] {
			if visit(dep) {
				return true
			}
		}
		state[id] = done
		return false
	}

	for _, wu := range units {
		if visit(wu.ID) {
			return wu.ID
		}
	}
	return ""
}
