package planner

import (
	"testing"

	"github.com/schemadoc/schemadoc/internal/types"
)

func validPlan() *types.DocumentationPlan {
	tables := []types.TableSpec{
		{FullyQualifiedName: "public.users", MetadataHash: "h1"},
		{FullyQualifiedName: "public.orders", MetadataHash: "h2"},
	}
	wu := types.WorkUnit{
		ID:       "shop_customers",
		Database: "shop",
		Domain:   "customers",
		Tables:   tables,
	}
	return &types.DocumentationPlan{
		WorkUnits: []types.WorkUnit{wu},
		Summary: types.PlanSummary{
			TotalWorkUnits: 1,
			TotalTables:    2,
		},
	}
}

func TestValidatePlanAcceptsWellFormedPlan(t *testing.T) {
	if err := validatePlan(validPlan()); err != nil {
		t.Fatalf("expected valid plan to pass, got: %v", err)
	}
}

func TestValidatePlanRejectsMismatchedWorkUnitCount(t *testing.T) {
	plan := validPlan()
	plan.Summary.TotalWorkUnits = 2
	if err := validatePlan(plan); err == nil {
		t.Fatal("expected error for mismatched total_work_units")
	}
}

func TestValidatePlanRejectsMismatchedTableCount(t *testing.T) {
	plan := validPlan()
	plan.Summary.TotalTables = 99
	if err := validatePlan(plan); err == nil {
		t.Fatal("expected error for mismatched total_tables")
	}
}

func TestValidatePlanRejectsIDMismatch(t *testing.T) {
	plan := validPlan()
	plan.WorkUnits[0].ID = "wrong_id"
	if err := validatePlan(plan); err == nil {
		t.Fatal("expected error for id/database_domain mismatch")
	}
}

func TestValidatePlanRejectsIncompleteTableSpec(t *testing.T) {
	plan := validPlan()
	plan.WorkUnits[0].Tables[0].MetadataHash = ""
	if err := validatePlan(plan); err == nil {
		t.Fatal("expected error for incomplete table spec")
	}
}

func TestValidatePlanRejectsSelfDependency(t *testing.T) {
	plan := validPlan()
	plan.WorkUnits[0].DependsOn = []string{"shop_customers"}
	if err := validatePlan(plan); err == nil {
		t.Fatal("expected error for self-dependency")
	}
}

func TestValidatePlanRejectsDependencyCycle(t *testing.T) {
	plan := validPlan()
	plan.WorkUnits = append(plan.WorkUnits, types.WorkUnit{
		ID:       "shop_orders",
		Database: "shop",
		Domain:   "orders",
		Tables:   []types.TableSpec{{FullyQualifiedName: "public.orders2", MetadataHash: "h3"}},
	})
	plan.WorkUnits[0].DependsOn = []string{"shop_orders"}
	plan.WorkUnits[1].DependsOn = []string{"shop_customers"}
	plan.Summary.TotalWorkUnits = 2
	plan.Summary.TotalTables = 3
	if err := validatePlan(plan); err == nil {
		t.Fatal("expected error for dependency cycle")
	}
}

func TestFindDependencyCycleReturnsEmptyForAcyclicGraph(t *testing.T) {
	units := []types.WorkUnit{
		{ID: "a", DependsOn: []string{"b"}},
		{ID: "b"},
	}
	if cycle := findDependencyCycle(units); cycle != "" {
		t.Fatalf("expected no cycle, got %q", cycle)
	}
}
