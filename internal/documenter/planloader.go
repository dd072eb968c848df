package documenter

import (
	"github.com/schemadoc/schemadoc/internal/canon"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// LoadPlan reads and validates progress/documentation-plan.json (spec.md
// §4.2.1 Plan Loader): the file must exist, parse as JSON, and carry
// schema_version "1.0" with a generated_at and a work_units list present
// (an empty list is accepted).
// A plan whose config_hash no longer matches catalog's current hash is not
// rejected — it is stale, which is a warning, not a fatal error, and
// processing continues against the plan as loaded.
func LoadPlan(catalog []types.DatabaseConfig) (*types.DocumentationPlan, *errs.AgentError, error) {
	path := progressio.PlanPath()
	if !progressio.Exists(path) {
		return nil, nil, errs.New(errs.CodePlanNotFound, errs.SeverityFatal, false, "no plan found at "+path)
	}

	var plan types.DocumentationPlan
	if err := progressio.ReadJSON(path, &plan); err != nil {
		return nil, nil, errs.Wrap(errs.CodePlanInvalid, errs.SeverityFatal, false, "parsing plan at "+path, err)
	}

	if plan.SchemaVersion != types.PlanSchemaVersion {
		return nil, nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, "unsupported plan schema_version "+plan.SchemaVersion)
	}
	if plan.GeneratedAt.IsZero() {
		return nil, nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, "plan missing generated_at")
	}
	if plan.WorkUnits == nil {
		return nil, nil, errs.New(errs.CodePlanInvalid, errs.SeverityFatal, false, "plan missing work_units")
	}

	var staleWarning *errs.AgentError
	if currentHash, err := canon.Hash(catalog); err == nil && currentHash != plan.ConfigHash {
		staleWarning = errs.New(errs.CodePlanStale, errs.SeverityWarning, true, "plan config_hash does not match the current catalog configuration")
	}

	return &plan, staleWarning, nil
}
