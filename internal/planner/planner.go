// Package planner implements runPlanner (spec.md §4.1): schema discovery
// across a catalog of databases, domain grouping, work-unit generation, and
// the staleness short-circuit that lets a re-run skip replanning when
// nothing has changed. It orchestrates internal/catalog connectors and
// internal/llm the way internal/compact orchestrates a single Anthropic
// call, but fanned out across many databases and wrapped in the staleness/
// validation machinery spec.md §4.1 specifies.
package planner

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/schemadoc/schemadoc/internal/canon"
	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// Config is the planner configuration block spec.md §4.1 names.
type Config struct {
	MaxTablesPerDatabase   int
	DomainInferenceEnabled bool
	LLMModel               string
	BatchSize              int
}

// Options wraps the run-time flags alongside the catalog and config.
type Options struct {
	Catalog        []types.DatabaseConfig
	Config         Config
	Force          bool
	DryRun         bool
	LLM            *llm.Client // nil disables LLM domain inference; rule-based fallback is used
	Dialect        *domainrules.Dictionary
	ConnectTimeout time.Duration
}

func (o Options) dictionary() *domainrules.Dictionary {
	if o.Dialect != nil {
		return o.Dialect
	}
	return domainrules.Builtin
}

func (o Options) batchSize() int {
	if o.Config.BatchSize > 0 {
		return o.Config.BatchSize
	}
	return 20
}

// Run executes the full spec.md §4.1 algorithm and returns a valid
// DocumentationPlan. Unless opts.DryRun, it also atomically writes
// progress/documentation-plan.json.
func Run(ctx context.Context, opts Options) (*types.DocumentationPlan, error) {
	configHash, err := canon.Hash(opts.Catalog)
	if err != nil {
		return nil, errs.Wrap(errs.CodeConfigInvalid, errs.SeverityFatal, false, "hashing catalog config", err)
	}

	if !opts.Force {
		if existing, ok := loadExistingPlan(); ok {
			if existing.ConfigHash == configHash {
				if stillFresh(ctx, opts, existing) {
					return existing, nil
				}
			}
		}
	}

	plan := &types.DocumentationPlan{
		SchemaVersion: types.PlanSchemaVersion,
		GeneratedAt:   time.Now(),
		ConfigHash:    configHash,
	}

	analyses := make([]types.DatabaseAnalysis, 0, len(opts.Catalog))
	tablesByDatabase := make(map[string][]types.TableMetadata)
	domainsByDatabase := make(map[string]map[string]string) // db -> table FQN -> domain
	fkCountsByDatabase := make(map[string]fkCountPair)

	for _, dbCfg := range opts.Catalog {
		analysis, tables, domainAssignment, fkCounts, err := analyzeDatabase(ctx, opts, dbCfg)
		if err != nil {
			plan.Errors = append(plan.Errors, types.PlanError{
				Code: "dbUnreachable", Message: err.Error(), Database: dbCfg.Name,
			})
		}
		analyses = append(analyses, analysis)
		if analysis.Status == types.DatabaseReachable {
			tablesByDatabase[dbCfg.Name] = tables
			domainsByDatabase[dbCfg.Name] = domainAssignment
			fkCountsByDatabase[dbCfg.Name] = fkCounts
		}
	}
	plan.Databases = analyses

	dict := opts.dictionary()
	workUnits := buildWorkUnits(opts.Catalog, tablesByDatabase, domainsByDatabase, fkCountsByDatabase, dict)
	workUnits = orderWorkUnits(workUnits, dict)
	plan.WorkUnits = workUnits

	plan.Complexity = classifyComplexity(plan)
	plan.Summary = types.PlanSummary{
		TotalDatabases:         len(opts.Catalog),
		ReachableDatabases:     countReachable(analyses),
		TotalTables:            countTables(tablesByDatabase),
		TotalWorkUnits:         len(workUnits),
		RecommendedParallelism: minInt(len(workUnits), 4),
	}

	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := progressio.WriteJSONAtomic(progressio.PlanPath(), plan); err != nil {
			return nil, errs.Wrap(errs.CodeConfigInvalid, errs.SeverityFatal, false, "writing documentation plan", err)
		}
	}

	return plan, nil
}

func countReachable(analyses []types.DatabaseAnalysis) int {
	n := 0
	for _, a := range analyses {
		if a.Status == types.DatabaseReachable {
			n++
		}
	}
	return n
}

func countTables(byDB map[string][]types.TableMetadata) int {
	n := 0
	for _, tables := range byDB {
		n += len(tables)
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func classifyComplexity(plan *types.DocumentationPlan) types.PlanComplexity {
	total := 0
	for _, db := range plan.Databases {
		total += db.TableCount
	}
	switch {
	case total <= 20:
		return types.ComplexitySimple
	case total <= 200:
		return types.ComplexityModerate
	default:
		return types.ComplexityComplex
	}
}

// estimatedMinutes implements spec.md §4.1 step 4's formula.
func estimatedMinutes(tableCount int) int {
	return int(math.Ceil((30 + 40*float64(tableCount)) / 60))
}

func loadExistingPlan() (*types.DocumentationPlan, bool) {
	if !progressio.Exists(progressio.PlanPath()) {
		return nil, false
	}
	var plan types.DocumentationPlan
	if err := progressio.ReadJSON(progressio.PlanPath(), &plan); err != nil {
		return nil, false
	}
	return &plan, true
}

// stillFresh implements spec.md §4.1 step 2(b): for each reachable database
// in the existing plan, recompute its structural schema_hash and compare.
func stillFresh(ctx context.Context, opts Options, existing *types.DocumentationPlan) bool {
	byName := make(map[string]types.DatabaseConfig, len(opts.Catalog))
	for _, cfg := range opts.Catalog {
		byName[cfg.Name] = cfg
	}

	for _, db := range existing.Databases {
		if db.Status != types.DatabaseReachable {
			continue
		}
		cfg, ok := byName[db.Database]
		if !ok {
			return false
		}
		conn, err := catalog.New(cfg.EngineKind)
		if err != nil {
			return false
		}
		connectCtx, cancel := withConnectTimeout(ctx, opts, cfg)
		err = conn.Connect(connectCtx, cfg)
		cancel()
		if err != nil {
			return false
		}
		tables, err := conn.ListTables(ctx, catalog.ListOptions{
			SchemasInclude:      cfg.SchemasInclude,
			SchemasExclude:      cfg.SchemasExclude,
			TablesExclude:       cfg.TablesExclude,
			IncludeSystemTables: cfg.IncludeSystemTables,
		})
		_ = conn.Disconnect()
		if err != nil {
			return false
		}
		hash, err := types.SchemaHash(tables)
		if err != nil || hash != db.SchemaHash {
			return false
		}
	}
	return true
}

func withConnectTimeout(ctx context.Context, opts Options, cfg types.DatabaseConfig) (context.Context, context.CancelFunc) {
	ms := cfg.Timeouts.ConnectMillis
	if ms == 0 && opts.ConnectTimeout > 0 {
		return context.WithTimeout(ctx, opts.ConnectTimeout)
	}
	if ms == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
}

// sortTableMetadata orders tables deterministically by (schema, table) so
// truncation to max_tables_per_database and every downstream ordering step
// is reproducible across runs.
func sortTableMetadata(tables []types.TableMetadata) {
	sort.Slice(tables, func(i, j int) bool {
		if tables[i].Schema != tables[j].Schema {
			return tables[i].Schema < tables[j].Schema
		}
		return tables[i].Table < tables[j].Table
	})
}
