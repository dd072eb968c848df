// Package documenter implements runDocumenter (spec.md §4.2): it consumes
// the Planner's plan, runs the three-phase Table Processor over every work
// unit's tables, tracks multi-level status, checkpoints progress so a run
// can resume, and emits the manifest the Indexer consumes. It orchestrates
// internal/catalog and internal/llm the same way internal/planner does,
// fanned out per work unit instead of per database, and adds the
// checkpoint/signal-handling discipline cmd/bd/main.go uses for its own
// graceful shutdown (os/signal.NotifyContext against SIGINT/SIGTERM, with
// a bounded grace window before in-flight work is force-cancelled).
package documenter

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// shutdownSignals are the signals that trigger a graceful shutdown,
// matching cmd/bd/main.go's own os/signal + syscall pair.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// shutdownGrace is how long a graceful shutdown waits for the in-flight
// work unit to reach a checkpointable point before that work is
// force-cancelled.
const shutdownGrace = 5 * time.Second

// Config is the documenter configuration block spec.md §4.2 names.
type Config struct {
	LLMModel string
}

// Options wraps the run-time flags alongside the catalog and config.
type Options struct {
	Catalog []types.DatabaseConfig
	Config  Config
	LLM     *llm.Client
}

func (o Options) databaseConfig(name string) (types.DatabaseConfig, bool) {
	for _, c := range o.Catalog {
		if c.Name == name {
			return c, true
		}
	}
	return types.DatabaseConfig{}, false
}

func (o Options) connectTimeout(name string) time.Duration {
	cfg, ok := o.databaseConfig(name)
	if !ok || cfg.Timeouts.ConnectMillis <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.Timeouts.ConnectMillis) * time.Millisecond
}

// Run executes the full spec.md §4.2 algorithm: load the plan, resume from
// any existing checkpoint, process every pending work unit in priority
// order, and generate the manifest on completion, fatal failure, or
// graceful shutdown alike.
func Run(ctx context.Context, opts Options) error {
	signalCtx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

	// workCtx is what in-flight work actually receives. It is detached from
	// signalCtx's own cancellation (context.WithoutCancel) so a signal does
	// not cut a table processor off mid-write; the goroutine below instead
	// derives a context.WithTimeout(shutdownGrace) once a signal arrives and
	// force-cancels workCtx only after that grace window elapses.
	workCtx, workCancel := context.WithCancel(context.WithoutCancel(signalCtx))
	defer workCancel()
	go func() {
		select {
		case <-signalCtx.Done():
			graceCtx, graceStop := context.WithTimeout(context.WithoutCancel(signalCtx), shutdownGrace)
			defer graceStop()
			<-graceCtx.Done()
			workCancel()
		case <-workCtx.Done():
		}
	}()

	plan, staleWarning, err := LoadPlan(opts.Catalog)
	if err != nil {
		return err
	}

	progress := resumeOrInitProgress(plan)
	_ = staleWarning // surfaced to the operator by the caller's logger, not fatal

	// Every work unit in the plan gets a pending entry up front, so a
	// shutdown before a unit is ever reached still leaves it visible to
	// overallStatus (spec.md §4.2's S5 scenario) instead of silently
	// absent from progress.WorkUnits.
	if progress.WorkUnits == nil {
		progress.WorkUnits = make(map[string]*types.WorkUnitProgress)
	}
	for _, unit := range plan.WorkUnits {
		if _, ok := progress.WorkUnits[unit.ID]; !ok {
			progress.WorkUnits[unit.ID] = &types.WorkUnitProgress{ID: unit.ID, Status: types.WorkUnitPending}
		}
	}

	units := make([]types.WorkUnit, len(plan.WorkUnits))
	copy(units, plan.WorkUnits)
	sort.Slice(units, func(i, j int) bool { return units[i].PriorityOrder < units[j].PriorityOrder })

	fatal := false

	for _, unit := range units {
		if existing, ok := progress.WorkUnits[unit.ID]; ok {
			switch existing.Status {
			case types.WorkUnitCompleted, types.WorkUnitPartial, types.WorkUnitFailed:
				continue
			}
		}
		select {
		case <-signalCtx.Done():
			goto finish
		default:
		}

		dbCfg, ok := opts.databaseConfig(unit.Database)
		if !ok {
			progress.WorkUnits[unit.ID] = &types.WorkUnitProgress{
				ID: unit.ID, Status: types.WorkUnitFailed,
				Errors: []string{"no catalog entry for database " + unit.Database},
			}
			continue
		}

		// a connection-lost failure here only aborts this unit; other
		// units may run against entirely different databases
		outcome := processWorkUnit(workCtx, unit, dbCfg, opts.LLM, opts.Config.LLMModel, opts.connectTimeout(unit.Database), time.Now())
		p := outcome.Progress
		progress.WorkUnits[unit.ID] = &p
		progress.LastCheckpoint = time.Now()
		_ = persistProgress(progress) // best-effort checkpoint after each unit
	}

finish:
	progress.Status = overallStatus(progress.WorkUnits, fatal)
	progress.LastCheckpoint = time.Now()
	if err := persistProgress(progress); err != nil {
		return errs.Wrap(errs.CodeManifestWriteFailed, errs.SeverityFatal, false, "persisting final progress", err)
	}

	return GenerateManifest(plan, progress)
}

// resumeOrInitProgress attempts a checkpoint resume (spec.md §4.2.6): if
// documenter-progress.json exists and its plan hash matches the current
// plan's hash, it is reused whatever its recorded overall status (there is
// no separate "running" state): a completed checkpoint is returned as is,
// any other checkpoint with work units is resumed as partial. Run then
// skips completed, partial and failed units alike; only units that never
// started are processed. Any mismatch or missing checkpoint starts fresh.
func resumeOrInitProgress(plan *types.DocumentationPlan) *types.DocumenterProgress {
	var existing types.DocumenterProgress
	path := progressio.DocumenterProgressPath()
	if progressio.Exists(path) {
		if err := progressio.ReadJSON(path, &existing); err == nil {
			if existing.PlanHash == plan.ConfigHash && existing.Status == types.OverallCompleted {
				return &existing
			}
			if existing.PlanHash == plan.ConfigHash && existing.WorkUnits != nil {
				existing.Status = types.OverallPartial
				return &existing
			}
		}
	}

	return &types.DocumenterProgress{
		Status:    types.OverallPartial,
		PlanHash:  plan.ConfigHash,
		WorkUnits: make(map[string]*types.WorkUnitProgress),
	}
}

func persistProgress(progress *types.DocumenterProgress) error {
	return progressio.WriteJSONAtomic(progressio.DocumenterProgressPath(), progress)
}
