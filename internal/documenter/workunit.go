package documenter

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/types"
)

// tableBatchSize is the default bounded parallelism for tables processed
// concurrently within one work unit (spec.md §4.2.3).
const tableBatchSize = 3

// workUnitOutcome is the Work-Unit Processor's result for one unit: its
// progress record, the per-table results, and whether the unit's
// connection was lost mid-run.
type workUnitOutcome struct {
	Progress       types.WorkUnitProgress
	Results        []tableResult
	ConnectionLost bool
}

// processWorkUnit implements spec.md §4.2.3: open one database connection
// reused for every table in the unit, walk tables in priority-ascending,
// table-ascending order, and process them in bounded-parallel batches of
// tableBatchSize. A connection-lost error aborts the remainder of the unit
// without touching the tables that never ran.
func processWorkUnit(ctx context.Context, unit types.WorkUnit, dbCfg types.DatabaseConfig, client *llm.Client, model string, connectTimeout time.Duration, now time.Time) workUnitOutcome {
	progress := types.WorkUnitProgress{
		ID:          unit.ID,
		Status:      types.WorkUnitRunning,
		TablesTotal: len(unit.Tables),
		StartedAt:   now,
	}

	conn, err := catalog.New(dbCfg.EngineKind)
	if err != nil {
		progress.Status = types.WorkUnitFailed
		progress.Errors = append(progress.Errors, err.Error())
		return workUnitOutcome{Progress: progress, ConnectionLost: true}
	}

	connectCtx := ctx
	var cancel context.CancelFunc
	if connectTimeout > 0 {
		connectCtx, cancel = context.WithTimeout(ctx, connectTimeout)
	}
	if cancel != nil {
		defer cancel()
	}
	if err := conn.Connect(connectCtx, dbCfg); err != nil {
		progress.Status = types.WorkUnitFailed
		progress.Errors = append(progress.Errors, err.Error())
		return workUnitOutcome{Progress: progress, ConnectionLost: true}
	}
	defer func() { _ = conn.Disconnect() }()

	tables := make([]types.TableSpec, len(unit.Tables))
	copy(tables, unit.Tables)
	sort.SliceStable(tables, func(i, j int) bool {
		if tables[i].Priority != tables[j].Priority {
			return tables[i].Priority < tables[j].Priority
		}
		return tables[i].Table < tables[j].Table
	})

	results := make([]tableResult, len(tables))
	connectionLost := false

	for start := 0; start < len(tables) && !connectionLost; start += tableBatchSize {
		end := start + tableBatchSize
		if end > len(tables) {
			end = len(tables)
		}
		batch := tables[start:end]

		g, gctx := errgroup.WithContext(ctx)
		batchResults := make([]tableResult, len(batch))
		for i, spec := range batch {
			i, spec := i, spec
			g.Go(func() error {
				batchResults[i] = processTable(gctx, conn, client, model, unit.Database, unit.OutputDirectory, spec, now)
				return nil
			})
		}
		_ = g.Wait() // per-table failures are recorded in tableResult, never propagated as a group error

		for i, r := range batchResults {
			results[start+i] = r
			if r.Skipped {
				progress.TablesSkipped++
			} else if r.Succeeded {
				progress.TablesCompleted++
			} else {
				progress.TablesFailed++
				if r.Err != nil {
					progress.Errors = append(progress.Errors, r.Err.Error())
				}
				if isConnectionLost(r.Err) {
					connectionLost = true
				}
			}
		}
	}

	finishedAt := now
	progress.FinishedAt = &finishedAt
	progress.Status = workUnitStatus(progress, connectionLost)

	return workUnitOutcome{Progress: progress, Results: results, ConnectionLost: connectionLost}
}

// isConnectionLost reports whether err looks like the database connection
// itself died mid-unit, as opposed to a single table's own extraction
// failure, so the unit can abort rather than keep burning tables against a
// dead session.
func isConnectionLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection") && (strings.Contains(msg, "closed") || strings.Contains(msg, "lost") || strings.Contains(msg, "reset") || strings.Contains(msg, "refused"))
}
