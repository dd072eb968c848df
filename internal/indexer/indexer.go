package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/indexstore"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// shutdownSignals matches internal/documenter's own signal set so both
// long-running phases of the pipeline shut down the same way.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// shutdownGrace is how long a graceful shutdown waits for the in-flight
// phase to reach a checkpointable point.
const shutdownGrace = 5 * time.Second

// Options are the runtime flags spec.md §6.5 lists for the indexer
// subcommand.
type Options struct {
	Store          *indexstore.PostgresStore
	LLM            *llm.Client
	EmbeddingModel string

	Incremental    bool
	Resume         bool
	Force          bool
	SkipEmbeddings bool
	DryRun         bool
	WorkUnit       string
}

// Run executes the full spec.md §4.4 algorithm: load and validate the
// manifest, parse every artifact, extract keywords, embed documents,
// populate the store in parent-before-child order, rebuild the
// relationship graph, and leave the store best-effort optimized. Every
// phase transition is checkpointed to indexer-progress.json so a resumed
// run can report where a prior run got to; resume here means "start the
// next run informed by the last one", not "continue mid-phase", since
// every phase's own write is already idempotent (upsert-by-identity).
func Run(ctx context.Context, opts Options) error {
	signalCtx, stop := signal.NotifyContext(ctx, shutdownSignals...)
	defer stop()

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

	progress := &types.IndexerProgress{StartedAt: time.Now(), Phase: types.IndexerPhaseValidating}
	if opts.Resume {
		var prior types.IndexerProgress
		if path := progressio.IndexerProgressPath(); progressio.Exists(path) {
			if err := progressio.ReadJSON(path, &prior); err == nil {
				progress.Warnings = append(progress.Warnings, prior.Warnings...)
			}
		}
	}
	checkpoint := func(phase types.IndexerPhase) error {
		progress.Phase = phase
		progress.LastCheckpoint = time.Now()
		return progressio.WriteJSONAtomic(progressio.IndexerProgressPath(), progress)
	}

	manifest, warnings, err := LoadManifest()
	if err != nil {
		return err
	}
	progress.ManifestHash = manifestHash(manifest)
	progress.Warnings = append(progress.Warnings, warnings...)
	progress.FilesTotal = len(manifest.IndexableFiles)
	if err := checkpoint(types.IndexerPhaseValidating); err != nil {
		return err
	}

	files := manifest.IndexableFiles
	if opts.WorkUnit != "" {
		files = filterByWorkUnit(files, opts.WorkUnit)
	}

	var partition Partition
	if opts.Incremental && !opts.Force {
		partition, err = PartitionIncremental(workCtx, opts.Store, files)
		if err != nil {
			return errs.Wrap(errs.CodeIndexFatal, errs.SeverityFatal, false, "partitioning incremental changes", err)
		}
		files = partition.ToReindex()
		progress.FilesSkipped = len(partition.Unchanged)
	}

	if err := checkpoint(types.IndexerPhaseParsing); err != nil {
		return err
	}
	built, parseWarnings, err := ParseManifest(domainrules.Builtin, files)
	if err != nil {
		return errs.Wrap(errs.CodeIndexFileFailed, errs.SeverityFatal, false, "parsing manifest artifacts", err)
	}
	progress.Warnings = append(progress.Warnings, parseWarnings...)
	progress.FilesIndexed = len(built.Tables) + len(built.Domains) + len(built.Overviews) + len(built.Relationships)

	if opts.DryRun {
		progress.Status = types.OverallCompleted
		progress.Phase = types.IndexerPhaseDone
		now := time.Now()
		progress.FinishedAt = &now
		return progressio.WriteJSONAtomic(progressio.IndexerProgressPath(), progress)
	}

	vectors := map[string][]float32{}
	if !opts.SkipEmbeddings {
		if err := checkpoint(types.IndexerPhaseEmbedding); err != nil {
			return err
		}
		allDocs := append([]types.IndexDocument{}, built.Tables...)
		allDocs = append(allDocs, built.Domains...)
		allDocs = append(allDocs, built.Overviews...)
		allDocs = append(allDocs, built.Relationships...)
		allDocs = append(allDocs, built.Columns...)
		vectors, err = Embed(workCtx, opts.LLM, opts.EmbeddingModel, allDocs)
		if err != nil {
			progress.Errors = append(progress.Errors, err.Error())
			progress.FilesFailed += len(allDocs)
			// embedding failure is not fatal: documents still index for
			// fulltext search, just without a vector sibling row.
		}
	}

	if err := checkpoint(types.IndexerPhaseIndexing); err != nil {
		return err
	}
	if err := Populate(workCtx, opts.Store, built, vectors); err != nil {
		return errs.Wrap(errs.CodeIndexFatal, errs.SeverityFatal, false, "populating index store", err)
	}
	for _, path := range partition.Deleted {
		if err := opts.Store.DeleteDocument(workCtx, path); err != nil {
			return errs.Wrap(errs.CodeIndexFatal, errs.SeverityFatal, false, "deleting removed document "+path, err)
		}
	}

	rebuildRelationships := !opts.Incremental || partition.AnyTableChanged() || opts.Force
	if rebuildRelationships {
		if err := checkpoint(types.IndexerPhaseRelationships); err != nil {
			return err
		}
		// A relationship rebuild needs every currently-live table's foreign
		// keys, not just the ones reparsed this run: re-derive the direct
		// edge set from the full manifest working set (cheap; it is a
		// Markdown re-parse, not a re-embed or re-index).
		directRelationships := built.DirectRelationships
		if opts.Incremental {
			full, _, err := ParseManifest(domainrules.Builtin, manifest.IndexableFiles)
			if err != nil {
				return errs.Wrap(errs.CodeIndexFatal, errs.SeverityFatal, false, "re-deriving relationships for incremental rebuild", err)
			}
			directRelationships = full.DirectRelationships
		}
		for _, database := range databaseNames(manifest) {
			if err := RebuildRelationships(workCtx, opts.Store, database, directRelationships[database]); err != nil {
				return errs.Wrap(errs.CodeIndexFatal, errs.SeverityFatal, false, "rebuilding relationships for "+database, err)
			}
		}
	}

	if err := checkpoint(types.IndexerPhaseOptimizing); err != nil {
		return err
	}
	if err := opts.Store.Optimize(workCtx); err != nil {
		// best-effort per spec.md §4.4.9: log, don't fail the run.
		progress.Warnings = append(progress.Warnings, "optimize step failed: "+err.Error())
	}

	progress.Phase = types.IndexerPhaseDone
	progress.Status = types.OverallCompleted
	if len(progress.Errors) > 0 {
		progress.Status = types.OverallPartial
	}
	now := time.Now()
	progress.FinishedAt = &now
	progress.LastCheckpoint = now
	return progressio.WriteJSONAtomic(progressio.IndexerProgressPath(), progress)
}

func manifestHash(m *types.Manifest) string {
	data, _ := json.Marshal(m.IndexableFiles)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func filterByWorkUnit(files []types.IndexableFile, workUnit string) []types.IndexableFile {
	out := make([]types.IndexableFile, 0, len(files))
	for _, f := range files {
		if f.Database == workUnit {
			out = append(out, f)
		}
	}
	return out
}

func databaseNames(m *types.Manifest) []string {
	seen := make(map[string]bool)
	var names []string
	for _, db := range m.Databases {
		if !seen[db.Database] {
			seen[db.Database] = true
			names = append(names, db.Database)
		}
	}
	return names
}
