package documenter

import (
	"context"
	"time"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/types"
)

// tableResult is one table's outcome within a work unit: succeeded
// (possibly via the skip-if-exists idempotent-replay path) or failed with
// the error that caused it.
type tableResult struct {
	Spec      types.TableSpec
	Succeeded bool
	Skipped   bool
	Err       error
	Summary   tableSummary
}

// processTable runs the three-phase pipeline for one table (spec.md
// §4.2.5): extract, sample, infer-and-write. A Phase A failure fails the
// table outright; Phase B failures are swallowed into an empty sample set;
// Phase C's two artifact writes are independent of each other.
func processTable(ctx context.Context, conn catalog.Connector, client *llm.Client, model, database, outputDirectory string, spec types.TableSpec, now time.Time) tableResult {
	if artifactExists(outputDirectory, spec.Schema, spec.Table) {
		return tableResult{Spec: spec, Succeeded: true, Skipped: true}
	}

	meta, err := conn.GetTableMetadata(ctx, spec.Schema, spec.Table)
	if err != nil {
		return tableResult{
			Spec: spec,
			Err:  errs.Wrap(errs.CodeTableExtractionFailed, errs.SeverityError, true, "extracting metadata for "+spec.FullyQualifiedName, err),
		}
	}

	samples, err := sampleTable(ctx, conn, spec.Schema, spec.Table)
	if err != nil {
		samples = nil // Phase B failures/timeouts are warnings only; the table continues with an empty sample
	}

	summary, err := documentTable(ctx, client, model, database, outputDirectory, spec, meta, samples, now)
	if err != nil {
		return tableResult{Spec: spec, Err: err, Summary: summary}
	}

	return tableResult{Spec: spec, Succeeded: true, Summary: summary}
}
