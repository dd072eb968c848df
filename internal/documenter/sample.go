package documenter

import (
	"context"
	"fmt"
	"time"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/errs"
)

// sampleRowLimit and sampleTimeout are spec.md §4.2.5 Phase B's defaults.
// sampleTimeout is a var rather than a const solely so tests can shrink it.
const sampleRowLimit = 100

var sampleTimeout = 5000 * time.Millisecond

// sampleTable implements Phase B: a row-sampling query capped at
// sampleRowLimit rows, raced against a hard sampleTimeout. A timeout or any
// other query failure yields an empty sample and a non-fatal warning — the
// table continues either way. Every scalar value is truncated field-wise
// per spec.md §8's boundary rule.
func sampleTable(ctx context.Context, conn catalog.Connector, schema, table string) ([]catalog.Row, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, sampleTimeout)
	defer cancel()

	type result struct {
		rows []catalog.Row
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		query := fmt.Sprintf("SELECT * FROM %s.%s LIMIT %d", quoteSampleIdent(schema), quoteSampleIdent(table), sampleRowLimit)
		rows, err := conn.Query(timeoutCtx, query)
		resultCh <- result{rows: rows, err: err}
	}()

	select {
	case <-timeoutCtx.Done():
		return nil, errs.New(errs.CodeSamplingTimeout, errs.SeverityWarning, true, fmt.Sprintf("sampling %s.%s timed out after %s", schema, table, sampleTimeout))
	case r := <-resultCh:
		if r.err != nil {
			return nil, errs.Wrap(errs.CodeSamplingFailed, errs.SeverityWarning, true, "sampling "+schema+"."+table, r.err)
		}
		return truncateRows(r.rows), nil
	}
}

// truncateRows applies truncateSampleValue to every column value of every
// row.
func truncateRows(rows []catalog.Row) []catalog.Row {
	out := make([]catalog.Row, len(rows))
	for i, row := range rows {
		truncated := make(catalog.Row, len(row))
		for k, v := range row {
			truncated[k] = truncateSampleValue(v)
		}
		out[i] = truncated
	}
	return out
}

// quoteSampleIdent is a conservative identifier quoting helper for the ad
// hoc sampling query; schema/table names here always originate from
// catalog introspection, never raw user input.
func quoteSampleIdent(ident string) string {
	return `"` + ident + `"`
}
