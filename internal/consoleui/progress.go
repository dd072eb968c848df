package consoleui

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/schemadoc/schemadoc/internal/types"
)

// defaultBarWidth is used when the terminal width can't be determined
// (piped output, non-TTY stdout).
const defaultBarWidth = 40

// terminalWidth measures the current terminal width the same narrow way
// golang.org/x/term is used elsewhere in the pack: one call, falling back
// to a fixed default when stdout isn't a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultBarWidth + 20
	}
	return width
}

// PlanSummaryLines renders the Planner's summary block the way an
// operator reads it at a glance: reachable databases, table/work-unit
// counts, and any recorded planning errors.
func PlanSummaryLines(plan types.DocumentationPlan) []string {
	lines := []string{
		Bold(fmt.Sprintf("plan: %d databases (%d reachable), %d tables across %d work units",
			plan.Summary.TotalDatabases, plan.Summary.ReachableDatabases,
			plan.Summary.TotalTables, plan.Summary.TotalWorkUnits)),
		Muted(fmt.Sprintf("complexity: %s, recommended parallelism: %d", plan.Complexity, plan.Summary.RecommendedParallelism)),
	}
	for _, db := range plan.Databases {
		switch db.Status {
		case types.DatabaseReachable:
			lines = append(lines, Success(fmt.Sprintf("  %s: reachable, %d tables", db.Database, db.TableCount)))
		case types.DatabaseUnreachable:
			lines = append(lines, Fail(fmt.Sprintf("  %s: unreachable (%s)", db.Database, db.Error)))
		}
	}
	for _, e := range plan.Errors {
		lines = append(lines, Warn(fmt.Sprintf("  warning [%s]: %s", e.Code, e.Message)))
	}
	return lines
}

// WorkUnitBar renders a single work unit's progress as a fixed-width bar
// plus a trailing fraction, the shape cmd/bd's own status output uses for
// its health bars.
func WorkUnitBar(p types.WorkUnitProgress) string {
	width := terminalWidth() - 30
	if width < 10 {
		width = defaultBarWidth
	}

	total := p.TablesTotal
	done := p.TablesCompleted + p.TablesSkipped + p.TablesFailed
	filled := 0
	if total > 0 {
		filled = width * done / total
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	label := fmt.Sprintf("[%s] %s %d/%d", bar, p.ID, done, total)

	switch p.Status {
	case types.WorkUnitCompleted:
		return Success(label)
	case types.WorkUnitFailed:
		return Fail(label)
	case types.WorkUnitPartial:
		return Warn(label)
	default:
		return Muted(label)
	}
}

// IndexerPhaseLine renders one line of the Indexer's phase transitions.
func IndexerPhaseLine(phase types.IndexerPhase, filesIndexed, filesTotal int) string {
	return Accent(fmt.Sprintf("[%s] %d/%d files", phase, filesIndexed, filesTotal))
}
