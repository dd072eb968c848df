package documenter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// ArtifactColumn is one row of a TableArtifact's column listing.
type ArtifactColumn struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Nullable    bool    `json:"nullable"`
	Description string  `json:"description"`
	Default     *string `json:"default,omitempty"`
}

// TableArtifact is the per-table JSON artifact's shape (spec.md §6.4).
type TableArtifact struct {
	Table       string             `json:"table"`
	Schema      string             `json:"schema"`
	Database    string             `json:"database"`
	Description string             `json:"description"`
	RowCount    int64              `json:"row_count"`
	Columns     []ArtifactColumn   `json:"columns"`
	PrimaryKey  []string           `json:"primary_key"`
	ForeignKeys []types.ForeignKey `json:"foreign_keys"`
	Indexes     []string           `json:"indexes"`
	SampleData  []catalog.Row      `json:"sample_data"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// renderMarkdown builds the Markdown artifact per spec.md §6.4's section
// list: title, bold Database/Schema/Description, optional Row Count, a
// Columns table, then optional Primary Key/Foreign Keys/Indexes/Sample Data
// sections, and a trailing italic generated-at line.
func renderMarkdown(a *TableArtifact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.Table)
	fmt.Fprintf(&b, "**Database:** %s\n\n", a.Database)
	fmt.Fprintf(&b, "**Schema:** %s\n\n", a.Schema)
	fmt.Fprintf(&b, "**Description:** %s\n\n", a.Description)
	if a.RowCount > 0 {
		fmt.Fprintf(&b, "**Row Count:** %d\n\n", a.RowCount)
	}

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Nullable | Description |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range a.Columns {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.Name, c.Type, yesNo(c.Nullable), c.Description)
	}
	b.WriteString("\n")

	if len(a.PrimaryKey) > 0 {
		fmt.Fprintf(&b, "## Primary Key\n\n%s\n\n", strings.Join(a.PrimaryKey, ", "))
	}

	if len(a.ForeignKeys) > 0 {
		b.WriteString("## Foreign Keys\n\n")
		for _, fk := range a.ForeignKeys {
			fmt.Fprintf(&b, "- %s -> %s.%s\n", fk.Column, fk.TargetTable, fk.TargetColumn)
		}
		b.WriteString("\n")
	}

	if len(a.Indexes) > 0 {
		b.WriteString("## Indexes\n\n")
		for _, idx := range a.Indexes {
			fmt.Fprintf(&b, "- %s\n", idx)
		}
		b.WriteString("\n")
	}

	if len(a.SampleData) > 0 {
		b.WriteString("## Sample Data\n\n")
		data, err := json.MarshalIndent(a.SampleData, "", "  ")
		if err == nil {
			fmt.Fprintf(&b, "```json\n%s\n```\n\n", data)
		}
	}

	fmt.Fprintf(&b, "*Generated at: %s*\n", a.GeneratedAt.UTC().Format(time.RFC3339))
	return b.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// writeArtifact writes one artifact file atomically (temp-then-rename via
// progressio.WriteBytesAtomic); on failure it retries once with a direct
// write. Markdown and JSON artifacts are written independently — the
// caller must not let a failure on one prevent the other.
func writeArtifact(path string, data []byte) error {
	if err := progressio.WriteBytesAtomic(path, data); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.CodeFileWriteFailed, errs.SeverityError, false, "writing artifact "+path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // artifact paths are internally constructed
		return errs.Wrap(errs.CodeFileWriteFailed, errs.SeverityError, false, "writing artifact "+path, err)
	}
	return nil
}

// artifactExists reports whether both expected output files for a table
// already exist (spec.md §4.2.3's skipped-success idempotent-replay check).
func artifactExists(outputDirectory, schema, table string) bool {
	mdPath, jsonPath := progressio.TableArtifactPaths(outputDirectory, schema, table)
	return progressio.Exists(mdPath) && progressio.Exists(jsonPath)
}

// truncateSampleValue implements spec.md §4.2.5/§8's field-wise truncation:
// any scalar whose string form exceeds 100 characters is cut to 97
// characters plus "...". Non-string scalars (numbers, bools, timestamps)
// are returned unchanged; in practice their string form never approaches
// the limit, and converting them would lose their JSON type in the
// artifact.
func truncateSampleValue(v any) any {
	if v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return truncateString(t)
	case []byte:
		return truncateString(string(t))
	default:
		return v
	}
}

func truncateString(s string) string {
	if len(s) <= 100 {
		return s
	}
	return s[:97] + "..."
}

func formatDefault(d *string) string {
	if d == nil {
		return ""
	}
	return *d
}
