package documenter

import (
	"strings"
	"testing"
	"time"

	"github.com/schemadoc/schemadoc/internal/types"
)

func sampleArtifact() *TableArtifact {
	return &TableArtifact{
		Table:       "users",
		Schema:      "public",
		Database:    "app",
		Description: "Stores registered users.",
		RowCount:    42,
		Columns: []ArtifactColumn{
			{Name: "id", Type: "bigint", Nullable: false, Description: "Primary key."},
			{Name: "email", Type: "text", Nullable: true, Description: "Login email."},
		},
		PrimaryKey:  []string{"id"},
		ForeignKeys: []types.ForeignKey{{Column: "org_id", TargetTable: "organizations", TargetColumn: "id"}},
		Indexes:     []string{"idx_users_email"},
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRenderMarkdownIncludesAllSections(t *testing.T) {
	md := renderMarkdown(sampleArtifact())

	for _, want := range []string{
		"# users",
		"**Database:** app",
		"**Schema:** public",
		"**Description:** Stores registered users.",
		"**Row Count:** 42",
		"## Columns",
		"| id | bigint | no | Primary key. |",
		"## Primary Key",
		"## Foreign Keys",
		"org_id -> organizations.id",
		"## Indexes",
		"*Generated at: 2026-01-02T03:04:05Z*",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownOmitsEmptyOptionalSections(t *testing.T) {
	a := sampleArtifact()
	a.RowCount = 0
	a.PrimaryKey = nil
	a.ForeignKeys = nil
	a.Indexes = nil
	a.SampleData = nil

	md := renderMarkdown(a)

	for _, notWant := range []string{"**Row Count:**", "## Primary Key", "## Foreign Keys", "## Indexes", "## Sample Data"} {
		if strings.Contains(md, notWant) {
			t.Fatalf("expected markdown to omit %q, got:\n%s", notWant, md)
		}
	}
}

func TestTruncateSampleValueBoundary(t *testing.T) {
	exact := strings.Repeat("a", 100)
	if got := truncateSampleValue(exact); got != exact {
		t.Fatalf("expected exactly-100-char string untouched, got %v", got)
	}

	over := strings.Repeat("a", 101)
	got := truncateSampleValue(over).(string)
	if len(got) != 100 {
		t.Fatalf("expected truncated length 100, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated value to end in ..., got %s", got)
	}
}

func TestTruncateSampleValueLeavesNonStringsAlone(t *testing.T) {
	if got := truncateSampleValue(42); got != 42 {
		t.Fatalf("expected int untouched, got %v", got)
	}
	if got := truncateSampleValue(nil); got != nil {
		t.Fatalf("expected nil untouched, got %v", got)
	}
}

func TestArtifactExistsRequiresBothFiles(t *testing.T) {
	t.Setenv("DOCS_ROOT", t.TempDir())

	if artifactExists("databases/app/domains/core", "public", "users") {
		t.Fatal("expected artifactExists to be false before any write")
	}

	a := sampleArtifact()
	if _, err := writeTableArtifact("databases/app/domains/core", a); err != nil {
		t.Fatalf("writeTableArtifact: %v", err)
	}

	if !artifactExists("databases/app/domains/core", "public", "users") {
		t.Fatal("expected artifactExists to be true after both files are written")
	}
}
