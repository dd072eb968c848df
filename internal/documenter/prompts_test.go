package documenter

import (
	"strings"
	"testing"
)

func TestRenderPromptColumnDescription(t *testing.T) {
	got, err := renderPrompt("column-description", columnPromptData{
		Database: "app", Schema: "public", Table: "users", Column: "email",
		DataType: "text", Nullable: true, SampleValues: "a@example.com, b@example.com",
	})
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	for _, want := range []string{"Database: app", "Column: email", "Sample values: a@example.com"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected prompt to contain %q, got:\n%s", want, got)
		}
	}
}

func TestRenderPromptTableDescription(t *testing.T) {
	got, err := renderPrompt("table-description", tablePromptData{
		Database: "app", Schema: "public", Table: "users", Domain: "core", RowCount: 10,
		Columns:    []tablePromptColumn{{Name: "id", Type: "bigint", Description: "Primary key."}},
		PrimaryKey: "id",
	})
	if err != nil {
		t.Fatalf("renderPrompt: %v", err)
	}
	if !strings.Contains(got, "Domain: core") || !strings.Contains(got, "id (bigint)") {
		t.Fatalf("unexpected table prompt:\n%s", got)
	}
}

func TestRenderPromptUnknownNameFails(t *testing.T) {
	if _, err := renderPrompt("does-not-exist", nil); err == nil {
		t.Fatal("expected an error for an unknown template name")
	}
}
