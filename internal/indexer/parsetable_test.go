package indexer

import "testing"

const sampleTableArtifact = `# users

**Database:** app
**Schema:** public
**Description:** Registered application accounts.
**Row Count:** 1024

## Columns

| Column | Type | Nullable | Description |
| --- | --- | --- | --- |
| id | bigint | no | Surrogate primary key. |
| email | text | no | Login identifier. |
| org_id | bigint | yes | Owning organization. |

## Primary Key

id

## Foreign Keys

- org_id -> organizations.id

## Indexes

- users_email_idx
`

func TestParseTableArtifactExtractsMetadata(t *testing.T) {
	parsed := ParseTableArtifact(sampleTableArtifact)

	if parsed.Table != "users" {
		t.Fatalf("expected table users, got %q", parsed.Table)
	}
	if parsed.Database != "app" || parsed.Schema != "public" {
		t.Fatalf("expected app.public, got %s.%s", parsed.Database, parsed.Schema)
	}
	if parsed.RowCount != 1024 {
		t.Fatalf("expected row count 1024, got %d", parsed.RowCount)
	}
	if len(parsed.Columns) != 3 {
		t.Fatalf("expected 3 columns, got %d: %+v", len(parsed.Columns), parsed.Columns)
	}
	if parsed.Columns[2].Name != "org_id" || !parsed.Columns[2].Nullable {
		t.Fatalf("expected nullable org_id column, got %+v", parsed.Columns[2])
	}
	if len(parsed.PrimaryKey) != 1 || parsed.PrimaryKey[0] != "id" {
		t.Fatalf("expected primary key [id], got %v", parsed.PrimaryKey)
	}
	if len(parsed.ForeignKeys) != 1 || parsed.ForeignKeys[0].TargetTable != "organizations" {
		t.Fatalf("expected one FK to organizations, got %+v", parsed.ForeignKeys)
	}
	if len(parsed.Indexes) != 1 || parsed.Indexes[0] != "users_email_idx" {
		t.Fatalf("expected one index, got %v", parsed.Indexes)
	}
}

func TestParseTableArtifactSkipsHeaderAndSeparatorRows(t *testing.T) {
	parsed := ParseTableArtifact(sampleTableArtifact)
	for _, c := range parsed.Columns {
		if c.Name == "Column" || c.Name == "---" {
			t.Fatalf("header or separator row leaked into columns: %+v", parsed.Columns)
		}
	}
}
