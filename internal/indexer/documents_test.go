package indexer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/types"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestBuildDocumentTableIdentityAndColumnSynthesis(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "users.md", sampleTableArtifact)

	doc, err := BuildDocument(domainrules.Builtin, types.IndexableFile{
		Path: path, Type: types.IndexableTable, Database: "app", Schema: "public", Table: "users",
		ContentHash: "hash1", ModifiedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Table.ID != "app.public.users" {
		t.Fatalf("expected table identity app.public.users, got %q", doc.Table.ID)
	}
	if doc.Table.DocType != types.DocTypeTable {
		t.Fatalf("expected doc_type table, got %s", doc.Table.DocType)
	}
	if len(doc.Columns) != 3 {
		t.Fatalf("expected 3 synthesized column documents, got %d", len(doc.Columns))
	}

	var emailCol *types.IndexDocument
	for i := range doc.Columns {
		if doc.Columns[i].Column == "email" {
			emailCol = &doc.Columns[i]
		}
	}
	if emailCol == nil {
		t.Fatal("expected a synthesized column document for email")
	}
	if emailCol.ID != "app.public.users.email" {
		t.Fatalf("expected column identity app.public.users.email, got %q", emailCol.ID)
	}
	if emailCol.FilePath != path+"#email" {
		t.Fatalf("expected virtual column path %s#email, got %s", path, emailCol.FilePath)
	}
	if emailCol.ParentTablePath != path {
		t.Fatalf("expected parent table path %s, got %s", path, emailCol.ParentTablePath)
	}
}

const sampleDomainArtifact = `# core

**Description:** Core account and billing tables.

## Tables

- public.users
- public.organizations
`

func TestBuildDocumentDomainIdentity(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "core.md", sampleDomainArtifact)

	doc, err := BuildDocument(domainrules.Builtin, types.IndexableFile{
		Path: path, Type: types.IndexableDomain, Database: "app", Domain: "core", ContentHash: "hash2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Table.ID != "app.core" {
		t.Fatalf("expected domain identity app.core, got %q", doc.Table.ID)
	}
}

const sampleRelationshipArtifact = `# users_to_organizations

**Source:** public.users.org_id
**Target:** public.organizations.id
**Kind:** documented
`

func TestBuildDocumentRelationshipIdentity(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "rel.md", sampleRelationshipArtifact)

	doc, err := BuildDocument(domainrules.Builtin, types.IndexableFile{
		Path: path, Type: types.IndexableRelationship, Database: "app", ContentHash: "hash3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Table.ID != "app.users_to_organizations" {
		t.Fatalf("expected relationship identity app.users_to_organizations, got %q", doc.Table.ID)
	}
	if doc.RelationshipData == nil || doc.RelationshipData.TargetTable != "organizations" {
		t.Fatalf("expected parsed relationship data with target organizations, got %+v", doc.RelationshipData)
	}
}

const sampleOverviewArtifact = `# Schema Overview

## Summary

This database backs the core application.

## Conventions

All primary keys are bigint surrogate ids.
`

func TestBuildDocumentOverviewIdentity(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "overview.md", sampleOverviewArtifact)

	doc, err := BuildDocument(domainrules.Builtin, types.IndexableFile{
		Path: path, Type: types.IndexableOverview, Database: "app", ContentHash: "hash4",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Table.ID != "app.overview" {
		t.Fatalf("expected overview identity app.overview, got %q", doc.Table.ID)
	}
	if doc.Table.Summary != "Schema Overview" {
		t.Fatalf("expected summary to be the title, got %q", doc.Table.Summary)
	}
}
