package indexer

import (
	"fmt"
	"os"
	"strings"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/types"
)

// ParsedDocument bundles one manifest file's parse result with the
// document(s) it yields: exactly one for every type except "table", which
// also yields one synthesized column document per column (spec.md
// §4.4.3's "Column documents are not parsed from standalone files; they
// are synthesized from the parent table document").
type ParsedDocument struct {
	Table types.IndexDocument
	// Columns is only populated for doc_type table.
	Columns []types.IndexDocument

	// TableData and RelationshipData carry the raw parse result alongside
	// the IndexDocument(s) built from it, so callers that need structured
	// fields (foreign keys, source/target triples) for relationship-graph
	// construction don't have to re-parse the artifact.
	TableData        *ParsedTable
	RelationshipData *ParsedRelationship
}

// BuildDocument reads and parses the artifact at f.Path and converts it
// into IndexDocuments with document identities per spec.md §4.4.6's
// "Embedding lookup key" rules.
func BuildDocument(dict *domainrules.Dictionary, f types.IndexableFile) (ParsedDocument, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ParsedDocument{}, err
	}
	content := string(data)

	switch f.Type {
	case types.IndexableTable:
		return buildTableDocument(dict, f, content), nil
	case types.IndexableDomain:
		return buildDomainDocument(dict, f, content), nil
	case types.IndexableOverview:
		return buildOverviewDocument(f, content), nil
	case types.IndexableRelationship:
		return buildRelationshipDocument(f, content), nil
	default:
		return ParsedDocument{}, fmt.Errorf("indexer: unknown indexable file type %q", f.Type)
	}
}

func tableIdentity(database, schema, table string) string {
	return database + "." + schema + "." + table
}

func columnIdentity(database, schema, table, column string) string {
	return tableIdentity(database, schema, table) + "." + column
}

func buildTableDocument(dict *domainrules.Dictionary, f types.IndexableFile, content string) ParsedDocument {
	parsed := ParseTableArtifact(content)
	database := coalesce(parsed.Database, f.Database)
	schema := coalesce(parsed.Schema, f.Schema)
	table := coalesce(parsed.Table, f.Table)

	keywords := ExtractKeywords(dict, KeywordInput{
		Identifiers: []string{table},
		Description: parsed.Description,
		Domain:      f.Domain,
	})

	tableDoc := types.IndexDocument{
		ID:               tableIdentity(database, schema, table),
		DocType:          types.DocTypeTable,
		Database:         database,
		Schema:           schema,
		Table:            table,
		Domain:           f.Domain,
		Content:          tableEmbedText(parsed, keywords),
		Summary:          parsed.Description,
		Keywords:         keywords,
		FilePath:         f.Path,
		ContentHash:      f.ContentHash,
		SourceModifiedAt: f.ModifiedAt,
	}

	columnDocs := make([]types.IndexDocument, 0, len(parsed.Columns))
	for _, col := range parsed.Columns {
		colKeywords := ExtractKeywords(dict, KeywordInput{
			Identifiers: []string{col.Name},
			DataType:    col.Type,
			Description: col.Description,
			Domain:      f.Domain,
			ParentTable: table,
		})
		columnDocs = append(columnDocs, types.IndexDocument{
			ID:               columnIdentity(database, schema, table, col.Name),
			DocType:          types.DocTypeColumn,
			Database:         database,
			Schema:           schema,
			Table:            table,
			Column:           col.Name,
			Domain:           f.Domain,
			Content:          columnEmbedText(table, col, colKeywords),
			Summary:          col.Description,
			Keywords:         colKeywords,
			FilePath:         f.Path + "#" + col.Name,
			ContentHash:      f.ContentHash + "#" + col.Name,
			SourceModifiedAt: f.ModifiedAt,
			ParentTablePath:  f.Path,
		})
	}

	return ParsedDocument{Table: tableDoc, Columns: columnDocs, TableData: &parsed}
}

func buildDomainDocument(dict *domainrules.Dictionary, f types.IndexableFile, content string) ParsedDocument {
	parsed := ParseDomainArtifact(content)
	domain := coalesce(parsed.Domain, f.Domain)
	keywords := ExtractKeywords(dict, KeywordInput{Identifiers: []string{domain}, Description: parsed.Description})

	return ParsedDocument{Table: types.IndexDocument{
		ID:               f.Database + "." + domain,
		DocType:          types.DocTypeDomain,
		Database:         f.Database,
		Domain:           domain,
		Content:          parsed.Description + "\n" + strings.Join(parsed.Tables, ", "),
		Summary:          parsed.Description,
		Keywords:         keywords,
		FilePath:         f.Path,
		ContentHash:      f.ContentHash,
		SourceModifiedAt: f.ModifiedAt,
	}}
}

func buildOverviewDocument(f types.IndexableFile, content string) ParsedDocument {
	parsed := ParseOverviewArtifact(content)
	var body strings.Builder
	for _, section := range parsed.Sections {
		body.WriteString(section)
		body.WriteString("\n")
	}

	return ParsedDocument{Table: types.IndexDocument{
		ID:               f.Database + ".overview",
		DocType:          types.DocTypeOverview,
		Database:         f.Database,
		Content:          body.String(),
		Summary:          parsed.Title,
		FilePath:         f.Path,
		ContentHash:      f.ContentHash,
		SourceModifiedAt: f.ModifiedAt,
	}}
}

func buildRelationshipDocument(f types.IndexableFile, content string) ParsedDocument {
	parsed := ParseRelationshipArtifact(content)
	identity := f.Database + "." + parsed.SourceTable + "_to_" + parsed.TargetTable

	return ParsedDocument{Table: types.IndexDocument{
		ID:               identity,
		DocType:          types.DocTypeRelationship,
		Database:         f.Database,
		Content:          fmt.Sprintf("%s.%s -> %s.%s (%s)", parsed.SourceTable, parsed.SourceColumn, parsed.TargetTable, parsed.TargetColumn, parsed.Kind),
		FilePath:         f.Path,
		ContentHash:      f.ContentHash,
		SourceModifiedAt: f.ModifiedAt,
	}, RelationshipData: &parsed}
}

func tableEmbedText(parsed ParsedTable, keywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "table %s.%s in %s\n", parsed.Schema, parsed.Table, parsed.Database)
	b.WriteString(parsed.Description)
	b.WriteString("\n")
	for _, c := range parsed.Columns {
		fmt.Fprintf(&b, "column %s (%s): %s\n", c.Name, c.Type, c.Description)
	}
	b.WriteString(strings.Join(keywords, " "))
	return b.String()
}

func columnEmbedText(table string, col ParsedColumn, keywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "column %s.%s (%s): %s\n", table, col.Name, col.Type, col.Description)
	b.WriteString(strings.Join(keywords, " "))
	return b.String()
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
