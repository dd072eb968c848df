package documenter

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// tableSummary is the TableDocumenter's only return value (spec.md §4.2.5
// Phase C): it structurally excludes raw sample data, enforcing context
// quarantine by construction rather than by a runtime check.
type tableSummary struct {
	Schema      string
	Table       string
	Description string
	ColumnCount int
	OutputFiles []string
}

// documentTable is the TableDocumenter sub-agent: it orchestrates
// ColumnInferencer over every column, calls the LLM once more for the
// table-level description, renders both artifact files, writes them
// atomically, and returns a tableSummary.
func documentTable(ctx context.Context, client *llm.Client, model, database, outputDirectory string, spec types.TableSpec, meta types.TableMetadata, samples []catalog.Row, now time.Time) (tableSummary, error) {
	columnDescriptions := inferColumnDescriptions(ctx, client, model, database, meta.Schema, meta.Table, meta.Columns, samples)

	artifactColumns := make([]ArtifactColumn, 0, len(meta.Columns))
	promptColumns := make([]tablePromptColumn, 0, len(meta.Columns))
	for _, c := range meta.Columns {
		desc := columnDescriptions[c.Name]
		artifactColumns = append(artifactColumns, ArtifactColumn{
			Name:        c.Name,
			Type:        c.Type,
			Nullable:    c.Nullable,
			Description: desc,
			Default:     c.Default,
		})
		promptColumns = append(promptColumns, tablePromptColumn{
			Name:        c.Name,
			Type:        c.Type,
			Nullable:    c.Nullable,
			Description: desc,
		})
	}

	fks := make([]tablePromptForeignKey, 0, len(meta.ForeignKeys))
	for _, fk := range meta.ForeignKeys {
		fks = append(fks, tablePromptForeignKey{Column: fk.Column, TargetTable: fk.TargetTable, TargetColumn: fk.TargetColumn})
	}

	sampleJSON := ""
	if len(samples) > 0 {
		if data, err := json.Marshal(limitSampleRows(samples, 5)); err == nil {
			sampleJSON = string(data)
		}
	}

	description := describeTable(ctx, client, model, database, meta, promptColumns, fks, sampleJSON, spec)

	artifact := &TableArtifact{
		Table:       meta.Table,
		Schema:      meta.Schema,
		Database:    database,
		Description: description,
		RowCount:    meta.RowCountApprox,
		Columns:     artifactColumns,
		PrimaryKey:  meta.PrimaryKey,
		ForeignKeys: meta.ForeignKeys,
		Indexes:     meta.Indexes,
		SampleData:  limitSampleRows(samples, 5),
		GeneratedAt: now,
	}

	return writeTableArtifact(outputDirectory, artifact)
}

// describeTable is the table-level half of Phase C: renders the
// table-description prompt (including keys, foreign keys, and up to 5
// sample rows) and validates/falls back the same way a column description
// does.
func describeTable(ctx context.Context, client *llm.Client, model, database string, meta types.TableMetadata, columns []tablePromptColumn, fks []tablePromptForeignKey, sampleJSON string, spec types.TableSpec) string {
	fallback := "Table " + meta.Table + "."
	if client == nil {
		return fallback
	}

	prompt, err := renderPrompt("table-description", tablePromptData{
		Database:    database,
		Schema:      meta.Schema,
		Table:       meta.Table,
		Domain:      spec.Domain,
		RowCount:    meta.RowCountApprox,
		Columns:     columns,
		PrimaryKey:  joinStrings(meta.PrimaryKey),
		ForeignKeys: fks,
		SampleData:  sampleJSON,
	})
	if err != nil {
		return fallback
	}

	result, err := client.Complete(ctx, prompt, model, llm.CompleteOptions{
		MaxTokens: 400,
		Actor:     "documenter",
		Operation: "table-description",
	})
	if err != nil {
		return fallback
	}

	return validateColumnDescription(result.Content, meta.Table, "table", fallback)
}

// writeTableArtifact renders and atomically writes both artifact files.
// The two writes are independent: the table counts as succeeded if at
// least one lands (spec.md §4.2.5).
func writeTableArtifact(outputDirectory string, artifact *TableArtifact) (tableSummary, error) {
	mdPath, jsonPath := progressio.TableArtifactPaths(outputDirectory, artifact.Schema, artifact.Table)

	var outputFiles []string
	var firstErr error

	if err := writeArtifact(mdPath, []byte(renderMarkdown(artifact))); err == nil {
		outputFiles = append(outputFiles, mdPath)
	} else {
		firstErr = err
	}

	jsonData, jsonErr := json.MarshalIndent(artifact, "", "  ")
	if jsonErr == nil {
		if err := writeArtifact(jsonPath, jsonData); err == nil {
			outputFiles = append(outputFiles, jsonPath)
		} else if firstErr == nil {
			firstErr = err
		}
	} else if firstErr == nil {
		firstErr = jsonErr
	}

	summary := tableSummary{
		Schema:      artifact.Schema,
		Table:       artifact.Table,
		Description: artifact.Description,
		ColumnCount: len(artifact.Columns),
		OutputFiles: outputFiles,
	}

	if len(outputFiles) == 0 {
		return summary, errs.Wrap(errs.CodeFileWriteFailed, errs.SeverityError, true, "writing artifacts for "+artifact.Schema+"."+artifact.Table, firstErr)
	}
	return summary, nil
}

func limitSampleRows(rows []catalog.Row, n int) []catalog.Row {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}

func joinStrings(ss []string) string {
	return strings.Join(ss, ", ")
}
