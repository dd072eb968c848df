package documenter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/types"
)

// columnBatchSize is spec.md §5's default bounded-batch size for column
// inference within one table.
const columnBatchSize = 5

// inferColumnDescriptions runs the ColumnInferencer sub-agent over every
// column of a table in bounded-parallel batches, returning one description
// per column name. Context quarantine (spec.md §4.2.5 Phase C) is
// structural here: inferColumn's return type is a bare string, so there is
// no way for sample data to flow back through this function's result.
func inferColumnDescriptions(ctx context.Context, client *llm.Client, model string, db, schema, table string, columns []types.Column, samples []catalog.Row) map[string]string {
	out := make(map[string]string, len(columns))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(columnBatchSize)

	for _, col := range columns {
		col := col
		g.Go(func() error {
			desc := inferColumn(gctx, client, model, db, schema, table, col, columnSampleValues(samples, col.Name))
			mu.Lock()
			out[col.Name] = desc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // inferColumn never returns an error: a failed LLM call falls back, it never aborts the batch

	return out
}

// inferColumn is the ColumnInferencer sub-agent: renders the
// column-description prompt, calls the LLM, and validates/falls back per
// spec.md §4.2.5. It returns only a description string, never the sample
// values it was given.
func inferColumn(ctx context.Context, client *llm.Client, model string, db, schema, table string, col types.Column, sampleValues []string) string {
	fallback := fmt.Sprintf("Column %s of type %s.", col.Name, col.Type)
	if client == nil {
		return fallback
	}

	prompt, err := renderPrompt("column-description", columnPromptData{
		Database:        db,
		Schema:          schema,
		Table:           table,
		Column:          col.Name,
		DataType:        col.Type,
		Nullable:        col.Nullable,
		Default:         formatDefault(col.Default),
		ExistingComment: formatDefault(col.Comment),
		SampleValues:    strings.Join(sampleValues, ", "),
	})
	if err != nil {
		return fallback
	}

	result, err := client.Complete(ctx, prompt, model, llm.CompleteOptions{
		MaxTokens: 200,
		Actor:     "documenter",
		Operation: "column-description",
	})
	if err != nil {
		return fallback
	}

	return validateColumnDescription(result.Content, col.Name, col.Type, fallback)
}

// validateColumnDescription implements spec.md §4.2.5's validation chain:
// trim; ensure sentence-ending punctuation; truncate overlong output to at
// most two sentences; fall back if the result is too short to be useful.
func validateColumnDescription(content, name, dataType, fallback string) string {
	s := strings.TrimSpace(content)
	if s == "" {
		return fallback
	}
	if !endsInSentencePunctuation(s) {
		s += "."
	}
	if len(s) > 500 {
		s = truncateToSentences(s, 2)
	}
	if len(s) < 10 {
		return fallback
	}
	return s
}

func endsInSentencePunctuation(s string) bool {
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last == '.' || last == '!' || last == '?'
}

// truncateToSentences keeps at most maxSentences sentences from s, splitting
// on '.', '!', '?' boundaries.
func truncateToSentences(s string, maxSentences int) string {
	var sentences []string
	start := 0
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, strings.TrimSpace(s[start:i+1]))
			start = i + 1
			if len(sentences) == maxSentences {
				return strings.Join(sentences, " ")
			}
		}
	}
	if start < len(s) {
		rest := strings.TrimSpace(s[start:])
		if rest != "" {
			sentences = append(sentences, rest+".")
		}
	}
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	return strings.Join(sentences, " ")
}

func columnSampleValues(rows []catalog.Row, column string) []string {
	var out []string
	for _, row := range rows {
		if v, ok := row[column]; ok && v != nil {
			out = append(out, fmt.Sprintf("%v", v))
		}
		if len(out) >= 5 {
			break
		}
	}
	return out
}
