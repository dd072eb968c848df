package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/llm"
	"github.com/schemadoc/schemadoc/internal/types"
)

// inferDomainsViaLLM implements the primary half of spec.md §4.1's domain
// inference step: tables are sent to the LLM Client in batches of
// batch_size, each batch asked to return a table->domain JSON object. Any
// domain outside the dictionary's closed alphabet collapses to "other";
// any table the model omits from its response is left unassigned here for
// the rule-based fallback in inferDomains to pick up.
func inferDomainsViaLLM(ctx context.Context, opts Options, cfg types.DatabaseConfig, tables []types.TableMetadata) (map[string]string, error) {
	dict := opts.dictionary()
	allowed := allowedDomainAlphabet(dict)
	assignment := make(map[string]string, len(tables))

	for _, batch := range batches(tables, opts.batchSize()) {
		prompt := buildDomainInferencePrompt(cfg.Name, batch, dict)
		result, err := opts.LLM.Complete(ctx, prompt, opts.Config.LLMModel, llm.CompleteOptions{
			MaxTokens: 1024,
			Actor:     "planner",
			Operation: "domain-inference",
		})
		if err != nil {
			continue // this batch falls through to the rule-based fallback
		}

		parsed, err := parseDomainResponse(result.Content)
		if err != nil {
			continue
		}
		for _, t := range batch {
			domain, ok := parsed[t.Table]
			if !ok {
				continue
			}
			if !allowed[domain] {
				domain = "other"
			}
			assignment[t.FullyQualifiedName()] = domain
		}
	}

	if len(assignment) == 0 {
		return nil, fmt.Errorf("%w: no batch returned a usable response", errLLMDomainInference)
	}
	return assignment, nil
}

// buildDomainInferencePrompt renders the table list and the allowed domain
// vocabulary into a single-turn classification request.
func buildDomainInferencePrompt(database string, tables []types.TableMetadata, dict *domainrules.Dictionary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classify each table below from database %q into exactly one business domain.\n", database)
	fmt.Fprintf(&b, "Allowed domains: %s, %s, other.\n", strings.Join(dict.CoreDomains, ", "), strings.Join(dict.SystemDomains, ", "))
	b.WriteString("Respond with a single JSON object mapping table name to domain, nothing else.\n\n")
	for _, t := range tables {
		columns := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			columns = append(columns, c.Name)
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", t.Table, t.Schema, strings.Join(columns, ", "))
	}
	return b.String()
}

// parseDomainResponse decodes the LLM's JSON object response, tolerating a
// response wrapped in a fenced code block.
func parseDomainResponse(content string) (map[string]string, error) {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var out map[string]string
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, errs.Wrap(errs.CodeLLMParseFailed, errs.SeverityWarning, true, "parsing domain inference response", err)
	}
	return out, nil
}
