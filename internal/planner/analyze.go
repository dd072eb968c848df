package planner

import (
	"context"
	"fmt"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/types"
)

// analyzeDatabase implements spec.md §4.1 step 3: connect, enumerate
// tables, truncate to max_tables_per_database, pull relationships, assign
// domains, and compute the database's structural schema_hash. A connect or
// enumeration failure never aborts planning: it yields a partial
// DatabaseAnalysis with status=unreachable and an error the caller records
// as a non-fatal PlanError.
func analyzeDatabase(ctx context.Context, opts Options, cfg types.DatabaseConfig) (types.DatabaseAnalysis, []types.TableMetadata, map[string]string, fkCountPair, error) {
	analysis := types.DatabaseAnalysis{Database: cfg.Name, Domains: map[string]int{}}

	conn, err := catalog.New(cfg.EngineKind)
	if err != nil {
		analysis.Status = types.DatabaseUnreachable
		analysis.Error = err.Error()
		return analysis, nil, nil, fkCountPair{}, err
	}

	connectCtx, cancel := withConnectTimeout(ctx, opts, cfg)
	defer cancel()
	if err := conn.Connect(connectCtx, cfg); err != nil {
		analysis.Status = types.DatabaseUnreachable
		analysis.Error = err.Error()
		return analysis, nil, nil, fkCountPair{}, err
	}
	defer func() { _ = conn.Disconnect() }()

	tables, err := conn.ListTables(ctx, catalog.ListOptions{
		SchemasInclude:      cfg.SchemasInclude,
		SchemasExclude:      cfg.SchemasExclude,
		TablesExclude:       cfg.TablesExclude,
		IncludeSystemTables: cfg.IncludeSystemTables,
	})
	if err != nil {
		analysis.Status = types.DatabaseUnreachable
		analysis.Error = err.Error()
		return analysis, nil, nil, fkCountPair{}, err
	}

	sortTableMetadata(tables)
	if opts.Config.MaxTablesPerDatabase > 0 && len(tables) > opts.Config.MaxTablesPerDatabase {
		tables = tables[:opts.Config.MaxTablesPerDatabase]
	}

	refs := make([]types.TableRef, 0, len(tables))
	for _, t := range tables {
		refs = append(refs, types.TableRef{Schema: t.Schema, Table: t.Table})
	}
	relationships, _ := conn.GetRelationships(ctx, refs) // unavailable => empty, never fatal

	incoming := make(map[string]int)
	outgoing := make(map[string]int)
	for _, r := range relationships {
		outgoing[r.Source.Schema+"."+r.Source.Table]++
		incoming[r.Target.Schema+"."+r.Target.Table]++
	}

	dict := opts.dictionary()
	domainAssignment := inferDomains(ctx, opts, cfg, tables, dict)

	analysis.Status = types.DatabaseReachable
	analysis.TableCount = len(tables)
	for _, t := range tables {
		domain := domainAssignment[t.FullyQualifiedName()]
		analysis.Domains[domain]++
	}

	schemaHash, err := types.SchemaHash(tables)
	if err == nil {
		analysis.SchemaHash = schemaHash
	}

	return analysis, tables, domainAssignment, fkCountPair{incoming: incoming, outgoing: outgoing}, nil
}

// fkCountPair holds the incoming/outgoing foreign-key counts keyed by a
// table's "schema.table" fully-qualified name, computed once per database
// during analysis and consumed by buildWorkUnits for priority derivation.
type fkCountPair struct {
	incoming map[string]int
	outgoing map[string]int
}

// inferDomains implements spec.md §4.1's domain-inference step: primary
// LLM batches of <=batch_size tables validated to a closed alphabet
// (unknown domains collapse to "other"), with a rule-based (name-prefix)
// fallback for any table the LLM step could not place or when LLM
// inference is disabled or fails outright. Tables left unassigned after
// both passes go to "uncategorized".
func inferDomains(ctx context.Context, opts Options, cfg types.DatabaseConfig, tables []types.TableMetadata, dict *domainrules.Dictionary) map[string]string {
	assignment := make(map[string]string, len(tables))

	if opts.Config.DomainInferenceEnabled && opts.LLM != nil {
		llmAssignment, err := inferDomainsViaLLM(ctx, opts, cfg, tables)
		if err == nil {
			for fqn, domain := range llmAssignment {
				assignment[fqn] = domain
			}
		}
	}

	for _, t := range tables {
		fqn := t.FullyQualifiedName()
		if _, ok := assignment[fqn]; ok {
			continue
		}
		if domain, ok := dict.InferDomainByPrefix(t.Table); ok {
			assignment[fqn] = domain
			continue
		}
		assignment[fqn] = "uncategorized"
	}

	return assignment
}

// allowedDomainAlphabet is the closed set of domain names the LLM's
// response is validated against; anything else collapses to "other".
func allowedDomainAlphabet(dict *domainrules.Dictionary) map[string]bool {
	allowed := make(map[string]bool)
	for _, d := range dict.CoreDomains {
		allowed[d] = true
	}
	for _, d := range dict.SystemDomains {
		allowed[d] = true
	}
	allowed["other"] = true
	allowed["uncategorized"] = true
	return allowed
}

func batches(tables []types.TableMetadata, size int) [][]types.TableMetadata {
	if size <= 0 {
		size = len(tables)
	}
	var out [][]types.TableMetadata
	for i := 0; i < len(tables); i += size {
		end := i + size
		if end > len(tables) {
			end = len(tables)
		}
		out = append(out, tables[i:end])
	}
	return out
}

var errLLMDomainInference = fmt.Errorf("planner: llm domain inference unavailable")
