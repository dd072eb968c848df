package planner

import (
	"context"
	"testing"

	"github.com/schemadoc/schemadoc/internal/domainrules"
	"github.com/schemadoc/schemadoc/internal/types"
)

func TestInferDomainsFallsBackToPrefixRules(t *testing.T) {
	tables := []types.TableMetadata{
		tableMeta("public", "user_profiles", 2),
		tableMeta("public", "widgets", 1),
	}
	opts := Options{} // no LLM client configured
	assignment := inferDomains(context.Background(), opts, types.DatabaseConfig{Name: "shop"}, tables, domainrules.Builtin)

	if assignment["public.user_profiles"] != "users" {
		t.Fatalf("expected prefix match to 'users', got %q", assignment["public.user_profiles"])
	}
	if assignment["public.widgets"] != "uncategorized" {
		t.Fatalf("expected unmatched table to fall through to 'uncategorized', got %q", assignment["public.widgets"])
	}
}

func TestAllowedDomainAlphabetIncludesCoreSystemAndCatchAll(t *testing.T) {
	allowed := allowedDomainAlphabet(domainrules.Builtin)
	for _, want := range []string{"customers", "audit", "other", "uncategorized"} {
		if !allowed[want] {
			t.Fatalf("expected %q to be in the allowed domain alphabet", want)
		}
	}
	if allowed["not_a_real_domain"] {
		t.Fatal("did not expect an arbitrary string to be allowed")
	}
}

func TestBatchesSplitsIntoFixedSizeGroups(t *testing.T) {
	tables := make([]types.TableMetadata, 5)
	for i := range tables {
		tables[i] = tableMeta("public", "t", 1)
	}
	groups := batches(tables, 2)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups of at most 2, got %d", len(groups))
	}
	if len(groups[0]) != 2 || len(groups[2]) != 1 {
		t.Fatalf("unexpected group sizes: %v", groups)
	}
}

func TestBatchesZeroSizeReturnsSingleGroup(t *testing.T) {
	tables := make([]types.TableMetadata, 3)
	groups := batches(tables, 0)
	if len(groups) != 1 || len(groups[0]) != 3 {
		t.Fatalf("expected one group containing all tables, got %v", groups)
	}
}
