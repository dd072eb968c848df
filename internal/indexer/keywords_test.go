package indexer

import (
	"testing"

	"github.com/schemadoc/schemadoc/internal/domainrules"
)

func TestSplitIdentifierHandlesSnakeAndCamelCase(t *testing.T) {
	cases := map[string][]string{
		"org_id":         {"org", "id"},
		"createdAt":      {"created", "at"},
		"OrganizationID": {"organization", "id"},
	}
	for input, want := range cases {
		got := splitIdentifier(input)
		if len(got) != len(want) {
			t.Fatalf("splitIdentifier(%q) = %v, want %v", input, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("splitIdentifier(%q) = %v, want %v", input, got, want)
			}
		}
	}
}

func TestExtractKeywordsDeduplicatesAndFiltersShortTokens(t *testing.T) {
	keywords := ExtractKeywords(domainrules.Builtin, KeywordInput{
		Identifiers: []string{"org_id", "org_id"},
		Description: "The id of an organization",
		Domain:      "core",
	})

	seen := make(map[string]int)
	for _, k := range keywords {
		seen[k]++
		if len(k) <= 2 {
			t.Fatalf("expected no keyword of length <= 2, got %q", k)
		}
	}
	for k, n := range seen {
		if n > 1 {
			t.Fatalf("expected keyword %q to be deduplicated, appeared %d times", k, n)
		}
	}
}

func TestExtractKeywordsIncludesParentTableContext(t *testing.T) {
	keywords := ExtractKeywords(domainrules.Builtin, KeywordInput{
		Identifiers: []string{"status"},
		ParentTable: "orders",
	})

	found := false
	for _, k := range keywords {
		if k == "orders" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parent table token in keywords, got %v", keywords)
	}
}
