package indexer

import (
	"regexp"
	"strings"

	"github.com/schemadoc/schemadoc/internal/domainrules"
)

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonWordRe       = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// stopWords are filtered out of description-derived tokens; short,
// structural words carry no search signal on their own.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "from": true, "are": true, "was": true, "were": true,
	"has": true, "have": true, "its": true, "into": true, "all": true,
}

// splitIdentifier breaks a SQL identifier into lowercase tokens on `_` and
// camelCase boundaries (spec.md §4.4.4).
func splitIdentifier(identifier string) []string {
	withBoundaries := camelBoundaryRe.ReplaceAllString(identifier, "$1_$2")
	parts := nonWordRe.Split(withBoundaries, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// descriptionTokens extracts lowercase, length-filtered, stopword-filtered
// words from free text (the "noun-like and database-vocabulary words from
// descriptions" source in spec.md §4.4.4).
func descriptionTokens(text string) []string {
	var tokens []string
	for _, word := range nonWordRe.Split(text, -1) {
		w := strings.ToLower(strings.TrimSpace(word))
		if len(w) > 2 && !stopWords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// KeywordInput bundles every signal ExtractKeywords draws from for one
// document.
type KeywordInput struct {
	Identifiers  []string
	DataType     string
	Description  string
	SampleValues []string
	Domain       string
	ParentTable  string
}

// ExtractKeywords builds the per-document keyword set spec.md §4.4.4
// describes: identifier tokens, abbreviation expansions, semantic type
// labels, sample-value pattern detections, description vocabulary, and
// parent-context terms, deduplicated and filtered to length > 2.
func ExtractKeywords(dict *domainrules.Dictionary, in KeywordInput) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(token string) {
		token = strings.ToLower(strings.TrimSpace(token))
		if len(token) <= 2 || seen[token] {
			return
		}
		seen[token] = true
		out = append(out, token)
	}

	for _, id := range in.Identifiers {
		for _, tok := range splitIdentifier(id) {
			add(tok)
			if expanded, ok := dict.ExpandAbbreviation(tok); ok {
				for _, w := range strings.Fields(expanded) {
					add(w)
				}
			}
		}
	}

	for _, label := range dict.SemanticLabels(in.DataType) {
		add(label)
	}

	for _, sample := range in.SampleValues {
		for _, pattern := range dict.DetectPatterns(sample) {
			add(pattern)
		}
	}

	for _, tok := range descriptionTokens(in.Description) {
		add(tok)
	}

	if in.Domain != "" {
		for _, tok := range splitIdentifier(in.Domain) {
			add(tok)
		}
	}
	if in.ParentTable != "" {
		for _, tok := range splitIdentifier(in.ParentTable) {
			add(tok)
		}
	}

	return out
}
