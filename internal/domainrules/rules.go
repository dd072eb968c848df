// Package domainrules loads the single canonical domain/vocabulary
// dictionary consumed by the planner (domain inference hints, core/system
// priority classification) and the indexer (keyword expansion). It
// consolidates what the Design Notes flag as "multiple overlapping
// abbreviation tables" into one TOML file, loaded the way the teacher's
// internal/recipes package loads its own TOML config
// (github.com/BurntSushi/toml, struct tags, os.ReadFile).
package domainrules

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed domains.toml
var builtinTOML []byte

// Dictionary is the parsed contents of domains.toml.
type Dictionary struct {
	CoreDomains   []string            `toml:"core_domains"`
	SystemDomains []string            `toml:"system_domains"`
	NamePrefix    map[string]string   `toml:"name_prefix"`
	Abbreviations map[string]string   `toml:"abbreviations"`
	SemanticTypes map[string][]string `toml:"semantic_types"`
	ValuePatterns map[string]string   `toml:"value_patterns"`

	coreSet    map[string]bool
	systemSet  map[string]bool
	compiledVP map[string]*regexp.Regexp
}

// Builtin is the dictionary compiled from the module's embedded domains.toml.
// mustLoad panics only if the embedded file itself fails to parse (a build-time
// defect, not a runtime condition), so constructing this at package init is
// safe.
var Builtin = mustLoad(builtinTOML)

func mustLoad(data []byte) *Dictionary {
	d, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("domainrules: embedded domains.toml is invalid: %v", err))
	}
	return d
}

// Parse decodes TOML dictionary bytes, such as an overlay file a deployment
// supplies to extend or override the built-in dictionary.
func Parse(data []byte) (*Dictionary, error) {
	var d Dictionary
	if _, err := toml.Decode(string(data), &d); err != nil {
		return nil, fmt.Errorf("domainrules: decode: %w", err)
	}

	d.coreSet = toSet(d.CoreDomains)
	d.systemSet = toSet(d.SystemDomains)

	d.compiledVP = make(map[string]*regexp.Regexp, len(d.ValuePatterns))
	for name, pattern := range d.ValuePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("domainrules: compiling value pattern %q: %w", name, err)
		}
		d.compiledVP[name] = re
	}

	return &d, nil
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// IsCoreDomain reports whether domain is in the configured core set
// (spec.md §4.1's work-unit priority rule).
func (d *Dictionary) IsCoreDomain(domain string) bool { return d.coreSet[domain] }

// IsSystemDomain reports whether domain is in the configured system set.
func (d *Dictionary) IsSystemDomain(domain string) bool { return d.systemSet[domain] }

// InferDomainByPrefix is the rule-based domain-inference fallback: it
// matches a table name against configured prefixes/substrings, longest
// match first, and returns ("", false) if nothing matches.
func (d *Dictionary) InferDomainByPrefix(tableName string) (string, bool) {
	lower := strings.ToLower(tableName)

	prefixes := make([]string, 0, len(d.NamePrefix))
	for p := range d.NamePrefix {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, p := range prefixes {
		if strings.Contains(lower, p) {
			return d.NamePrefix[p], true
		}
	}
	return "", false
}

// ExpandAbbreviation returns the full word for a known abbreviation, and
// whether one was found.
func (d *Dictionary) ExpandAbbreviation(token string) (string, bool) {
	full, ok := d.Abbreviations[strings.ToLower(token)]
	return full, ok
}

// SemanticLabels returns the semantic labels (e.g. "date", "temporal") for
// a SQL data type keyword.
func (d *Dictionary) SemanticLabels(dataType string) []string {
	return d.SemanticTypes[strings.ToLower(dataType)]
}

// DetectPatterns returns the names of every configured value pattern that
// matches the given sample value (e.g. "email", "uuid", "currency").
func (d *Dictionary) DetectPatterns(sample string) []string {
	var matches []string
	names := make([]string, 0, len(d.compiledVP))
	for name := range d.compiledVP {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if d.compiledVP[name].MatchString(sample) {
			matches = append(matches, name)
		}
	}
	return matches
}
