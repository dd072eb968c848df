package indexer

import "strings"

// ParsedDomain is the domain parser's output (spec.md §4.4.3 "domain").
type ParsedDomain struct {
	Domain      string
	Description string
	Tables      []string
}

// ParseDomainArtifact parses a domain-level Markdown artifact: a title, a
// bold Description line, and a "## Tables" section of "- schema.table"
// entries — the same heading conventions the table parser uses, applied
// one level up.
func ParseDomainArtifact(md string) ParsedDomain {
	var d ParsedDomain
	inTables := false
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case titleRe.MatchString(line):
			d.Domain = titleRe.FindStringSubmatch(line)[1]
		case descriptionRe.MatchString(line):
			d.Description = descriptionRe.FindStringSubmatch(line)[1]
		case strings.HasPrefix(line, "## Tables"):
			inTables = true
		case strings.HasPrefix(line, "#"):
			inTables = false
		case inTables && strings.HasPrefix(strings.TrimSpace(line), "- "):
			d.Tables = append(d.Tables, strings.TrimPrefix(strings.TrimSpace(line), "- "))
		}
	}
	return d
}

// ParsedOverview is the overview parser's output (spec.md §4.4.3
// "overview"): a title plus the body's section headings and their text.
type ParsedOverview struct {
	Title    string
	Sections map[string]string
}

// ParseOverviewArtifact parses the top-level documentation overview file
// into a title and a map of "## Heading" -> body text.
func ParseOverviewArtifact(md string) ParsedOverview {
	o := ParsedOverview{Sections: make(map[string]string)}
	var current string
	var body strings.Builder
	flush := func() {
		if current != "" {
			o.Sections[current] = strings.TrimSpace(body.String())
		}
		body.Reset()
	}
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case titleRe.MatchString(line):
			o.Title = titleRe.FindStringSubmatch(line)[1]
		case strings.HasPrefix(line, "## "):
			flush()
			current = strings.TrimSpace(strings.TrimPrefix(line, "## "))
		default:
			body.WriteString(line)
			body.WriteString("\n")
		}
	}
	flush()
	return o
}

// ParsedRelationship is the relationship parser's output (spec.md §4.4.3
// "relationship"): a standalone documented edge, distinct from the FKs the
// table parser extracts inline.
type ParsedRelationship struct {
	SourceSchema, SourceTable, SourceColumn string
	TargetSchema, TargetTable, TargetColumn string
	Kind                                    string
}

// ParseRelationshipArtifact parses a standalone relationship artifact of
// the form "**Source:** schema.table.column", "**Target:**
// schema.table.column", "**Kind:** documented".
func ParseRelationshipArtifact(md string) ParsedRelationship {
	var r ParsedRelationship
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "**Source:**"):
			r.SourceSchema, r.SourceTable, r.SourceColumn = splitTriple(strings.TrimSpace(strings.TrimPrefix(line, "**Source:**")))
		case strings.HasPrefix(line, "**Target:**"):
			r.TargetSchema, r.TargetTable, r.TargetColumn = splitTriple(strings.TrimSpace(strings.TrimPrefix(line, "**Target:**")))
		case strings.HasPrefix(line, "**Kind:**"):
			r.Kind = strings.TrimSpace(strings.TrimPrefix(line, "**Kind:**"))
		}
	}
	return r
}

func splitTriple(s string) (schema, table, column string) {
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	default:
		return "", s, ""
	}
}
