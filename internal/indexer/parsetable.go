package indexer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/schemadoc/schemadoc/internal/types"
)

// ParsedColumn is one row of a parsed table artifact's Columns section.
type ParsedColumn struct {
	Name        string
	Type        string
	Nullable    bool
	Description string
}

// ParsedTable is the table parser's output (spec.md §4.4.3 "table"): every
// field a table document and its synthesized column documents are built
// from.
type ParsedTable struct {
	Table       string
	Schema      string
	Database    string
	Description string
	RowCount    int64
	Columns     []ParsedColumn
	PrimaryKey  []string
	ForeignKeys []types.ForeignKey
	Indexes     []string
}

var (
	titleRe       = regexp.MustCompile(`^# (.+)$`)
	databaseRe    = regexp.MustCompile(`^\*\*Database:\*\* (.*)$`)
	schemaRe      = regexp.MustCompile(`^\*\*Schema:\*\* (.*)$`)
	descriptionRe = regexp.MustCompile(`^\*\*Description:\*\* (.*)$`)
	rowCountRe    = regexp.MustCompile(`^\*\*Row Count:\*\* (\d+)$`)
	columnRowRe   = regexp.MustCompile(`^\| ([^|]+) \| ([^|]+) \| ([^|]+) \| (.*) \|$`)
	// Matches both the ASCII and Unicode arrow forms a Foreign Keys line
	// might use (spec.md §9: "preserve both the Unicode arrow (→) and
	// ASCII (->) in parser regexes").
	foreignKeyRe = regexp.MustCompile(`^- (\S+) (?:->|→) (\S+)\.(\S+)$`)
)

// ParseTableArtifact parses the Markdown artifact format spec.md §6.4
// defines (the same shape internal/documenter's renderMarkdown produces):
// title, bold metadata lines, an optional Row Count, a Columns table, and
// optional Primary Key/Foreign Keys/Indexes sections.
func ParseTableArtifact(md string) ParsedTable {
	var t ParsedTable
	var section string

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case titleRe.MatchString(line):
			t.Table = titleRe.FindStringSubmatch(line)[1]
		case databaseRe.MatchString(line):
			t.Database = databaseRe.FindStringSubmatch(line)[1]
		case schemaRe.MatchString(line):
			t.Schema = schemaRe.FindStringSubmatch(line)[1]
		case descriptionRe.MatchString(line):
			t.Description = descriptionRe.FindStringSubmatch(line)[1]
		case rowCountRe.MatchString(line):
			n, _ := strconv.ParseInt(rowCountRe.FindStringSubmatch(line)[1], 10, 64)
			t.RowCount = n
		case strings.HasPrefix(line, "## Columns"):
			section = "columns"
		case strings.HasPrefix(line, "## Primary Key"):
			section = "primary_key"
		case strings.HasPrefix(line, "## Foreign Keys"):
			section = "foreign_keys"
		case strings.HasPrefix(line, "## Indexes"):
			section = "indexes"
		case strings.HasPrefix(line, "## Sample Data"):
			section = "sample_data"
		case strings.HasPrefix(line, "#"):
			section = ""
		case section == "columns" && columnRowRe.MatchString(line):
			m := columnRowRe.FindStringSubmatch(line)
			if strings.EqualFold(strings.TrimSpace(m[1]), "column") {
				continue // header row
			}
			if strings.HasPrefix(strings.TrimSpace(m[1]), "---") {
				continue // separator row
			}
			t.Columns = append(t.Columns, ParsedColumn{
				Name:        strings.TrimSpace(m[1]),
				Type:        strings.TrimSpace(m[2]),
				Nullable:    strings.EqualFold(strings.TrimSpace(m[3]), "yes"),
				Description: strings.TrimSpace(m[4]),
			})
		case section == "primary_key" && strings.TrimSpace(line) != "":
			for _, col := range strings.Split(line, ",") {
				col = strings.TrimSpace(col)
				if col != "" {
					t.PrimaryKey = append(t.PrimaryKey, col)
				}
			}
		case section == "foreign_keys" && foreignKeyRe.MatchString(line):
			m := foreignKeyRe.FindStringSubmatch(line)
			t.ForeignKeys = append(t.ForeignKeys, types.ForeignKey{
				Column:       m[1],
				TargetTable:  m[2],
				TargetColumn: m[3],
			})
		case section == "indexes" && strings.HasPrefix(strings.TrimSpace(line), "- "):
			t.Indexes = append(t.Indexes, strings.TrimPrefix(strings.TrimSpace(line), "- "))
		}
	}

	return t
}
