package documenter

import (
	"embed"
	"strings"
	"text/template"

	"github.com/schemadoc/schemadoc/internal/errs"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var promptTemplates = mustParsePrompts()

func mustParsePrompts() *template.Template {
	tmpl, err := template.New("prompts").ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		panic("documenter: embedded prompt templates are invalid: " + err.Error())
	}
	return tmpl
}

// renderPrompt renders the named prompt template (e.g. "column-description",
// "table-description") with data. Unknown names raise DOC_TEMPLATE_NOT_FOUND.
func renderPrompt(name string, data any) (string, error) {
	t := promptTemplates.Lookup(name + ".tmpl")
	if t == nil {
		return "", errs.New(errs.CodeTemplateNotFound, errs.SeverityError, false, "prompt template not found: "+name)
	}
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", errs.Wrap(errs.CodeTemplateNotFound, errs.SeverityError, false, "rendering prompt template "+name, err)
	}
	return b.String(), nil
}

// columnPromptData is the column-description template's variable set.
type columnPromptData struct {
	Database        string
	Schema          string
	Table           string
	Column          string
	DataType        string
	Nullable        bool
	Default         string
	ExistingComment string
	SampleValues    string
}

// tablePromptColumn is one row of the table-description template's column
// listing, populated with the already-inferred per-column description.
type tablePromptColumn struct {
	Name        string
	Type        string
	Nullable    bool
	Description string
}

// tablePromptForeignKey is one row of the table-description template's
// foreign-key listing.
type tablePromptForeignKey struct {
	Column       string
	TargetTable  string
	TargetColumn string
}

// tablePromptData is the table-description template's variable set.
type tablePromptData struct {
	Database    string
	Schema      string
	Table       string
	Domain      string
	RowCount    int64
	Columns     []tablePromptColumn
	PrimaryKey  string
	ForeignKeys []tablePromptForeignKey
	SampleData  string
}
