package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/schemadoc/schemadoc/internal/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "manage catalog.yaml, the list of databases schemadoc documents",
}

var catalogInitCmd = &cobra.Command{
	Use:   "init",
	Short: "interactively add a database entry to catalog.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		runCatalogInit()
	},
}

func init() {
	catalogCmd.AddCommand(catalogInitCmd)
	rootCmd.AddCommand(catalogCmd)
}

// runCatalogInit walks the operator through describing one database with a
// charmbracelet/huh form (text inputs for host/port/database, a select for
// engine_kind, a comma-separated text input for included schemas), mirroring
// cmd/bd/create_form.go's structured, validated interactive form, then
// appends the entry to catalogPath.
func runCatalogInit() {
	var (
		name           string
		engineKind     string
		host           string
		portStr        string
		database       string
		user           string
		passwordEnvVar string
		schemasInput   string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Database name").
				Description("Logical name used in file paths and the plan (e.g. app_core)").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Engine").
				Options(
					huh.NewOption("PostgreSQL", "postgres"),
					huh.NewOption("MySQL", "mysql"),
					huh.NewOption("SQLite", "sqlite"),
					huh.NewOption("Dolt", "dolt"),
				).
				Value(&engineKind),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Placeholder("db.internal").
				Value(&host),

			huh.NewInput().
				Title("Port").
				Placeholder("5432").
				Value(&portStr).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("port must be a number")
					}
					return nil
				}),

			huh.NewInput().
				Title("Database").
				Value(&database),

			huh.NewInput().
				Title("User").
				Value(&user),

			huh.NewInput().
				Title("Password env var").
				Description("Name of the environment variable holding the password (the password itself is never written to catalog.yaml)").
				Placeholder("APP_CORE_DB_PASSWORD").
				Value(&passwordEnvVar),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Schemas to include").
				Description("Comma-separated; empty means all non-system schemas").
				Placeholder("public, billing").
				Value(&schemasInput),

			huh.NewConfirm().
				Title("Add this database to catalog.yaml?").
				Affirmative("Add").
				Negative("Cancel"),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "catalog init cancelled.")
			os.Exit(0)
		}
		fatalf("form error: %v", err)
	}

	port, _ := strconv.Atoi(portStr)
	var schemas []string
	for _, s := range strings.Split(schemasInput, ",") {
		if s = strings.TrimSpace(s); s != "" {
			schemas = append(schemas, s)
		}
	}

	entry := types.DatabaseConfig{
		Name:       name,
		EngineKind: engineKind,
		ConnectionRef: types.ConnectionRef{
			Kind: types.ConnectionKindCredentials,
			Credentials: &types.EngineCredentials{
				Host:           host,
				Port:           port,
				Database:       database,
				User:           user,
				PasswordEnvVar: passwordEnvVar,
			},
		},
		SchemasInclude: schemas,
	}

	if err := appendCatalogEntry(catalogPath, entry); err != nil {
		fatalf("writing %s: %v", catalogPath, err)
	}
	fmt.Printf("added %q to %s\n", name, catalogPath)
}

type catalogFile struct {
	Databases []types.DatabaseConfig `yaml:"databases"`
}

func appendCatalogEntry(path string, entry types.DatabaseConfig) error {
	var cf catalogFile
	if data, err := os.ReadFile(path); err == nil { // #nosec G304 - operator-supplied catalog path
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return err
		}
	}

	for _, existing := range cf.Databases {
		if existing.Name == entry.Name {
			return fmt.Errorf("catalog already declares a database named %q", entry.Name)
		}
	}
	cf.Databases = append(cf.Databases, entry)

	out, err := yaml.Marshal(cf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}
