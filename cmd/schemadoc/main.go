// Command schemadoc runs the Planner, Documenter, and Indexer stages of
// the schema-documentation pipeline (spec.md §6.5), plus the console-UI
// conveniences (§6.7) and catalog-authoring wizard (§6.8) layered over
// them. Subcommand wiring follows cmd/bd's one-cobra.Command-per-file
// layout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	catalogPath string
	jsonOutput  bool

	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "schemadoc",
	Short: "schemadoc - automated relational schema documentation and search",
	Long: `schemadoc discovers one or more relational databases, generates natural-language
table/column documentation with an LLM, and loads it into a combined full-text
and vector search index.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "catalog.yaml", "path to the database catalog file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output machine-readable JSON instead of console-UI rendering")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "schemadoc: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
