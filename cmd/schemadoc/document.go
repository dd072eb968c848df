package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/documenter"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "process the current plan's work units, generating table/column documentation",
	Run: func(cmd *cobra.Command, args []string) {
		runDocument()
	},
}

func init() {
	rootCmd.AddCommand(documentCmd)
}

func runDocument() {
	dbs, err := catalog.Load(catalogPath)
	if err != nil {
		fatalf("loading catalog: %v", err)
	}

	opts := documenter.Options{
		Catalog: dbs,
		Config:  documenter.Config{LLMModel: envOrDefault("LLM_PRIMARY_MODEL", "claude-sonnet-4-5")},
		LLM:     buildLLMClient(),
	}

	if err := documenter.Run(rootCtx, opts); err != nil {
		fatalf("documenting: %v", err)
	}
	fmt.Println("documentation run complete; see progress/documenter-progress.json")
}
