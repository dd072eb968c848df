package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/schemadoc/schemadoc/internal/catalog"
	"github.com/schemadoc/schemadoc/internal/consoleui"
	"github.com/schemadoc/schemadoc/internal/planner"
	"github.com/schemadoc/schemadoc/internal/progressio"
)

var (
	planForce     bool
	planDryRun    bool
	planMaxTables int
	planMaxAge    string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "discover the catalog's databases and emit a documentation plan",
	Run: func(cmd *cobra.Command, args []string) {
		runPlan()
	},
}

func init() {
	planCmd.Flags().BoolVar(&planForce, "force", false, "replan even if an existing plan is not stale")
	planCmd.Flags().BoolVar(&planDryRun, "dry-run", false, "compute the plan but do not write it to disk")
	planCmd.Flags().IntVar(&planMaxTables, "max-tables-per-database", 0, "cap on tables considered per database (0 = unlimited)")
	planCmd.Flags().StringVar(&planMaxAge, "max-plan-age", "", "natural-language max plan age (\"2 days\", \"last night\"); an existing plan older than this is replanned without reading its structural diff first")
	rootCmd.AddCommand(planCmd)
}

// parseMaxPlanAge resolves a natural-language duration phrase the same way
// cmd/bd's scheduling code reaches for olebedev/when, returning the
// duration between now and the time `when` resolves the phrase to.
func parseMaxPlanAge(phrase string) (time.Duration, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(phrase, time.Now())
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, fmt.Errorf("could not parse max-plan-age phrase %q", phrase)
	}
	d := time.Until(r.Time)
	if d < 0 {
		d = -d
	}
	return d, nil
}

func planIsStaleByAge(phrase string) bool {
	if phrase == "" {
		return false
	}
	maxAge, err := parseMaxPlanAge(phrase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemadoc: ignoring --max-plan-age: %v\n", err)
		return false
	}

	var existing struct {
		GeneratedAt time.Time `json:"generated_at"`
	}
	if err := progressio.ReadJSON(progressio.PlanPath(), &existing); err != nil {
		return false
	}
	return time.Since(existing.GeneratedAt) > maxAge
}

func runPlan() {
	dbs, err := catalog.Load(catalogPath)
	if err != nil {
		fatalf("loading catalog: %v", err)
	}

	force := planForce || planIsStaleByAge(planMaxAge)

	opts := planner.Options{
		Catalog: dbs,
		Config: planner.Config{
			MaxTablesPerDatabase:   planMaxTables,
			DomainInferenceEnabled: true,
			LLMModel:               envOrDefault("LLM_PRIMARY_MODEL", "claude-sonnet-4-5"),
			BatchSize:              10,
		},
		Force:  force,
		DryRun: planDryRun,
		LLM:    buildLLMClient(),
	}

	plan, err := planner.Run(rootCtx, opts)
	if err != nil {
		fatalf("planning: %v", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			fatalf("encoding plan: %v", err)
		}
		return
	}
	for _, line := range consoleui.PlanSummaryLines(*plan) {
		fmt.Println(line)
	}
}
