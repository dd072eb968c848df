package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/schemadoc/schemadoc/internal/consoleui"
)

var previewCmd = &cobra.Command{
	Use:   "preview <path>",
	Short: "render a generated table/domain Markdown artifact for terminal display",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPreview(args[0])
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(path string) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied artifact path
	if err != nil {
		fatalf("reading %s: %v", path, err)
	}

	rendered, err := consoleui.RenderMarkdown(string(data))
	if err != nil {
		fatalf("rendering %s: %v", path, err)
	}
	fmt.Print(rendered)
}
