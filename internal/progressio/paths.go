package progressio

import (
	"os"
	"path/filepath"
)

// DocsRoot resolves the documentation output root: the DOCS_ROOT
// environment variable if set, else "docs/" relative to the working
// directory (spec.md §6.4).
func DocsRoot() string {
	if v := os.Getenv("DOCS_ROOT"); v != "" {
		return v
	}
	return "docs"
}

// ProgressBase resolves the base directory for plan/progress files. In
// tests, TEST_PROGRESS_DIR overrides the working directory base (spec.md
// §6.6).
func ProgressBase() string {
	if v := os.Getenv("TEST_PROGRESS_DIR"); v != "" {
		return v
	}
	return "."
}

// PlanPath returns the well-known plan file path.
func PlanPath() string {
	return filepath.Join(ProgressBase(), "progress", "documentation-plan.json")
}

// DocumenterProgressPath returns the well-known documenter progress file
// path.
func DocumenterProgressPath() string {
	return filepath.Join(ProgressBase(), "progress", "documenter-progress.json")
}

// WorkUnitProgressPath returns the per-work-unit progress file path.
func WorkUnitProgressPath(workUnitID string) string {
	return filepath.Join(ProgressBase(), "progress", "work_units", workUnitID, "progress.json")
}

// IndexerProgressPath returns the well-known indexer progress file path.
func IndexerProgressPath() string {
	return filepath.Join(ProgressBase(), "progress", "indexer-progress.json")
}

// ManifestPath returns the manifest path under the docs root.
func ManifestPath() string {
	return filepath.Join(DocsRoot(), "documentation-manifest.json")
}

// TableArtifactPaths returns the Markdown and JSON artifact paths for a
// table within a work unit's output directory (spec.md §6.4).
func TableArtifactPaths(outputDirectory, schema, table string) (mdPath, jsonPath string) {
	name := sanitizeFilenameComponent(schema) + "." + sanitizeFilenameComponent(table)
	dir := filepath.Join(DocsRoot(), outputDirectory, "tables")
	return filepath.Join(dir, name+".md"), filepath.Join(dir, name+".json")
}

// invalidFilenameChars are replaced with '_' in artifact filenames
// (spec.md §4.2.5 File naming).
var invalidFilenameChars = []rune{'/', '\\', ':', '*', '?', '"', '<', '>', '|'}

func sanitizeFilenameComponent(s string) string {
	out := []rune(s)
	for i, r := range out {
		for _, bad := range invalidFilenameChars {
			if r == bad {
				out[i] = '_'
				break
			}
		}
	}
	return string(out)
}
