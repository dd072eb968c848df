// Package indexer implements runIndexer (spec.md §4.4): it loads the
// Documenter's manifest, parses every listed artifact by type, extracts
// keywords, embeds documents, populates the Index Store with parent-
// before-child ordering, rebuilds the relationship graph with multi-hop
// BFS, and (incrementally or not) leaves the store best-effort optimized.
// It follows the same phase-as-persisted-state discipline
// internal/documenter uses for its own progress checkpoints.
package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// LoadManifest reads and validates documentation-manifest.json (spec.md
// §4.4.2): it must exist, parse, carry a status in {complete, partial},
// and list at least one indexable file. Every listed file is checked for
// existence and content_hash agreement; a stale hash is a warning (the
// file is treated as changed, so it re-indexes); a missing file is
// dropped from the returned working set.
func LoadManifest() (*types.Manifest, []string, error) {
	path := progressio.ManifestPath()
	if !progressio.Exists(path) {
		return nil, nil, errs.New(errs.CodeIndexManifestNotFound, errs.SeverityFatal, false, "no manifest found at "+path)
	}

	var manifest types.Manifest
	if err := progressio.ReadJSON(path, &manifest); err != nil {
		return nil, nil, errs.Wrap(errs.CodeIndexManifestInvalid, errs.SeverityFatal, false, "parsing manifest at "+path, err)
	}
	if manifest.Status != types.ManifestComplete && manifest.Status != types.ManifestPartial {
		return nil, nil, errs.New(errs.CodeIndexManifestInvalid, errs.SeverityFatal, false, "manifest status is neither complete nor partial")
	}
	if len(manifest.IndexableFiles) == 0 {
		return nil, nil, errs.New(errs.CodeIndexManifestInvalid, errs.SeverityFatal, false, "manifest lists no indexable files")
	}

	var warnings []string
	working := make([]types.IndexableFile, 0, len(manifest.IndexableFiles))
	for _, f := range manifest.IndexableFiles {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			warnings = append(warnings, "indexable file missing, excluded from working set: "+f.Path)
			continue
		}
		if actual := contentHash(data); actual != f.ContentHash {
			warnings = append(warnings, "indexable file content_hash mismatch, will re-index: "+f.Path)
			// carry the on-disk hash forward so incremental partitioning
			// classifies the file as changed
			f.ContentHash = actual
		}
		working = append(working, f)
	}
	manifest.IndexableFiles = working
	return &manifest, warnings, nil
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
