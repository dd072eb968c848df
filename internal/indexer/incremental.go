package indexer

import (
	"context"
	"strings"

	"github.com/schemadoc/schemadoc/internal/indexstore"
	"github.com/schemadoc/schemadoc/internal/types"
)

// Partition is the new/changed/deleted/unchanged classification spec.md
// §4.4.8 describes for incremental mode.
type Partition struct {
	New       []types.IndexableFile
	Changed   []types.IndexableFile
	Unchanged []types.IndexableFile
	Deleted   []string // file paths no longer in the manifest
}

// ToReindex is every file that must be parsed, embedded, and populated:
// new and changed files. Unchanged files keep their existing rows exactly
// as-is; deleted files are removed separately via DeletedPaths.
func (p Partition) ToReindex() []types.IndexableFile {
	out := make([]types.IndexableFile, 0, len(p.New)+len(p.Changed))
	out = append(out, p.New...)
	out = append(out, p.Changed...)
	return out
}

// AnyTableChanged reports whether any new/changed file is a table artifact
// or any file was deleted at all (deleted paths carry no type, so every
// deletion counts), the trigger spec.md §4.4.8 names for rebuilding the
// relationship graph ("if any table file changed or was deleted, rebuild
// relationships and recompute multi-hop paths").
func (p Partition) AnyTableChanged() bool {
	for _, f := range p.New {
		if f.Type == types.IndexableTable {
			return true
		}
	}
	for _, f := range p.Changed {
		if f.Type == types.IndexableTable {
			return true
		}
	}
	return len(p.Deleted) > 0
}

// PartitionIncremental diffs the manifest's working set against the
// store's current content_hash snapshot.
func PartitionIncremental(ctx context.Context, store *indexstore.PostgresStore, files []types.IndexableFile) (Partition, error) {
	existing, err := store.ContentHashes(ctx)
	if err != nil {
		return Partition{}, err
	}
	return partitionFiles(existing, files), nil
}

// partitionFiles is PartitionIncremental's pure comparison step: a path
// absent from existing is new, a path whose hash differs is changed, a
// path present with the same hash is unchanged, and an existing path
// absent from files entirely is deleted.
func partitionFiles(existing map[string]string, files []types.IndexableFile) Partition {
	var p Partition
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f.Path] = true
		hash, ok := existing[f.Path]
		switch {
		case !ok:
			p.New = append(p.New, f)
		case hash != f.ContentHash:
			p.Changed = append(p.Changed, f)
		default:
			p.Unchanged = append(p.Unchanged, f)
		}
	}
	for path := range existing {
		// synthesized column documents ("table_path#column") never appear
		// in files; they follow their table row via the parent_doc_id cascade
		if !seen[path] && !strings.Contains(path, "#") {
			p.Deleted = append(p.Deleted, path)
		}
	}
	return p
}
