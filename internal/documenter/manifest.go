package documenter

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/schemadoc/schemadoc/internal/errs"
	"github.com/schemadoc/schemadoc/internal/progressio"
	"github.com/schemadoc/schemadoc/internal/types"
)

// emptyOutputHash is the output_hash recorded for a work unit with no
// artifact files at all.
const emptyOutputHash = "0000000000000000000000000000000000000000000000000000000000000000"

// GenerateManifest implements spec.md §4.2.7: walk the docs root, hash and
// classify every artifact file, roll the results up per database and per
// work unit, and write documentation-manifest.json atomically. It runs on
// a successful finish, a fatal failure, and a graceful shutdown alike, so
// the Indexer always has something to consume.
func GenerateManifest(plan *types.DocumentationPlan, progress *types.DocumenterProgress) error {
	files, err := walkDocsRoot(plan.WorkUnits)
	if err != nil {
		return errs.Wrap(errs.CodeManifestWriteFailed, errs.SeverityFatal, false, "walking docs root", err)
	}

	databaseCounts := make(map[string]int)
	unitFiles := make(map[string][]types.IndexableFile)
	for _, f := range files {
		databaseCounts[f.Database]++
		unitID := workUnitIDForFile(plan.WorkUnits, f)
		if unitID != "" {
			unitFiles[unitID] = append(unitFiles[unitID], f)
		}
	}

	databases := make([]types.DatabaseManifestSummary, 0, len(databaseCounts))
	for db, count := range databaseCounts {
		databases = append(databases, types.DatabaseManifestSummary{Database: db, FileCount: count})
	}
	sort.Slice(databases, func(i, j int) bool { return databases[i].Database < databases[j].Database })

	workUnits := make([]types.WorkUnitManifestSummary, 0, len(plan.WorkUnits))
	for _, wu := range plan.WorkUnits {
		unitFileList := unitFiles[wu.ID]
		workUnits = append(workUnits, types.WorkUnitManifestSummary{
			ID:         wu.ID,
			FileCount:  len(unitFileList),
			OutputHash: workUnitOutputHash(unitFileList),
		})
	}

	status := types.ManifestComplete
	if progress != nil && progress.Status != types.OverallCompleted {
		status = types.ManifestPartial
	}

	manifest := &types.Manifest{
		SchemaVersion:  types.ManifestSchemaVersion,
		CompletedAt:    time.Now(),
		PlanHash:       plan.ConfigHash,
		Status:         status,
		Databases:      databases,
		WorkUnits:      workUnits,
		TotalFiles:     len(files),
		IndexableFiles: files,
	}

	if err := progressio.WriteJSONAtomic(progressio.ManifestPath(), manifest); err != nil {
		return errs.Wrap(errs.CodeManifestWriteFailed, errs.SeverityFatal, false, "writing manifest", err)
	}
	return nil
}

// walkDocsRoot collects every .md/.json artifact file under each work
// unit's output directory, classifying and hashing it. A work unit whose
// directory doesn't exist yet (never ran, or failed before writing
// anything) simply contributes no files.
func walkDocsRoot(workUnits []types.WorkUnit) ([]types.IndexableFile, error) {
	var files []types.IndexableFile

	for _, wu := range workUnits {
		root := filepath.Join(progressio.DocsRoot(), wu.OutputDirectory)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			ext := filepath.Ext(path)
			if ext != ".md" && ext != ".json" {
				return nil
			}

			data, readErr := os.ReadFile(path) //nolint:gosec // path is derived from our own docs root walk
			if readErr != nil {
				return readErr
			}
			fi, statErr := d.Info()
			if statErr != nil {
				return statErr
			}

			schema, table := tableNameFromArtifactPath(path)
			files = append(files, types.IndexableFile{
				Path:        path,
				Type:        types.IndexableTable,
				Database:    wu.Database,
				Schema:      schema,
				Table:       table,
				Domain:      wu.Domain,
				ContentHash: contentHash(data),
				SizeBytes:   fi.Size(),
				ModifiedAt:  fi.ModTime().UTC(),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// tableNameFromArtifactPath recovers "schema" and "table" from a table
// artifact's "<schema>.<table>.md"/".json" filename.
func tableNameFromArtifactPath(path string) (schema, table string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".md"), ".json")
	parts := strings.SplitN(base, ".", 2)
	if len(parts) != 2 {
		return "", base
	}
	return parts[0], parts[1]
}

func workUnitIDForFile(workUnits []types.WorkUnit, f types.IndexableFile) string {
	for _, wu := range workUnits {
		if wu.Database == f.Database && wu.Domain == f.Domain {
			return wu.ID
		}
	}
	return ""
}

// workUnitOutputHash is the SHA-256 over the concatenated per-file content
// hashes of one work unit's artifacts, sorted by path (spec.md §4.2.7),
// not by hash value.
func workUnitOutputHash(files []types.IndexableFile) string {
	if len(files) == 0 {
		return emptyOutputHash
	}
	sorted := make([]types.IndexableFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	h := sha256.New()
	for _, f := range sorted {
		h.Write([]byte(f.ContentHash))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
