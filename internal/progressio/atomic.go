// Package progressio provides atomic JSON read/write helpers for the plan,
// progress, and manifest files shared by the Planner, Documenter, and
// Indexer. Every write goes through a temp-file-then-rename, matching the
// pattern the teacher uses for its own export manifest
// (internal/export/manifest.go): write to a uniquely-named temp file next
// to the target, close it, then os.Rename over the final path so a reader
// never observes a partially-written file.
package progressio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSONAtomic marshals v as pretty JSON and atomically replaces path.
func WriteJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("progressio: marshal %s: %w", path, err)
	}
	return WriteBytesAtomic(path, data)
}

// WriteBytesAtomic atomically replaces path with data.
func WriteBytesAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("progressio: mkdir %s: %w", dir, err)
	}

	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return fmt.Errorf("progressio: create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // best effort: no-op once renamed
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("progressio: write temp for %s: %w", path, err)
	}
	// Close before rename: required on Windows, harmless to double-close.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("progressio: close temp for %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("progressio: rename into %s: %w", path, err)
	}
	return nil
}

// ReadJSON unmarshals the file at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is internally constructed
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
