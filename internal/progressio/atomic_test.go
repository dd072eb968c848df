package progressio

import (
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `json:"name"`
}

func TestWriteJSONAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := WriteJSONAtomic(path, sample{Name: "users"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !Exists(path) {
		t.Fatal("expected file to exist after write")
	}

	var got sample
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "users" {
		t.Fatalf("unexpected roundtrip value: %+v", got)
	}

	// No leftover temp files.
	entries, err := filepath.Glob(filepath.Join(dir, "*.tmp.*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover temp files, found %v", entries)
	}
}

func TestWriteJSONAtomicOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	_ = WriteJSONAtomic(path, sample{Name: "a"})
	_ = WriteJSONAtomic(path, sample{Name: "b"})

	var got sample
	if err := ReadJSON(path, &got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Name != "b" {
		t.Fatalf("expected overwritten value b, got %s", got.Name)
	}
}

func TestTableArtifactPathsSanitizesInvalidChars(t *testing.T) {
	t.Setenv("DOCS_ROOT", "docs")
	md, js := TableArtifactPaths("databases/demo/domains/billing", "pu/b:lic", "us*ers")
	wantMD := filepath.Join("docs", "databases/demo/domains/billing", "tables", "pu_b_lic.us_ers.md")
	wantJSON := filepath.Join("docs", "databases/demo/domains/billing", "tables", "pu_b_lic.us_ers.json")
	if md != wantMD {
		t.Fatalf("got md %s, want %s", md, wantMD)
	}
	if js != wantJSON {
		t.Fatalf("got json %s, want %s", js, wantJSON)
	}
}

func TestTableArtifactPathsPreservesCase(t *testing.T) {
	t.Setenv("DOCS_ROOT", "docs")
	md, _ := TableArtifactPaths("databases/demo/domains/billing", "Public", "Users")
	want := filepath.Join("docs", "databases/demo/domains/billing", "tables", "Public.Users.md")
	if md != want {
		t.Fatalf("got %s, want %s", md, want)
	}
}
