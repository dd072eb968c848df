package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendCreatesFileAndWritesJSONL(t *testing.T) {
	tmp := t.TempDir()
	SetLogPath(filepath.Join(tmp, "audit.jsonl"))

	id1, err := Append(&Entry{Kind: "llm_call", Model: "test-model", Prompt: "p", Response: "r"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id1 == "" {
		t.Fatal("expected a generated id")
	}

	id2, err := Append(&Entry{Kind: "llm_call", Model: "test-model", Prompt: "p2", Response: "r2"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id2 == id1 {
		t.Fatal("expected distinct ids across entries")
	}

	f, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	lines := 0
	for sc.Scan() {
		lines++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal line %d: %v", lines, err)
		}
		if e.ID == "" {
			t.Fatalf("line %d: expected id in persisted entry", lines)
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
}

func TestAppendStampsTimestampWhenUnset(t *testing.T) {
	tmp := t.TempDir()
	SetLogPath(filepath.Join(tmp, "audit.jsonl"))

	if _, err := Append(&Entry{Kind: "llm_call", Model: "test-model"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var e Entry
	if err := json.Unmarshal(data[:len(data)-1], &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Timestamp.IsZero() {
		t.Fatal("expected Append to stamp a non-zero timestamp")
	}
}
