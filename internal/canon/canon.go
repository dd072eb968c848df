// Package canon produces deterministic, sorted-key JSON encodings for
// content hashing. config_hash, metadata_hash and schema_hash go through
// Hash so that two logically-equal values always hash identically,
// regardless of struct field order or map iteration order; WorkUnit
// content_hash goes through HashStrings. Artifact content hashes and the
// manifest's per-unit output_hash are computed directly with crypto/sha256
// in the documenter package.
package canon

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Marshal re-encodes v as JSON with object keys sorted lexically at every
// nesting level. encoding/json already sorts map[string]any keys; this
// additionally normalizes arbitrary Go values (including structs, which
// json.Marshal emits in field-declaration order) by round-tripping through
// a generic map/slice representation.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: marshal: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canon: normalize: %w", err)
	}

	var buf bytes.Buffer
	if err := encodeSorted(&buf, generic); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Hash returns the lowercase hex SHA-256 digest of the canonical encoding
// of v, matching the "64 lowercase hex chars" hash format used throughout
// the data model (spec.md §3).
func Hash(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// HashStrings hashes an ordered list of strings by joining them with a
// separator byte that cannot appear in the inputs' canonical form. Used for
// hashing a list of hashes (WorkUnit.content_hash over metadata_hash values)
// where the ordering itself, not sorted-key normalization, carries the
// meaning.
func HashStrings(values []string) string {
	h := sha256.New()
	for _, v := range values {
		h.Write([]byte(v))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ZeroHash is the 64-zero SHA-256 placeholder for empty hash inputs (e.g. a
// WorkUnit's output_hash when it produced no files).
var ZeroHash = strings.Repeat("0", 64)

func encodeSorted(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeSorted(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeSorted(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}
