package canon

import "testing"

func TestHashStableUnderFieldOrder(t *testing.T) {
	type a struct {
		X int
		Y string
	}
	type b struct {
		Y string
		X int
	}

	h1, err := Hash(a{X: 1, Y: "z"})
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	h2, err := Hash(b{Y: "z", X: 1})
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected equal hashes across field order, got %s != %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64-char hex digest, got %d chars", len(h1))
	}
}

func TestHashStableUnderMapKeyOrder(t *testing.T) {
	m1 := map[string]int{"a": 1, "b": 2, "c": 3}
	m2 := map[string]int{"c": 3, "a": 1, "b": 2}

	h1, _ := Hash(m1)
	h2, _ := Hash(m2)
	if h1 != h2 {
		t.Fatalf("expected equal hashes for equivalent maps, got %s != %s", h1, h2)
	}
}

func TestHashDiffersOnContentChange(t *testing.T) {
	h1, _ := Hash(map[string]string{"name": "users"})
	h2, _ := Hash(map[string]string{"name": "orders"})
	if h1 == h2 {
		t.Fatal("expected different content to hash differently")
	}
}

func TestHashStringsOrderSensitive(t *testing.T) {
	h1 := HashStrings([]string{"a", "b"})
	h2 := HashStrings([]string{"b", "a"})
	if h1 == h2 {
		t.Fatal("expected order to matter for HashStrings")
	}
}

func TestZeroHashLength(t *testing.T) {
	if len(ZeroHash) != 64 {
		t.Fatalf("expected 64-char zero hash, got %d", len(ZeroHash))
	}
}
