package dirtree

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestRoundTripLeaf(t *testing.T) {
	n := &Node{Name: "a"}
	buf, err := Serialize(n)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, consumed, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if consumed != len(buf) {
		t.Fatalf("consumed %d, want %d", consumed, len(buf))
	}
	if diff := pretty.Compare(got, n); diff != "" {
		t.Fatalf("round trip mismatch (-got +want):\n%s", diff)
	}
}

func TestRoundTripNested(t *testing.T) {
	// Mirrors scenario 5 from spec.md §8: "a" with empty subdirs "b" and "c".
	tree := &Node{
		Name: "a",
		Children: []*Node{
			{Name: "b"},
			{Name: "c"},
		},
	}

	buf, err := Serialize(tree)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, _, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if diff := pretty.Compare(got, tree); diff != "" {
		t.Fatalf("round trip mismatch (-got +want):\n%s", diff)
	}
	if got.NumSubdirs() != 2 {
		t.Fatalf("NumSubdirs() = %d, want 2", got.NumSubdirs())
	}
}

func TestSerializeRejectsEmbeddedNUL(t *testing.T) {
	_, err := Serialize(&Node{Name: "a\x00b"})
	if err == nil {
		t.Fatalf("expected error for embedded NUL")
	}
}

func TestSerializeRejectsEmptyName(t *testing.T) {
	_, err := Serialize(&Node{Name: ""})
	if err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func TestDeserializeTruncated(t *testing.T) {
	if _, _, err := Deserialize([]byte("a")); err == nil {
		t.Fatalf("expected error for truncated buffer")
	}
}
