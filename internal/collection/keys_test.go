package collection

import (
	"bytes"
	"testing"
)

func TestEntryKeyOrdering(t *testing.T) {
	a := KeyEntry("k", 10)
	b := KeyEntry("k", 11)
	if bytes.Compare(a, b) >= 0 {
		t.Fatalf("expected seq 10 < seq 11")
	}
	if seqFromEntryKey(a) != 10 {
		t.Fatalf("seq roundtrip: got %d", seqFromEntryKey(a))
	}
}

func TestEntryBoundsCoverAllSequences(t *testing.T) {
	low, high := entryBounds("k")
	first := KeyEntry("k", 1)
	last := KeyEntry("k", ^uint64(0))
	if bytes.Compare(first, low) < 0 {
		t.Fatalf("first entry below lower bound")
	}
	if bytes.Compare(last, high) >= 0 {
		t.Fatalf("last entry not below upper bound")
	}
	// bounds for different keys never overlap
	otherLow, _ := entryBounds("k2")
	if bytes.Compare(high, otherLow) > 0 {
		t.Fatalf("key ranges overlap")
	}
}

func TestMetaKeyOutsideEntryRange(t *testing.T) {
	low, high := entryBounds("k")
	m := KeyMeta("k")
	if bytes.Compare(m, low) >= 0 && bytes.Compare(m, high) < 0 {
		t.Fatalf("meta key inside entry range: %q", string(m))
	}
}
