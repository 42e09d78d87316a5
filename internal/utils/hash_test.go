// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableForge Authors

package utils

import (
	"testing"
)

func TestChecksum_Deterministic(t *testing.T) {
	a := map[string]any{"name": "Aragorn", "age": 87, "home": "Gondor"}
	b := map[string]any{"home": "Gondor", "age": 87, "name": "Aragorn"}

	sum1 := Checksum(a)
	sum2 := Checksum(b)

	if sum1 == "" {
		t.Fatal("checksum is empty for non-empty snapshot")
	}
	if sum1 != sum2 {
		t.Fatalf("checksum must not depend on key order\nfirst:  %s\nsecond: %s", sum1, sum2)
	}
	if len(sum1) != checksumLen {
		t.Fatalf("unexpected checksum length: want %d, got %d", checksumLen, len(sum1))
	}
}

func TestChecksum_DiffersOnContent(t *testing.T) {
	base := map[string]any{"name": "Aragorn"}
	changed := map[string]any{"name": "Strider"}

	if Checksum(base) == Checksum(changed) {
		t.Fatal("different content produced equal checksums")
	}
}

func TestChecksum_NestedMapsCanonical(t *testing.T) {
	a := map[string]any{"stats": map[string]any{"str": 18, "dex": 14}}
	b := map[string]any{"stats": map[string]any{"dex": 14, "str": 18}}

	if Checksum(a) != Checksum(b) {
		t.Fatal("nested map key order changed the checksum")
	}
}

func TestChecksum_EmptySnapshot(t *testing.T) {
	if got := Checksum(nil); got != "" {
		t.Fatalf("nil snapshot must hash to empty string, got %q", got)
	}
	if got := Checksum(map[string]any{}); got != "" {
		t.Fatalf("empty snapshot must hash to empty string, got %q", got)
	}
}

func TestUUIDGenerator_Unique(t *testing.T) {
	g := NewUUIDGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.Generate()
		if id == "" {
			t.Fatal("empty uuid generated")
		}
		if seen[id] {
			t.Fatalf("duplicate uuid generated: %s", id)
		}
		seen[id] = true
	}
}
