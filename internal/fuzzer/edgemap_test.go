package fuzzer

import "testing"

func TestEdgeMapHitIncrementsBucket(t *testing.T) {
	var m EdgeMap
	m.Hit(42)
	if m.Count() != 1 {
		t.Fatalf("expected exactly one hit bucket, got %d", m.Count())
	}
}

func TestEdgeMapHitSaturatesAt255(t *testing.T) {
	var m EdgeMap
	for i := 0; i < 300; i++ {
		m.Hit(1)
	}
	if m[fold(1)] != 255 {
		t.Fatalf("expected saturation at 255, got %d", m[fold(1)])
	}
}

func TestMergeNewReportsFirstSightingOnly(t *testing.T) {
	var m EdgeMap
	if !m.MergeNew([]uint64{1, 2, 3}) {
		t.Fatalf("expected the first merge into an empty map to be new")
	}
	if m.MergeNew([]uint64{1, 2, 3}) {
		t.Fatalf("expected re-merging the same edges to report no new coverage")
	}
	if !m.MergeNew([]uint64{1, 2, 99}) {
		t.Fatalf("expected a genuinely new edge to report new coverage")
	}
}
