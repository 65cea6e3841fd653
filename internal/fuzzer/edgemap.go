// Package fuzzer implements the coverage-guided worker loop glue: a
// fixed-size edge map standing in for an instrumented
// native library's shared-memory coverage segment, an Observer
// tracking execution throughput and outcomes, and a Worker that ties
// one mutation-and-execute round together.
package fuzzer

// EdgeMap is a fixed-size byte histogram of coverage edges, the same
// shape an instrumented native library would increment over a shared
// memory segment. internal/reftls's reference endpoints report coarse
// edges (state-transition hashes) that fold into this map the same
// way; a real TLS binding would increment it directly from
// instrumentation instead.
type EdgeMap [65536]byte

// fold reduces an arbitrary 64-bit edge id to a bucket index.
func fold(edge uint64) uint16 {
	return uint16(edge) ^ uint16(edge>>16) ^ uint16(edge>>32) ^ uint16(edge>>48)
}

// Hit increments the bucket edge folds into, saturating at 255 so a
// hot edge never wraps back to zero.
func (m *EdgeMap) Hit(edge uint64) {
	b := fold(edge)
	if m[b] != 255 {
		m[b]++
	}
}

// HitAll calls Hit for every edge in edges.
func (m *EdgeMap) HitAll(edges []uint64) {
	for _, e := range edges {
		m.Hit(e)
	}
}

// MergeNew reports whether any of edges lands in a bucket of m that was
// still zero before the call, then applies all of edges to m via
// HitAll. A Worker uses the return value to decide whether the
// execution that produced edges discovered new coverage.
func (m *EdgeMap) MergeNew(edges []uint64) bool {
	seen := make(map[uint16]struct{}, len(edges))
	newCoverage := false
	for _, e := range edges {
		b := fold(e)
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		if m[b] == 0 {
			newCoverage = true
		}
	}
	m.HitAll(edges)
	return newCoverage
}

// Count returns how many distinct buckets have been hit at least once.
func (m *EdgeMap) Count() int {
	n := 0
	for _, b := range m {
		if b != 0 {
			n++
		}
	}
	return n
}
