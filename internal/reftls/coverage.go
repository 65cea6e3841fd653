package reftls

import "hash/fnv"

// edgeTracker accumulates the coarse coverage edges a reference
// endpoint's state machine walks, by hashing each transition's label
// together with its from and to states, in place of an instrumented
// native library's shared-memory map.
type edgeTracker struct {
	edges []uint64
}

func (t *edgeTracker) mark(from, to int, label string) {
	h := fnv.New64a()
	h.Write([]byte(label))
	edge := h.Sum64() ^ uint64(from)<<32 ^ uint64(to)
	t.edges = append(t.edges, edge)
}

// Edges returns every transition hash recorded so far. internal/fuzzer
// looks for this method via a type assertion rather than an imported
// interface, so reftls never has to depend on the fuzzer package.
func (t *edgeTracker) Edges() []uint64 { return append([]uint64(nil), t.edges...) }
