package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/trace"
)

// ReplaceReuse picks a subterm S in some input recipe and another
// subterm T elsewhere in the same trace whose return TypeShape equals
// S's, overwriting S with a clone of T.
func ReplaceReuse(rng *rand.Rand, tr *trace.Trace, c TermConstraints) Result {
	sites := candidateSites(tr, c)
	if len(sites) < 2 {
		return Skipped
	}

	s, ok := randSite(rng, sites)
	if !ok {
		return Skipped
	}

	var donors []site
	for _, cand := range sites {
		if cand.step == s.step && pathsEqual(cand.path, s.path) {
			continue
		}
		if cand.node.ReturnShape().Equal(s.node.ReturnShape()) {
			donors = append(donors, cand)
		}
	}
	donor, ok := randSite(rng, donors)
	if !ok {
		return Skipped
	}

	if err := replaceAt(tr, s, donor.node.Clone()); err != nil {
		return Skipped
	}
	return Mutated
}

func pathsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isPrefix reports whether a is a prefix of b or b is a prefix of a
// (including equality), i.e. whether the subterms they address are in
// an ancestor-descendant (or identical) relationship.
func isPrefix(a, b []int) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
