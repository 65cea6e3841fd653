package mutate

import (
	"math/rand"
	"testing"

	"github.com/tlsfuzz/puffer/internal/trace"
)

// FuzzMutateTrace is the native-Go-fuzzing stand-in for the external
// coverage-guided harness: it seeds the corpus with a small fixed
// trace and an rng seed, then
// asserts property 1 — every mutator application leaves the
// trace well-typed, whichever Skipped/Mutated branch it takes.
func FuzzMutateTrace(f *testing.F) {
	f.Add(int64(45), 0)
	f.Add(int64(1235), 1)
	f.Add(int64(7), 3)
	f.Add(int64(0), 5)

	sig := fixtureSignature()

	f.Fuzz(func(t *testing.T, seed int64, mutatorIdx int) {
		if mutatorIdx < 0 {
			mutatorIdx = -mutatorIdx
		}
		mutatorIdx %= len(All)

		tr := fixtureTrace(sig)
		rng := rand.New(rand.NewSource(seed))
		before := tr.Clone()

		result := All[mutatorIdx](rng, sig, tr, TermConstraints{MaxTermSize: 6})

		wellTyped(t, tr)
		if result == Skipped && !traceEqual(before, tr) {
			t.Fatalf("Skipped must leave the trace unchanged")
		}
	})
}

func traceEqual(a, b *trace.Trace) bool {
	if len(a.Steps) != len(b.Steps) {
		return false
	}
	for i := range a.Steps {
		if a.Steps[i].Agent != b.Steps[i].Agent {
			return false
		}
		ai, aok := a.Steps[i].Action.(trace.Input)
		bi, bok := b.Steps[i].Action.(trace.Input)
		if aok != bok {
			return false
		}
		if aok && !termsEqualModuloIdentity(ai.Recipe, bi.Recipe) {
			return false
		}
	}
	return true
}
