package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/trace"
)

// All lists every mutator in this package, for callers (the
// fuzzer's mutational stage, FuzzMutateTrace) that pick one uniformly
// at random rather than naming it explicitly.
var All = []func(rng *rand.Rand, src FunctionSource, tr *trace.Trace, c TermConstraints) Result{
	func(rng *rand.Rand, _ FunctionSource, tr *trace.Trace, c TermConstraints) Result {
		return ReplaceReuse(rng, tr, c)
	},
	func(rng *rand.Rand, src FunctionSource, tr *trace.Trace, c TermConstraints) Result {
		return ReplaceMatch(rng, src, tr, c)
	},
	func(rng *rand.Rand, _ FunctionSource, tr *trace.Trace, c TermConstraints) Result {
		return RemoveAndLift(rng, tr, c)
	},
	func(rng *rand.Rand, _ FunctionSource, tr *trace.Trace, c TermConstraints) Result {
		return Repeat(rng, tr, c)
	},
	func(rng *rand.Rand, _ FunctionSource, tr *trace.Trace, c TermConstraints) Result {
		return Swap(rng, tr, c)
	},
	func(rng *rand.Rand, src FunctionSource, tr *trace.Trace, c TermConstraints) Result {
		return Generate(rng, src, tr, c)
	},
}

// Pick applies a uniformly chosen mutator from All to a clone of tr,
// returning the mutated clone and which mutator fired. Used by the
// fuzzer's mutational stage so a Skipped draw can be retried against a
// fresh clone without the caller re-implementing the selection logic.
func Pick(rng *rand.Rand, src FunctionSource, tr *trace.Trace, c TermConstraints) (*trace.Trace, Result) {
	clone := tr.Clone()
	idx := rng.Intn(len(All))
	return clone, All[idx](rng, src, clone, c)
}
