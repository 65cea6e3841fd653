package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/trace"
)

// ReplaceMatch picks a subterm S that is a 0-arity Application (a
// constant) and replaces its function symbol with a randomly chosen
// different 0-arity function of the same return type.
func ReplaceMatch(rng *rand.Rand, src FunctionSource, tr *trace.Trace, c TermConstraints) Result {
	var constants []site
	for _, s := range candidateSites(tr, c) {
		if s.node.IsConstant() {
			constants = append(constants, s)
		}
	}
	s, ok := randSite(rng, constants)
	if !ok {
		return Skipped
	}

	var alternatives []signature.Function
	for _, f := range src.All() {
		if f.Shape().Arity() != 0 {
			continue
		}
		if !f.Shape().Ret.Equal(s.node.ReturnShape()) {
			continue
		}
		if f.Equal(s.node.Function) {
			continue
		}
		alternatives = append(alternatives, f)
	}
	if len(alternatives) == 0 {
		return Skipped
	}
	chosen := alternatives[rng.Intn(len(alternatives))]

	if err := replaceAt(tr, s, term.NewApplication(chosen)); err != nil {
		return Skipped
	}
	return Mutated
}
