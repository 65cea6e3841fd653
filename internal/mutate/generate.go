package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/trace"
	"github.com/tlsfuzz/puffer/internal/types"
)

// Generate picks a candidate subterm and overwrites it with a freshly
// synthesized well-typed term of the same return type, built by a
// type-directed recursive-descent search over the function signature
// bounded by TermConstraints.MaxTermSize.
func Generate(rng *rand.Rand, src FunctionSource, tr *trace.Trace, c TermConstraints) Result {
	sites := candidateSites(tr, c)
	s, ok := randSite(rng, sites)
	if !ok {
		return Skipped
	}

	budget := c.MaxTermSize
	if budget <= 0 {
		budget = s.node.Size()
		if budget <= 0 {
			budget = 1
		}
	}
	fresh, ok := synthesize(rng, src.All(), s.node.ReturnShape(), &budget)
	if ok && c.MaxTermSize > 0 && fresh.Size() > c.MaxTermSize {
		// synthesize may overrun its budget; such a term is discarded.
		ok = false
	}
	if !ok {
		return Skipped
	}

	if err := replaceAt(tr, s, fresh); err != nil {
		return Skipped
	}
	return Mutated
}

// synthesize builds a well-typed term of the requested shape by
// recursive descent, consuming one unit of remaining per node
// constructed. Once remaining drops to one or below, only 0-arity
// functions are eligible, guaranteeing termination.
func synthesize(rng *rand.Rand, fns []signature.Function, shape types.Shape, remaining *int) (*term.Term, bool) {
	var candidates []signature.Function
	for _, f := range fns {
		if f.Shape().Ret.Equal(shape) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	if *remaining <= 1 {
		var leaves []signature.Function
		for _, f := range candidates {
			if f.Shape().Arity() == 0 {
				leaves = append(leaves, f)
			}
		}
		if len(leaves) == 0 {
			return nil, false
		}
		*remaining--
		return term.NewApplication(leaves[rng.Intn(len(leaves))]), true
	}

	*remaining--
	order := rng.Perm(len(candidates))
	for _, idx := range order {
		f := candidates[idx]
		args := f.Shape().Args
		children := make([]*term.Term, len(args))
		ok := true
		for i, argShape := range args {
			c, cok := synthesize(rng, fns, argShape, remaining)
			if !cok {
				ok = false
				break
			}
			children[i] = c
		}
		if ok {
			return term.NewApplication(f, children...), true
		}
	}
	return nil, false
}
