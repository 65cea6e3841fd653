// Package mutate implements the structural, type-preserving trace
// mutators: ReplaceReuse, ReplaceMatch, RemoveAndLift,
// Repeat, Swap, and Generate. Every mutator takes (rng, a function
// source, a trace, constraints) and returns Mutated or Skipped,
// leaving the trace well-typed in both cases.
package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/trace"
)

// Result reports whether a mutator changed its trace.
type Result int

const (
	Skipped Result = iota
	Mutated
)

func (r Result) String() string {
	if r == Mutated {
		return "Mutated"
	}
	return "Skipped"
}

// TermConstraints bounds the subterms a mutator is allowed to select
// as a candidate or to synthesize.
type TermConstraints struct {
	MinTermSize int
	MaxTermSize int
}

// fits reports whether sz satisfies c. A zero-value TermConstraints
// imposes no bound in either direction.
func (c TermConstraints) fits(sz int) bool {
	if c.MinTermSize > 0 && sz < c.MinTermSize {
		return false
	}
	if c.MaxTermSize > 0 && sz > c.MaxTermSize {
		return false
	}
	return true
}

// FunctionSource is the candidate pool a mutator draws replacement or
// freshly synthesized function symbols from; *signature.Signature
// satisfies it.
type FunctionSource interface {
	All() []signature.Function
}

// site addresses one subterm inside one Input step's recipe, the
// selection unit every mutator below operates on.
type site struct {
	step int
	path term.Path
	node *term.Term
}

// candidateSites collects every subterm of every Input step's recipe
// that satisfies c, in (step, pre-order path) order.
func candidateSites(tr *trace.Trace, c TermConstraints) []site {
	var out []site
	for i, step := range tr.Steps {
		in, ok := step.Action.(trace.Input)
		if !ok {
			continue
		}
		for _, p := range in.Recipe.Paths() {
			n, err := in.Recipe.GetAtPath(p)
			if err != nil {
				continue
			}
			if c.fits(n.Size()) {
				out = append(out, site{step: i, path: p, node: n})
			}
		}
	}
	return out
}

// replaceAt overwrites the subterm at s's address with replacement.
func replaceAt(tr *trace.Trace, s site, replacement *term.Term) error {
	in := tr.Steps[s.step].Action.(trace.Input)
	return in.Recipe.ReplaceAtPath(s.path, replacement)
}

// randSite returns a uniformly random element of sites, or ok=false if
// it is empty.
func randSite(rng *rand.Rand, sites []site) (site, bool) {
	if len(sites) == 0 {
		return site{}, false
	}
	return sites[rng.Intn(len(sites))], true
}
