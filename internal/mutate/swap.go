package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/trace"
)

// Swap exchanges two same-type subterms, either within one recipe or
// across recipes.
func Swap(rng *rand.Rand, tr *trace.Trace, c TermConstraints) Result {
	sites := candidateSites(tr, c)
	if len(sites) < 2 {
		return Skipped
	}

	a, ok := randSite(rng, sites)
	if !ok {
		return Skipped
	}

	var partners []site
	for _, cand := range sites {
		if cand.step == a.step && isPrefix(cand.path, a.path) {
			continue
		}
		if cand.node.ReturnShape().Equal(a.node.ReturnShape()) {
			partners = append(partners, cand)
		}
	}
	b, ok := randSite(rng, partners)
	if !ok {
		return Skipped
	}

	aClone, bClone := a.node.Clone(), b.node.Clone()
	if err := replaceAt(tr, a, bClone); err != nil {
		return Skipped
	}
	if err := replaceAt(tr, b, aClone); err != nil {
		return Skipped
	}
	return Mutated
}
