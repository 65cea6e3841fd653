package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/trace"
)

// RemoveAndLift picks an Application node P with a child C whose
// return type equals P's return type, and replaces P with C, dropping
// P and its other siblings. Among eligible P, the shallowest (closest
// to the recipe root) is preferred, for a bigger expected size
// reduction per call; ties within the shallowest tier are broken
// uniformly at random.
func RemoveAndLift(rng *rand.Rand, tr *trace.Trace, c TermConstraints) Result {
	type liftable struct {
		s     site
		child int
	}

	var candidates []liftable
	shallowest := -1
	for _, s := range candidateSites(tr, c) {
		if s.node.IsConstant() {
			continue
		}
		for i, child := range s.node.Children {
			if child.ReturnShape().Equal(s.node.ReturnShape()) {
				depth := len(s.path)
				switch {
				case shallowest == -1 || depth < shallowest:
					shallowest = depth
					candidates = []liftable{{s: s, child: i}}
				case depth == shallowest:
					candidates = append(candidates, liftable{s: s, child: i})
				}
			}
		}
	}
	if len(candidates) == 0 {
		return Skipped
	}
	pick := candidates[rng.Intn(len(candidates))]

	lifted := pick.s.node.Children[pick.child].Clone()
	if err := replaceAt(tr, pick.s, lifted); err != nil {
		return Skipped
	}
	return Mutated
}
