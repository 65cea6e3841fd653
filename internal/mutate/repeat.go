package mutate

import (
	"math/rand"

	"github.com/tlsfuzz/puffer/internal/trace"
)

// Repeat picks a step and duplicates it immediately after itself
// (scenario S4). The duplicate's Input recipe, if any, is cloned
// so neither copy aliases the other's term tree.
func Repeat(rng *rand.Rand, tr *trace.Trace, _ TermConstraints) Result {
	if len(tr.Steps) == 0 {
		return Skipped
	}
	i := rng.Intn(len(tr.Steps))
	dup := cloneStep(tr.Steps[i])

	tr.Steps = append(tr.Steps, trace.Step{})
	copy(tr.Steps[i+2:], tr.Steps[i+1:])
	tr.Steps[i+1] = dup
	return Mutated
}

func cloneStep(s trace.Step) trace.Step {
	switch a := s.Action.(type) {
	case trace.Input:
		return trace.Step{Agent: s.Agent, Action: trace.Input{Recipe: a.Recipe.Clone()}}
	default:
		return trace.Step{Agent: s.Agent, Action: s.Action}
	}
}
