// Package trace implements the Trace and TraceContext execution engine:
// ordered steps driving named agents through input/output
// actions, and the append-only knowledge store term variables are
// bound against.
package trace

import "github.com/tlsfuzz/puffer/internal/agent"

// Step is (agent, action).
type Step struct {
	Agent  agent.Name
	Action Action
}

// Trace is an ordered list of Steps plus the descriptors of every
// agent involved.
type Trace struct {
	Descriptors []agent.Descriptor
	Steps       []Step
}

// NewTrace constructs a Trace from descriptors and steps.
func NewTrace(descriptors []agent.Descriptor, steps []Step) *Trace {
	return &Trace{Descriptors: descriptors, Steps: steps}
}

// Clone deep-clones a Trace: every Step's Input recipe is cloned so
// mutators never alias shared subterms across trace generations.
func (tr *Trace) Clone() *Trace {
	clone := &Trace{
		Descriptors: append([]agent.Descriptor(nil), tr.Descriptors...),
		Steps:       make([]Step, len(tr.Steps)),
	}
	for i, s := range tr.Steps {
		clone.Steps[i] = Step{Agent: s.Agent}
		switch a := s.Action.(type) {
		case Input:
			clone.Steps[i].Action = Input{Recipe: a.Recipe.Clone()}
		case Output:
			clone.Steps[i].Action = Output{}
		}
	}
	return clone
}

// HasAgent reports whether name is one of the trace's descriptors.
func (tr *Trace) HasAgent(name agent.Name) bool {
	for _, d := range tr.Descriptors {
		if d.Name == name {
			return true
		}
	}
	return false
}
