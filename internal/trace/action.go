package trace

import "github.com/tlsfuzz/puffer/internal/term"

// Action is the variant of a trace step: Input evaluates a recipe
// and delivers it, Output drains and records whatever was produced.
type Action interface {
	isAction()
}

// Input evaluates Recipe and delivers the resulting opaque message to
// the step's agent.
type Input struct {
	Recipe *term.Term
}

func (Input) isAction() {}

// Output drains any messages produced on the step's agent's outbound
// channel and records them in the knowledge store.
type Output struct{}

func (Output) isAction() {}
