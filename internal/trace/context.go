package trace

import (
	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/ferr"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
)

// Context is the TraceContext: the live agents spawned
// for one execution, the knowledge store their Output steps populate,
// and the claimer their endpoints register security claims into. It
// satisfies eval.Context, so Evaluate can resolve Variable symbols
// straight against it.
type Context struct {
	Signature *signature.Signature
	Agents    map[agent.Name]*agent.Agent
	Knowledge *Knowledge
	Claimer   agent.Claimer
}

// NewContext returns an empty Context bound to sig; agents are
// populated by Execute as it spawns them.
func NewContext(sig *signature.Signature) *Context {
	return &Context{
		Signature: sig,
		Agents:    make(map[agent.Name]*agent.Agent),
		Knowledge: NewKnowledge(),
	}
}

// Lookup implements eval.Context: resolve v against the knowledge
// store, tagging a miss as KindMissing.
func (c *Context) Lookup(v signature.Variable) (any, error) {
	val, ok := c.Knowledge.Lookup(v)
	if !ok {
		return nil, ferr.New(ferr.KindMissing, "lookup variable", errVariableNotBound)
	}
	return val, nil
}

// Agent returns the live agent named a, tagging a miss as KindAgent
// ("a trace referenced a non-existent agent").
func (c *Context) Agent(a agent.Name) (*agent.Agent, error) {
	ag, ok := c.Agents[a]
	if !ok {
		return nil, ferr.New(ferr.KindAgent, "resolve agent", errUnknownAgent)
	}
	return ag, nil
}

// RecordOutput classifies and stores every message a's endpoint
// produced, via mt (the coarse classification from the drained
// record) and vals (its claimable sub-values).
func (c *Context) RecordOutput(a agent.Name, mt tlsmsg.Type, vals []tlsmsg.Claim) {
	for _, claim := range vals {
		c.Knowledge.Insert(a, mt, claim)
	}
}
