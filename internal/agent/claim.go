package agent

import "github.com/tlsfuzz/puffer/internal/tlsmsg"

// Claimer is the append-only collector security claims are registered
// into, owned by the TraceContext for the lifetime of one execution.
type Claimer struct {
	claims []Claimed
}

// Claimed is a claim tagged with the agent that produced it.
type Claimed struct {
	Agent Name
	Claim tlsmsg.Claim
}

// All returns every claim recorded so far, in insertion order.
func (c *Claimer) All() []Claimed { return c.claims }

func (c *Claimer) append(a Name, claim tlsmsg.Claim) {
	c.claims = append(c.claims, Claimed{Agent: a, Claim: claim})
}

// ClaimScope is a handle that borrows into a Claimer for the duration
// of a single execution step. This implements a scoped-acquisition
// pattern: the native callback that outlives one
// method call only ever holds a ClaimScope, registered at step start
// and closed at step end, rather than a shared, long-lived reference
// into the context.
type ClaimScope struct {
	claimer *Claimer
	agent   Name
	closed  bool
}

// BeginClaimScope opens a scope for agent a against claimer. Callers
// must Close it once the driving step completes.
func BeginClaimScope(claimer *Claimer, a Name) ClaimScope {
	return ClaimScope{claimer: claimer, agent: a}
}

// Record appends a claim through this scope. A no-op once Close has
// been called, so a callback that fires after its step ended (a bug in
// the driving endpoint) cannot corrupt a later step's claims.
func (s *ClaimScope) Record(claim tlsmsg.Claim) {
	if s.closed || s.claimer == nil {
		return
	}
	s.claimer.append(s.agent, claim)
}

// Close deregisters the scope. Idempotent.
func (s *ClaimScope) Close() { s.closed = true }
