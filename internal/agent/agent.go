package agent

import (
	"fmt"

	"github.com/tlsfuzz/puffer/internal/stream"
)

// Agent owns a Name, a Descriptor, and the Stream its Endpoint reads
// from and writes to.
type Agent struct {
	Descriptor Descriptor
	Stream     *stream.MemoryStream
	Endpoint   Endpoint
}

// Spawn initializes a TLS endpoint on top of a fresh MemoryStream
// according to the descriptor.
func Spawn(d Descriptor, factory Factory) (*Agent, error) {
	s := stream.NewMemoryStream()
	ep, err := factory(d, s)
	if err != nil {
		return nil, fmt.Errorf("agent: spawn %s: %w", d.Name, err)
	}
	return &Agent{Descriptor: d, Stream: s, Endpoint: ep}, nil
}

// Name is a convenience accessor for the agent's identity.
func (a *Agent) Name() Name { return a.Descriptor.Name }

// AddToInbound delivers an opaque message to this agent's inbound
// channel.
func (a *Agent) AddToInbound(msg stream.OpaqueMessage) error {
	return a.Stream.AddToInbound(msg)
}

// DriveUntilBlocked repeatedly calls Endpoint.NextState until it
// reports no further progress, driving the TLS state machine to
// consume what was just delivered.
func (a *Agent) DriveUntilBlocked() error {
	for {
		progress, err := a.Endpoint.NextState()
		if err != nil {
			return fmt.Errorf("agent: %s: next_state: %w", a.Descriptor.Name, err)
		}
		if !bool(progress) {
			return nil
		}
	}
}

// DrainOutbound repeatedly calls TakeMessageFromOutbound until it
// returns nil.
func (a *Agent) DrainOutbound() ([]stream.Drained, error) {
	var out []stream.Drained
	for {
		d, err := a.Stream.TakeMessageFromOutbound()
		if err != nil {
			return out, fmt.Errorf("agent: %s: drain outbound: %w", a.Descriptor.Name, err)
		}
		if d == nil {
			return out, nil
		}
		out = append(out, *d)
	}
}

// Reset tears the TLS session down without discarding the agent
// identity.
func (a *Agent) Reset() error {
	a.Stream.Inbound.Reset()
	a.Stream.Outbound.Reset()
	return a.Endpoint.Reset()
}
