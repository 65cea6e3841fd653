// Package agent implements the Agent abstraction: a named
// endpoint binding a TLS role to a Stream, plus a scoped
// claim-registration mechanism for its handshake callbacks.
package agent

import "fmt"

// Name is a dense, small, totally ordered agent identifier.
type Name uint32

// First returns the first AgentName in total order.
func First() Name { return 0 }

// Next returns the successor of n.
func (n Name) Next() Name { return n + 1 }

// Less reports whether n sorts before other.
func (n Name) Less(other Name) bool { return n < other }

func (n Name) String() string { return fmt.Sprintf("agent%d", uint32(n)) }

// Role distinguishes client and server agents.
type Role int

const (
	RoleClient Role = iota
	RoleServer
)

func (r Role) String() string {
	if r == RoleServer {
		return "server"
	}
	return "client"
}

// TLSVersion is the protocol version an agent's endpoint negotiates.
type TLSVersion int

const (
	TLS12 TLSVersion = iota
	TLS13
)

func (v TLSVersion) String() string {
	if v == TLS13 {
		return "1.3"
	}
	return "1.2"
}

// Descriptor is everything needed to spawn an Agent: its name, role,
// and TLS version.
type Descriptor struct {
	Name    Name
	Role    Role
	Version TLSVersion
}
