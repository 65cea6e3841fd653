package tlsmsg

import "github.com/tlsfuzz/puffer/internal/types"

// Claim is one claimable sub-value of a parsed TLS message: the
// message itself, or a handshake field of interest such as
// ProtocolVersion, Random, SessionID, CipherSuites. Each Claim becomes
// one knowledge-store entry.
type Claim struct {
	Shape types.Shape
	Value any
}

// NewClaim constructs a Claim, capturing the value's Shape.
func NewClaim(v any) Claim {
	return Claim{Shape: types.OfValue(v), Value: v}
}
