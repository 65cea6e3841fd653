package agent

import "github.com/tlsfuzz/puffer/internal/stream"

// Progress reports whether a call to Endpoint.NextState consumed input
// or produced output. NextState must be idempotent when no progress is
// possible: calling it again with Progress(false) already
// returned is a no-op.
type Progress bool

// Endpoint is the native TLS stack integration point: an
// agent's handshake state machine driven over its Stream. The core
// treats it as a black box; internal/reftls supplies the reference
// implementation used by tests and by cmd/puffer's default backend.
type Endpoint interface {
	// NextState advances the handshake by one step, consuming
	// whatever is newly available on the inbound channel and/or
	// producing output on the outbound channel.
	NextState() (Progress, error)
	// Reset tears the TLS session down without discarding agent
	// identity: a subsequent NextState starts a fresh
	// handshake over the same Stream.
	Reset() error
	// DescribeState returns a short human-readable state name.
	DescribeState() string
}

// Factory spawns an Endpoint for a Descriptor over a freshly created
// Stream. Supplied externally (internal/reftls in this module; a real
// TLS library integration in production) so that internal/agent has no
// dependency on any concrete TLS stack.
type Factory func(d Descriptor, s stream.Stream) (Endpoint, error)
