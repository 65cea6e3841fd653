package stream

import (
	"encoding/binary"

	"github.com/tlsfuzz/puffer/internal/tlsmsg"
)

// recordHeaderLen is the 5-byte TLS record header (content type, two
// version bytes, two-byte big-endian length) the opaque message format
// uses.
const recordHeaderLen = 5

// OpaqueMessage is the wire encoding of exactly one framed record:
// everything the core treats as opaque bytes except when classifying
// it for knowledge indexing.
type OpaqueMessage struct {
	ContentType byte
	Version     [2]byte
	Payload     []byte
}

// Encode serializes m into its 5-byte-header wire form.
func (m OpaqueMessage) Encode() []byte {
	out := make([]byte, recordHeaderLen+len(m.Payload))
	out[0] = m.ContentType
	out[1], out[2] = m.Version[0], m.Version[1]
	binary.BigEndian.PutUint16(out[3:5], uint16(len(m.Payload)))
	copy(out[recordHeaderLen:], m.Payload)
	return out
}

// Parsed is the semantically-parsed form of an OpaqueMessage, as
// reconstructed by a native TLS library (here, the reference endpoint
// in internal/reftls). Classify yields the TlsMessageType used for
// knowledge indexing; ClaimableValues yields the sub-values the
// executor records for variable binding.
type Parsed interface {
	Classify() tlsmsg.Type
	ClaimableValues() []tlsmsg.Claim
}

// Parser attempts to semantically parse an opaque record. Returning
// ok=false means only the opaque form is available.
type Parser func(OpaqueMessage) (parsed Parsed, ok bool)

// Drained is one record pulled off an outbound buffer by
// TakeMessageFromOutbound: its opaque bytes, plus a parsed form when
// available.
type Drained struct {
	Opaque OpaqueMessage
	Parsed Parsed // nil if the parser declined or none was configured
}
