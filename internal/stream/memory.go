package stream

import "encoding/binary"

// Stream is the capability surface consumed by the core and provided
// by the TLS integration layer: add framed input, deframe
// one output record at a time, plus raw byte read/write for the
// native TLS library to drive directly.
type Stream interface {
	AddToInbound(msg OpaqueMessage) error
	TakeMessageFromOutbound() (*Drained, error)
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	DescribeState() string
}

// MemoryStream is the reference Stream: two independent Channels, one
// per direction, with an injectable Parser for semantic parsing of
// drained records.
type MemoryStream struct {
	Inbound  Channel
	Outbound Channel
	Parser   Parser
	state    string
}

// NewMemoryStream constructs an empty MemoryStream.
func NewMemoryStream() *MemoryStream {
	return &MemoryStream{state: "idle"}
}

// AddToInbound appends the wire encoding of one framed message to the
// inbound buffer, to be consumed by the local TLS stack's Read calls.
func (s *MemoryStream) AddToInbound(msg OpaqueMessage) error {
	_, err := s.Inbound.Write(msg.Encode())
	if err != nil {
		return NewError("add_to_inbound", err)
	}
	return nil
}

// TakeMessageFromOutbound deframes exactly one record from the head of
// the outbound buffer, leaving any trailing bytes intact. Returns nil
// when no complete record is buffered yet (after
// a successful call, the remaining bytes reparse identically to the
// original buffer minus the consumed record; per open question (c),
// a failed deframe leaves the buffer untouched).
func (s *MemoryStream) TakeMessageFromOutbound() (*Drained, error) {
	raw := s.Outbound.Bytes()
	if len(raw) < recordHeaderLen {
		return nil, nil
	}
	payloadLen := int(binary.BigEndian.Uint16(raw[3:5]))
	total := recordHeaderLen + payloadLen
	if len(raw) < total {
		return nil, nil
	}

	payload := make([]byte, payloadLen)
	copy(payload, raw[recordHeaderLen:total])
	opaque := OpaqueMessage{
		ContentType: raw[0],
		Version:     [2]byte{raw[1], raw[2]},
		Payload:     payload,
	}
	s.Outbound.Advance(total)

	drained := &Drained{Opaque: opaque}
	if s.Parser != nil {
		if parsed, ok := s.Parser(opaque); ok {
			drained.Parsed = parsed
		}
	}
	return drained, nil
}

// Read implements io.Reader over the inbound buffer for the native TLS
// library, returning ErrWouldBlock rather than io.EOF on empty input.
func (s *MemoryStream) Read(p []byte) (int, error) { return s.Inbound.Read(p) }

// Write implements io.Writer over the outbound buffer for the native
// TLS library.
func (s *MemoryStream) Write(p []byte) (int, error) { return s.Outbound.Write(p) }

// DescribeState returns a short human-readable state string, an
// optional Stream capability for diagnostics.
func (s *MemoryStream) DescribeState() string { return s.state }

// SetState lets the driving endpoint record its current state for
// DescribeState, without coupling MemoryStream to any particular
// handshake state machine.
func (s *MemoryStream) SetState(state string) { s.state = state }
