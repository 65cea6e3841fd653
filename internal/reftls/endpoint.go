package reftls

import (
	"encoding/binary"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/stream"
)

// Factory spawns the reftls reference Endpoint for a Descriptor: a
// scripted TLS-1.2-shaped server handshake for agent.RoleServer, and a
// passive endpoint for agent.RoleClient. The attacker-controlled
// client in every seed trace has no
// native protocol stack of its own — every byte it sends is crafted by
// an explicit Input step's term recipe — so its Endpoint only needs to
// report no further progress.
func Factory(d agent.Descriptor, s stream.Stream) (agent.Endpoint, error) {
	if s, ok := s.(*stream.MemoryStream); ok {
		s.Parser = Parse
	}
	if d.Role == agent.RoleServer {
		return &serverEndpoint{s: s, version: d.Version}, nil
	}
	return &passiveEndpoint{s: s}, nil
}

// passiveEndpoint never makes progress on its own: attacker-driven
// agents are driven entirely by Input/Output steps, not by reacting to
// bytes internally.
type passiveEndpoint struct{ s stream.Stream }

func (e *passiveEndpoint) NextState() (agent.Progress, error) { return false, nil }
func (e *passiveEndpoint) Reset() error                       { return nil }
func (e *passiveEndpoint) DescribeState() string               { return "passive" }

// serverState is the scripted TLS-1.2-shaped handshake state machine a
// reftls server Endpoint walks through ("initialises a TLS
// endpoint ... according to the descriptor").
type serverState int

const (
	stateAwaitClientHello serverState = iota
	stateAwaitClientFinished
	stateDone
)

// serverEndpoint reacts to whatever records the attacker delivered to
// its inbound channel, emitting the next scripted flight on progress.
// It performs no cryptography and does not validate anything it
// receives (it reacts to message *shape* only.
type serverEndpoint struct {
	s       stream.Stream
	state   serverState
	version agent.TLSVersion
	edgeTracker
}

func (e *serverEndpoint) versionBytes() [2]byte {
	if e.version == agent.TLS13 {
		return [2]byte{3, 4}
	}
	return [2]byte{3, 3}
}

func (e *serverEndpoint) Reset() error {
	e.state = stateAwaitClientHello
	return nil
}

func (e *serverEndpoint) DescribeState() string {
	switch e.state {
	case stateAwaitClientHello:
		return "await_client_hello"
	case stateAwaitClientFinished:
		return "await_client_finished"
	default:
		return "done"
	}
}

func (e *serverEndpoint) NextState() (agent.Progress, error) {
	buf := make([]byte, 65536)
	n, err := e.s.Read(buf)
	if err != nil && err != stream.ErrWouldBlock {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	switch e.state {
	case stateAwaitClientHello:
		if !containsRecordType(buf[:n], 22) {
			return false, nil
		}
		e.emit(ServerHello{Version: e.versionBytes(), Random: constantRandom(1), SessionID: nil, CipherSuite: 0xC02F})
		e.emit(Certificate{Chain: [][]byte{constantCertDER()}})
		e.emit(ServerHelloDone{})
		e.mark(int(e.state), int(stateAwaitClientFinished), "server/client_hello")
		e.state = stateAwaitClientFinished
		return true, nil

	case stateAwaitClientFinished:
		if !containsRecordType(buf[:n], 20) {
			return false, nil
		}
		e.emit(ChangeCipherSpec{})
		e.emit(Finished{VerifyData: constantVerifyData()})
		e.mark(int(e.state), int(stateDone), "server/client_finished")
		e.state = stateDone
		return true, nil

	default:
		return false, nil
	}
}

func (e *serverEndpoint) emit(m interface{ ToOpaqueMessage() stream.OpaqueMessage }) {
	opaque := m.ToOpaqueMessage()
	frame := make([]byte, 5+len(opaque.Payload))
	frame[0] = opaque.ContentType
	frame[1], frame[2] = opaque.Version[0], opaque.Version[1]
	binary.BigEndian.PutUint16(frame[3:5], uint16(len(opaque.Payload)))
	copy(frame[5:], opaque.Payload)
	_, _ = e.s.Write(frame)
}

// containsRecordType scans a run of concatenated 5-byte-framed records
// for one whose content type byte is want.
func containsRecordType(buf []byte, want byte) bool {
	for len(buf) >= 5 {
		if buf[0] == want {
			return true
		}
		payloadLen := int(binary.BigEndian.Uint16(buf[3:5]))
		total := 5 + payloadLen
		if total > len(buf) {
			return false
		}
		buf = buf[total:]
	}
	return false
}
