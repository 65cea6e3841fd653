package reftls

import (
	"encoding/binary"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/stream"
)

// HonestFactory spawns the reftls reference Endpoint for a Descriptor
// where BOTH roles act like real, honest TLS implementations: a
// server as in Factory, and a client that "once spawned, emits a
// ClientHello immediately" and answers the server's flight on its own
//. Use this to build two-party handshake traces where neither side is attacker-controlled; use
// Factory instead when one side's bytes are crafted by explicit Input
// recipes.
func HonestFactory(d agent.Descriptor, s stream.Stream) (agent.Endpoint, error) {
	if ms, ok := s.(*stream.MemoryStream); ok {
		ms.Parser = Parse
	}
	if d.Role == agent.RoleServer {
		return &serverEndpoint{s: s, version: d.Version}, nil
	}
	return &clientEndpoint{s: s, version: d.Version}, nil
}

// clientState is the scripted handshake state machine a reftls client
// Endpoint walks through under HonestFactory.
type clientState int

const (
	stateStart clientState = iota
	stateAwaitServerHello
	stateAwaitServerFinished
	clientStateDone
)

// clientEndpoint crafts its own ClientHello as soon as it is spawned
// and reacts to whatever the peer wrote back, performing no
// cryptography and no validation (like
// serverEndpoint it reacts to record *shape* only.
type clientEndpoint struct {
	s       stream.Stream
	state   clientState
	version agent.TLSVersion
	edgeTracker
}

func (e *clientEndpoint) Reset() error {
	e.state = stateStart
	return nil
}

func (e *clientEndpoint) DescribeState() string {
	switch e.state {
	case stateStart:
		return "client/start"
	case stateAwaitServerHello:
		return "client/await_server_hello"
	case stateAwaitServerFinished:
		return "client/await_server_finished"
	default:
		return "client/done"
	}
}

func (e *clientEndpoint) versionBytes() [2]byte {
	if e.version == agent.TLS13 {
		return [2]byte{3, 4}
	}
	return [2]byte{3, 3}
}

func (e *clientEndpoint) NextState() (agent.Progress, error) {
	if e.state == stateStart {
		e.emit(ClientHello{
			Version:      e.versionBytes(),
			Random:       constantRandom(0),
			SessionID:    nil,
			CipherSuites: []uint16{0xC02F},
		})
		e.mark(int(e.state), int(stateAwaitServerHello), "client/spawn")
		e.state = stateAwaitServerHello
		return true, nil
	}

	buf := make([]byte, 65536)
	n, err := e.s.Read(buf)
	if err != nil && err != stream.ErrWouldBlock {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	switch e.state {
	case stateAwaitServerHello:
		if !containsRecordType(buf[:n], 22) {
			return false, nil
		}
		e.emit(ClientKeyExchange{Payload: []byte("reftls-client-key-exchange")})
		e.emit(ChangeCipherSpec{})
		e.emit(Finished{VerifyData: constantVerifyData()})
		e.mark(int(e.state), int(stateAwaitServerFinished), "client/server_hello")
		e.state = stateAwaitServerFinished
		return true, nil

	case stateAwaitServerFinished:
		if !containsRecordType(buf[:n], 20) {
			return false, nil
		}
		e.mark(int(e.state), int(clientStateDone), "client/server_finished")
		e.state = clientStateDone
		return true, nil

	default:
		return false, nil
	}
}

func (e *clientEndpoint) emit(m interface{ ToOpaqueMessage() stream.OpaqueMessage }) {
	opaque := m.ToOpaqueMessage()
	frame := make([]byte, 5+len(opaque.Payload))
	frame[0] = opaque.ContentType
	frame[1], frame[2] = opaque.Version[0], opaque.Version[1]
	binary.BigEndian.PutUint16(frame[3:5], uint16(len(opaque.Payload)))
	copy(frame[5:], opaque.Payload)
	_, _ = e.s.Write(frame)
}
