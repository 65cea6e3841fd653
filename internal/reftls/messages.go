// Package reftls is the reference TLS integration, an external
// collaborator: a non-cryptographic, non-wire-format
// stand-in that lets the core be built and tested standalone. It
// supplies a concrete fn_* catalogue (internal/reftls/fn), a handful
// of handshake message types satisfying trace.Encodable and
// stream.Parsed, and a scripted server Endpoint. None of it parses
// real TLS wire bytes or performs cryptography.
package reftls

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tlsfuzz/puffer/internal/stream"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
)

// envelope tags every handshake payload with which message it decodes
// to, since all handshake messages share contentType 22 on the wire.
type envelope struct {
	Tag  string `yaml:"tag"`
	Body yaml.Node `yaml:"body"`
}

func encode(contentType byte, tag string, v any) stream.OpaqueMessage {
	body := yaml.Node{}
	if err := body.Encode(v); err != nil {
		panic(fmt.Sprintf("reftls: encode %s: %v", tag, err))
	}
	payload, err := yaml.Marshal(envelope{Tag: tag, Body: body})
	if err != nil {
		panic(fmt.Sprintf("reftls: marshal %s: %v", tag, err))
	}
	return stream.OpaqueMessage{ContentType: contentType, Version: [2]byte{3, 3}, Payload: payload}
}

// Parse decodes a drained OpaqueMessage into one of this package's
// message types, or ok=false if its envelope tag is unrecognized. It
// is the stream.Parser installed on every reftls-backed agent.
func Parse(opaque stream.OpaqueMessage) (stream.Parsed, bool) {
	var env envelope
	if err := yaml.Unmarshal(opaque.Payload, &env); err != nil {
		return nil, false
	}
	decode := func(v any) bool { return env.Body.Decode(v) == nil }

	switch env.Tag {
	case "client_hello":
		var m ClientHello
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "server_hello":
		var m ServerHello
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "certificate":
		var m Certificate
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "server_hello_done":
		var m ServerHelloDone
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "client_key_exchange":
		var m ClientKeyExchange
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "server_key_exchange":
		var m ServerKeyExchange
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "change_cipher_spec":
		var m ChangeCipherSpec
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "finished":
		var m Finished
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "new_session_ticket":
		var m NewSessionTicket
		if !decode(&m) {
			return nil, false
		}
		return m, true
	case "encrypted_record":
		var m EncryptedRecord
		if !decode(&m) {
			return nil, false
		}
		return m, true
	default:
		return nil, false
	}
}

// Extension is a generic (type, opaque data) TLS extension.
type Extension struct {
	Type uint16 `yaml:"type"`
	Data []byte `yaml:"data"`
}

// ClientHello is the reference stand-in for a TLS ClientHello.
type ClientHello struct {
	Version      [2]byte     `yaml:"version"`
	Random       [32]byte    `yaml:"random"`
	SessionID    []byte      `yaml:"session_id"`
	CipherSuites []uint16    `yaml:"cipher_suites"`
	Extensions   []Extension `yaml:"extensions"`
}

func (m ClientHello) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(22, "client_hello", m)
}
func (m ClientHello) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.ClientHello}
}
func (m ClientHello) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{
		tlsmsg.NewClaim(m),
		tlsmsg.NewClaim(m.Version),
		tlsmsg.NewClaim(m.Random),
		tlsmsg.NewClaim(m.SessionID),
		tlsmsg.NewClaim(m.CipherSuites),
	}
}

// ServerHello is the reference stand-in for a TLS ServerHello.
type ServerHello struct {
	Version     [2]byte  `yaml:"version"`
	Random      [32]byte `yaml:"random"`
	SessionID   []byte   `yaml:"session_id"`
	CipherSuite uint16   `yaml:"cipher_suite"`
}

func (m ServerHello) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(22, "server_hello", m)
}
func (m ServerHello) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.ServerHello}
}
func (m ServerHello) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{
		tlsmsg.NewClaim(m),
		tlsmsg.NewClaim(m.Version),
		tlsmsg.NewClaim(m.Random),
		tlsmsg.NewClaim(m.SessionID),
		tlsmsg.NewClaim(m.CipherSuite),
	}
}

// Certificate is the reference stand-in for a TLS Certificate message:
// an ordered chain of opaque DER blobs, never actually validated.
type Certificate struct {
	Chain [][]byte `yaml:"chain"`
}

func (m Certificate) ToOpaqueMessage() stream.OpaqueMessage { return encode(22, "certificate", m) }
func (m Certificate) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.Certificate}
}
func (m Certificate) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m), tlsmsg.NewClaim(m.Chain)}
}

// ServerHelloDone is the empty TLS 1.2 ServerHelloDone message.
type ServerHelloDone struct{}

func (m ServerHelloDone) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(22, "server_hello_done", m)
}
func (m ServerHelloDone) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.ServerHelloDone}
}
func (m ServerHelloDone) ClaimableValues() []tlsmsg.Claim { return []tlsmsg.Claim{tlsmsg.NewClaim(m)} }

// ServerKeyExchange carries opaque DHE/ECDHE parameters for the
// session-resumption-via-DHE seed.
type ServerKeyExchange struct {
	Params []byte `yaml:"params"`
}

func (m ServerKeyExchange) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(22, "server_key_exchange", m)
}
func (m ServerKeyExchange) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.ServerKeyExchange}
}
func (m ServerKeyExchange) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m), tlsmsg.NewClaim(m.Params)}
}

// ClientKeyExchange carries the client's opaque key-exchange payload.
type ClientKeyExchange struct {
	Payload []byte `yaml:"payload"`
}

func (m ClientKeyExchange) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(22, "client_key_exchange", m)
}
func (m ClientKeyExchange) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.ClientKeyExchange}
}
func (m ClientKeyExchange) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m), tlsmsg.NewClaim(m.Payload)}
}

// ChangeCipherSpec is its own TLS content type, not a handshake
// sub-message (flat Kind variant).
type ChangeCipherSpec struct{}

func (m ChangeCipherSpec) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(20, "change_cipher_spec", m)
}
func (m ChangeCipherSpec) Classify() tlsmsg.Type { return tlsmsg.Type{Kind: tlsmsg.ChangeCipherSpec} }
func (m ChangeCipherSpec) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m)}
}

// Finished carries the handshake's opaque verify-data.
type Finished struct {
	VerifyData []byte `yaml:"verify_data"`
}

func (m Finished) ToOpaqueMessage() stream.OpaqueMessage { return encode(22, "finished", m) }
func (m Finished) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.Finished}
}
func (m Finished) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m), tlsmsg.NewClaim(m.VerifyData)}
}

// NewSessionTicket is the TLS session-resumption ticket message.
type NewSessionTicket struct {
	Ticket []byte `yaml:"ticket"`
}

func (m NewSessionTicket) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(22, "new_session_ticket", m)
}
func (m NewSessionTicket) Classify() tlsmsg.Type {
	return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.NewSessionTicket}
}
func (m NewSessionTicket) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m), tlsmsg.NewClaim(m.Ticket)}
}

// EncryptedRecord is the output of fn_encrypt12: a record that would,
// under a real TLS library, be symmetrically encrypted application
// data wrapping a Finished message. Here it is a tagged passthrough —
// no cryptography is performed — carrying the
// sequence number it was "encrypted" under for claim inspection.
type EncryptedRecord struct {
	Sequence  uint64 `yaml:"sequence"`
	Plaintext []byte `yaml:"plaintext"`
}

func (m EncryptedRecord) ToOpaqueMessage() stream.OpaqueMessage {
	return encode(23, "encrypted_record", m)
}
func (m EncryptedRecord) Classify() tlsmsg.Type { return tlsmsg.Type{Kind: tlsmsg.ApplicationData} }
func (m EncryptedRecord) ClaimableValues() []tlsmsg.Claim {
	return []tlsmsg.Claim{tlsmsg.NewClaim(m), tlsmsg.NewClaim(m.Sequence)}
}
