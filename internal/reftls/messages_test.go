package reftls

import (
	"bytes"
	"testing"

	"github.com/tlsfuzz/puffer/internal/stream"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
)

func TestClientHelloRoundTripsThroughParse(t *testing.T) {
	ch := ClientHello{
		Version:      [2]byte{3, 3},
		Random:       constantRandom(9),
		SessionID:    []byte{1, 2, 3},
		CipherSuites: []uint16{0xC02F},
	}
	opaque := ch.ToOpaqueMessage()
	if opaque.ContentType != 22 {
		t.Fatalf("expected content type 22, got %d", opaque.ContentType)
	}

	parsed, ok := Parse(opaque)
	if !ok {
		t.Fatalf("expected Parse to recognize a client_hello envelope")
	}
	got, ok := parsed.(ClientHello)
	if !ok {
		t.Fatalf("expected ClientHello, got %T", parsed)
	}
	if got.Version != ch.Version || !bytes.Equal(got.SessionID, ch.SessionID) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, ch)
	}
	if got.Classify() != (tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.ClientHello}) {
		t.Fatalf("unexpected classification: %v", got.Classify())
	}
}

func TestParseRejectsUnrecognizedPayload(t *testing.T) {
	junk := stream.OpaqueMessage{ContentType: 22, Version: [2]byte{3, 3}, Payload: []byte("not yaml envelope {{{")}
	if _, ok := Parse(junk); ok {
		t.Fatalf("expected Parse to reject an unrecognized payload")
	}
}

func TestEncryptedRecordClassifiesAsApplicationData(t *testing.T) {
	rec := EncryptedRecord{Sequence: 3, Plaintext: []byte("x")}
	if rec.Classify() != (tlsmsg.Type{Kind: tlsmsg.ApplicationData}) {
		t.Fatalf("unexpected classification: %v", rec.Classify())
	}
	parsed, ok := Parse(rec.ToOpaqueMessage())
	if !ok {
		t.Fatalf("expected Parse to recognize an encrypted_record envelope")
	}
	if parsed.(EncryptedRecord).Sequence != 3 {
		t.Fatalf("sequence did not round-trip")
	}
}
