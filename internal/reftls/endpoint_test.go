package reftls

import (
	"testing"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/stream"
)

func TestServerEndpointRepliesAfterClientHello(t *testing.T) {
	a, err := agent.Spawn(agent.Descriptor{Name: agent.First(), Role: agent.RoleServer, Version: agent.TLS12}, Factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ch := ClientHello{Version: [2]byte{3, 3}, Random: constantRandom(1), CipherSuites: []uint16{0xC02F}}
	if err := a.AddToInbound(ch.ToOpaqueMessage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.DriveUntilBlocked(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drained, err := a.DrainOutbound()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drained) != 3 {
		t.Fatalf("expected ServerHello+Certificate+ServerHelloDone, got %d messages", len(drained))
	}
	if _, ok := drained[0].Parsed.(ServerHello); !ok {
		t.Fatalf("expected first drained message to parse as ServerHello, got %T", drained[0].Parsed)
	}
}

func TestPassiveEndpointNeverMakesProgress(t *testing.T) {
	a, err := agent.Spawn(agent.Descriptor{Name: agent.First(), Role: agent.RoleClient, Version: agent.TLS12}, Factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.AddToInbound(stream.OpaqueMessage{ContentType: 22, Version: [2]byte{3, 3}, Payload: []byte("x")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.DriveUntilBlocked(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if drained, _ := a.DrainOutbound(); len(drained) != 0 {
		t.Fatalf("expected a passive endpoint to never emit output, got %d", len(drained))
	}
}
