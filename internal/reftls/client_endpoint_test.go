package reftls

import (
	"testing"

	"github.com/tlsfuzz/puffer/internal/agent"
)

func TestHonestClientEmitsClientHelloOnSpawn(t *testing.T) {
	a, err := agent.Spawn(agent.Descriptor{Name: agent.First(), Role: agent.RoleClient, Version: agent.TLS13}, HonestFactory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.DriveUntilBlocked(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	drained, err := a.DrainOutbound()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drained) != 1 {
		t.Fatalf("expected exactly one spontaneous ClientHello, got %d", len(drained))
	}
	ch, ok := drained[0].Parsed.(ClientHello)
	if !ok {
		t.Fatalf("expected ClientHello, got %T", drained[0].Parsed)
	}
	if ch.Version != [2]byte{3, 4} {
		t.Fatalf("expected TLS 1.3 version bytes, got %v", ch.Version)
	}
}

func TestHonestHandshakeReachesDoneOnBothSides(t *testing.T) {
	client, err := agent.Spawn(agent.Descriptor{Name: agent.First(), Role: agent.RoleClient, Version: agent.TLS12}, HonestFactory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	server, err := agent.Spawn(agent.Descriptor{Name: agent.First().Next(), Role: agent.RoleServer, Version: agent.TLS12}, HonestFactory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	step := func(from, to *agent.Agent) {
		if err := from.DriveUntilBlocked(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		drained, err := from.DrainOutbound()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, d := range drained {
			if err := to.AddToInbound(d.Opaque); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	step(client, server) // ClientHello -> server
	step(server, client) // ServerHello+Certificate+ServerHelloDone -> client
	step(client, server) // ClientKeyExchange+ChangeCipherSpec+Finished -> server
	if err := server.DriveUntilBlocked(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if server.Endpoint.DescribeState() != "done" {
		t.Fatalf("expected server to finish the handshake, got %q", server.Endpoint.DescribeState())
	}

	step(server, client) // ChangeCipherSpec+Finished -> client
	if err := client.DriveUntilBlocked(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Endpoint.DescribeState() != "client/done" {
		t.Fatalf("expected client to finish the handshake, got %q", client.Endpoint.DescribeState())
	}
}
