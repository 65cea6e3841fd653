package seeds

import (
	"context"
	"testing"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/reftls"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
	"github.com/tlsfuzz/puffer/internal/trace"
	"github.com/tlsfuzz/puffer/internal/types"
)

func TestSeedSuccessfulProducesClientHelloAndServerHelloAtCounterZero(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := SeedSuccessful(client, server)

	tctx, err := trace.Execute(context.Background(), tr, sig, reftls.HonestFactory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chVar := clientHelloVarFor(client)
	if _, ok := tctx.Knowledge.Lookup(chVar); !ok {
		t.Fatalf("expected a ClientHello recorded under the client at counter 0")
	}
	shVar := signature.NewVarByTypeShape(types.Of[reftls.ServerHello](), server, handshakeFilter(tlsmsg.ServerHello), 0)
	if _, ok := tctx.Knowledge.Lookup(shVar); !ok {
		t.Fatalf("expected a ServerHello recorded under the server at counter 0")
	}
}

func TestSeedSuccessful12ProducesChangeCipherSpecUnderBothAgents(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := SeedSuccessful12(client, server)

	tctx, err := trace.Execute(context.Background(), tr, sig, reftls.HonestFactory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ccsClient := signature.NewVarByTypeShape(types.Of[reftls.ChangeCipherSpec](), client, flatFilter(tlsmsg.ChangeCipherSpec), 0)
	ccsServer := signature.NewVarByTypeShape(types.Of[reftls.ChangeCipherSpec](), server, flatFilter(tlsmsg.ChangeCipherSpec), 0)
	if _, ok := tctx.Knowledge.Lookup(ccsClient); !ok {
		t.Fatalf("expected a ChangeCipherSpec recorded under the client")
	}
	if _, ok := tctx.Knowledge.Lookup(ccsServer); !ok {
		t.Fatalf("expected a ChangeCipherSpec recorded under the server")
	}
}

func TestSeedClientAttacker12ReachesFinishedServerState(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := SeedClientAttacker12(client, server)

	last := tr.Steps[len(tr.Steps)-1]
	input, ok := last.Action.(trace.Input)
	if !ok || input.Recipe.Function.Name != "fn_encrypt12" {
		t.Fatalf("expected the trace to end on an fn_encrypt12 input step, per scenario S4/S5")
	}

	tctx, err := trace.Execute(context.Background(), tr, sig, reftls.Factory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, err := tctx.Agent(server)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Endpoint.DescribeState() != "done" {
		t.Fatalf("expected the server to reach its finished state, got %q", a.Endpoint.DescribeState())
	}
}

func TestSeedClientAttackerBuildsATLS13Version(t *testing.T) {
	_, sig := SeedClientAttacker(agent.First(), agent.First().Next())
	if _, ok := sig.Lookup("fn_constant_version13"); !ok {
		t.Fatalf("expected fn_constant_version13 to be registered")
	}
}

func TestSeedSessionResumptionDHEExercisesTheDHECatalogue(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := SeedSessionResumptionDHE(client, server)
	if _, err := trace.Execute(context.Background(), tr, sig, reftls.Factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foundDHE := false
	for _, s := range tr.Steps {
		if in, ok := s.Action.(trace.Input); ok && in.Recipe.Function.Name == "fn_dhe_server_key_exchange" {
			foundDHE = true
		}
	}
	if !foundDHE {
		t.Fatalf("expected an fn_dhe_server_key_exchange input step")
	}
}

func TestSeedSessionResumptionKEAttemptsASecondClientHello(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := SeedSessionResumptionKE(client, server)
	if _, err := trace.Execute(context.Background(), tr, sig, reftls.Factory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for _, s := range tr.Steps {
		if in, ok := s.Action.(trace.Input); ok && in.Recipe.Function.Name == "fn_client_hello" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected two fn_client_hello applications (initial + resumed), got %d", count)
	}
}
