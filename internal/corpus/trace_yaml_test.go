package corpus

import (
	"context"
	"testing"
	"time"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/reftls"
	"github.com/tlsfuzz/puffer/internal/seeds"
	"github.com/tlsfuzz/puffer/internal/trace"
)

func TestEncodeDecodeTraceRoundTripsAttackerSeed(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := seeds.SeedClientAttacker12(client, server)

	data, err := EncodeTrace(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DecodeTrace(data, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded.Steps) != len(tr.Steps) {
		t.Fatalf("expected %d steps, got %d", len(tr.Steps), len(decoded.Steps))
	}
	if len(decoded.Descriptors) != len(tr.Descriptors) {
		t.Fatalf("expected %d descriptors, got %d", len(tr.Descriptors), len(decoded.Descriptors))
	}

	last := decoded.Steps[len(decoded.Steps)-1]
	input, ok := last.Action.(trace.Input)
	if !ok || input.Recipe.Function.Name != "fn_encrypt12" {
		t.Fatalf("expected the decoded trace to still end on fn_encrypt12")
	}

	if _, err := trace.Execute(context.Background(), decoded, sig, reftls.Factory); err != nil {
		t.Fatalf("decoded trace failed to execute: %v", err)
	}
}

func TestEncodeDecodeTraceRoundTripsVariableRecipes(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := seeds.SeedSuccessful(client, server)

	data, err := EncodeTrace(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := DecodeTrace(data, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := trace.Execute(context.Background(), decoded, sig, reftls.HonestFactory); err != nil {
		t.Fatalf("decoded honest trace failed to execute: %v", err)
	}
}

func TestSaveLoadEntryPreservesMetadata(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, sig := seeds.SeedClientAttacker(client, server)

	discovered := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	coverage := []uint64{7, 3, 9}

	data, err := SaveEntry("run-123", discovered, coverage, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadEntry(data, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.RunID != "run-123" {
		t.Fatalf("expected run id to round-trip, got %q", loaded.RunID)
	}
	if !loaded.Discovered.Equal(discovered) {
		t.Fatalf("expected discovered time to round-trip, got %v", loaded.Discovered)
	}
	if len(loaded.Coverage) != 3 {
		t.Fatalf("expected 3 coverage entries, got %d", len(loaded.Coverage))
	}
	if len(loaded.Trace.Steps) != len(tr.Steps) {
		t.Fatalf("expected trace steps to round-trip")
	}
}

func TestDecodeTraceRejectsUnknownVariableShape(t *testing.T) {
	_, sig := seeds.SeedClientAttacker12(agent.First(), agent.First().Next())
	data := []byte(`
descriptors:
  - name: 0
    role: client
    version: "1.2"
steps:
  - agent: 0
    kind: input
    recipe:
      kind: var
      var_shape: "no.such.Shape"
      var_agent: 0
      var_counter: 0
`)
	if _, err := DecodeTrace(data, sig); err == nil {
		t.Fatalf("expected an error for an unregistered variable shape")
	}
}
