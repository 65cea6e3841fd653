package graphviz

import (
	"strconv"
	"strings"
	"testing"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/seeds"
)

func TestRenderTraceEmitsOneClusterPerStep(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, _ := seeds.SeedClientAttacker12(client, server)

	var buf strings.Builder
	if err := RenderTrace(&buf, tr, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "strict digraph \"Trace\"") {
		t.Fatalf("expected a strict digraph header, got %q", out[:40])
	}
	for i := range tr.Steps {
		want := "cluster" + strconv.Itoa(i)
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestRenderTraceStripsFnPrefixFromLabels(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, _ := seeds.SeedClientAttacker12(client, server)

	var buf strings.Builder
	if err := RenderTrace(&buf, tr, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "fn_client_hello") {
		t.Fatalf("expected the fn_ prefix to be stripped from node labels")
	}
	if !strings.Contains(buf.String(), "client_hello") {
		t.Fatalf("expected the stripped function name to still appear")
	}
}

func TestGraphModeCollapsesRepeatedSymbolsOntoOneNode(t *testing.T) {
	client, server := agent.First(), agent.First().Next()
	tr, _ := seeds.SeedSessionResumptionKE(client, server)

	var treeBuf, graphBuf strings.Builder
	if err := RenderTrace(&treeBuf, tr, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := RenderTrace(&graphBuf, tr, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if treeBuf.Len() == 0 || graphBuf.Len() == 0 {
		t.Fatalf("expected non-empty output in both modes")
	}
	// fn_client_hello (and its constant arguments) appear in two steps of
	// this seed: tree mode gives each step its own node, graph mode one.
	if tree, graph := distinctNodeIDs(treeBuf.String()), distinctNodeIDs(graphBuf.String()); graph >= tree {
		t.Fatalf("expected graph mode to declare fewer nodes than tree mode, got graph=%d tree=%d", graph, tree)
	}
}

// distinctNodeIDs counts the distinct node ids declared with a label in
// a rendered dot document.
func distinctNodeIDs(out string) int {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, " [label="); i > 0 {
			seen[line[:i]] = struct{}{}
		}
	}
	return len(seen)
}
