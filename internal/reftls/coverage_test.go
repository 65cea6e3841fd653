package reftls

import "testing"

func TestServerEndpointRecordsAnEdgePerTransition(t *testing.T) {
	e := &serverEndpoint{s: nil}
	e.mark(int(stateAwaitClientHello), int(stateAwaitClientFinished), "server/client_hello")
	e.mark(int(stateAwaitClientFinished), int(stateDone), "server/client_finished")

	edges := e.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0] == edges[1] {
		t.Fatalf("expected distinct transitions to hash to distinct edges")
	}
}

func TestEdgeTrackerIsDeterministic(t *testing.T) {
	var a, b edgeTracker
	a.mark(0, 1, "client/spawn")
	b.mark(0, 1, "client/spawn")
	if a.Edges()[0] != b.Edges()[0] {
		t.Fatalf("expected identical transitions to hash identically")
	}
}
