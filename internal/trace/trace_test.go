package trace

import (
	"context"
	"testing"
	"time"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/fn"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/stream"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
)

// wireMsg is a minimal Encodable value an Input recipe can evaluate
// to: enough to exercise Execute's encode-and-deliver path without a
// real TLS library.
type wireMsg struct{ payload []byte }

func (m wireMsg) ToOpaqueMessage() stream.OpaqueMessage {
	return stream.OpaqueMessage{ContentType: 22, Version: [2]byte{3, 3}, Payload: m.payload}
}

// echoEndpoint replies once with a canned handshake-typed record after
// observing any inbound bytes, then reports no further progress.
type echoEndpoint struct {
	s       stream.Stream
	replied bool
}

func (e *echoEndpoint) NextState() (agent.Progress, error) {
	buf := make([]byte, 4096)
	n, err := e.s.Read(buf)
	if err != nil && err != stream.ErrWouldBlock {
		return false, err
	}
	if n > 0 && !e.replied {
		e.replied = true
		reply := stream.OpaqueMessage{ContentType: 22, Version: [2]byte{3, 3}, Payload: []byte("server-hello")}
		if _, err := e.s.Write(reply.Encode()); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (e *echoEndpoint) Reset() error         { e.replied = false; return nil }
func (e *echoEndpoint) DescribeState() string { return "echo" }

func echoFactory(d agent.Descriptor, s stream.Stream) (agent.Endpoint, error) {
	return &echoEndpoint{s: s}, nil
}

func TestExecuteDeliversInputAndRecordsOutput(t *testing.T) {
	sig := signature.NewSignature()
	msgFn := sig.NewFunction(fn.MakeDynamic0("client_hello", func() (wireMsg, error) {
		return wireMsg{payload: []byte("client-hello")}, nil
	}))

	a0 := agent.First()
	tr := NewTrace(
		[]agent.Descriptor{{Name: a0, Role: agent.RoleClient, Version: agent.TLS13}},
		[]Step{
			{Agent: a0, Action: Input{Recipe: term.NewApplication(msgFn)}},
			{Agent: a0, Action: Output{}},
		},
	)

	tctx, err := Execute(context.Background(), tr, sig, echoFactory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mt := tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.HandshakeAny}
	v := signature.NewVarByTypeShape(
		tctx.Knowledge.byAgent[a0][0].Shape, a0, &mt, 0,
	)
	val, err := tctx.Lookup(v)
	if err != nil {
		t.Fatalf("expected recorded output to be resolvable: %v", err)
	}
	opaque, ok := val.(stream.OpaqueMessage)
	if !ok || string(opaque.Payload) != "server-hello" {
		t.Fatalf("got %v", val)
	}

	if len(tctx.Claimer.All()) != 1 {
		t.Fatalf("expected 1 claim recorded, got %d", len(tctx.Claimer.All()))
	}
}

func TestExecuteFailsOnUnknownAgent(t *testing.T) {
	sig := signature.NewSignature()
	a0, ghost := agent.First(), agent.Name(99)
	tr := NewTrace(
		[]agent.Descriptor{{Name: a0, Role: agent.RoleClient, Version: agent.TLS13}},
		[]Step{{Agent: ghost, Action: Output{}}},
	)
	if _, err := Execute(context.Background(), tr, sig, echoFactory); err == nil {
		t.Fatalf("expected error for step referencing unknown agent")
	}
}

func TestExecuteFailsOnNonEncodableRecipe(t *testing.T) {
	sig := signature.NewSignature()
	oneFn := sig.NewFunction(fn.MakeDynamic0("one", func() (int, error) { return 1, nil }))
	a0 := agent.First()
	tr := NewTrace(
		[]agent.Descriptor{{Name: a0, Role: agent.RoleClient, Version: agent.TLS13}},
		[]Step{{Agent: a0, Action: Input{Recipe: term.NewApplication(oneFn)}}},
	)
	if _, err := Execute(context.Background(), tr, sig, echoFactory); err == nil {
		t.Fatalf("expected error for a recipe that does not evaluate to an Encodable")
	}
}

func TestExecuteHonorsCancellation(t *testing.T) {
	sig := signature.NewSignature()
	msgFn := sig.NewFunction(fn.MakeDynamic0("client_hello", func() (wireMsg, error) {
		return wireMsg{payload: []byte("client-hello")}, nil
	}))
	a0 := agent.First()
	tr := NewTrace(
		[]agent.Descriptor{{Name: a0, Role: agent.RoleClient, Version: agent.TLS13}},
		[]Step{
			{Agent: a0, Action: Input{Recipe: term.NewApplication(msgFn)}},
			{Agent: a0, Action: Output{}},
		},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	time.Sleep(time.Millisecond)

	if _, err := Execute(ctx, tr, sig, echoFactory); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
