package trace

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/eval"
	"github.com/tlsfuzz/puffer/internal/ferr"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/stream"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
)

// Encodable is implemented by whatever value an Input recipe's root
// function evaluates to: the recipe must bottom out in a function that
// produces a fully-framed wire message, not an arbitrary Go value.
type Encodable interface {
	ToOpaqueMessage() stream.OpaqueMessage
}

// classifyOpaque derives a coarse TlsMessageType from a record's
// content type byte when no Parser recognized it (the
// opaque form is always available even when semantic parsing isn't).
func classifyOpaque(contentType byte) tlsmsg.Type {
	switch contentType {
	case 20:
		return tlsmsg.Type{Kind: tlsmsg.ChangeCipherSpec}
	case 21:
		return tlsmsg.Type{Kind: tlsmsg.Alert}
	case 22:
		return tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: tlsmsg.HandshakeAny}
	case 23:
		return tlsmsg.Type{Kind: tlsmsg.ApplicationData}
	case 24:
		return tlsmsg.Type{Kind: tlsmsg.Heartbeat}
	default:
		return tlsmsg.Type{Kind: tlsmsg.ApplicationData}
	}
}

// Execute drives every Step of tr in order: it spawns one Agent per
// Descriptor via factory, then for each Step either evaluates and
// delivers an Input recipe or drains and records an Output step's
// produced messages, until the Steps are exhausted or goCtx is
// cancelled. It returns the Context populated so far — useful even on
// error, since a prefix of a trace executing successfully before
// failing is itself an observable outcome — and the first
// error encountered, tagged with its Kind.
func Execute(goCtx context.Context, tr *Trace, sig *signature.Signature, factory agent.Factory) (*Context, error) {
	tctx := NewContext(sig)

	for _, d := range tr.Descriptors {
		a, err := agent.Spawn(d, factory)
		if err != nil {
			return tctx, ferr.New(ferr.KindAgent, "spawn agent", err)
		}
		tctx.Agents[d.Name] = a
	}

	for i, step := range tr.Steps {
		select {
		case <-goCtx.Done():
			return tctx, ferr.New(ferr.KindStream, fmt.Sprintf("step %d", i), goCtx.Err())
		default:
		}

		a, err := tctx.Agent(step.Agent)
		if err != nil {
			return tctx, err
		}

		switch action := step.Action.(type) {
		case Input:
			if err := executeInput(a, action, tctx); err != nil {
				return tctx, err
			}
		case Output:
			if err := executeOutput(a, tctx); err != nil {
				return tctx, err
			}
		default:
			return tctx, ferr.New(ferr.KindAgent, fmt.Sprintf("step %d", i), fmt.Errorf("unknown action type %T", action))
		}
	}

	return tctx, nil
}

// DescribeAgents renders a stable, sorted debug dump of every live
// agent's reported state, the optional Stream.describe_state
// capability surfaced across the whole trace rather than one agent at
// a time.
func DescribeAgents(tctx *Context) string {
	names := maps.Keys(tctx.Agents)
	slices.Sort(names)
	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "%s: %s\n", n, tctx.Agents[n].Stream.DescribeState())
	}
	return b.String()
}

// executeInput implements the Input step: evaluate the
// recipe, encode the result, deliver it, and drive the agent's
// handshake state machine until it stops making progress.
func executeInput(a *agent.Agent, action Input, tctx *Context) error {
	val, err := eval.Evaluate(action.Recipe, tctx)
	if err != nil {
		return err
	}
	encodable, ok := val.(Encodable)
	if !ok {
		return ferr.New(ferr.KindType, "input step", fmt.Errorf("recipe evaluated to %T, not an Encodable message", val))
	}
	if err := a.AddToInbound(encodable.ToOpaqueMessage()); err != nil {
		return ferr.New(ferr.KindStream, "deliver input", err)
	}
	if err := a.DriveUntilBlocked(); err != nil {
		return ferr.New(ferr.KindNative, "drive agent", err)
	}
	return nil
}

// executeOutput implements the Output step: drain every
// buffered record, classify and record its claims, within a
// ClaimScope bounding the endpoint callback's lifetime to this one
// step. It drives the agent forward first so an endpoint
// that acts without fresh input — a reference client emitting its
// ClientHello as soon as it is spawned — gets the chance
// to produce something before the drain.
func executeOutput(a *agent.Agent, tctx *Context) error {
	if err := a.DriveUntilBlocked(); err != nil {
		return ferr.New(ferr.KindNative, "drive agent", err)
	}

	scope := agent.BeginClaimScope(&tctx.Claimer, a.Name())
	defer scope.Close()

	drained, err := a.DrainOutbound()
	if err != nil {
		return ferr.New(ferr.KindStream, "drain output", err)
	}

	for _, d := range drained {
		var mt tlsmsg.Type
		var claims []tlsmsg.Claim
		if d.Parsed != nil {
			mt = d.Parsed.Classify()
			claims = d.Parsed.ClaimableValues()
		} else {
			mt = classifyOpaque(d.Opaque.ContentType)
			claims = []tlsmsg.Claim{tlsmsg.NewClaim(d.Opaque)}
		}
		for _, c := range claims {
			scope.Record(c)
		}
		tctx.RecordOutput(a.Name(), mt, claims)
	}
	return nil
}
