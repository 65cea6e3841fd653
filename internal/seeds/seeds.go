// Package seeds implements the hand-written starting traces:
// deterministic constructors used both as fuzzer corpus seeds and as
// test fixtures. Each seed is built
// against the reference fn_* catalogue in internal/reftls/fn, so every
// seed trace is immediately executable without any external TLS
// binding.
//
// SeedSuccessful and SeedSuccessful12 model two honest peers: neither
// side's bytes are attacker-crafted, so they must run under
// reftls.HonestFactory, whose client endpoint behaves like a real
// implementation instead of the passive stand-in used
// everywhere else. Every other seed here models an attacker playing
// the client role against a real server and must run under
// reftls.Factory.
package seeds

import (
	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/reftls"
	reftlsfn "github.com/tlsfuzz/puffer/internal/reftls/fn"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
	"github.com/tlsfuzz/puffer/internal/trace"
	"github.com/tlsfuzz/puffer/internal/types"
)

func newSignature() *signature.Signature {
	return reftlsfn.Register(signature.NewSignature())
}

func handshakeFilter(h tlsmsg.HandshakeType) *tlsmsg.Type {
	return &tlsmsg.Type{Kind: tlsmsg.Handshake, Handshake: h}
}

func flatFilter(k tlsmsg.Kind) *tlsmsg.Type {
	return &tlsmsg.Type{Kind: k}
}

func versionFnName(v agent.TLSVersion) string {
	if v == agent.TLS13 {
		return "fn_constant_version13"
	}
	return "fn_constant_version12"
}

// honestTrace builds the S1/S2 shape: both peers forward each other's
// real output through Variable-addressed Input recipes, so nothing in
// the trace itself crafts a handshake message from scratch. Run under
// reftls.HonestFactory.
func honestTrace(client, server agent.Name, version agent.TLSVersion) (*trace.Trace, *signature.Signature) {
	sig := newSignature()
	b := term.NewBuilder(sig)

	serverHelloVar := signature.NewVarByTypeShape(
		types.Of[reftls.ServerHello](), server, handshakeFilter(tlsmsg.ServerHello), 0)
	changeCipherSpecVar := signature.NewVarByTypeShape(
		types.Of[reftls.ChangeCipherSpec](), client, flatFilter(tlsmsg.ChangeCipherSpec), 0)

	descriptors := []agent.Descriptor{
		{Name: client, Role: agent.RoleClient, Version: version},
		{Name: server, Role: agent.RoleServer, Version: version},
	}
	steps := []trace.Step{
		{Agent: client, Action: trace.Output{}},                              // client spontaneously emits ClientHello
		{Agent: server, Action: trace.Input{Recipe: b.Var(clientHelloVarFor(client))}},
		{Agent: server, Action: trace.Output{}},                              // ServerHello+Certificate+ServerHelloDone
		{Agent: client, Action: trace.Input{Recipe: b.Var(serverHelloVar)}},  // wakes the client up
		{Agent: client, Action: trace.Output{}},                              // ClientKeyExchange+ChangeCipherSpec+Finished
		{Agent: server, Action: trace.Input{Recipe: b.Var(changeCipherSpecVar)}},
		{Agent: server, Action: trace.Output{}},                              // ChangeCipherSpec+Finished
	}
	return trace.NewTrace(descriptors, steps), sig
}

func clientHelloVarFor(client agent.Name) signature.Variable {
	return signature.NewVarByTypeShape(
		types.Of[reftls.ClientHello](), client, handshakeFilter(tlsmsg.ClientHello), 0)
}

// SeedSuccessful is scenario S1: a successful TLS 1.3-shaped handshake
// between two honest agents.
func SeedSuccessful(client, server agent.Name) (*trace.Trace, *signature.Signature) {
	return honestTrace(client, server, agent.TLS13)
}

// SeedSuccessful12 is scenario S2: the TLS 1.2-shaped equivalent,
// which, like SeedSuccessful, produces a ChangeCipherSpec under each agent.
func SeedSuccessful12(client, server agent.Name) (*trace.Trace, *signature.Signature) {
	return honestTrace(client, server, agent.TLS12)
}

// attackerClientHello builds the ClientHello an attacker crafts from
// scratch, with a server-name-indication extension to exercise the
// extension-append catalogue functions.
func attackerClientHello(b *term.Builder, version agent.TLSVersion) *term.Term {
	return b.App("fn_client_hello",
		b.App(versionFnName(version)),
		b.App("fn_constant_random"),
		b.App("fn_constant_session_id"),
		b.App("fn_constant_cipher_suites"),
		b.App("fn_client_extensions_append",
			b.App("fn_empty_client_extensions"),
			b.App("fn_sni_extension", b.App("fn_constant_hostname"))),
	)
}

// attackerTrace builds the S3/S4/S5 shape: the attacker plays the
// client role entirely from crafted terms against a real server. Run
// under reftls.Factory. The trace deliberately ends on the Input step
// whose recipe root is fn_encrypt12, the exact step RepeatMutator and
// ReplaceReuseMutator target in scenarios S4/S5.
func attackerTrace(client, server agent.Name, version agent.TLSVersion) (*trace.Trace, *signature.Signature) {
	sig := newSignature()
	b := term.NewBuilder(sig)

	clientHello := attackerClientHello(b, version)
	clientKeyExchange := b.App("fn_client_key_exchange", b.App("fn_constant_client_key_exchange_payload"))
	changeCipherSpec := b.App("fn_change_cipher_spec")
	encryptedFinished := b.App("fn_encrypt12",
		b.App("fn_finished", b.App("fn_constant_verify_data")),
		b.App("fn_seq_0"))

	descriptors := []agent.Descriptor{
		{Name: client, Role: agent.RoleClient, Version: version},
		{Name: server, Role: agent.RoleServer, Version: version},
	}
	steps := []trace.Step{
		{Agent: server, Action: trace.Input{Recipe: clientHello}},
		{Agent: server, Action: trace.Output{}},
		{Agent: server, Action: trace.Input{Recipe: clientKeyExchange}},
		{Agent: server, Action: trace.Input{Recipe: changeCipherSpec}},
		{Agent: server, Action: trace.Input{Recipe: encryptedFinished}},
	}
	return trace.NewTrace(descriptors, steps), sig
}

// SeedClientAttacker is scenario S3's TLS 1.3 counterpart: an attacker
// drives a full handshake against a real server agent from scratch.
func SeedClientAttacker(client, server agent.Name) (*trace.Trace, *signature.Signature) {
	return attackerTrace(client, server, agent.TLS13)
}

// SeedClientAttacker12 is scenario S3 exactly: "a client-attacker 1.2
// trace... executes Ok against a real server agent and reaches
// Finished state." Also the starting point for scenarios S4 and S5.
func SeedClientAttacker12(client, server agent.Name) (*trace.Trace, *signature.Signature) {
	return attackerTrace(client, server, agent.TLS12)
}

// SeedSessionResumptionDHE extends the TLS 1.2 attacker trace with a
// DHE key exchange delivered to the client agent, exercising the
// fn_dhe_server_key_exchange/fn_constant_dhe_params catalogue entries
// that the plain attacker trace never needs.
func SeedSessionResumptionDHE(client, server agent.Name) (*trace.Trace, *signature.Signature) {
	tr, sig := attackerTrace(client, server, agent.TLS12)
	b := term.NewBuilder(sig)

	dhe := b.App("fn_dhe_server_key_exchange", b.App("fn_constant_dhe_params"))
	tr.Steps = append(tr.Steps,
		trace.Step{Agent: client, Action: trace.Input{Recipe: dhe}},
		trace.Step{Agent: client, Action: trace.Output{}},
	)
	return tr, sig
}

// SeedSessionResumptionKE extends the TLS 1.2 attacker trace with a
// session ticket issuance followed by a second ClientHello that
// reuses the ticket bytes as its session id, attempting resumption.
func SeedSessionResumptionKE(client, server agent.Name) (*trace.Trace, *signature.Signature) {
	tr, sig := attackerTrace(client, server, agent.TLS12)
	b := term.NewBuilder(sig)

	ticket := b.App("fn_new_session_ticket", b.App("fn_constant_ticket"))
	resumedHello := b.App("fn_client_hello",
		b.App(versionFnName(agent.TLS12)),
		b.App("fn_constant_random"),
		b.App("fn_constant_ticket"),
		b.App("fn_constant_cipher_suites"),
		b.App("fn_empty_client_extensions"))

	tr.Steps = append(tr.Steps,
		trace.Step{Agent: server, Action: trace.Input{Recipe: ticket}},
		trace.Step{Agent: server, Action: trace.Input{Recipe: resumedHello}},
		trace.Step{Agent: server, Action: trace.Output{}},
	)
	return tr, sig
}
