// Package fn is the reference fn_* function catalogue, standing in for
// an external concrete TLS function library: constructors for the
// reftls message types, registered as dynamic functions so term
// recipes can invoke them by name. Named fn_* throughout to match the
// function names the testable scenarios assert against
// (fn_client_hello, fn_finished, fn_encrypt12, ...).
package fn

import (
	corefn "github.com/tlsfuzz/puffer/internal/fn"
	"github.com/tlsfuzz/puffer/internal/reftls"
	"github.com/tlsfuzz/puffer/internal/signature"
)

// Register interns every fn_* symbol into sig, returning it for
// convenient chaining. Idempotent: re-registering is a no-op per
// symbol.
func Register(sig *signature.Signature) *signature.Signature {
	sig.NewFunction(corefn.MakeDynamic0("fn_seq_0", func() (uint64, error) { return 0, nil }))
	sig.NewFunction(corefn.MakeDynamic1("fn_seq_next", func(prev uint64) (uint64, error) { return prev + 1, nil }))

	sig.NewFunction(corefn.MakeDynamic0("fn_constant_version12", func() ([2]byte, error) { return [2]byte{3, 3}, nil }))
	sig.NewFunction(corefn.MakeDynamic0("fn_constant_version13", func() ([2]byte, error) { return [2]byte{3, 4}, nil }))
	sig.NewFunction(corefn.MakeDynamic0("fn_constant_random", func() ([32]byte, error) {
		var r [32]byte
		copy(r[:], reftls.RandBytes(32))
		return r, nil
	}))
	sig.NewFunction(corefn.MakeDynamic0("fn_constant_session_id", func() ([]byte, error) {
		return reftls.RandBytes(32), nil
	}))
	sig.NewFunction(corefn.MakeDynamic0("fn_empty_session_id", func() ([]byte, error) { return nil, nil }))
	sig.NewFunction(corefn.MakeDynamic0("fn_constant_cipher_suites", func() ([]uint16, error) {
		return []uint16{0xC02F, 0xC030, 0x009E}, nil
	}))
	sig.NewFunction(corefn.MakeDynamic0("fn_constant_cipher_suite", func() (uint16, error) { return 0xC02F, nil }))

	sig.NewFunction(corefn.MakeDynamic0("fn_empty_client_extensions", func() ([]reftls.Extension, error) {
		return nil, nil
	}))
	sig.NewFunction(corefn.MakeDynamic2("fn_client_extensions_append",
		func(exts []reftls.Extension, ext reftls.Extension) ([]reftls.Extension, error) {
			out := make([]reftls.Extension, len(exts), len(exts)+1)
			copy(out, exts)
			return append(out, ext), nil
		}))
	sig.NewFunction(corefn.MakeDynamic1("fn_sni_extension", func(hostname string) (reftls.Extension, error) {
		return reftls.Extension{Type: 0, Data: []byte(hostname)}, nil
	}))
	sig.NewFunction(corefn.MakeDynamic0("fn_constant_hostname", func() (string, error) { return "example.test", nil }))

	sig.NewFunction(corefn.MakeDynamic5("fn_client_hello",
		func(version [2]byte, random [32]byte, sessionID []byte, cipherSuites []uint16, extensions []reftls.Extension) (reftls.ClientHello, error) {
			return reftls.ClientHello{
				Version: version, Random: random, SessionID: sessionID,
				CipherSuites: cipherSuites, Extensions: extensions,
			}, nil
		}))

	sig.NewFunction(corefn.MakeDynamic4("fn_server_hello",
		func(version [2]byte, random [32]byte, sessionID []byte, cipherSuite uint16) (reftls.ServerHello, error) {
			return reftls.ServerHello{Version: version, Random: random, SessionID: sessionID, CipherSuite: cipherSuite}, nil
		}))

	sig.NewFunction(corefn.MakeDynamic0("fn_constant_cert_chain", func() ([][]byte, error) {
		return [][]byte{[]byte("fn-constant-test-certificate-der")}, nil
	}))
	sig.NewFunction(corefn.MakeDynamic1("fn_certificate", func(chain [][]byte) (reftls.Certificate, error) {
		return reftls.Certificate{Chain: chain}, nil
	}))
	sig.NewFunction(corefn.MakeDynamic0("fn_server_hello_done", func() (reftls.ServerHelloDone, error) {
		return reftls.ServerHelloDone{}, nil
	}))

	sig.NewFunction(corefn.MakeDynamic0("fn_constant_dhe_params", func() ([]byte, error) {
		return []byte("fn-constant-dhe-params"), nil
	}))
	sig.NewFunction(corefn.MakeDynamic1("fn_dhe_server_key_exchange", func(params []byte) (reftls.ServerKeyExchange, error) {
		return reftls.ServerKeyExchange{Params: params}, nil
	}))

	sig.NewFunction(corefn.MakeDynamic0("fn_constant_client_key_exchange_payload", func() ([]byte, error) {
		return []byte("fn-constant-client-key-exchange"), nil
	}))
	sig.NewFunction(corefn.MakeDynamic1("fn_client_key_exchange", func(payload []byte) (reftls.ClientKeyExchange, error) {
		return reftls.ClientKeyExchange{Payload: payload}, nil
	}))

	sig.NewFunction(corefn.MakeDynamic0("fn_change_cipher_spec", func() (reftls.ChangeCipherSpec, error) {
		return reftls.ChangeCipherSpec{}, nil
	}))

	sig.NewFunction(corefn.MakeDynamic0("fn_constant_verify_data", func() ([]byte, error) {
		return []byte("fn-constant-verify-data"), nil
	}))
	sig.NewFunction(corefn.MakeDynamic1("fn_finished", func(verifyData []byte) (reftls.Finished, error) {
		return reftls.Finished{VerifyData: verifyData}, nil
	}))

	sig.NewFunction(corefn.MakeDynamic2("fn_encrypt12", func(finished reftls.Finished, seq uint64) (reftls.EncryptedRecord, error) {
		return reftls.EncryptedRecord{Sequence: seq, Plaintext: finished.VerifyData}, nil
	}))

	sig.NewFunction(corefn.MakeDynamic0("fn_constant_ticket", func() ([]byte, error) {
		return []byte("fn-constant-session-ticket"), nil
	}))
	sig.NewFunction(corefn.MakeDynamic1("fn_new_session_ticket", func(ticket []byte) (reftls.NewSessionTicket, error) {
		return reftls.NewSessionTicket{Ticket: ticket}, nil
	}))

	return sig
}
