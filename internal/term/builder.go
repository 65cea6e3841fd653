package term

import "github.com/tlsfuzz/puffer/internal/signature"

// Builder is a small fluent builder for terms, the re-architected form
// of the source's term-building macro: a builder API, without a text parser, since the macro's
// constant-folding and argument-type inference are "nice-to-have, not
// required."
type Builder struct {
	sig *signature.Signature
}

// NewBuilder returns a Builder that resolves function symbols by name
// against sig.
func NewBuilder(sig *signature.Signature) *Builder {
	return &Builder{sig: sig}
}

// App builds an Application term for the named function, which must
// already be registered in the signature (see internal/reftls/fn).
func (b *Builder) App(name string, children ...*Term) *Term {
	f, ok := b.sig.Lookup(name)
	if !ok {
		panic("term: builder: unknown function " + name)
	}
	return NewApplication(f, children...)
}

// Var builds a Variable leaf term.
func (b *Builder) Var(v signature.Variable) *Term { return NewVariable(v) }
