// Package signature implements the registry of function and variable
// symbols with stable identifiers.
package signature

import (
	"sync"
	"sync/atomic"

	"github.com/tlsfuzz/puffer/internal/agent"
	"github.com/tlsfuzz/puffer/internal/fn"
	"github.com/tlsfuzz/puffer/internal/tlsmsg"
	"github.com/tlsfuzz/puffer/internal/types"
)

var idCounter uint64

func nextID() uint64 { return atomic.AddUint64(&idCounter, 1) }

// Function is an owned record: name, shape, stable id, and a
// "resistant" id preserved across term clones for graph rendering.
// Two Functions with the same name are the same symbol.
type Function struct {
	Name        string
	Dynamic     fn.Dynamic
	id          uint64
	resistantID uint64
}

// ID returns the stable identifier assigned at interning time.
func (f Function) ID() uint64 { return f.id }

// ResistantID returns the identifier preserved across Term.Clone.
func (f Function) ResistantID() uint64 { return f.resistantID }

// Shape is shorthand for f.Dynamic.Shape.
func (f Function) Shape() fn.Shape { return f.Dynamic.Shape }

// Equal reports whether f and other are the same function symbol.
func (f Function) Equal(other Function) bool { return f.Name == other.Name }

// Variable denotes "the counter-th value of the given type produced by
// agent, optionally restricted to messages of message_type".
type Variable struct {
	Shape       types.Shape
	Agent       agent.Name
	MessageType *tlsmsg.Type // nil: no filter
	Counter     int
	id          uint64
	resistantID uint64
}

func (v Variable) ID() uint64         { return v.id }
func (v Variable) ResistantID() uint64 { return v.resistantID }

// Equal reports whether two variables denote the same binding slot.
func (v Variable) Equal(other Variable) bool {
	if !v.Shape.Equal(other.Shape) || v.Agent != other.Agent || v.Counter != other.Counter {
		return false
	}
	if (v.MessageType == nil) != (other.MessageType == nil) {
		return false
	}
	if v.MessageType != nil && *v.MessageType != *other.MessageType {
		return false
	}
	return true
}

// Signature interns function and variable symbols so that NewFunction
// for the same underlying Dynamic always yields a symbol whose id is
// stable across calls.
type Signature struct {
	mu        sync.Mutex
	functions map[string]Function
}

// NewSignature returns an empty, ready-to-use Signature.
func NewSignature() *Signature {
	return &Signature{functions: make(map[string]Function)}
}

// NewFunction interns d under its declared name, returning the stable
// Function symbol. Calling it again with the same name returns the
// same id (and resistant id); the Dynamic on a re-registration is
// ignored in favor of the first one interned, matching "two functions
// with the same name are the same symbol."
func (s *Signature) NewFunction(d fn.Dynamic) Function {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.functions[d.Shape.Name]; ok {
		return existing
	}
	id := nextID()
	f := Function{Name: d.Shape.Name, Dynamic: d, id: id, resistantID: id}
	s.functions[d.Shape.Name] = f
	return f
}

// Lookup returns the interned Function for name, if any.
func (s *Signature) Lookup(name string) (Function, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.functions[name]
	return f, ok
}

// All returns every interned function, for mutators that need to pick
// a random candidate by return type or arity.
func (s *Signature) All() []Function {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Function, 0, len(s.functions))
	for _, f := range s.functions {
		out = append(out, f)
	}
	return out
}

// NewVarByTypeShape constructs a fresh variable symbol.
// Variables are not deduplicated by the Signature (each occurrence in
// a term recipe is its own symbol instance), but two variables with
// identical fields still compare Equal.
func NewVarByTypeShape(shape types.Shape, a agent.Name, messageType *tlsmsg.Type, counter int) Variable {
	id := nextID()
	return Variable{Shape: shape, Agent: a, MessageType: messageType, Counter: counter, id: id, resistantID: id}
}
