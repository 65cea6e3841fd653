// Package eval implements the term evaluator: a pure
// recursive walk over a term under a context, producing a typed value
// or a typed error, with no caching.
package eval

import (
	"errors"

	"github.com/tlsfuzz/puffer/internal/fn"
	"github.com/tlsfuzz/puffer/internal/ferr"
	"github.com/tlsfuzz/puffer/internal/signature"
	"github.com/tlsfuzz/puffer/internal/term"
)

// Context is the minimal surface the evaluator needs from a trace
// execution: resolving a Variable symbol to its bound value. Defined
// here (rather than depending on internal/trace) so that internal/eval
// and internal/trace can depend on each other in only one direction;
// *trace.Context implements this interface.
type Context interface {
	Lookup(v signature.Variable) (any, error)
}

// Evaluate walks t under ctx, producing an erased value or the first
// error encountered. Errors short-circuit: the first failing subterm
// aborts the whole term with that error.
func Evaluate(t *term.Term, ctx Context) (any, error) {
	switch t.Kind {
	case term.KindVariable:
		v, err := ctx.Lookup(t.Variable)
		if err != nil {
			var tagged *ferr.Error
			if errors.As(err, &tagged) {
				return nil, err
			}
			return nil, ferr.New(ferr.KindMissing, "evaluate variable", err)
		}
		return v, nil

	case term.KindApplication:
		args := make([]any, len(t.Children))
		for i, child := range t.Children {
			v, err := Evaluate(child, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		result, err := t.Function.Dynamic.Invoke(args)
		if err != nil {
			return nil, classifyInvokeError(t.Function.Name, err)
		}
		return result, nil

	default:
		return nil, ferr.New(ferr.KindType, "evaluate", errUnknownKind)
	}
}

var errUnknownKind = errors.New("eval: unknown term kind")

func classifyInvokeError(name string, err error) error {
	var mismatch *fn.TypeMismatchError
	if errors.As(err, &mismatch) {
		return ferr.New(ferr.KindType, "call "+name, err)
	}
	if errors.Is(err, fn.ErrWrongArity) {
		return ferr.New(ferr.KindType, "call "+name, err)
	}
	var callErr *fn.CallError
	if errors.As(err, &callErr) {
		return ferr.New(ferr.KindFunction, "call "+name, err)
	}
	return ferr.New(ferr.KindFunction, "call "+name, err)
}
