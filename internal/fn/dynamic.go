package fn

import "github.com/tlsfuzz/puffer/internal/types"

// Call is the type-erased calling convention: an ordered sequence of
// erased argument values, producing an erased return value or an
// error. Implementations downcast each argument against Shape.Args
// before forwarding to the underlying typed function.
type Call func(args []any) (any, error)

// Dynamic is a callable taking type-erased values and returning either
// a type-erased value or a function error.
type Dynamic struct {
	Shape Shape
	call  Call
}

// Invoke validates arity and per-argument types before dispatching to
// the wrapped typed function. This is the single enforcement point
// for the "dynamic call fails with WrongArity / TypeMismatch" contract.
func (d Dynamic) Invoke(args []any) (any, error) {
	if len(args) != d.Shape.Arity() {
		return nil, ErrWrongArity
	}
	for i, a := range args {
		if got := types.OfValue(a); !got.Equal(d.Shape.Args[i]) {
			return nil, NewTypeMismatchError(i, d.Shape.Args[i], got)
		}
	}
	return d.call(args)
}

// downcast performs the erased->typed conversion used by every
// MakeDynamicN helper. It assumes Invoke has already validated the
// Shape, so a failed assertion here indicates a bug in this package.
func downcast[T any](v any) T {
	tv, ok := v.(T)
	if !ok {
		var zero T
		return zero
	}
	return tv
}

// MakeDynamic0 erases a 0-arity function (a constant generator).
func MakeDynamic0[R any](name string, f func() (R, error)) Dynamic {
	shape := Shape{Name: name, Args: nil, Ret: types.Of[R]()}
	return Dynamic{
		Shape: shape,
		call: func(args []any) (any, error) {
			r, err := f()
			if err != nil {
				return nil, NewCallError(name, err)
			}
			return r, nil
		},
	}
}

// MakeDynamic1 erases a 1-arity function.
func MakeDynamic1[A1, R any](name string, f func(A1) (R, error)) Dynamic {
	shape := Shape{Name: name, Args: []types.Shape{types.Of[A1]()}, Ret: types.Of[R]()}
	return Dynamic{
		Shape: shape,
		call: func(args []any) (any, error) {
			r, err := f(downcast[A1](args[0]))
			if err != nil {
				return nil, NewCallError(name, err)
			}
			return r, nil
		},
	}
}

// MakeDynamic2 erases a 2-arity function.
func MakeDynamic2[A1, A2, R any](name string, f func(A1, A2) (R, error)) Dynamic {
	shape := Shape{Name: name, Args: []types.Shape{types.Of[A1](), types.Of[A2]()}, Ret: types.Of[R]()}
	return Dynamic{
		Shape: shape,
		call: func(args []any) (any, error) {
			r, err := f(downcast[A1](args[0]), downcast[A2](args[1]))
			if err != nil {
				return nil, NewCallError(name, err)
			}
			return r, nil
		},
	}
}

// MakeDynamic3 erases a 3-arity function.
func MakeDynamic3[A1, A2, A3, R any](name string, f func(A1, A2, A3) (R, error)) Dynamic {
	shape := Shape{Name: name, Args: []types.Shape{types.Of[A1](), types.Of[A2](), types.Of[A3]()}, Ret: types.Of[R]()}
	return Dynamic{
		Shape: shape,
		call: func(args []any) (any, error) {
			r, err := f(downcast[A1](args[0]), downcast[A2](args[1]), downcast[A3](args[2]))
			if err != nil {
				return nil, NewCallError(name, err)
			}
			return r, nil
		},
	}
}

// MakeDynamic4 erases a 4-arity function.
func MakeDynamic4[A1, A2, A3, A4, R any](name string, f func(A1, A2, A3, A4) (R, error)) Dynamic {
	shape := Shape{Name: name, Args: []types.Shape{types.Of[A1](), types.Of[A2](), types.Of[A3](), types.Of[A4]()}, Ret: types.Of[R]()}
	return Dynamic{
		Shape: shape,
		call: func(args []any) (any, error) {
			r, err := f(downcast[A1](args[0]), downcast[A2](args[1]), downcast[A3](args[2]), downcast[A4](args[3]))
			if err != nil {
				return nil, NewCallError(name, err)
			}
			return r, nil
		},
	}
}

// MakeDynamic5 erases a 5-arity function, the largest arity the
// reference fn_* catalogue needs (fn_client_hello).
func MakeDynamic5[A1, A2, A3, A4, A5, R any](name string, f func(A1, A2, A3, A4, A5) (R, error)) Dynamic {
	shape := Shape{Name: name, Args: []types.Shape{
		types.Of[A1](), types.Of[A2](), types.Of[A3](), types.Of[A4](), types.Of[A5](),
	}, Ret: types.Of[R]()}
	return Dynamic{
		Shape: shape,
		call: func(args []any) (any, error) {
			r, err := f(
				downcast[A1](args[0]), downcast[A2](args[1]), downcast[A3](args[2]),
				downcast[A4](args[3]), downcast[A5](args[4]),
			)
			if err != nil {
				return nil, NewCallError(name, err)
			}
			return r, nil
		},
	}
}
