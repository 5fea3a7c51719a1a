// Package envelope carries the outcome of a fallible engine call across the
// boundary as a value plus optional error text.
//
// Go code on both sides works with (T, error). Wrap flattens that into an
// Envelope right before it is written to linear memory and Unwrap turns a
// decoded Envelope back into (T, error). When Err is set the Value is the
// zero value of T and must not be interpreted.
package envelope

import (
	"fmt"

	"github.com/wippyai/xlsx-bridge/errors"
)

// UnknownError replaces an empty error text so a failed envelope always
// carries a non-empty description.
const UnknownError = "engine operation failed without a description"

// Unit is the value of operations that produce no result.
type Unit struct{}

// Envelope is the boundary shape of a fallible result.
type Envelope[T any] struct {
	Value T
	Err   *string
}

// Failed reports whether the envelope carries an error.
func (e Envelope[T]) Failed() bool {
	return e.Err != nil
}

// Ok returns a successful envelope.
func Ok[T any](v T) Envelope[T] {
	return Envelope[T]{Value: v}
}

// Fail returns a failed envelope carrying err's text.
func Fail[T any](err error) Envelope[T] {
	text := UnknownError
	if err != nil && err.Error() != "" {
		text = err.Error()
	}
	return Envelope[T]{Err: &text}
}

// Wrap runs op and captures its outcome. A panic in op is reported as a
// failure.
func Wrap[T any](op func() (T, error)) (env Envelope[T]) {
	defer func() {
		if r := recover(); r != nil {
			env = Fail[T](fmt.Errorf("panic: %v", r))
		}
	}()

	v, err := op()
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// WrapUnit runs an operation with no result.
func WrapUnit(op func() error) Envelope[Unit] {
	return Wrap(func() (Unit, error) {
		return Unit{}, op()
	})
}

// Unwrap converts env back into (T, error).
func Unwrap[T any](env Envelope[T]) (T, error) {
	return UnwrapOp("", env)
}

// UnwrapOp is Unwrap with the name of the operation recorded on the error.
// The engine text is kept verbatim.
func UnwrapOp[T any](op string, env Envelope[T]) (T, error) {
	if env.Err != nil {
		var zero T
		return zero, errors.Engine(op, *env.Err)
	}
	return env.Value, nil
}
