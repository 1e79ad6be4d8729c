package stitch

import (
	"errors"
	"fmt"
)

// ErrUnterminated reports source text that ended with a definition,
// quotation, or string still open. Line-oriented hosts can use it to
// prompt for more input.
var ErrUnterminated = errors.New("source ended inside an open form")

// UnderflowError reports a read from an empty stack.
type UnderflowError struct{ Op string }

func (e UnderflowError) Error() string {
	if e.Op == "" {
		return "stack underflow"
	}
	return fmt.Sprintf("stack underflow in %v", e.Op)
}

// UnknownWordError reports a token that resolved to neither a dictionary
// entry nor a numeric literal.
type UnknownWordError string

func (name UnknownWordError) Error() string {
	return fmt.Sprintf("unknown word %q", string(name))
}

// IntervalError reports a malformed chron interval spec.
type IntervalError string

func (spec IntervalError) Error() string {
	return fmt.Sprintf("invalid interval %q", string(spec))
}

type typeError struct {
	op   string
	want string
	got  any
}

func (e typeError) Error() string {
	return fmt.Sprintf("%v: want %v, got %v", e.op, e.want, formatValue(e.got))
}

// haltError carries a fatal runtime error out of the engine as a panic;
// Run and RunFresh unwrap it back into an error at the API boundary.
type haltError struct{ error }

func (err haltError) Error() string { return fmt.Sprintf("halted: %v", err.error) }
func (err haltError) Unwrap() error { return err.error }

// earlyExit is the unwind signal raised by break. It is not a failure:
// loops and named word bodies convert it into normal termination, and Run
// treats an uncaught one as a graceful stop.
type earlyExit struct{}

func (earlyExit) Error() string { return "early exit" }
