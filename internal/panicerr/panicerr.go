// Package panicerr converts recovered panics into inspectable errors.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Capture wraps a recovered panic value into an error carrying the panic
// stack. It must be called during panic unwinding for the stack to be
// meaningful.
func Capture(name string, e any) error {
	return panicError{name: name, e: e, stack: debug.Stack()}
}

// Recover runs f, recovering any panic as a non-nil error return.
func Recover(name string, f func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = Capture(name, e)
		}
	}()
	return f()
}

type panicError struct {
	name  string
	e     any
	stack []byte
}

func (pe panicError) Error() string {
	return fmt.Sprint(pe)
}

func (pe panicError) Format(f fmt.State, c rune) {
	if pe.name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.e)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.name, pe.e)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.stack)
	}
}

func (pe panicError) Unwrap() error {
	err, _ := pe.e.(error)
	return err
}

// IsPanic reports whether err is a captured panic.
func IsPanic(err error) bool {
	var pe panicError
	return errors.As(err, &pe)
}

// PanicStack returns a non-empty stacktrace string if err is a captured
// panic.
func PanicStack(err error) string {
	var pe panicError
	if errors.As(err, &pe) {
		return string(pe.stack)
	}
	return ""
}
