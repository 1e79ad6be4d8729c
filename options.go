package stitch

import "io"

// Option configures a Runtime under construction.
type Option interface{ apply(rt *Runtime) }

// Options combines options into one.
func Options(opts ...Option) Option { return optionList(opts) }

type optionList []Option

func (opts optionList) apply(rt *Runtime) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(rt)
		}
	}
}

type optionFunc func(rt *Runtime)

func (f optionFunc) apply(rt *Runtime) { f(rt) }

// WithOutput sets the writer the console words (log and .) print to.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(rt *Runtime) { rt.out = w })
}

// WithLogf enables trace logging through the given printf-like function.
func WithLogf(logfn func(mess string, args ...any)) Option {
	return optionFunc(func(rt *Runtime) { rt.logfn = logfn })
}

// WithEmit sets the external event callback that Emit (and every chron
// tick) forwards to. Without one, emitted events with no registered
// handler vanish silently.
func WithEmit(fn EmitFunc) Option {
	return optionFunc(func(rt *Runtime) { rt.events.external = fn })
}

// WithBareStrings makes unresolved tokens fall back to themselves as
// string values instead of failing with an unknown word error.
func WithBareStrings(enabled bool) Option {
	return optionFunc(func(rt *Runtime) { rt.bareStrings = enabled })
}
