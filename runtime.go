package stitch

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/stitchlang/stitch/internal/panicerr"
)

// Runtime is one independent scripting runtime: a dictionary of words, a
// data stack, a stack of write targets, the chron table, and the event
// registry. Runtimes share nothing; reset by discarding one and creating
// another. A Runtime is not safe for concurrent use.
type Runtime struct {
	dict map[string]*Word
	last *Word

	targets []*Stack
	defs    []openDef

	buf *scanner

	out         io.Writer
	logfn       func(mess string, args ...any)
	bareStrings bool

	events eventRegistry
	hookc  chan hookCall

	chronMu sync.Mutex
	chrons  map[string]*chron
}

// openDef is a definition or quotation under construction. Its body
// accumulates on the pushed target stack; word is nil for quotations.
type openDef struct {
	word   *Word
	quoted bool
}

// New creates a runtime with the kernel, syntax, control-flow, and
// attribute vocabularies installed.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		dict:    make(map[string]*Word),
		targets: []*Stack{NewStack()},
		chrons:  make(map[string]*chron),
		hookc:   make(chan hookCall, hookQueueDepth),
		out:     io.Discard,
	}
	registerKernel(rt)
	registerSyntax(rt)
	registerFlow(rt)
	registerAttrs(rt)
	Options(opts...).apply(rt)
	return rt
}

// Close stops every chron. The runtime holds no other external resources.
func (rt *Runtime) Close() error {
	rt.StopAllChrons()
	return nil
}

func (rt *Runtime) logf(mess string, args ...any) {
	if rt.logfn != nil {
		rt.logfn(mess, args...)
	}
}

func (rt *Runtime) withLogPrefix(prefix string) func() {
	logfn := rt.logfn
	rt.logfn = func(mess string, args ...any) {
		logfn(prefix+mess, args...)
	}
	return func() {
		rt.logfn = logfn
	}
}

func (rt *Runtime) halt(err error) {
	rt.logf("halt error: %v", err)
	panic(haltError{err})
}

func (rt *Runtime) haltif(err error) {
	if err != nil {
		rt.halt(err)
	}
}

//// targets

func (rt *Runtime) target() *Stack { return rt.targets[len(rt.targets)-1] }

func (rt *Runtime) push(v any) { rt.target().Push(v) }

func (rt *Runtime) pop() any { return rt.popIn("") }

func (rt *Runtime) popIn(op string) any {
	v, err := rt.target().Pop()
	if err != nil {
		rt.halt(UnderflowError{Op: op})
	}
	return v
}

func (rt *Runtime) pushTarget(s *Stack) { rt.targets = append(rt.targets, s) }

func (rt *Runtime) popTarget() *Stack {
	// the base stack is never popped
	if len(rt.targets) <= 1 {
		rt.halt(UnderflowError{Op: "target"})
	}
	s := rt.target()
	rt.targets = rt.targets[:len(rt.targets)-1]
	return s
}

// Stack returns a copy of the ambient (base) data stack, deepest first.
func (rt *Runtime) Stack() []any { return rt.targets[0].Values() }

//// dictionary

// define registers w, replacing any existing entry wholesale, accumulated
// attributes included, and moves the last-defined pointer.
func (rt *Runtime) define(w *Word) {
	rt.dict[w.Name] = w
	rt.last = w
}

// Lookup returns the registered word, if any.
func (rt *Runtime) Lookup(name string) (*Word, bool) {
	w, ok := rt.dict[name]
	return w, ok
}

// Words returns all registered word names, sorted.
func (rt *Runtime) Words() []string {
	names := make([]string, 0, len(rt.dict))
	for name := range rt.dict {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (rt *Runtime) lastDefined() (*Word, error) {
	if rt.last == nil {
		return nil, fmt.Errorf("no word to annotate")
	}
	return rt.last, nil
}

// Find resolves a name: dictionary entry first, then numeric literal, then
// (when the bare-strings option is on) the name itself as a string value.
func (rt *Runtime) Find(name string) (*Word, error) { return rt.find(name) }

func (rt *Runtime) find(name string) (*Word, error) {
	if w, ok := rt.dict[name]; ok {
		return w, nil
	}
	if n, err := strconv.ParseFloat(name, 64); err == nil {
		return literalWord(n), nil
	}
	if rt.bareStrings {
		return literalWord(name), nil
	}
	return nil, UnknownWordError(name)
}

//// execution

// Run executes source text against the ambient stack, token by token,
// until the buffer is exhausted. Fatal errors abort the run and return;
// an uncaught early-exit signal is a graceful stop.
func (rt *Runtime) Run(ctx context.Context, src string) error {
	return rt.recovered("run", func() {
		rt.buf = newScanner(src)
		for {
			tok, ok := rt.buf.token()
			if !ok {
				break
			}
			rt.haltif(ctx.Err())
			rt.exec(ctx, tok)
		}
		if len(rt.defs) > 0 {
			rt.halt(ErrUnterminated)
		}
	})
}

// RunFresh resolves name and runs it against a brand-new stack pre-loaded
// with values, in interpret mode, leaving the ambient stack and any open
// compilation untouched. Results are discarded. Host-initiated invocations
// that can overlap in time (commands, keybindings, hook handlers) should
// come through here so they cannot see each other's operands.
func (rt *Runtime) RunFresh(ctx context.Context, name string, values ...any) error {
	w, err := rt.find(name)
	if err != nil {
		return err
	}
	return rt.RunWord(ctx, w, values...)
}

// RunWord is RunFresh for an already-resolved word.
func (rt *Runtime) RunWord(ctx context.Context, w *Word, values ...any) error {
	return rt.recovered("runFresh", func() {
		defs := rt.defs
		rt.defs = nil // force interpret mode
		rt.pushTarget(NewStack(values...))
		defer func() {
			rt.targets = rt.targets[:len(rt.targets)-1]
			rt.defs = defs
		}()
		rt.interp(ctx, w)
	})
}

// recovered converts engine panics back into errors: haltError unwraps to
// its cause, an escaped early-exit is a graceful stop, and anything else
// is a captured panic. On failure, targets and open definitions are
// unwound to their depth at entry.
func (rt *Runtime) recovered(name string, f func()) (err error) {
	baseTargets, baseDefs := len(rt.targets), len(rt.defs)
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		switch v := e.(type) {
		case earlyExit:
			// stopped early; not a failure
		case haltError:
			err = v.error
		default:
			err = panicerr.Capture(name, v)
		}
		if len(rt.targets) > baseTargets {
			rt.targets = rt.targets[:baseTargets]
		}
		if len(rt.defs) > baseDefs {
			rt.defs = rt.defs[:baseDefs]
		}
	}()
	f()
	return nil
}

// exec resolves one token and runs it. Tokens opening with a quote or a
// tick are finished here against the buffer, since their extent is not
// whitespace-delimited.
func (rt *Runtime) exec(ctx context.Context, tok string) {
	if strings.HasPrefix(tok, `"`) {
		rt.push(rt.finishString(tok))
		return
	}
	if len(tok) > 1 && strings.HasPrefix(tok, "'") {
		rt.push(barewordValue(tok[1:]))
		return
	}
	w, err := rt.find(tok)
	rt.haltif(err)
	rt.runWord(ctx, w)
}

// finishString completes a string literal from a token that opened one.
// The content is exactly the text between the quotes; the one delimiter
// rune that split the opening token off comes back as a single space.
func (rt *Runtime) finishString(tok string) string {
	if len(tok) > 1 && strings.HasSuffix(tok, `"`) {
		return tok[1 : len(tok)-1]
	}
	rest, ok := rt.buf.until(isQuote)
	if !ok {
		rt.halt(fmt.Errorf("string literal: %w", ErrUnterminated))
	}
	return tok[1:] + " " + rest
}

// parseToken consumes the next whitespace-delimited token from the input
// buffer on behalf of a syntax word.
func (rt *Runtime) parseToken(op string) (string, error) {
	if rt.buf == nil {
		return "", fmt.Errorf("%v: no input buffer", op)
	}
	tok, ok := rt.buf.token()
	if !ok {
		return "", fmt.Errorf("%v: %w", op, ErrUnterminated)
	}
	return tok, nil
}

// parseUntil consumes buffered input up to and past the delimiter rune.
func (rt *Runtime) parseUntil(op string, delim rune) (string, error) {
	if rt.buf == nil {
		return "", fmt.Errorf("%v: no input buffer", op)
	}
	body, ok := rt.buf.until(func(r rune) bool { return r == delim })
	if !ok {
		return "", fmt.Errorf("%v: %w", op, ErrUnterminated)
	}
	return body, nil
}

func barewordValue(tok string) any {
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return n
	}
	return tok
}

func (rt *Runtime) compiling() bool { return len(rt.defs) > 0 }

// runWord dispatches per the word's contract: compile mode appends the
// word to the open body unless it is immediate; otherwise it interprets.
func (rt *Runtime) runWord(ctx context.Context, w *Word) {
	if rt.compiling() && !w.Immediate() {
		rt.logf("compile %v", w)
		rt.push(w)
		return
	}
	rt.interp(ctx, w)
}

func (rt *Runtime) interp(ctx context.Context, w *Word) {
	rt.logf("interp %v %v", w.Kind, w)
	switch w.Kind {
	case KindLiteral, KindWrapped:
		rt.push(w.value)
	case KindVariable:
		rt.push(w.cell)
	case KindNative:
		args := make([]any, w.arity)
		for i := w.arity - 1; i >= 0; i-- {
			args[i] = rt.popIn(w.Name)
		}
		res, err := w.fn(ctx, rt, args)
		rt.haltif(err)
		for _, v := range res {
			rt.push(v)
		}
	case KindCompiled:
		if w.Name == "" {
			// a quotation reached as a term is a value, not a call;
			// only call and the combinators execute quotations
			rt.push(w)
		} else {
			// a named body is a break barrier
			rt.invokeCaught(ctx, w)
		}
	default:
		rt.halt(fmt.Errorf("invalid word kind %v", w.Kind))
	}
}

// invoke executes a compiled body term by term. Early-exit propagation is
// the caller's concern: loops and named bodies catch it, while quotations
// are transparent so a break inside a branch can stop the enclosing loop.
func (rt *Runtime) invoke(ctx context.Context, w *Word) {
	if rt.logfn != nil {
		defer rt.withLogPrefix("\t")()
	}
	for _, term := range w.body {
		rt.haltif(ctx.Err())
		if sub, ok := term.(*Word); ok {
			rt.interp(ctx, sub)
		} else {
			rt.push(term)
		}
	}
}

// invokeCaught runs a body, converting an early-exit raised inside it into
// normal termination. It reports whether the body broke.
func (rt *Runtime) invokeCaught(ctx context.Context, w *Word) (broke bool) {
	depth := len(rt.targets)
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(earlyExit); ok {
				// unwind any scratch targets the broken body left behind
				rt.targets = rt.targets[:depth]
				broke = true
				return
			}
			panic(e)
		}
	}()
	rt.invoke(ctx, w)
	return false
}

//// value helpers

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	}
	return true
}

func toNumber(op string, v any) (float64, error) {
	n, ok := v.(float64)
	if !ok {
		return 0, typeError{op: op, want: "number", got: v}
	}
	return n, nil
}

func toArray(op string, v any) ([]any, error) {
	a, ok := v.([]any)
	if !ok {
		return nil, typeError{op: op, want: "array", got: v}
	}
	return a, nil
}

func toQuotation(op string, v any) (*Word, error) {
	q, ok := v.(*Word)
	if !ok || q.Kind != KindCompiled {
		return nil, typeError{op: op, want: "quotation", got: v}
	}
	return q, nil
}

// FormatValue renders a value the way the console words print it.
func FormatValue(v any) string { return formatValue(v) }

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatValue(e))
		}
		sb.WriteByte(']')
		return sb.String()
	}
	return fmt.Sprint(v)
}
