package stitch

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// WordKind is the closed set of word variants. Dispatch is a switch over
// the kind tag; there is no open-ended word interface to extend.
type WordKind int

const (
	// KindLiteral pushes its captured value.
	KindLiteral WordKind = iota
	// KindNative pops its declared arity of arguments, calls a host
	// function, and pushes the results.
	KindNative
	// KindCompiled executes an ordered body of sub-terms.
	KindCompiled
	// KindWrapped pushes an opaque host value.
	KindWrapped
	// KindVariable pushes its mutable cell; ! assigns it.
	KindVariable
)

func (k WordKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindNative:
		return "native"
	case KindCompiled:
		return "compiled"
	case KindWrapped:
		return "wrapped"
	case KindVariable:
		return "variable"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// NativeFunc implements a Native word. args holds the word's declared
// arity of values popped from the current target, deepest first. Returned
// values are pushed back in order. Blocking host work happens in here and
// nowhere else in the engine.
type NativeFunc func(ctx context.Context, rt *Runtime, args []any) ([]any, error)

// Word is a dictionary entry: a named (or, for quotations, anonymous)
// executable or data-holding unit. Which payload fields are live depends
// on Kind.
type Word struct {
	Name string
	Kind WordKind

	attrs *orderedmap.OrderedMap[string, any]

	value any        // KindLiteral, KindWrapped
	cell  any        // KindVariable
	arity int        // KindNative
	fn    NativeFunc // KindNative
	body  []any      // KindCompiled: *Word or literal values
}

func newWord(name string, kind WordKind) *Word {
	w := &Word{Name: name, Kind: kind, attrs: orderedmap.New[string, any]()}
	w.attrs.Set("immediate", false)
	return w
}

func literalWord(v any) *Word {
	w := newWord("", KindLiteral)
	w.value = v
	return w
}

// Immediate reports whether the word runs even while a definition is open,
// rather than being appended to the body under construction.
func (w *Word) Immediate() bool {
	v, _ := w.attrs.Get("immediate")
	b, _ := v.(bool)
	return b
}

// Attr returns a single attribute value.
func (w *Word) Attr(name string) (any, bool) { return w.attrs.Get(name) }

// SetAttr sets one attribute, keeping the insertion order of the rest.
func (w *Word) SetAttr(name string, v any) { w.attrs.Set(name, v) }

// Attrs returns a copy of the attribute map.
func (w *Word) Attrs() map[string]any {
	m := make(map[string]any, w.attrs.Len())
	for p := w.attrs.Oldest(); p != nil; p = p.Next() {
		m[p.Key] = p.Value
	}
	return m
}

// AttrNames returns attribute names in insertion order.
func (w *Word) AttrNames() []string {
	names := make([]string, 0, w.attrs.Len())
	for p := w.attrs.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	return names
}

// Body returns the compiled body terms of a Compiled word.
func (w *Word) Body() []any { return w.body }

// Value returns the word's data payload: the captured value of a literal,
// the host value of a wrapped word, or the current cell of a variable.
func (w *Word) Value() any {
	if w.Kind == KindVariable {
		return w.cell
	}
	return w.value
}

func (w *Word) String() string {
	if w.Name != "" {
		return w.Name
	}
	if w.Kind == KindCompiled {
		return "[quotation]"
	}
	return fmt.Sprintf("<%v>", w.Kind)
}
