package stitch

import (
	"context"
	"fmt"
)

// The syntax vocabulary: the immediate words that open and close
// definitions and quotations, tick literals, and comments. String literals
// are finished by the engine itself (see Runtime.exec) because their
// opening quote glues onto the first content token.

func registerSyntax(rt *Runtime) {
	rt.defImmediate(":", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		name, err := rt.parseToken("definition name")
		if err != nil {
			return nil, err
		}
		w := newWord(name, KindCompiled)
		rt.beginDef(w)
		// the word under construction is annotatable right away
		rt.last = w
		return nil, nil
	})

	rt.defImmediate(";", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		def, body, err := rt.endDef(false)
		if err != nil {
			return nil, err
		}
		def.word.body = body.Values()
		rt.define(def.word)
		return nil, nil
	})

	rt.defImmediate("[", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		rt.beginDef(nil)
		return nil, nil
	})

	rt.defImmediate("]", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		_, body, err := rt.endDef(true)
		if err != nil {
			return nil, err
		}
		q := newWord("", KindCompiled)
		q.body = body.Values()
		rt.push(q)
		return nil, nil
	})

	rt.defImmediate("'", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		tok, err := rt.parseToken("tick literal")
		if err != nil {
			return nil, err
		}
		rt.push(barewordValue(tok))
		return nil, nil
	})

	rt.defImmediate("(", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		// comments run to the closing paren, or to end of input
		if rt.buf != nil {
			rt.buf.until(func(r rune) bool { return r == ')' })
		}
		return nil, nil
	})

	// immediate marks the last defined word immediate, so it executes even
	// while a definition is open.
	rt.defImmediate("immediate", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		w, err := rt.lastDefined()
		if err != nil {
			return nil, err
		}
		w.SetAttr("immediate", true)
		return nil, nil
	})
}

// beginDef opens a definition (w non-nil) or quotation (w nil), pushing a
// fresh target for its body to accumulate on.
func (rt *Runtime) beginDef(w *Word) {
	rt.defs = append(rt.defs, openDef{word: w, quoted: w == nil})
	rt.pushTarget(NewStack())
}

// endDef closes the innermost open form, which must match the closer kind,
// and returns it along with its accumulated body.
func (rt *Runtime) endDef(quoted bool) (openDef, *Stack, error) {
	if len(rt.defs) == 0 || rt.defs[len(rt.defs)-1].quoted != quoted {
		closer := ";"
		if quoted {
			closer = "]"
		}
		return openDef{}, nil, fmt.Errorf("unexpected %q", closer)
	}
	def := rt.defs[len(rt.defs)-1]
	rt.defs = rt.defs[:len(rt.defs)-1]
	return def, rt.popTarget(), nil
}
