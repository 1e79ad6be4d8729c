package stitch

import (
	"context"
	"strconv"
	"strings"
)

// The attribute vocabulary: immediate words that annotate the most
// recently defined word with host-visible metadata. They have no data
// stack effect, and they work both inside an open definition (the word
// under construction is the last defined) and after it closes.

func registerAttrs(rt *Runtime) {
	flagAttr := func(name, attr string) {
		rt.defImmediate(name, 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
			w, err := rt.lastDefined()
			if err != nil {
				return nil, err
			}
			w.SetAttr(attr, true)
			return nil, nil
		})
	}
	flagAttr("cmd", "command")
	flagAttr("setting", "setting")

	tokenAttr := func(name, attr string) {
		rt.defImmediate(name, 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
			w, err := rt.lastDefined()
			if err != nil {
				return nil, err
			}
			tok, err := rt.parseToken(name + " argument")
			if err != nil {
				return nil, err
			}
			w.SetAttr(attr, tok)
			return nil, nil
		})
	}
	tokenAttr("key:", "key")
	tokenAttr("menu:", "menu")
	tokenAttr("icon:", "icon")
	tokenAttr("when:", "when")
	tokenAttr("category:", "category")
	tokenAttr("on:", "on")
	tokenAttr("type:", "type")

	numberAttr := func(name, attr string) {
		rt.defImmediate(name, 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
			w, err := rt.lastDefined()
			if err != nil {
				return nil, err
			}
			tok, err := rt.parseToken(name + " argument")
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, typeError{op: name, want: "number", got: tok}
			}
			w.SetAttr(attr, n)
			return nil, nil
		})
	}
	numberAttr("priority:", "priority")
	numberAttr("min:", "min")
	numberAttr("max:", "max")
	numberAttr("step:", "step")

	rt.defImmediate("choices:", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		w, err := rt.lastDefined()
		if err != nil {
			return nil, err
		}
		tok, err := rt.parseToken("choices: argument")
		if err != nil {
			return nil, err
		}
		choices := strings.Split(tok, ",")
		w.SetAttr("choices", choices)
		return nil, nil
	})

	rt.defImmediate("doc{", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		w, err := rt.lastDefined()
		if err != nil {
			return nil, err
		}
		doc, err := rt.parseUntil("doc block", '}')
		if err != nil {
			return nil, err
		}
		w.SetAttr("doc", strings.TrimSpace(doc))
		return nil, nil
	})

	// every: wires the word to a chron under its own name: the interval
	// lands in the attributes, the hook names the event each tick emits.
	rt.defImmediate("every:", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		w, err := rt.lastDefined()
		if err != nil {
			return nil, err
		}
		tok, err := rt.parseToken("every: argument")
		if err != nil {
			return nil, err
		}
		d, err := ParseInterval(tok)
		if err != nil {
			return nil, err
		}
		w.SetAttr("interval", tok)
		w.SetAttr("hook", "chron:"+w.Name)
		rt.startChron(w.Name, d)
		return nil, nil
	})
}
