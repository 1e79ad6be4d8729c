package stitch

import "context"

// The control-flow vocabulary. Every combinator takes explicit quotations
// off the stack; there are no implicit blocks. break raises the early-exit
// signal, which the nearest enclosing loop (or named word body, or the
// top-level run) converts into normal termination.

func registerFlow(rt *Runtime) {
	rt.Def("break", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		panic(earlyExit{})
	})

	rt.Def("if", 3, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		then, err := toQuotation("if", args[1])
		if err != nil {
			return nil, err
		}
		els, err := toQuotation("if", args[2])
		if err != nil {
			return nil, err
		}
		if truthy(args[0]) {
			rt.invoke(ctx, then)
		} else {
			rt.invoke(ctx, els)
		}
		return nil, nil
	})

	rt.Def("when", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		q, err := toQuotation("when", args[1])
		if err != nil {
			return nil, err
		}
		if truthy(args[0]) {
			rt.invoke(ctx, q)
		}
		return nil, nil
	})

	rt.Def("unless", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		q, err := toQuotation("unless", args[1])
		if err != nil {
			return nil, err
		}
		if !truthy(args[0]) {
			rt.invoke(ctx, q)
		}
		return nil, nil
	})

	rt.Def("times", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		n, err := toNumber("times", args[0])
		if err != nil {
			return nil, err
		}
		q, err := toQuotation("times", args[1])
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(n); i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rt.push(float64(i))
			if broke := rt.invokeCaught(ctx, q); broke {
				break
			}
		}
		return nil, nil
	})

	rt.Def("each", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		a, err := toArray("each", args[0])
		if err != nil {
			return nil, err
		}
		q, err := toQuotation("each", args[1])
		if err != nil {
			return nil, err
		}
		for _, v := range a {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			rt.push(v)
			if broke := rt.invokeCaught(ctx, q); broke {
				break
			}
		}
		return nil, nil
	})

	// map, filter, and fold read exactly one result off the target after
	// each execution; the quotation is expected to terminate normally.
	rt.Def("map", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		a, err := toArray("map", args[0])
		if err != nil {
			return nil, err
		}
		q, err := toQuotation("map", args[1])
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(a))
		for _, v := range a {
			rt.push(v)
			rt.invoke(ctx, q)
			out = append(out, rt.popIn("map"))
		}
		return []any{out}, nil
	})

	rt.Def("filter", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		a, err := toArray("filter", args[0])
		if err != nil {
			return nil, err
		}
		q, err := toQuotation("filter", args[1])
		if err != nil {
			return nil, err
		}
		var out []any
		for _, v := range a {
			rt.push(v)
			rt.invoke(ctx, q)
			if truthy(rt.popIn("filter")) {
				out = append(out, v)
			}
		}
		return []any{out}, nil
	})

	rt.Def("fold", 3, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		a, err := toArray("fold", args[0])
		if err != nil {
			return nil, err
		}
		q, err := toQuotation("fold", args[2])
		if err != nil {
			return nil, err
		}
		acc := args[1]
		for _, v := range a {
			rt.push(acc)
			rt.push(v)
			rt.invoke(ctx, q)
			acc = rt.popIn("fold")
		}
		return []any{acc}, nil
	})
}
