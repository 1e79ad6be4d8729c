package stitch

import (
	"context"
	"fmt"
	"math"
	"reflect"
)

// The kernel vocabulary: stack shuffling, arithmetic, comparison, logic,
// console logging, variables, and quotation calling. The runtime has no
// built-in I/O beyond the console words; everything else reaches it
// through the host bridge.

func registerKernel(rt *Runtime) {
	defConst := func(name string, v any) {
		w := newWord(name, KindLiteral)
		w.value = v
		rt.define(w)
	}
	defConst("true", true)
	defConst("false", false)
	defConst("nil", nil)

	rt.Def("dup", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{args[0], args[0]}, nil
	})
	rt.Def("drop", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return nil, nil
	})
	rt.Def("swap", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{args[1], args[0]}, nil
	})
	rt.Def("over", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{args[0], args[1], args[0]}, nil
	})

	defNum2 := func(name string, f func(a, b float64) any) {
		rt.Def(name, 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
			a, err := toNumber(name, args[0])
			if err != nil {
				return nil, err
			}
			b, err := toNumber(name, args[1])
			if err != nil {
				return nil, err
			}
			return []any{f(a, b)}, nil
		})
	}
	defNum2("+", func(a, b float64) any { return a + b })
	defNum2("-", func(a, b float64) any { return a - b })
	defNum2("*", func(a, b float64) any { return a * b })
	defNum2("/", func(a, b float64) any { return a / b })
	defNum2("mod", func(a, b float64) any { return math.Mod(a, b) })
	defNum2("<", func(a, b float64) any { return a < b })
	defNum2(">", func(a, b float64) any { return a > b })
	defNum2("<=", func(a, b float64) any { return a <= b })
	defNum2(">=", func(a, b float64) any { return a >= b })

	rt.Def("neg", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		n, err := toNumber("neg", args[0])
		if err != nil {
			return nil, err
		}
		return []any{-n}, nil
	})

	rt.Def("=", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{reflect.DeepEqual(args[0], args[1])}, nil
	})
	rt.Def("!=", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{!reflect.DeepEqual(args[0], args[1])}, nil
	})

	rt.Def("not", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{!truthy(args[0])}, nil
	})
	rt.Def("and", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{truthy(args[0]) && truthy(args[1])}, nil
	})
	rt.Def("or", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		return []any{truthy(args[0]) || truthy(args[1])}, nil
	})

	rt.Def("len", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		switch v := args[0].(type) {
		case string:
			return []any{float64(len([]rune(v)))}, nil
		case []any:
			return []any{float64(len(v))}, nil
		}
		return nil, typeError{op: "len", want: "string or array", got: args[0]}
	})

	logValue := func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		_, err := fmt.Fprintln(rt.out, formatValue(args[0]))
		return nil, err
	}
	rt.Def("log", 1, logValue)
	rt.Def(".", 1, logValue)

	rt.Def("call", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		q, err := toQuotation("call", args[0])
		if err != nil {
			return nil, err
		}
		rt.invoke(ctx, q)
		return nil, nil
	})

	// array materializes a quotation's results: it runs the quotation on a
	// fresh target and pushes everything it left there as one array value.
	rt.Def("array", 1, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		q, err := toQuotation("array", args[0])
		if err != nil {
			return nil, err
		}
		rt.pushTarget(NewStack())
		rt.invoke(ctx, q)
		return []any{rt.popTarget().Values()}, nil
	})

	// var declares a named mutable cell; the name pushes the cell's value,
	// and ! assigns it: 42 'answer !
	rt.defImmediate("var", 0, func(ctx context.Context, rt *Runtime, _ []any) ([]any, error) {
		name, err := rt.parseToken("variable name")
		if err != nil {
			return nil, err
		}
		rt.define(newWord(name, KindVariable))
		return nil, nil
	})

	rt.Def("!", 2, func(ctx context.Context, rt *Runtime, args []any) ([]any, error) {
		name, ok := args[1].(string)
		if !ok {
			return nil, typeError{op: "!", want: "variable name", got: args[1]}
		}
		w, ok := rt.dict[name]
		if !ok || w.Kind != KindVariable {
			return nil, fmt.Errorf("! needs a variable, %q is not one", name)
		}
		w.cell = args[0]
		return nil, nil
	})
}
