package stitch

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rtTestCases []rtTestCase

func (rtts rtTestCases) run(t *testing.T) {
	for _, rtt := range rtts {
		t.Run(rtt.name, rtt.run)
	}
}

func rtTest(name string) (rtt rtTestCase) {
	rtt.name = name
	return rtt
}

type rtTestCase struct {
	name    string
	opts    []Option
	setups  []func(t *testing.T, rt *Runtime)
	sources []string
	ops     []func(t *testing.T, rt *Runtime)
	expect  []func(t *testing.T, rt *Runtime)
	errOK   func(t *testing.T, err error)
	wantOut *string
}

func (rtt rtTestCase) withOptions(opts ...Option) rtTestCase {
	rtt.opts = append(rtt.opts, opts...)
	return rtt
}

// setup runs before any source, for host-bridge style preparation.
func (rtt rtTestCase) setup(fn func(t *testing.T, rt *Runtime)) rtTestCase {
	rtt.setups = append(rtt.setups, fn)
	return rtt
}

func (rtt rtTestCase) source(srcs ...string) rtTestCase {
	rtt.sources = append(rtt.sources, srcs...)
	return rtt
}

// do runs after the sources, for host-bridge calls and ad hoc checks.
func (rtt rtTestCase) do(op func(t *testing.T, rt *Runtime)) rtTestCase {
	rtt.ops = append(rtt.ops, op)
	return rtt
}

func (rtt rtTestCase) expectStack(values ...any) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		assert.Equal(t, values, rt.Stack(), "expected stack values")
	})
	return rtt
}

func (rtt rtTestCase) expectOutput(s string) rtTestCase {
	rtt.wantOut = &s
	return rtt
}

func (rtt rtTestCase) expectAttr(word, attr string, value any) rtTestCase {
	rtt.expect = append(rtt.expect, func(t *testing.T, rt *Runtime) {
		w, ok := rt.Lookup(word)
		if !assert.True(t, ok, "expected word %q to be defined", word) {
			return
		}
		got, ok := w.Attr(attr)
		if !assert.True(t, ok, "expected word %q to have attribute %q", word, attr) {
			return
		}
		assert.Equal(t, value, got, "expected attribute %q on %q", attr, word)
	})
	return rtt
}

func (rtt rtTestCase) expectError(check func(t *testing.T, err error)) rtTestCase {
	rtt.errOK = check
	return rtt
}

func (rtt rtTestCase) expectErrorIs(want error) rtTestCase {
	return rtt.expectError(func(t *testing.T, err error) {
		assert.ErrorIs(t, err, want)
	})
}

func (rtt rtTestCase) expectUnderflow() rtTestCase {
	return rtt.expectError(func(t *testing.T, err error) {
		var under UnderflowError
		assert.True(t, errors.As(err, &under), "expected underflow, got %v", err)
	})
}

func (rtt rtTestCase) expectUnknownWord(name string) rtTestCase {
	return rtt.expectError(func(t *testing.T, err error) {
		var unknown UnknownWordError
		if assert.True(t, errors.As(err, &unknown), "expected unknown word, got %v", err) {
			assert.Equal(t, name, string(unknown))
		}
	})
}

func (rtt rtTestCase) run(t *testing.T) {
	var out bytes.Buffer
	rt := New(append([]Option{WithOutput(&out)}, rtt.opts...)...)
	defer rt.Close()
	ctx := context.Background()

	for _, setup := range rtt.setups {
		setup(t, rt)
	}

	var err error
	for _, src := range rtt.sources {
		if err = rt.Run(ctx, src); err != nil {
			break
		}
	}
	if rtt.errOK != nil {
		require.Error(t, err, "expected a run error")
		rtt.errOK(t, err)
	} else {
		require.NoError(t, err, "unexpected run error")
	}

	for _, op := range rtt.ops {
		op(t, rt)
	}
	for _, expect := range rtt.expect {
		expect(t, rt)
	}
	if rtt.wantOut != nil {
		assert.Equal(t, *rtt.wantOut, out.String(), "expected output")
	}
}

func Test_Runtime(t *testing.T) {
	rtTestCases{
		rtTest("literals push").
			source("1 2 3").
			expectStack(1.0, 2.0, 3.0),

		rtTest("dup").
			source("1 2 dup").
			expectStack(1.0, 2.0, 2.0),

		rtTest("underflow").
			source("dup").
			expectUnderflow(),

		rtTest("define and call").
			source(": inc 1 + ;", "5 inc").
			expectStack(6.0),

		rtTest("definition left open").
			source(": inc 1 +").
			expectErrorIs(ErrUnterminated),

		rtTest("unknown word").
			source("frobnicate").
			expectUnknownWord("frobnicate"),

		rtTest("bare strings option").
			withOptions(WithBareStrings(true)).
			source("frobnicate").
			expectStack("frobnicate"),

		rtTest("numeric fallback").
			source("-12.5").
			expectStack(-12.5),

		rtTest("tick literals").
			source("' foo 'bar '42").
			expectStack("foo", "bar", 42.0),

		rtTest("string literal").
			source(`"positive"`).
			expectStack("positive"),

		rtTest("string spaces are content").
			source(`" hello world "`).
			expectStack(" hello world "),

		rtTest("string with a trailing space").
			source(`"hello "`).
			expectStack("hello "),

		rtTest("string with interior and trailing spaces").
			source(`"a  b "`).
			expectStack("a  b "),

		rtTest("string left open").
			source(`"never closed`).
			expectErrorIs(ErrUnterminated),

		rtTest("string compiles into body").
			source(`: greet "hi" ;`, "greet").
			expectStack("hi"),

		rtTest("comment").
			source("1 ( this is ignored ) 2").
			expectStack(1.0, 2.0),

		rtTest("comment inside definition").
			source(": f 1 ( a note ) 2 ;", "f").
			expectStack(1.0, 2.0),

		rtTest("quotation is a value").
			source("[ 1 2 ]").
			do(func(t *testing.T, rt *Runtime) {
				vals := rt.Stack()
				require.Len(t, vals, 1)
				q, ok := vals[0].(*Word)
				require.True(t, ok, "expected a quotation on the stack, got %v", vals[0])
				assert.Equal(t, KindCompiled, q.Kind)
				assert.Len(t, q.Body(), 2)
			}),

		rtTest("call").
			source("[ 1 2 + ] call").
			expectStack(3.0),

		rtTest("nested quotations").
			source("[ [ 5 ] call ] call").
			expectStack(5.0),

		rtTest("quotation inside a quotation stays a value").
			source("[ [ 5 ] ] call").
			do(func(t *testing.T, rt *Runtime) {
				vals := rt.Stack()
				require.Len(t, vals, 1)
				q, ok := vals[0].(*Word)
				require.True(t, ok, "expected an uncalled quotation, got %v", vals[0])
				assert.Equal(t, KindCompiled, q.Kind)
			}),

		rtTest("quotation in a body is not executed at define time").
			source(": pair [ 1 ] [ 2 ] ;", "pair call swap call").
			expectStack(2.0, 1.0),

		rtTest("quotation captured inside definition").
			source(": square-quote [ dup * ] ;", "3 square-quote call").
			expectStack(9.0),

		rtTest("redefinition replaces entry and attributes").
			source(": f 1 ; cmd doc{ old }", ": f 2 ;", "f").
			expectStack(2.0).
			do(func(t *testing.T, rt *Runtime) {
				w, ok := rt.Lookup("f")
				require.True(t, ok)
				_, hasCmd := w.Attr("command")
				assert.False(t, hasCmd, "redefinition must not inherit attributes")
			}),

		rtTest("variables").
			source("var count", "42 'count !", "count").
			expectStack(42.0),

		rtTest("variable updated through a word").
			source("var count", "0 'count !", ": bump count 1 + 'count ! ;", "bump bump", "count").
			expectStack(2.0),

		rtTest("console words").
			source(`3 . "hey" log`).
			expectOutput("3\nhey\n"),

		rtTest("booleans").
			source("true false nil").
			expectStack(true, false, nil),

		rtTest("comparison and logic").
			source("1 2 < 2 2 >= and").
			expectStack(true),

		rtTest("user immediate word runs during compilation").
			source(": now immediate 42 ;", ": f now ;", "f").
			expectStack(42.0),

		rtTest("runFresh leaves ambient stack alone").
			source(": scratch drop drop drop ;", "1 2").
			do(func(t *testing.T, rt *Runtime) {
				err := rt.RunFresh(context.Background(), "scratch", 10.0, 20.0, 30.0)
				require.NoError(t, err)
			}).
			expectStack(1.0, 2.0),

		rtTest("runFresh cannot see ambient values").
			source("1").
			do(func(t *testing.T, rt *Runtime) {
				err := rt.RunFresh(context.Background(), "dup")
				var under UnderflowError
				require.True(t, errors.As(err, &under), "expected underflow, got %v", err)
			}).
			expectStack(1.0),
	}.run(t)
}

// the two-source split above ends with stack [1 2]; spell the isolation
// property out once more, end to end, the way a host would drive it.
func Test_runFresh_isolation(t *testing.T) {
	rt := New()
	defer rt.Close()
	ctx := context.Background()

	require.NoError(t, rt.Run(ctx, ": plus + ;"))
	require.NoError(t, rt.Run(ctx, "1 2 3"))
	before := rt.Stack()

	require.NoError(t, rt.RunFresh(ctx, "plus", 40.0, 2.0))
	assert.Equal(t, before, rt.Stack(), "ambient stack must be unchanged")
}

func Test_run_contextCanceled(t *testing.T) {
	rt := New()
	defer rt.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := rt.Run(ctx, "1 2 3")
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_find(t *testing.T) {
	rt := New()
	defer rt.Close()

	w, err := rt.Find("dup")
	require.NoError(t, err)
	assert.Equal(t, KindNative, w.Kind)

	w, err = rt.Find("12")
	require.NoError(t, err)
	assert.Equal(t, KindLiteral, w.Kind)
	assert.Equal(t, 12.0, w.Value())

	_, err = rt.Find("nope")
	var unknown UnknownWordError
	require.True(t, errors.As(err, &unknown))
}

func Test_runtimes_are_independent(t *testing.T) {
	ctx := context.Background()
	a, b := New(), New()
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.Run(ctx, ": only-in-a 1 ;"))
	_, ok := b.Lookup("only-in-a")
	assert.False(t, ok, "dictionaries must not be shared")
}
