package stitch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_flow(t *testing.T) {
	rtTestCases{
		rtTest("if truthy").
			source(`5 1 [ "positive" ] [ "non-positive" ] if`).
			expectStack(5.0, "positive"),

		rtTest("if falsy runs second quotation only").
			source(`5 0 [ "positive" ] [ "non-positive" ] if`).
			expectStack(5.0, "non-positive"),

		rtTest("if false bool").
			source(`false [ 1 ] [ 2 ] if`).
			expectStack(2.0),

		rtTest("if empty string is falsy").
			source(`"" [ 1 ] [ 2 ] if`).
			expectStack(2.0),

		rtTest("when truthy").
			source("1 [ 10 ] when").
			expectStack(10.0),

		rtTest("when falsy").
			source("0 [ 10 ] when").
			expectStack(),

		rtTest("unless").
			source("0 [ 10 ] unless").
			expectStack(10.0),

		rtTest("times pushes the index").
			source("3 [ ] times").
			expectStack(0.0, 1.0, 2.0),

		rtTest("times accumulates through a variable").
			source("var total", "0 'total !", "4 [ total + 'total ! ] times", "total").
			expectStack(6.0),

		rtTest("each").
			source("[ 10 20 ] array [ 1 + ] each").
			expectStack(11.0, 21.0),

		rtTest("map").
			source("[ 1 2 3 ] array [ dup * ] map").
			expectStack([]any{1.0, 4.0, 9.0}),

		rtTest("filter").
			source("[ 1 2 3 4 ] array [ 2 mod 0 = ] filter").
			expectStack([]any{2.0, 4.0}),

		rtTest("fold").
			source("[ 1 2 3 ] array 0 [ + ] fold").
			expectStack(6.0),

		rtTest("fold seed order").
			source("[ 1 2 ] array 10 [ - ] fold").
			expectStack(7.0),

		rtTest("break stops times without propagating").
			source("5 [ dup 2 = [ break ] when ] times").
			expectStack(0.0, 1.0, 2.0),

		rtTest("break stops each").
			source("[ 1 2 3 ] array [ dup 2 = [ break ] when ] each").
			expectStack(1.0, 2.0),

		rtTest("break stops a named word body").
			source(": f 1 break 2 ;", "f").
			expectStack(1.0),

		rtTest("break at top level is a graceful stop").
			source("1 break 2").
			expectStack(1.0),

		rtTest("break does not leak out of an inner loop").
			source("2 [ drop 3 [ dup 1 = [ break ] when ] times ] times").
			expectStack(0.0, 1.0, 0.0, 1.0),

		rtTest("map wants an array").
			source("5 [ ] map").
			expectError(func(t *testing.T, err error) {
				var te typeError
				assert.True(t, errors.As(err, &te), "expected a type error, got %v", err)
			}),

		rtTest("if wants quotations").
			source("1 2 3 if").
			expectError(func(t *testing.T, err error) {
				var te typeError
				assert.True(t, errors.As(err, &te), "expected a type error, got %v", err)
			}),

		rtTest("array materializes quotation results").
			source("[ 1 2 3 ] array").
			expectStack([]any{1.0, 2.0, 3.0}),

		rtTest("array of computed values").
			source("[ 3 [ ] times ] array").
			expectStack([]any{0.0, 1.0, 2.0}),
	}.run(t)
}
