package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_needsMore(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want bool
	}{
		{"1 2 +", false},
		{": inc 1 +", true},
		{": inc 1 + ;", false},
		{"[ 1 2", true},
		{"[ 1 2 ]", false},
		{": f [ 1 ] ;", false},
		{": outer : inner ;", true},
		{"( open comment", true},
		{"( closed ) 1", false},
		{`"open string`, true},
		{`"closed"`, false},
		{`" spaced out "`, false},
		{"doc{ still writing", true},
		{"doc{ done }", false},
	} {
		t.Run(tc.src, func(t *testing.T) {
			assert.Equal(t, tc.want, needsMore(tc.src))
		})
	}
}
