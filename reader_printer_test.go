package cellang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readerFor turns a Go string into the byte-at-a-time ReadFn contract
// spec.md §6 defines, exactly what an embedder wrapping a file or stdin
// would do.
func readerFor(s string) ReadFn {
	i := 0
	return func() byte {
		if i >= len(s) {
			return eofByte
		}
		b := s[i]
		i++
		return b
	}
}

func TestRead_WriteRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"fixnum", "42"},
		{"negative fixnum", "-7"},
		{"boxed float", "3.5"},
		{"symbol", "foo-bar"},
		{"nil", "nil"},
		{"true", "true"},
		{"false", "false"},
		{"flat list", "(1 2 3)"},
		{"nested list", "(1 (2 3) 4)"},
		{"dotted pair", "(1 . 2)"},
		{"string", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Open(nil, nil)
			defer ctx.Close()

			v, ok := ctx.Read(readerFor(tt.input))
			require.True(t, ok)
			assert.Equal(t, tt.input, ctx.ToString(v, true))
		})
	}
}

// TestRead_QuoteDesugars verifies the reader desugars 'x into (quote x)
// before the printer ever sees it -- the printer has no special-case for
// quote forms, so the written form is the fully-expanded one.
func TestRead_QuoteDesugars(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	v, ok := ctx.Read(readerFor("'foo"))
	require.True(t, ok)
	assert.Equal(t, "(quote foo)", ctx.ToString(v, true))
}

// TestRead_EmptyListIsNil verifies the singleton-nil/empty-list identity
// spec.md §4.1 describes: "()" and the bare nil token are the same value.
func TestRead_EmptyListIsNil(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	v, ok := ctx.Read(readerFor("()"))
	require.True(t, ok)
	assert.Equal(t, Nil(), v)
	assert.Equal(t, "nil", ctx.ToString(v, true))
}

func TestRead_UnclosedListErrors(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		ctx.Read(readerFor("(1 2"))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unclosed list")
}

func TestRead_StrayCloseParenErrors(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		ctx.Read(readerFor(")"))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "stray ')'")
}

func TestRead_StringEscapes(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	v, ok := ctx.Read(readerFor(`"a\nb\tc\"d"`))
	require.True(t, ok)
	assert.Equal(t, "a\nb\tc\"d", ctx.ToString(v, false))
}

func TestRead_EOFReturnsFalse(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	_, ok := ctx.Read(readerFor(""))
	assert.False(t, ok)
}

func TestWrite_DottedTailAndQuoting(t *testing.T) {
	ctx := Open(nil, nil)
	defer ctx.Close()

	list := ctx.Cons(MakeFixnum(1), ctx.Cons(MakeFixnum(2), MakeFixnum(3)))
	assert.Equal(t, "(1 2 . 3)", ctx.ToString(list, true))

	s := ctx.String("quo\"ted")
	assert.Equal(t, `"quo\"ted"`, ctx.ToString(s, true))
	assert.Equal(t, `quo"ted`, ctx.ToString(s, false))
}
