package builtins

import (
	"testing"

	"cellang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTypesContext(t *testing.T) *cellang.Context {
	t.Helper()
	ctx := cellang.Open(nil, nil)
	Types(ctx)
	return ctx
}

func TestTypes_Typeof(t *testing.T) {
	ctx := newTypesContext(t)
	defer ctx.Close()

	tests := []struct {
		name string
		v    cellang.Value
		want string
	}{
		{"number", ctx.MakeNumber(1), "number"},
		{"string", ctx.String("s"), "string"},
		{"nil", cellang.Nil(), "nil"},
		{"pair", ctx.Cons(ctx.MakeNumber(1), cellang.Nil()), "pair"},
		{"boolean", cellang.Bool(true), "boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := callFn(ctx, "typeof", tt.v)
			assert.Equal(t, tt.want, ctx.ToString(got, false))
		})
	}
}

func TestTypes_PredicateFunctions(t *testing.T) {
	ctx := newTypesContext(t)
	defer ctx.Close()

	assert.Equal(t, "true", ctx.ToString(callFn(ctx, "isnil", cellang.Nil()), false))
	assert.Equal(t, "true", ctx.ToString(callFn(ctx, "isnumber", ctx.MakeNumber(1)), false))
	assert.Equal(t, "true", ctx.ToString(callFn(ctx, "isstring", ctx.String("s")), false))
	assert.Equal(t, "true", ctx.ToString(callFn(ctx, "islist", ctx.Cons(ctx.MakeNumber(1), cellang.Nil())), false))
	assert.Equal(t, "true", ctx.ToString(callFn(ctx, "islist", cellang.Nil()), false))
	assert.Equal(t, "false", ctx.ToString(callFn(ctx, "isnumber", ctx.String("s")), false))
}

func TestTypes_Tonumber(t *testing.T) {
	ctx := newTypesContext(t)
	defer ctx.Close()

	assert.Equal(t, "42", ctx.ToString(callFn(ctx, "tonumber", ctx.String("42")), false))
	assert.Equal(t, "7", ctx.ToString(callFn(ctx, "tonumber", ctx.MakeNumber(7)), false))
}

func TestTypes_TonumberInvalidFormatErrors(t *testing.T) {
	ctx := newTypesContext(t)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "tonumber", ctx.String("not-a-number"))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "tonumber: invalid number format")
}

func TestTypes_TonumberUnconvertibleTypeErrors(t *testing.T) {
	ctx := newTypesContext(t)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "tonumber", cellang.Nil())
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "tonumber: cannot convert to number")
}

func TestTypes_Tostring(t *testing.T) {
	ctx := newTypesContext(t)
	defer ctx.Close()

	got := callFn(ctx, "tostring", ctx.MakeNumber(5))
	assert.Equal(t, cellang.TString, ctx.Type(got))
	assert.Equal(t, "5", ctx.ToString(got, false))
}
