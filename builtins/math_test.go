package builtins

import (
	"testing"

	"cellang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callFn(ctx *cellang.Context, name string, args ...cellang.Value) cellang.Value {
	full := append([]cellang.Value{ctx.Symbol(name)}, args...)
	return ctx.Eval(ctx.List(full...))
}

func newMathContext(t *testing.T) *cellang.Context {
	t.Helper()
	ctx := cellang.Open(nil, nil)
	Math(ctx)
	return ctx
}

func TestMath_SimpleWrappers(t *testing.T) {
	ctx := newMathContext(t)
	defer ctx.Close()

	assert.Equal(t, "4", ctx.ToString(callFn(ctx, "sqrt", ctx.MakeNumber(16)), false))
	assert.Equal(t, "5", ctx.ToString(callFn(ctx, "abs", ctx.MakeNumber(-5)), false))
	assert.Equal(t, "3", ctx.ToString(callFn(ctx, "floor", ctx.MakeNumber(3.9)), false))
	assert.Equal(t, "4", ctx.ToString(callFn(ctx, "ceil", ctx.MakeNumber(3.1)), false))
	assert.Equal(t, "8", ctx.ToString(callFn(ctx, "pow", ctx.MakeNumber(2), ctx.MakeNumber(3)), false))
	assert.Equal(t, "1", ctx.ToString(callFn(ctx, "min", ctx.MakeNumber(3), ctx.MakeNumber(1), ctx.MakeNumber(2)), false))
	assert.Equal(t, "3", ctx.ToString(callFn(ctx, "max", ctx.MakeNumber(3), ctx.MakeNumber(1), ctx.MakeNumber(2)), false))
}

func TestMath_SqrtNegativeArgumentErrors(t *testing.T) {
	ctx := newMathContext(t)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "sqrt", ctx.MakeNumber(-1))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "sqrt: negative argument")
}

func TestMath_LogNonPositiveArgumentErrors(t *testing.T) {
	ctx := newMathContext(t)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "log", ctx.MakeNumber(0))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "log: argument must be positive")
}

func TestMath_SeedrandMakesRandReproducible(t *testing.T) {
	ctx := newMathContext(t)
	defer ctx.Close()

	callFn(ctx, "seedrand", ctx.MakeNumber(12345))
	first := ctx.ToString(callFn(ctx, "randint", ctx.MakeNumber(1000)), false)

	callFn(ctx, "seedrand", ctx.MakeNumber(12345))
	second := ctx.ToString(callFn(ctx, "randint", ctx.MakeNumber(1000)), false)

	assert.Equal(t, first, second, "reseeding with the same seed must reproduce the same sequence")
}

func TestMath_RandintMaximumMustBePositive(t *testing.T) {
	ctx := newMathContext(t)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "randint", ctx.MakeNumber(0))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "randint: maximum must be positive")
}

func TestMath_RandbytesCountBounds(t *testing.T) {
	ctx := newMathContext(t)
	defer ctx.Close()

	ok := callFn(ctx, "randbytes", ctx.MakeNumber(16))
	assert.Equal(t, cellang.TPair, ctx.Type(ok))

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "randbytes", ctx.MakeNumber(2000))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "randbytes: count must be between 1 and 1024")
}
