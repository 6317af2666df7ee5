package builtins

import (
	"path/filepath"
	"strings"
	"testing"

	"cellang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIOContext(t *testing.T) *cellang.Context {
	t.Helper()
	ctx := cellang.Open(nil, nil)
	IO(ctx)
	return ctx
}

func TestIO_WriteThenReadRoundTrips(t *testing.T) {
	ctx := newIOContext(t)
	defer ctx.Close()

	path := filepath.Join(t.TempDir(), "greeting.txt")
	callFn(ctx, "writefile", ctx.String(path), ctx.String("hello, file"))

	got := callFn(ctx, "readfile", ctx.String(path))
	assert.Equal(t, "hello, file", ctx.ToString(got, false))
}

func TestIO_ReadfileMissingFileErrors(t *testing.T) {
	ctx := newIOContext(t)
	defer ctx.Close()

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "readfile", ctx.String(filepath.Join(t.TempDir(), "missing.txt")))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "readfile: could not open file")
}

func TestIO_ReadfileOverSizeLimitErrors(t *testing.T) {
	ctx := newIOContext(t)
	defer ctx.Close()

	path := filepath.Join(t.TempDir(), "big.txt")
	big := strings.Repeat("x", readFileLimit+1)
	callFn(ctx, "writefile", ctx.String(path), ctx.String(big))

	err := withRecoveredError(t, ctx, func() {
		callFn(ctx, "readfile", ctx.String(path))
	})
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "readfile: file too large")
}
