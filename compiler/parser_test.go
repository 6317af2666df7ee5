package compiler

import (
	"testing"

	"cellang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileExpr(t *testing.T, ctx *cellang.Context, src string) string {
	t.Helper()
	ast, errs := Compile(ctx, src, nil)
	require.Empty(t, errs, "unexpected compile errors for %q", src)
	return ctx.ToString(ast, true)
}

// TestParser_Desugaring checks that each surface construct desugars to
// exactly the core cons-tree shape the evaluator expects.
func TestParser_Desugaring(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"addition", "a + b;", "(+ a b)"},
		{"member access", "a.b;", "(get a (quote b))"},
		{"equality", "a == b;", "(is a b)"},
		{"inequality", "a != b;", "(not (is a b))"},
		{"greater flips to less", "a > b;", "(< b a)"},
		{"greater-equal flips to less-equal", "a >= b;", "(<= b a)"},
		{"less stays less", "a < b;", "(< a b)"},
		{"list literal", "[a, b];", "(list a b)"},
		{"assignment", "x = 1;", "(= x 1)"},
		{"unary not", "not a;", "(not a)"},
		{"unary minus", "-a;", "(- a)"},
		{"let with initializer", "let x = 1;", "(let x 1)"},
		{"let without initializer", "let x;", "(let x nil)"},
		{"call", "f(1, 2);", "(f 1 2)"},
		{"grouping", "(1 + 2) * 3;", "(* (+ 1 2) 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := cellang.Open(nil, nil)
			defer ctx.Close()
			got := compileExpr(t, ctx, tt.src)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_PrecedenceMulBindsTighterThanAdd(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()
	got := compileExpr(t, ctx, "1 + 2 * 3;")
	assert.Equal(t, "(+ 1 (* 2 3))", got)
}

func TestParser_FunctionDeclarationDesugarsToLetFn(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()
	got := compileExpr(t, ctx, "fn add(a, b) { a + b; }")
	assert.Equal(t, "(let add (fn (a b) (+ a b)))", got)
}

func TestParser_ModuleDeclaration(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()
	got := compileExpr(t, ctx, `module "m" { export let x = 1; }`)
	assert.Equal(t, `(module "m" (export (let x 1)))`, got)
}

func TestParser_MultipleStatementsCollapseIntoDo(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()
	got := compileExpr(t, ctx, "let x = 1; let y = 2;")
	assert.Equal(t, "(do (let x 1) (let y 2))", got)
}

func TestParser_SingleStatementDoesNotWrapInDo(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()
	got := compileExpr(t, ctx, "let x = 1;")
	assert.Equal(t, "(let x 1)", got)
}

func TestParser_ErrorMessageFormat(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()

	_, errs := Compile(ctx, "let x = ;", nil)
	require.Len(t, errs, 1)
	assert.Regexp(t, `^\[line 1\] Error at '.*': .+$`, errs[0].Error())
}

func TestParser_SynchronizeAfterErrorRecoversSubsequentStatements(t *testing.T) {
	ctx := cellang.Open(nil, nil)
	defer ctx.Close()

	// A missing initializer on the first statement should not prevent the
	// parser from recognizing the well-formed second statement, once it
	// resynchronizes at the next statement boundary.
	_, errs := Compile(ctx, "let x = ; let y = 2;", nil)
	require.NotEmpty(t, errs)

	// When the second statement is malformed too, the resynchronized
	// parser reports it as a separate, second error.
	_, errs = Compile(ctx, "let x = ; let = 2;", nil)
	require.Len(t, errs, 2)
}
