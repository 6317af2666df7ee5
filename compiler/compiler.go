package compiler

import "cellang"

// Compile is the surface entry point named in spec.md §6:
// compile(source_text) → AST | null. Compile errors never reach the
// fatal evaluator error path; they are collected and returned alongside
// a nil AST, each collected by the parser as it goes and rendered
// "[line N] Error at 'token': msg" by CompileError.Error.
func Compile(ctx *cellang.Context, source string, cfg *cellang.Config) (cellang.Value, []cellang.CompileError) {
	var spans *cellang.SpanTable
	if cfg != nil && cfg.EnableSpans {
		spans = cellang.NewSpanTable(true)
	}
	p := newParser(ctx, source, spans)
	ast := p.Program()
	if p.hadError() {
		return cellang.Nil(), p.errors
	}
	return ast, nil
}

// DoString is spec.md §6's other surface entry point:
// do_string(source_text) → value. It compiles then evaluates in one step,
// the way a REPL line is handled.
func DoString(ctx *cellang.Context, source string, cfg *cellang.Config) (cellang.Value, []cellang.CompileError) {
	ast, errs := Compile(ctx, source, cfg)
	if errs != nil {
		return cellang.Nil(), errs
	}
	return ctx.Eval(ast), nil
}
