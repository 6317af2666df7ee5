package cellang

import "strings"

// formatFunc renders one node's own label, independent of its children --
// the same shape as the teacher's tree_printer.go FormatFunc[T].
type formatFunc func(ctx *Context, v Value) string

// treePrinter is the teacher's generic indentation writer (tree_printer.go),
// carried over verbatim in idiom and adapted to print cons trees instead
// of PEG grammar nodes.
type treePrinter struct {
	padStr []string
	output strings.Builder
	format formatFunc
}

func newTreePrinter(format formatFunc) *treePrinter {
	return &treePrinter{format: format}
}

func (tp *treePrinter) indent(s string)   { tp.padStr = append(tp.padStr, s) }
func (tp *treePrinter) unindent()         { tp.padStr = tp.padStr[:len(tp.padStr)-1] }
func (tp *treePrinter) padding()          {
	for _, p := range tp.padStr {
		tp.output.WriteString(p)
	}
}
func (tp *treePrinter) writel(s string)  { tp.output.WriteString(s); tp.output.WriteByte('\n') }
func (tp *treePrinter) pwritel(s string) { tp.padding(); tp.writel(s) }

// Dump renders v as an indented tree, for debugging/REPL introspection --
// the analogue of the teacher's Value.PrettyString for this domain's
// cons-cell values.
func (ctx *Context) Dump(v Value) string {
	tp := newTreePrinter(func(ctx *Context, v Value) string {
		return ctx.render(v, true)
	})
	ctx.dumpInto(tp, v)
	return tp.output.String()
}

func (ctx *Context) dumpInto(tp *treePrinter, v Value) {
	if ctx.Type(v) != TPair {
		tp.pwritel(tp.format(ctx, v))
		return
	}
	tp.pwritel("(")
	tp.indent("  ")
	for {
		c := cellOf(v)
		ctx.dumpInto(tp, c.car)
		if ctx.Type(c.cdr) == TPair {
			v = c.cdr
			continue
		}
		if ctx.Type(c.cdr) != TNil {
			tp.pwritel(". " + tp.format(ctx, c.cdr))
		}
		break
	}
	tp.unindent()
	tp.pwritel(")")
}
