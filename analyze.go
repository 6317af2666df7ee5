package cellang

// analyze computes the free-variable set of expr under the definition-time
// bound set (the closure's parameters), per spec.md §4.5. It returns a
// deduplicated, unordered Go slice; callers turn it into a cons list with
// Context.List only once analysis is complete.
func (ctx *Context) analyze(expr Value, bound []Value) []Value {
	var free []Value
	ctx.analyzeInto(expr, bound, &free)
	return free
}

func containsVal(list []Value, v Value) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (ctx *Context) analyzeInto(expr Value, bound []Value, free *[]Value) {
	switch ctx.Type(expr) {
	case TSymbol:
		if !containsVal(bound, expr) && !containsVal(*free, expr) {
			*free = append(*free, expr)
		}
	case TPair:
		head := cellOf(expr).car
		switch head {
		case ctx.quoteSym:
			// (quote x): skip entirely.
		case ctx.doSym:
			ctx.analyzeDo(cellOf(expr).cdr, bound, free)
		case ctx.fnSym, ctx.macSym:
			ctx.analyzeFnMac(expr, bound, free)
		default:
			ctx.analyzeGeneric(expr, bound, free)
		}
	default:
		// numbers, strings, booleans, nil: nothing to capture.
	}
}

// analyzeDo walks a (do ...) statement sequence left to right. A
// `(let name expr)` statement analyzes expr under the current bound set,
// then extends that set with name for the statements after it -- the
// extension never escapes to the caller's own bound set.
func (ctx *Context) analyzeDo(stmts Value, bound []Value, free *[]Value) {
	cur := append([]Value(nil), bound...)
	for {
		if stmts == valNil {
			return
		}
		if ctx.Type(stmts) != TPair {
			ctx.analyzeInto(stmts, cur, free)
			return
		}
		c := cellOf(stmts)
		stmt := c.car
		if ctx.Type(stmt) == TPair && cellOf(stmt).car == ctx.letSym {
			rest := cellOf(stmt).cdr
			name := cellOf(rest).car
			exprVal := cellOf(cellOf(rest).cdr).car
			ctx.analyzeInto(exprVal, cur, free)
			cur = append(cur, name)
		} else {
			ctx.analyzeInto(stmt, cur, free)
		}
		stmts = c.cdr
	}
}

// analyzeFnMac handles a nested (fn params body) or (mac params body):
// compute its own free set against its own params, then re-analyze each
// inner-free name as a plain expression against the outer bound set, so
// names bound by the outer function are not themselves reported free.
func (ctx *Context) analyzeFnMac(expr Value, bound []Value, free *[]Value) {
	rest := cellOf(expr).cdr
	params := cellOf(rest).car
	body := cellOf(cellOf(rest).cdr).car

	innerBound := paramNames(ctx, params)
	var innerFree []Value
	ctx.analyzeInto(body, innerBound, &innerFree)
	for _, name := range innerFree {
		ctx.analyzeInto(name, bound, free)
	}
}

func paramNames(ctx *Context, params Value) []Value {
	var names []Value
	for {
		if params == valNil {
			return names
		}
		if ctx.Type(params) != TPair {
			return append(names, params)
		}
		c := cellOf(params)
		names = append(names, c.car)
		params = c.cdr
	}
}

// analyzeGeneric handles a plain (op . args) form: analyze op, then each
// argument in order; a dotted tail is analyzed as a single expression.
func (ctx *Context) analyzeGeneric(expr Value, bound []Value, free *[]Value) {
	c := cellOf(expr)
	ctx.analyzeInto(c.car, bound, free)
	rest := c.cdr
	for {
		if rest == valNil {
			return
		}
		if ctx.Type(rest) != TPair {
			ctx.analyzeInto(rest, bound, free)
			return
		}
		rc := cellOf(rest)
		ctx.analyzeInto(rc.car, bound, free)
		rest = rc.cdr
	}
}
