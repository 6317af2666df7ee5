package cellang

// Environment & binding (spec.md §4.4). Two representations share one
// lookup path: a plain association list of (symbol . value) pairs, and a
// closure frame -- a cell whose car is the reserved frame symbol and
// whose cdr is (locals . upvals).

// newFrame builds a frame cell for a function/macro call.
func (ctx *Context) newFrame(locals, upvals Value) Value {
	depth := ctx.SaveGC()
	ctx.PushGC(locals)
	ctx.PushGC(upvals)
	pair := ctx.Cons(locals, upvals)
	ctx.RestoreGC(depth)
	return ctx.Cons(ctx.frameSym, pair)
}

func (ctx *Context) isFrame(env Value) bool {
	return ctx.Type(env) == TPair && cellOf(env).car == ctx.frameSym
}

// getBound finds the (symbol . value) binding cell for sym in env,
// searching locals then upvals in a frame, or the assoc list directly,
// finally falling back to the symbol's own global (name . value) pair. It
// never returns nil: for an unbound symbol that global pair's value is nil.
func (ctx *Context) getBound(sym, env Value) *Cell {
	if ctx.isFrame(env) {
		pair := cellOf(cellOf(env).cdr)
		if c := assocFind(sym, pair.car); c != nil {
			return c
		}
		if c := assocFind(sym, pair.cdr); c != nil {
			return c
		}
	} else {
		if c := assocFind(sym, env); c != nil {
			return c
		}
	}
	return cellOf(cellOf(sym).cdr)
}

// assocFind linearly scans an association list for sym, returning the
// (symbol . value) cell itself so the caller can mutate its cdr in place.
func assocFind(sym, list Value) *Cell {
	for list != valNil {
		c := cellOf(list)
		binding := cellOf(c.car)
		if binding.car == sym {
			return binding
		}
		list = c.cdr
	}
	return nil
}

// lookup resolves sym's value in env.
func (ctx *Context) lookup(sym, env Value) Value {
	return ctx.getBound(sym, env).cdr
}

// bindNew prepends a fresh (sym . value) binding to list and returns the
// new head, along with the binding cell itself so letrec-style forms can
// mutate it after the list has been extended.
func (ctx *Context) bindNew(sym, value, list Value) (Value, *Cell) {
	depth := ctx.SaveGC()
	ctx.PushGC(sym)
	ctx.PushGC(value)
	ctx.PushGC(list)
	pair := ctx.Cons(sym, value)
	ctx.PushGC(pair)
	newList := ctx.Cons(pair, list)
	ctx.RestoreGC(depth)
	return ctx.PushGC(newList), cellOf(pair)
}
