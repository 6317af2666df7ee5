package cellang

import (
	"fmt"
	"strings"
)

// Primitive ordinals, mirroring fe.c's P_* enum.
const (
	pQuote = iota
	pIf
	pAnd
	pOr
	pDo
	pWhile
	pLet
	pSet
	pFn
	pMac
	pReturn
	pCons
	pCar
	pCdr
	pSetCar
	pSetCdr
	pList
	pNot
	pIs
	pAtom
	pPrint
	pLt
	pLte
	pAdd
	pSub
	pMul
	pDiv
	pModule
	pExport
	pImport
	pGet
)

var primitiveNames = []struct {
	name string
	ord  int
}{
	{"quote", pQuote}, {"if", pIf}, {"and", pAnd}, {"or", pOr}, {"do", pDo},
	{"while", pWhile}, {"let", pLet}, {"=", pSet}, {"fn", pFn}, {"mac", pMac},
	{"return", pReturn}, {"cons", pCons}, {"car", pCar}, {"cdr", pCdr},
	{"setcar", pSetCar}, {"setcdr", pSetCdr}, {"list", pList}, {"not", pNot},
	{"is", pIs}, {"atom", pAtom}, {"print", pPrint}, {"<", pLt}, {"<=", pLte},
	{"+", pAdd}, {"-", pSub}, {"*", pMul}, {"/", pDiv}, {"module", pModule},
	{"export", pExport}, {"import", pImport}, {"get", pGet},
}

func (ctx *Context) registerPrimitives() {
	for _, p := range primitiveNames {
		depth := ctx.SaveGC()
		sym := ctx.Symbol(p.name)
		c := ctx.object()
		c.setType(TPrim)
		c.cdr = MakeFixnum(p.ord)
		ctx.setSymbolValue(sym, valueOf(c))
		ctx.RestoreGC(depth)
	}
}

// Eval is the public entry point: eval(context, value) → value, evaluated
// at the top level (the global, non-local environment).
func (ctx *Context) Eval(expr Value) Value {
	return ctx.eval(expr, valNil)
}

func (ctx *Context) truthy(v Value) bool { return v != valFalse && v != valNil }

// Truthy applies the core's truthiness rule (only `false` and `nil` are
// falsey) to a value a host callback has already computed, e.g. a
// filter predicate's result.
func (ctx *Context) Truthy(v Value) bool { return ctx.truthy(v) }

func (ctx *Context) isReturnVal(v Value) bool {
	return ctx.Type(v) == TPair && cellOf(v).car == ctx.returnSym
}

// eval is the recursive evaluator core (spec.md §4.6).
func (ctx *Context) eval(expr Value, env Value) Value {
	if ctx.Type(expr) == TSymbol {
		return ctx.lookup(expr, env)
	}
	if ctx.Type(expr) != TPair {
		return expr
	}

	ctx.trail.push(expr)
	defer ctx.trail.pop()

	c := cellOf(expr)
	opVal := ctx.eval(c.car, env)
	args := c.cdr

	switch ctx.Type(opVal) {
	case TPrim:
		return ctx.evalPrim(fixnumValue(cellOf(opVal).cdr), args, env)
	case TFunc:
		return ctx.applyFunc(opVal, args, env)
	case TMacro:
		return ctx.applyMacro(opVal, expr, env)
	case TCFunc:
		evArgs := ctx.evalArgList(args, env)
		idx := fixnumValue(cellOf(opVal).cdr)
		return ctx.hostFuncs[idx](ctx, evArgs)
	default:
		return ctx.Error("tried to call non-callable value")
	}
}

// evalSeq evaluates a (do ...) statement sequence left to right, threading
// a local environment so `(let name expr)` statements extend the scope
// visible to the statements that follow them, and stopping immediately on
// an early-return sentinel.
func (ctx *Context) evalSeq(stmts Value, env Value) Value {
	curEnv := env
	result := Value(valNil)
	for stmts != valNil {
		c := cellOf(stmts)
		stmt := c.car
		if ctx.Type(stmt) == TPair && cellOf(stmt).car == ctx.letSym {
			result = ctx.evalLet(cellOf(stmt).cdr, &curEnv)
		} else {
			result = ctx.eval(stmt, curEnv)
		}
		if ctx.isReturnVal(result) {
			return result
		}
		stmts = c.cdr
	}
	return result
}

// evalLet implements spec.md §4.6's `let` row: letrec semantics in a local
// context (allocate the binding first so the bound expression can refer
// to itself, e.g. for recursive `fn`s), or a direct global assignment at
// the top level.
func (ctx *Context) evalLet(args Value, envPtr *Value) Value {
	sym := ctx.NextArg(&args)
	var exprArg Value = valNil
	if args != valNil {
		exprArg = ctx.NextArg(&args)
	}

	if *envPtr == valNil {
		value := ctx.eval(exprArg, *envPtr)
		ctx.setSymbolValue(sym, value)
		return value
	}

	if ctx.isFrame(*envPtr) {
		// Inside a call, the binding joins the frame's locals so the new
		// environment is still a frame (locals, then upvals, then globals).
		fc := cellOf(cellOf(*envPtr).cdr)
		locals, binding := ctx.bindNew(sym, valNil, fc.car)
		newEnv := ctx.newFrame(locals, fc.cdr)
		value := ctx.eval(exprArg, newEnv)
		binding.cdr = value
		*envPtr = newEnv
		return value
	}

	newEnv, binding := ctx.bindNew(sym, valNil, *envPtr)
	value := ctx.eval(exprArg, newEnv)
	binding.cdr = value
	*envPtr = newEnv
	return value
}

// evalArgList evaluates a raw (unevaluated) argument list left to right
// into a freshly consed list of results.
func (ctx *Context) evalArgList(args, env Value) Value {
	if args == valNil {
		return valNil
	}
	c := cellOf(args)
	depth := ctx.SaveGC()
	head := ctx.PushGC(ctx.eval(c.car, env))
	rest := ctx.PushGC(ctx.evalArgList(c.cdr, env))
	result := ctx.Cons(head, rest)
	ctx.RestoreGC(depth)
	return ctx.PushGC(result)
}

// bindParams pairs each parameter with its argument, binding a dotted
// rest-parameter to the remaining argument list.
func (ctx *Context) bindParams(params, args Value) Value {
	depth := ctx.SaveGC()
	ctx.PushGC(params)
	ctx.PushGC(args)
	result := Value(valNil)
	for {
		if params == valNil {
			break
		}
		if ctx.Type(params) != TPair {
			pair := ctx.Cons(params, args)
			result = ctx.Cons(pair, result)
			break
		}
		pc := cellOf(params)
		var argVal Value = valNil
		if args != valNil {
			ac := cellOf(args)
			argVal = ac.car
			args = ac.cdr
		}
		pair := ctx.Cons(pc.car, argVal)
		result = ctx.Cons(pair, result)
		params = pc.cdr
	}
	ctx.RestoreGC(depth)
	return ctx.PushGC(result)
}

// buildUpvals resolves each free-variable name in defEnv and shares the
// very same binding cell in the new frame's upvals list, giving true
// lexical reference semantics (mutation through a closure is visible to
// the defining scope and vice versa).
func (ctx *Context) buildUpvals(freeVars, defEnv Value) Value {
	depth := ctx.SaveGC()
	ctx.PushGC(freeVars)
	result := Value(valNil)
	for fv := freeVars; fv != valNil; fv = cellOf(fv).cdr {
		name := cellOf(fv).car
		binding := ctx.getBound(name, defEnv)
		result = ctx.Cons(valueOf(binding), result)
	}
	ctx.RestoreGC(depth)
	return ctx.PushGC(result)
}

func closureParts(closure Value) (defEnv, freeVars, params, body Value) {
	cdr := cellOf(closure).cdr
	defEnv = cellOf(cdr).car
	rest1 := cellOf(cdr).cdr
	freeVars = cellOf(rest1).car
	rest2 := cellOf(rest1).cdr
	params = cellOf(rest2).car
	body = cellOf(rest2).cdr
	return
}

func (ctx *Context) applyFunc(fnVal, args, callerEnv Value) Value {
	defEnv, freeVars, params, body := closureParts(fnVal)

	evArgs := ctx.evalArgList(args, callerEnv)
	locals := ctx.bindParams(params, evArgs)
	upvals := ctx.buildUpvals(freeVars, defEnv)
	frame := ctx.newFrame(locals, upvals)

	result := ctx.eval(body, frame)
	if ctx.isReturnVal(result) {
		return cellOf(result).cdr
	}
	return result
}

// applyMacro builds the same environment shape as a function call, but
// leaves its arguments unevaluated; the produced form overwrites the
// original call cell in place and is re-evaluated at the same site
// (spec.md §4.6, "Macro application").
func (ctx *Context) applyMacro(macVal, callExpr, env Value) Value {
	defEnv, freeVars, params, body := closureParts(macVal)

	rawArgs := cellOf(callExpr).cdr
	locals := ctx.bindParams(params, rawArgs)
	upvals := ctx.buildUpvals(freeVars, defEnv)
	frame := ctx.newFrame(locals, upvals)

	newForm := ctx.eval(body, frame)
	if ctx.isReturnVal(newForm) {
		newForm = cellOf(newForm).cdr
	}
	if ctx.Type(newForm) != TPair {
		newForm = ctx.Cons(ctx.quoteSym, ctx.Cons(newForm, valNil))
	}

	target := cellOf(callExpr)
	src := cellOf(newForm)
	target.car = src.car
	target.cdr = src.cdr
	target.flags = src.flags

	return ctx.eval(callExpr, env)
}

// Apply calls fn (a closure or host function) with an already-evaluated
// argument list, the re-entrant hook spec.md §5 requires for builtins like
// map/filter/fold that need to invoke back into guest code mid-builtin.
// Unlike applyFunc, evaluatedArgs is consumed as-is, never evaluated.
func (ctx *Context) Apply(fn, evaluatedArgs Value) Value {
	switch ctx.Type(fn) {
	case TFunc:
		defEnv, freeVars, params, body := closureParts(fn)
		locals := ctx.bindParams(params, evaluatedArgs)
		upvals := ctx.buildUpvals(freeVars, defEnv)
		frame := ctx.newFrame(locals, upvals)
		result := ctx.eval(body, frame)
		if ctx.isReturnVal(result) {
			return cellOf(result).cdr
		}
		return result
	case TCFunc:
		idx := fixnumValue(cellOf(fn).cdr)
		return ctx.hostFuncs[idx](ctx, evaluatedArgs)
	default:
		return ctx.Error("tried to apply non-callable value")
	}
}

func (ctx *Context) equal(a, b Value) bool {
	ta, tb := ctx.Type(a), ctx.Type(b)
	if ta == TNumber && tb == TNumber {
		return ctx.ToNumber(a) == ctx.ToNumber(b)
	}
	if ta == TString && tb == TString {
		return ctx.stringBytesOf(a) == ctx.stringBytesOf(b)
	}
	return a == b
}

// Println renders each value in args space-separated followed by a
// newline, on the context's output sink. It backs the core `print`
// special form and is exported so package builtins can offer `println`
// as a host-function alias, matching fex_builtins.c's
// builtin_print/builtin_println pair.
func (ctx *Context) Println(args Value) Value {
	var parts []string
	for args != valNil {
		v := ctx.NextArg(&args)
		parts = append(parts, ctx.render(v, false))
	}
	fmt.Fprintln(ctx.out, strings.Join(parts, " "))
	return valNil
}

func (ctx *Context) collectNumbers(args Value) []float64 {
	var nums []float64
	for args != valNil {
		nums = append(nums, ctx.ToNumber(ctx.NextArg(&args)))
	}
	return nums
}

func (ctx *Context) foldAdd(args Value) Value {
	sum := 0.0
	for _, n := range ctx.collectNumbers(args) {
		sum += n
	}
	return ctx.MakeNumber(sum)
}

func (ctx *Context) foldMul(args Value) Value {
	prod := 1.0
	for _, n := range ctx.collectNumbers(args) {
		prod *= n
	}
	return ctx.MakeNumber(prod)
}

func (ctx *Context) foldSub(args Value) Value {
	nums := ctx.collectNumbers(args)
	switch len(nums) {
	case 0:
		return MakeFixnum(0)
	case 1:
		return ctx.MakeNumber(-nums[0])
	default:
		acc := nums[0]
		for _, n := range nums[1:] {
			acc -= n
		}
		return ctx.MakeNumber(acc)
	}
}

func (ctx *Context) foldDiv(args Value) Value {
	nums := ctx.collectNumbers(args)
	switch len(nums) {
	case 0:
		return MakeFixnum(1)
	case 1:
		return ctx.MakeNumber(1 / nums[0])
	default:
		acc := nums[0]
		for _, n := range nums[1:] {
			acc /= n
		}
		return ctx.MakeNumber(acc)
	}
}

// evalPrim dispatches one of the special forms/primitives named in
// spec.md §4.6's table. args is the call's raw, unevaluated cdr.
func (ctx *Context) evalPrim(ord int, args Value, env Value) Value {
	switch ord {
	case pQuote:
		return ctx.NextArg(&args)

	case pIf:
		for args != valNil {
			cond := ctx.NextArg(&args)
			if args == valNil {
				return ctx.eval(cond, env)
			}
			then := ctx.NextArg(&args)
			if ctx.truthy(ctx.eval(cond, env)) {
				return ctx.eval(then, env)
			}
		}
		return valNil

	case pAnd:
		result := valTrue
		for args != valNil {
			result = ctx.eval(ctx.NextArg(&args), env)
			if !ctx.truthy(result) {
				return result
			}
		}
		return result

	case pOr:
		result := valFalse
		for args != valNil {
			result = ctx.eval(ctx.NextArg(&args), env)
			if ctx.truthy(result) {
				return result
			}
		}
		return result

	case pDo:
		return ctx.evalSeq(args, env)

	case pWhile:
		cond := ctx.NextArg(&args)
		body := args
		for ctx.truthy(ctx.eval(cond, env)) {
			v := ctx.evalSeq(body, env)
			if ctx.isReturnVal(v) {
				return v
			}
		}
		return valNil

	case pLet:
		localEnv := env
		return ctx.evalLet(args, &localEnv)

	case pSet:
		sym := ctx.NextArg(&args)
		value := ctx.eval(ctx.NextArg(&args), env)
		ctx.getBound(sym, env).cdr = value
		return value

	case pFn, pMac:
		params := ctx.NextArg(&args)
		body := ctx.NextArg(&args)
		free := ctx.analyze(body, paramNames(ctx, params))

		depth := ctx.SaveGC()
		ctx.PushGC(env)
		ctx.PushGC(params)
		ctx.PushGC(body)
		freeList := ctx.PushGC(ctx.List(free...))
		closureCdr := ctx.Cons(env, ctx.Cons(freeList, ctx.Cons(params, body)))
		ctx.RestoreGC(depth)

		c := ctx.object()
		if ord == pFn {
			c.setType(TFunc)
		} else {
			c.setType(TMacro)
		}
		c.cdr = closureCdr
		return ctx.PushGC(valueOf(c))

	case pReturn:
		v := Value(valNil)
		if args != valNil {
			v = ctx.eval(ctx.NextArg(&args), env)
		}
		return ctx.Cons(ctx.returnSym, v)

	case pModule:
		nameVal := ctx.eval(ctx.NextArg(&args), env)
		ctx.moduleExp.push(valNil)
		ctx.evalSeq(args, env)
		exportList := ctx.moduleExp.pop()

		var name string
		switch ctx.Type(nameVal) {
		case TString:
			name = ctx.stringBytesOf(nameVal)
		case TSymbol:
			name = ctx.symbolName(nameVal)
		}
		sym := ctx.Symbol(name)
		ctx.setSymbolValue(sym, exportList)
		return exportList

	case pExport:
		declExpr := ctx.NextArg(&args)
		if ctx.moduleExp.len() == 0 {
			return ctx.Error("export outside of module")
		}
		var name Value = valNil
		if ctx.Type(declExpr) == TPair && cellOf(declExpr).car == ctx.letSym {
			name = cellOf(cellOf(declExpr).cdr).car
		}
		val := ctx.eval(declExpr, env)
		if name != valNil {
			pair := ctx.Cons(name, val)
			top := ctx.moduleExp.pop()
			ctx.moduleExp.push(ctx.Cons(pair, top))
		}
		return val

	case pImport:
		ctx.NextArg(&args) // reserved; no runtime effect (spec.md §4.6)
		return valNil

	case pGet:
		evArgs := ctx.evalArgList(args, env)
		obj := ctx.NextArg(&evArgs)
		sym := ctx.NextArg(&evArgs)
		return ctx.lookup(sym, obj)

	default:
		evArgs := ctx.evalArgList(args, env)
		switch ord {
		case pCons:
			a := ctx.NextArg(&evArgs)
			b := ctx.NextArg(&evArgs)
			return ctx.Cons(a, b)
		case pCar:
			return ctx.Car(ctx.NextArg(&evArgs))
		case pCdr:
			return ctx.Cdr(ctx.NextArg(&evArgs))
		case pSetCar:
			pair := ctx.NextArg(&evArgs)
			v := ctx.NextArg(&evArgs)
			cellOf(pair).car = v
			return pair
		case pSetCdr:
			pair := ctx.NextArg(&evArgs)
			v := ctx.NextArg(&evArgs)
			cellOf(pair).cdr = v
			return pair
		case pList:
			return evArgs
		case pNot:
			return Bool(!ctx.truthy(ctx.NextArg(&evArgs)))
		case pIs:
			a := ctx.NextArg(&evArgs)
			b := ctx.NextArg(&evArgs)
			return Bool(ctx.equal(a, b))
		case pAtom:
			return Bool(ctx.Type(ctx.NextArg(&evArgs)) != TPair)
		case pPrint:
			return ctx.Println(evArgs)
		case pLt:
			a := ctx.NextArg(&evArgs)
			b := ctx.NextArg(&evArgs)
			return Bool(ctx.ToNumber(a) < ctx.ToNumber(b))
		case pLte:
			a := ctx.NextArg(&evArgs)
			b := ctx.NextArg(&evArgs)
			return Bool(ctx.ToNumber(a) <= ctx.ToNumber(b))
		case pAdd:
			return ctx.foldAdd(evArgs)
		case pSub:
			return ctx.foldSub(evArgs)
		case pMul:
			return ctx.foldMul(evArgs)
		case pDiv:
			return ctx.foldDiv(evArgs)
		}
		return ctx.Error("unknown primitive")
	}
}
