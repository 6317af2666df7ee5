package compiler

import (
	"strconv"
	"strings"

	"cellang"
)

// Precedence mirrors spec.md §4.9's low-to-high ladder. Assignment is
// handled outside the table (it needs an lvalue check the generic
// binary-infix path doesn't have), so the table itself starts at `or`.
type Precedence int

const (
	precNone Precedence = iota
	precOr
	precAnd
	precEquality
	precComparison
	precTerm
	precFactor
	precUnary
	precCall
	precPrimary
)

type prefixFn func(p *Parser) cellang.Value
type infixFn func(p *Parser, left cellang.Value) cellang.Value

type rule struct {
	prefix prefixFn
	infix  infixFn
	prec   Precedence
}

var rules map[TokenKind]rule

func init() {
	rules = map[TokenKind]rule{
		tkLParen:      {prefix: grouping, infix: call, prec: precCall},
		tkDot:         {infix: dot, prec: precCall},
		tkMinus:       {prefix: unary, infix: binary, prec: precTerm},
		tkPlus:        {infix: binary, prec: precTerm},
		tkSlash:       {infix: binary, prec: precFactor},
		tkStar:        {infix: binary, prec: precFactor},
		tkBang:        {prefix: unary},
		tkNot:         {prefix: unary},
		tkBangEqual:   {infix: binary, prec: precEquality},
		tkEqualEqual:  {infix: binary, prec: precEquality},
		tkGreater:     {infix: binary, prec: precComparison},
		tkGreaterEqual: {infix: binary, prec: precComparison},
		tkLess:        {infix: binary, prec: precComparison},
		tkLessEqual:   {infix: binary, prec: precComparison},
		tkAnd:         {infix: binary, prec: precAnd},
		tkOr:          {infix: binary, prec: precOr},
		tkIdentifier:  {prefix: variable},
		tkString:      {prefix: stringLit},
		tkNumber:      {prefix: number},
		tkTrue:        {prefix: literalTrue},
		tkFalse:       {prefix: literalFalse},
		tkNil:         {prefix: literalNil},
		tkLBracket:    {prefix: listLiteral},
		tkFn:          {prefix: fnExpressionRule},
	}
}

func (p *Parser) ruleFor(k TokenKind) rule { return rules[k] }

// Parser turns surface source directly into core-shaped cons trees,
// interleaving allocation with recursive descent the way fex.c's parser
// does. Every node is built through Context.List/Cons/Symbol, which
// already bracket their own allocations with SaveGC/PushGC/RestoreGC; the
// Parser additionally brackets the whole Program() call, so the
// individually-rooted intermediate nodes stay on the bounded root stack
// until the parse ends and are released together then -- only the final
// tree stays rooted once compilation finishes.
type Parser struct {
	ctx    *cellang.Context
	lex    *Lexer
	li     *cellang.LineIndex
	spans  *cellang.SpanTable
	cur    Token
	prev   Token
	errors []cellang.CompileError
	panic  bool
}

func newParser(ctx *cellang.Context, source string, spans *cellang.SpanTable) *Parser {
	p := &Parser{ctx: ctx, lex: NewLexer(source), li: cellang.NewLineIndex(source), spans: spans}
	p.advance()
	return p
}

func (p *Parser) sym(name string) cellang.Value { return p.ctx.Symbol(name) }

func (p *Parser) buildList(items ...cellang.Value) cellang.Value {
	v := p.ctx.List(items...)
	if p.spans != nil {
		sp := p.li.Span(p.prev.Start, p.prev.End)
		p.spans.Record(v, sp)
	}
	return v
}

func (p *Parser) advance() {
	p.prev = p.cur
	for {
		p.cur = p.lex.Next()
		if p.cur.Kind != tkError {
			return
		}
		p.errorAtCurrent(p.cur.Text)
	}
}

func (p *Parser) check(k TokenKind) bool { return p.cur.Kind == k }

func (p *Parser) matchTok(k TokenKind) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(k TokenKind, msg string) {
	if p.cur.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *Parser) errorAtCurrent(msg string) { p.errorAt(p.cur, msg) }
func (p *Parser) errorAtPrev(msg string)    { p.errorAt(p.prev, msg) }

// errorAt records a diagnostic in the "[line N] Error at 'token': msg"
// shape spec.md §7 requires, and does not go through the fatal eval-error
// path -- compile errors are purely data returned to the caller.
func (p *Parser) errorAt(tok Token, msg string) {
	if p.panic {
		return
	}
	where := tok.Text
	if tok.Kind == tkEOF {
		where = ""
	}
	p.errors = append(p.errors, cellang.CompileError{Line: tok.Line, Where: where, Message: msg})
	p.panic = true
}

func (p *Parser) hadError() bool { return len(p.errors) > 0 }

// synchronize discards tokens until a likely statement boundary, so one
// malformed declaration doesn't cascade into a wall of errors.
func (p *Parser) synchronize() {
	p.panic = false
	for p.cur.Kind != tkEOF {
		if p.prev.Kind == tkSemicolon {
			return
		}
		switch p.cur.Kind {
		case tkLet, tkFn, tkModule, tkImport, tkExport, tkIf, tkWhile, tkReturn:
			return
		}
		p.advance()
	}
}

// Program parses the whole input and collapses it the way a block does:
// a single statement stands alone, otherwise the statements are wrapped
// in (do ...).
func (p *Parser) Program() cellang.Value {
	depth := p.ctx.SaveGC()
	var stmts []cellang.Value
	for !p.check(tkEOF) {
		stmts = append(stmts, p.declaration())
		if p.panic {
			p.synchronize()
		}
	}
	result := p.collapse(stmts)
	p.ctx.RestoreGC(depth)
	return p.ctx.PushGC(result)
}

func (p *Parser) collapse(stmts []cellang.Value) cellang.Value {
	switch len(stmts) {
	case 0:
		return cellang.Nil()
	case 1:
		return stmts[0]
	default:
		full := append([]cellang.Value{p.sym("do")}, stmts...)
		return p.buildList(full...)
	}
}

func (p *Parser) declaration() cellang.Value {
	switch {
	case p.matchTok(tkLet):
		return p.letDeclaration()
	case p.matchTok(tkFn):
		return p.fnDeclaration()
	case p.matchTok(tkModule):
		return p.moduleDeclaration()
	case p.matchTok(tkImport):
		return p.importDeclaration()
	case p.matchTok(tkExport):
		return p.exportDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) letDeclaration() cellang.Value {
	p.consume(tkIdentifier, "expect variable name")
	name := p.sym(p.prev.Text)
	value := cellang.Nil()
	if p.matchTok(tkEqual) {
		value = p.expression()
	}
	p.consume(tkSemicolon, "expect ';' after variable declaration")
	return p.buildList(p.sym("let"), name, value)
}

func (p *Parser) fnParamsAndBody() (params, body cellang.Value) {
	p.consume(tkLParen, "expect '(' after function name")
	var names []cellang.Value
	if !p.check(tkRParen) {
		for {
			p.consume(tkIdentifier, "expect parameter name")
			names = append(names, p.sym(p.prev.Text))
			if !p.matchTok(tkComma) {
				break
			}
		}
	}
	p.consume(tkRParen, "expect ')' after parameters")
	params = p.buildList(names...)
	p.consume(tkLBrace, "expect '{' before function body")
	body = p.block()
	return
}

func (p *Parser) block() cellang.Value {
	var stmts []cellang.Value
	for !p.check(tkRBrace) && !p.check(tkEOF) {
		stmts = append(stmts, p.declaration())
	}
	p.consume(tkRBrace, "expect '}' after block")
	return p.collapse(stmts)
}

func (p *Parser) fnDeclaration() cellang.Value {
	p.consume(tkIdentifier, "expect function name")
	name := p.sym(p.prev.Text)
	params, body := p.fnParamsAndBody()
	fnForm := p.buildList(p.sym("fn"), params, body)
	return p.buildList(p.sym("let"), name, fnForm)
}

func (p *Parser) moduleDeclaration() cellang.Value {
	p.consume(tkString, "expect module name string")
	nameVal := p.ctx.String(unquote(p.prev.Text))
	p.consume(tkLBrace, "expect '{' after module name")
	var stmts []cellang.Value
	for !p.check(tkRBrace) && !p.check(tkEOF) {
		stmts = append(stmts, p.declaration())
	}
	p.consume(tkRBrace, "expect '}' after module body")
	full := append([]cellang.Value{p.sym("module"), nameVal}, stmts...)
	return p.buildList(full...)
}

func (p *Parser) importDeclaration() cellang.Value {
	p.consume(tkIdentifier, "expect module name")
	name := p.sym(p.prev.Text)
	p.consume(tkSemicolon, "expect ';' after import")
	return p.buildList(p.sym("import"), name)
}

func (p *Parser) exportDeclaration() cellang.Value {
	var decl cellang.Value
	switch {
	case p.matchTok(tkLet):
		decl = p.letDeclaration()
	case p.matchTok(tkFn):
		decl = p.fnDeclaration()
	default:
		p.errorAtCurrent("expect 'let' or 'fn' after 'export'")
		decl = cellang.Nil()
	}
	return p.buildList(p.sym("export"), decl)
}

func (p *Parser) statement() cellang.Value {
	switch {
	case p.matchTok(tkIf):
		return p.ifStatement()
	case p.matchTok(tkWhile):
		return p.whileStatement()
	case p.matchTok(tkReturn):
		return p.returnStatement()
	case p.matchTok(tkLBrace):
		return p.block()
	default:
		return p.exprStatement()
	}
}

func (p *Parser) ifStatement() cellang.Value {
	p.consume(tkLParen, "expect '(' after 'if'")
	cond := p.expression()
	p.consume(tkRParen, "expect ')' after condition")
	thenBranch := p.statement()
	if p.matchTok(tkElse) {
		elseBranch := p.statement()
		return p.buildList(p.sym("if"), cond, thenBranch, elseBranch)
	}
	return p.buildList(p.sym("if"), cond, thenBranch)
}

func (p *Parser) whileStatement() cellang.Value {
	p.consume(tkLParen, "expect '(' after 'while'")
	cond := p.expression()
	p.consume(tkRParen, "expect ')' after condition")
	body := p.statement()
	return p.buildList(p.sym("while"), cond, body)
}

func (p *Parser) returnStatement() cellang.Value {
	if p.matchTok(tkSemicolon) {
		return p.buildList(p.sym("return"))
	}
	v := p.expression()
	p.consume(tkSemicolon, "expect ';' after return value")
	return p.buildList(p.sym("return"), v)
}

func (p *Parser) exprStatement() cellang.Value {
	v := p.expression()
	p.consume(tkSemicolon, "expect ';' after expression")
	return v
}

func (p *Parser) expression() cellang.Value { return p.assignment() }

// assignment handles `x = e` outside the generic Pratt table since it
// needs to check the left-hand side is a bare symbol, per spec.md §4.9.
func (p *Parser) assignment() cellang.Value {
	expr := p.parsePrecedence(precOr)
	if p.matchTok(tkEqual) {
		value := p.assignment()
		if p.ctx.Type(expr) != cellang.TSymbol {
			p.errorAtPrev("invalid assignment target")
			return expr
		}
		return p.buildList(p.sym("="), expr, value)
	}
	return expr
}

func (p *Parser) parsePrecedence(prec Precedence) cellang.Value {
	p.advance()
	pr := p.ruleFor(p.prev.Kind)
	if pr.prefix == nil {
		p.errorAtPrev("expect expression")
		return cellang.Nil()
	}
	left := pr.prefix(p)
	for prec <= p.ruleFor(p.cur.Kind).prec {
		p.advance()
		infix := p.ruleFor(p.prev.Kind).infix
		left = infix(p, left)
	}
	return left
}

func binary(p *Parser, left cellang.Value) cellang.Value {
	opKind := p.prev.Kind
	prec := p.ruleFor(opKind).prec
	right := p.parsePrecedence(prec + 1)
	switch opKind {
	case tkPlus:
		return p.buildList(p.sym("+"), left, right)
	case tkMinus:
		return p.buildList(p.sym("-"), left, right)
	case tkStar:
		return p.buildList(p.sym("*"), left, right)
	case tkSlash:
		return p.buildList(p.sym("/"), left, right)
	case tkEqualEqual:
		return p.buildList(p.sym("is"), left, right)
	case tkBangEqual:
		return p.buildList(p.sym("not"), p.buildList(p.sym("is"), left, right))
	case tkGreater:
		return p.buildList(p.sym("<"), right, left)
	case tkGreaterEqual:
		return p.buildList(p.sym("<="), right, left)
	case tkLess:
		return p.buildList(p.sym("<"), left, right)
	case tkLessEqual:
		return p.buildList(p.sym("<="), left, right)
	case tkAnd:
		return p.buildList(p.sym("and"), left, right)
	case tkOr:
		return p.buildList(p.sym("or"), left, right)
	}
	return left
}

func unary(p *Parser) cellang.Value {
	opKind := p.prev.Kind
	operand := p.parsePrecedence(precUnary)
	switch opKind {
	case tkBang, tkNot:
		return p.buildList(p.sym("not"), operand)
	case tkMinus:
		return p.buildList(p.sym("-"), operand)
	}
	return operand
}

func call(p *Parser, left cellang.Value) cellang.Value {
	var args []cellang.Value
	if !p.check(tkRParen) {
		for {
			args = append(args, p.expression())
			if !p.matchTok(tkComma) {
				break
			}
		}
	}
	p.consume(tkRParen, "expect ')' after arguments")
	full := append([]cellang.Value{left}, args...)
	return p.buildList(full...)
}

func dot(p *Parser, left cellang.Value) cellang.Value {
	p.consume(tkIdentifier, "expect property name after '.'")
	name := p.sym(p.prev.Text)
	quoted := p.buildList(p.sym("quote"), name)
	return p.buildList(p.sym("get"), left, quoted)
}

func number(p *Parser) cellang.Value {
	n, _ := strconv.ParseFloat(p.prev.Text, 64)
	return p.ctx.MakeNumber(n)
}

func stringLit(p *Parser) cellang.Value {
	return p.ctx.String(unquote(p.prev.Text))
}

func literalTrue(p *Parser) cellang.Value  { return cellang.Bool(true) }
func literalFalse(p *Parser) cellang.Value { return cellang.Bool(false) }
func literalNil(p *Parser) cellang.Value   { return cellang.Nil() }
func variable(p *Parser) cellang.Value     { return p.sym(p.prev.Text) }

func grouping(p *Parser) cellang.Value {
	v := p.expression()
	p.consume(tkRParen, "expect ')' after expression")
	return v
}

func listLiteral(p *Parser) cellang.Value {
	var items []cellang.Value
	if !p.check(tkRBracket) {
		for {
			items = append(items, p.expression())
			if !p.matchTok(tkComma) {
				break
			}
		}
	}
	p.consume(tkRBracket, "expect ']' after list elements")
	full := append([]cellang.Value{p.sym("list")}, items...)
	return p.buildList(full...)
}

func fnExpressionRule(p *Parser) cellang.Value {
	params, body := p.fnParamsAndBody()
	return p.buildList(p.sym("fn"), params, body)
}

// unquote strips the surrounding double quotes from a raw string token
// and resolves \n \r \t \\ \" escapes, matching the reader's rules.
func unquote(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				sb.WriteByte(raw[i])
			}
			continue
		}
		sb.WriteByte(raw[i])
	}
	return sb.String()
}
