package cellang

import (
	"strconv"
	"strings"
)

// ReadFn is the reader callback contract from spec.md §6: a zero-argument
// byte producer that returns 0 at EOF, matching fe_ReadFn exactly.
type ReadFn func() byte

const eofByte = 0

type reader struct {
	ctx     *Context
	next    ReadFn
	lookahead byte
	have    bool
}

func (ctx *Context) newReader(next ReadFn) *reader {
	return &reader{ctx: ctx, next: next}
}

func (r *reader) peek() byte {
	if !r.have {
		r.lookahead = r.next()
		r.have = true
	}
	return r.lookahead
}

func (r *reader) advance() byte {
	b := r.peek()
	r.have = false
	return b
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDelim(b byte) bool {
	return b == eofByte || isSpace(b) || b == '(' || b == ')' || b == '"' || b == ';'
}

func (r *reader) skipSpace() {
	for {
		b := r.peek()
		if isSpace(b) {
			r.advance()
			continue
		}
		if b == ';' {
			for r.peek() != '\n' && r.peek() != eofByte {
				r.advance()
			}
			continue
		}
		return
	}
}

// Read parses one S-expression from next, returning (value, true) or
// (Nil(), false) at end of input -- read(context, reader_cb) → value|null.
func (ctx *Context) Read(next ReadFn) (Value, bool) {
	r := ctx.newReader(next)
	return r.readValue()
}

func (r *reader) readValue() (Value, bool) {
	r.skipSpace()
	b := r.peek()
	switch {
	case b == eofByte:
		return valNil, false
	case b == ')':
		r.ctx.Error("stray ')'")
		return valNil, false
	case b == '(':
		r.advance()
		return r.readList(), true
	case b == '\'':
		r.advance()
		depth := r.ctx.SaveGC()
		v, ok := r.readValue()
		if !ok {
			r.ctx.Error("unclosed list")
			return valNil, false
		}
		r.ctx.PushGC(v)
		out := r.ctx.List(r.ctx.quoteSym, v)
		r.ctx.RestoreGC(depth)
		return r.ctx.PushGC(out), true
	case b == '"':
		r.advance()
		return r.readString(), true
	default:
		return r.readAtom(), true
	}
}

func (r *reader) readList() Value {
	depth := r.ctx.SaveGC()
	head := valNil
	tailCell := (*Cell)(nil)

	for {
		r.skipSpace()
		b := r.peek()
		if b == eofByte {
			r.ctx.Error("unclosed list")
			return valNil
		}
		if b == ')' {
			r.advance()
			r.ctx.RestoreGC(depth)
			return r.ctx.PushGC(head)
		}
		if b == '.' {
			save := r.have
			saveB := r.lookahead
			r.advance()
			if isDelim(r.peek()) {
				v, ok := r.readValue()
				if !ok {
					r.ctx.Error("unclosed list")
					return valNil
				}
				r.skipSpace()
				if r.peek() != ')' {
					r.ctx.Error("expect ')' after dotted tail")
					return valNil
				}
				r.advance()
				if tailCell == nil {
					r.ctx.RestoreGC(depth)
					return r.ctx.PushGC(v)
				}
				tailCell.cdr = v
				r.ctx.RestoreGC(depth)
				return r.ctx.PushGC(head)
			}
			// not actually a dotted-pair marker; put the '.' back
			r.have = save
			r.lookahead = saveB
		}

		v, ok := r.readValue()
		if !ok {
			r.ctx.Error("unclosed list")
			return valNil
		}
		r.ctx.PushGC(v)
		cell := r.ctx.Cons(v, valNil)
		r.ctx.PushGC(cell)
		if tailCell == nil {
			head = cell
		} else {
			tailCell.cdr = cell
		}
		tailCell = cellOf(cell)
		r.ctx.PushGC(head)
	}
}

func (r *reader) readString() Value {
	var sb []byte
	for {
		b := r.peek()
		if b == eofByte {
			r.ctx.Error("unclosed string")
			return valNil
		}
		if b == '"' {
			r.advance()
			break
		}
		r.advance()
		if b == '\\' {
			e := r.advance()
			switch e {
			case 'n':
				sb = append(sb, '\n')
			case 'r':
				sb = append(sb, '\r')
			case 't':
				sb = append(sb, '\t')
			case '\\':
				sb = append(sb, '\\')
			case '"':
				sb = append(sb, '"')
			default:
				sb = append(sb, e)
			}
			continue
		}
		sb = append(sb, b)
	}
	return r.ctx.String(string(sb))
}

func (r *reader) readAtom() Value {
	var sb []byte
	for !isDelim(r.peek()) {
		if r.peek() == '\'' {
			break
		}
		sb = append(sb, r.advance())
	}
	tok := string(sb)

	switch tok {
	case "nil":
		return valNil
	case "true":
		return valTrue
	case "false":
		return valFalse
	}

	if n, ok := parseNumberToken(tok); ok {
		return r.ctx.MakeNumber(n)
	}
	return r.ctx.Symbol(tok)
}

func parseNumberToken(tok string) (float64, bool) {
	if tok == "" {
		return 0, false
	}
	if !strings.ContainsAny(tok[:1], "+-.0123456789") {
		return 0, false
	}
	n, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
