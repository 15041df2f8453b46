package parser

import (
	"strconv"

	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/lexer"
)

// parseExpr is the grammar's entry point: or-expressions bind loosest.
func (p *Parser) parseExpr() ast.Exp {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Exp {
	left := p.parseAnd()
	for p.cur.Type == lexer.OR {
		tok := p.cur
		p.next()
		right := p.parseAnd()
		left = &ast.Binop{Op: "or", Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

func (p *Parser) parseAnd() ast.Exp {
	left := p.parseNot()
	for p.cur.Type == lexer.AND {
		tok := p.cur
		p.next()
		right := p.parseNot()
		left = &ast.Binop{Op: "and", Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

func (p *Parser) parseNot() ast.Exp {
	if p.cur.Type == lexer.NOT {
		tok := p.cur
		p.next()
		return &ast.Unop{Op: "not", Exp: p.parseNot(), Location: p.loc(tok)}
	}
	return p.parseRelational()
}

var relOps = map[lexer.TokenType]string{
	lexer.EQ: "==", lexer.NEQ: "!=",
	lexer.LT: "<", lexer.GT: ">", lexer.LE: "<=", lexer.GE: ">=",
}

func (p *Parser) parseRelational() ast.Exp {
	left := p.parseConcat()
	if op, ok := relOps[p.cur.Type]; ok {
		tok := p.cur
		p.next()
		right := p.parseConcat()
		return &ast.Binop{Op: op, Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

// parseConcat flattens a chain of ".."-joined operands into a single
// Concat node rather than nested Binop nodes.
func (p *Parser) parseConcat() ast.Exp {
	tok := p.cur
	first := p.parseBitOr()
	if p.cur.Type != lexer.DOTDOT {
		return first
	}
	exps := []ast.Exp{first}
	for p.cur.Type == lexer.DOTDOT {
		p.next()
		exps = append(exps, p.parseBitOr())
	}
	return &ast.Concat{Exps: exps, Location: p.loc(tok)}
}

func (p *Parser) parseBitOr() ast.Exp {
	left := p.parseBitAnd()
	for p.cur.Type == lexer.PIPE {
		tok := p.cur
		p.next()
		right := p.parseBitAnd()
		left = &ast.Binop{Op: "|", Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Exp {
	left := p.parseShift()
	for p.cur.Type == lexer.AMP {
		tok := p.cur
		p.next()
		right := p.parseShift()
		left = &ast.Binop{Op: "&", Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

func (p *Parser) parseShift() ast.Exp {
	left := p.parseAdd()
	for p.cur.Type == lexer.LSHIFT || p.cur.Type == lexer.RSHIFT {
		tok := p.cur
		op := "<<"
		if tok.Type == lexer.RSHIFT {
			op = ">>"
		}
		p.next()
		right := p.parseAdd()
		left = &ast.Binop{Op: op, Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

func (p *Parser) parseAdd() ast.Exp {
	left := p.parseMul()
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		tok := p.cur
		op := "+"
		if tok.Type == lexer.MINUS {
			op = "-"
		}
		p.next()
		right := p.parseMul()
		left = &ast.Binop{Op: op, Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

var mulOps = map[lexer.TokenType]string{
	lexer.STAR: "*", lexer.SLASH: "/", lexer.SLASHSLASH: "//", lexer.PERCENT: "%",
}

func (p *Parser) parseMul() ast.Exp {
	left := p.parseUnary()
	for {
		op, ok := mulOps[p.cur.Type]
		if !ok {
			return left
		}
		tok := p.cur
		p.next()
		right := p.parseUnary()
		left = &ast.Binop{Op: op, Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
}

func (p *Parser) parseUnary() ast.Exp {
	switch p.cur.Type {
	case lexer.MINUS:
		tok := p.cur
		p.next()
		return &ast.Unop{Op: "-", Exp: p.parseUnary(), Location: p.loc(tok)}
	case lexer.HASH:
		tok := p.cur
		p.next()
		return &ast.Unop{Op: "#", Exp: p.parseUnary(), Location: p.loc(tok)}
	case lexer.TILDE:
		tok := p.cur
		p.next()
		return &ast.Unop{Op: "~", Exp: p.parseUnary(), Location: p.loc(tok)}
	default:
		return p.parsePow()
	}
}

// parsePow binds "^" tighter than unary operators and right-associates, so
// that "-x^2" parses as "-(x^2)" and "x^y^z" as "x^(y^z)".
func (p *Parser) parsePow() ast.Exp {
	left := p.parseCast()
	if p.cur.Type == lexer.CARET {
		tok := p.cur
		p.next()
		right := p.parseUnary()
		return &ast.Binop{Op: "^", Lhs: left, Rhs: right, Location: p.loc(tok)}
	}
	return left
}

func (p *Parser) parseCast() ast.Exp {
	exp := p.parsePostfix()
	for p.cur.Type == lexer.AS {
		tok := p.cur
		p.next()
		target := p.parseTypeExpr()
		exp = &ast.Cast{Exp: exp, TargetType: target, Location: p.loc(tok)}
	}
	return exp
}

func (p *Parser) parsePostfix() ast.Exp {
	exp := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.LBRACKET:
			tok := p.cur
			p.next()
			idx := p.parseExpr()
			p.expect(lexer.RBRACKET, `"]"`)
			exp = &ast.Bracket{Exp: exp, Index: idx, Location: p.loc(tok)}
		case lexer.DOT:
			tok := p.cur
			p.next()
			field := p.expect(lexer.IDENT, "a field name")
			exp = &ast.Dot{Exp: exp, Field: field.Literal, Location: p.loc(tok)}
		case lexer.LPAREN:
			tok := p.cur
			p.next()
			var args []ast.Exp
			for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
				args = append(args, p.parseExpr())
				if p.cur.Type == lexer.COMMA {
					p.next()
				}
			}
			p.expect(lexer.RPAREN, `")"`)
			exp = &ast.Call{Exp: exp, Args: args, Location: p.loc(tok)}
		default:
			return exp
		}
	}
}

func (p *Parser) parsePrimary() ast.Exp {
	tok := p.cur
	switch tok.Type {
	case lexer.INT:
		p.next()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorf(tok, "invalid integer literal %q", tok.Literal)
		}
		return &ast.IntLit{Value: v, Location: p.loc(tok)}
	case lexer.FLOAT:
		p.next()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf(tok, "invalid float literal %q", tok.Literal)
		}
		return &ast.FloatLit{Value: v, Location: p.loc(tok)}
	case lexer.STRING:
		p.next()
		return &ast.StringLit{Value: tok.Literal, Location: p.loc(tok)}
	case lexer.TRUE:
		p.next()
		return &ast.BoolLit{Value: true, Location: p.loc(tok)}
	case lexer.FALSE:
		p.next()
		return &ast.BoolLit{Value: false, Location: p.loc(tok)}
	case lexer.NIL:
		p.next()
		return &ast.NilLit{Location: p.loc(tok)}
	case lexer.IDENT:
		p.next()
		return &ast.Name{Ident: tok.Literal, Location: p.loc(tok)}
	case lexer.LPAREN:
		p.next()
		e := p.parseExpr()
		p.expect(lexer.RPAREN, `")"`)
		return e
	case lexer.LBRACE:
		p.next()
		lit := &ast.Initlist{Location: p.loc(tok)}
		for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
			lit.Exps = append(lit.Exps, p.parseExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RBRACE, `"}"`)
		return lit
	default:
		p.errorf(tok, "unexpected token %q in expression", tok.Literal)
		p.next()
		return &ast.IntLit{Value: 0, Location: p.loc(tok)}
	}
}
