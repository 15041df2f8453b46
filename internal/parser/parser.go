// Package parser turns a Titan token stream into a raw ast.File. Like
// internal/lexer, it is an external collaborator to the core — checker and
// coder consume only the ast package's node shapes, never this one; the
// driver calls it only to build the ast.File. Recursive descent with a cur/peek token pair, one parseX function
// per grammar production.
package parser

import (
	"github.com/titanlang/titanc/internal/ast"
	"github.com/titanlang/titanc/internal/errors"
	"github.com/titanlang/titanc/internal/lexer"
)

// Parser holds the token stream and the two-token lookahead window the
// recursive-descent grammar below needs.
type Parser struct {
	l *lexer.Lexer
	file string

	cur lexer.Token
	peek lexer.Token

	errs errors.List
}

// New returns a Parser over src, to be reported under filename.
func New(src, filename string) *Parser {
	p := &Parser{l: lexer.New(src, filename), file: filename}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) loc(tok lexer.Token) ast.Location {
	return ast.Location{Filename: tok.Pos.File, Line: tok.Pos.Line, Column: tok.Pos.Column}
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) {
	p.errs.Add(errors.New(errors.SyntaxError, p.loc(tok), format, args...))
}

func (p *Parser) expect(t lexer.TokenType, what string) lexer.Token {
	tok := p.cur
	if tok.Type != t {
		p.errorf(tok, "expected %s, got %q", what, tok.Literal)
	} else {
		p.next()
	}
	return tok
}

// Errors returns every SyntaxError diagnostic accumulated while parsing.
func (p *Parser) Errors() errors.List { return p.errs }

// ParseFile parses an entire source file into a raw ast.File. Parsing
// continues past a malformed top-level declaration when it can resynchronize
// at the next "function"/"local"/"record"/"import" keyword, so a single
// syntax error doesn't suppress every later one — mirroring the
// continue-after-first-error policy the core itself follows,
// even though syntax recovery itself is outside the core's responsibility.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{Filename: p.file}
	for p.cur.Type != lexer.EOF {
		before := p.cur
		decl := p.parseTopLevel()
		if decl != nil {
			f.TopLevel = append(f.TopLevel, decl)
		}
		if p.cur == before {
			// parseTopLevel made no progress; avoid looping forever on an
			// unrecognized token by skipping it.
			p.next()
		}
	}
	return f
}

func (p *Parser) parseTopLevel() ast.TopLevel {
	switch p.cur.Type {
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.RECORD:
		return p.parseRecord()
	case lexer.FUNCTION:
		return p.parseFunc(false)
	case lexer.LOCAL:
		if p.peek.Type == lexer.FUNCTION {
			p.next()
			return p.parseFunc(true)
		}
		return p.parseTopLevelVar()
	default:
		p.errorf(p.cur, "expected a top-level declaration, got %q", p.cur.Literal)
		return nil
	}
}

func (p *Parser) parseImport() *ast.ImportDecl {
	tok := p.cur
	p.next() // "import"
	path := p.expect(lexer.STRING, "a module path string")
	return &ast.ImportDecl{Path: path.Literal, Location: p.loc(tok)}
}

func (p *Parser) parseRecord() *ast.RecordDecl {
	tok := p.cur
	p.next() // "record"
	name := p.expect(lexer.IDENT, "a record name")

	r := &ast.RecordDecl{Name: name.Literal, Location: p.loc(tok)}
	for p.cur.Type != lexer.END && p.cur.Type != lexer.EOF {
		fname := p.expect(lexer.IDENT, "a field name")
		p.expect(lexer.COLON, `":"`)
		ftype := p.parseTypeExpr()
		r.Fields = append(r.Fields, ast.RecordField{Name: fname.Literal, Type: ftype})
	}
	p.expect(lexer.END, `"end"`)
	return r
}

func (p *Parser) parseTopLevelVar() *ast.VarDecl {
	tok := p.cur
	p.next() // "local"
	name := p.expect(lexer.IDENT, "a variable name")
	p.expect(lexer.COLON, `":"`)
	typeExpr := p.parseTypeExpr()

	v := &ast.VarDecl{
		Decl: &ast.Decl{Name: name.Literal, TypeExpr: typeExpr, Location: p.loc(name)},
		Location: p.loc(tok),
		GlobalIndex: -1,
	}
	if p.cur.Type == lexer.COLONEQ {
		p.next()
		v.Value = p.parseExpr()
	}
	return v
}

func (p *Parser) parseFunc(isLocal bool) *ast.FuncDecl {
	tok := p.cur
	p.next() // "function"
	name := p.expect(lexer.IDENT, "a function name")

	fn := &ast.FuncDecl{Name: name.Literal, IsLocal: isLocal, GlobalIndex: -1, Location: p.loc(tok)}

	p.expect(lexer.LPAREN, `"("`)
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		pname := p.expect(lexer.IDENT, "a parameter name")
		p.expect(lexer.COLON, `":"`)
		ptype := p.parseTypeExpr()
		fn.Params = append(fn.Params, &ast.Decl{Name: pname.Literal, TypeExpr: ptype, Location: p.loc(pname)})
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN, `")"`)

	if p.cur.Type == lexer.COLON {
		p.next()
		fn.ReturnTypes = append(fn.ReturnTypes, p.parseTypeExpr())
	}

	fn.Block = p.parseBlock(lexer.END)
	p.expect(lexer.END, `"end"`)
	return fn
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	tok := p.cur
	switch p.cur.Type {
	case lexer.IDENT:
		p.next()
		return &ast.BaseTypeExpr{Name: tok.Literal, Location: p.loc(tok)}
	case lexer.LBRACE:
		p.next()
		elem := p.parseTypeExpr()
		p.expect(lexer.RBRACE, `"}"`)
		return &ast.ArrayTypeExpr{Elem: elem, Location: p.loc(tok)}
	case lexer.LPAREN:
		p.next()
		ft := &ast.FunctionTypeExpr{Location: p.loc(tok)}
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			ft.Params = append(ft.Params, p.parseTypeExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN, `")"`)
		p.expect(lexer.ARROW, `"->"`)
		p.expect(lexer.LPAREN, `"("`)
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			ft.Returns = append(ft.Returns, p.parseTypeExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN, `")"`)
		return ft
	default:
		p.errorf(tok, "expected a type, got %q", tok.Literal)
		p.next()
		return &ast.BaseTypeExpr{Name: "integer", Location: p.loc(tok)}
	}
}

// isBlockEnd reports whether t closes a Block; used so parseBlock
// knows when to stop without needing a matching open/close count.
func isBlockEnd(t lexer.TokenType) bool {
	switch t {
	case lexer.END, lexer.ELSEIF, lexer.ELSE, lexer.UNTIL, lexer.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseBlock(_ lexer.TokenType) *ast.Block {
	tok := p.cur
	b := &ast.Block{Location: p.loc(tok)}
	for !isBlockEnd(p.cur.Type) {
		before := p.cur
		s := p.parseStat()
		if s != nil {
			b.Stats = append(b.Stats, s)
		}
		if p.cur == before {
			p.next()
		}
	}
	return b
}

func (p *Parser) parseStat() ast.Stat {
	switch p.cur.Type {
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.REPEAT:
		return p.parseRepeat()
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.LOCAL:
		return p.parseDeclStat()
	default:
		return p.parseExprStat()
	}
}

func (p *Parser) parseWhile() *ast.While {
	tok := p.cur
	p.next()
	cond := p.parseExpr()
	p.expect(lexer.DO, `"do"`)
	body := p.parseBlock(lexer.END)
	p.expect(lexer.END, `"end"`)
	return &ast.While{Cond: cond, Block: body, Location: p.loc(tok)}
}

func (p *Parser) parseRepeat() *ast.Repeat {
	tok := p.cur
	p.next()
	body := p.parseBlock(lexer.UNTIL)
	p.expect(lexer.UNTIL, `"until"`)
	cond := p.parseExpr()
	return &ast.Repeat{Block: body, Cond: cond, Location: p.loc(tok)}
}

func (p *Parser) parseIf() *ast.If {
	tok := p.cur
	p.next()
	n := &ast.If{Location: p.loc(tok)}

	cond := p.parseExpr()
	p.expect(lexer.THEN, `"then"`)
	body := p.parseBlock(lexer.END)
	n.Thens = append(n.Thens, ast.IfArm{Cond: cond, Block: body})

	for p.cur.Type == lexer.ELSEIF {
		p.next()
		c := p.parseExpr()
		p.expect(lexer.THEN, `"then"`)
		b := p.parseBlock(lexer.END)
		n.Thens = append(n.Thens, ast.IfArm{Cond: c, Block: b})
	}
	if p.cur.Type == lexer.ELSE {
		p.next()
		n.Else = p.parseBlock(lexer.END)
	}
	p.expect(lexer.END, `"end"`)
	return n
}

func (p *Parser) parseFor() *ast.For {
	tok := p.cur
	p.next()
	name := p.expect(lexer.IDENT, "a loop variable name")
	p.expect(lexer.COLON, `":"`)
	typeExpr := p.parseTypeExpr()
	p.expect(lexer.ASSIGN, `"="`)
	start := p.parseExpr()
	p.expect(lexer.COMMA, `","`)
	finish := p.parseExpr()

	f := &ast.For{
		Decl: &ast.Decl{Name: name.Literal, TypeExpr: typeExpr, Location: p.loc(name)},
		Start: start,
		Finish: finish,
		Location: p.loc(tok),
	}
	if p.cur.Type == lexer.COMMA {
		p.next()
		f.Step = p.parseExpr()
	}
	p.expect(lexer.DO, `"do"`)
	f.Block = p.parseBlock(lexer.END)
	p.expect(lexer.END, `"end"`)
	return f
}

func (p *Parser) parseReturn() *ast.Return {
	tok := p.cur
	p.next()
	r := &ast.Return{Location: p.loc(tok)}
	if !isBlockEnd(p.cur.Type) && p.cur.Type != lexer.SEMI {
		r.Value = p.parseExpr()
	}
	return r
}

func (p *Parser) parseDeclStat() *ast.DeclStat {
	tok := p.cur
	p.next() // "local"
	name := p.expect(lexer.IDENT, "a variable name")

	d := &ast.Decl{Name: name.Literal, Location: p.loc(name)}
	if p.cur.Type == lexer.COLON {
		p.next()
		d.TypeExpr = p.parseTypeExpr()
	}

	ds := &ast.DeclStat{Decl: d, Location: p.loc(tok)}
	if p.cur.Type == lexer.COLONEQ {
		p.next()
		ds.Value = p.parseExpr()
	}
	return ds
}

func (p *Parser) parseExprStat() ast.Stat {
	tok := p.cur
	e := p.parseExpr()

	if p.cur.Type == lexer.COLONEQ {
		p.next()
		target, ok := e.(ast.Var)
		if !ok {
			p.errorf(tok, "cannot assign to this expression")
			target = &ast.Name{Ident: "<error>", Location: p.loc(tok)}
		}
		value := p.parseExpr()
		return &ast.Assign{Target: target, Value: value, Location: p.loc(tok)}
	}

	call, ok := e.(*ast.Call)
	if !ok {
		p.errorf(tok, "expected a statement, got a bare expression")
		return nil
	}
	return &ast.CallStat{Call: call, Location: p.loc(tok)}
}
