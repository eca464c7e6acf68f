// Package parser builds an ast.Program from a token stream, by recursive
// descent with a small precedence-climbing core for the arithmetic/
// comparison operators, grounded on the original compiler's grammar
// (original_source/parser/cool.tab.c) and the teacher's general parser
// shape (error accumulation into a shared bag rather than panicking,
// one-token lookahead advanced explicitly).
package parser

import (
	"strconv"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/symbols"
)

// Parser consumes one file's token stream into a slice of *ast.Class.
type Parser struct {
	l        *lexer.Lexer
	in       *symbols.Interner
	bag      *diag.Bag
	filename string

	cur  lexer.Token
	peek lexer.Token
}

// New creates a Parser over l, reporting syntax errors into bag under
// filename.
func New(l *lexer.Lexer, in *symbols.Interner, bag *diag.Bag, filename string) *Parser {
	p := &Parser{l: l, in: in, bag: bag, filename: filename}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.bag.Addf(p.filename, p.cur.Pos.Line, format, args...)
}

func (p *Parser) expect(t lexer.TokenType, what string) bool {
	if p.cur.Type != t {
		p.errorf("syntax error: expected %s, found %q", what, p.cur.Literal)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) intern(text string) *symbols.Symbol { return p.in.Intern(text) }

// ParseProgram parses `class ... ; class ... ; ... EOF` and returns every
// class declaration it recovered (spec.md §3 Program).
func (p *Parser) ParseProgram() []*ast.Class {
	var classes []*ast.Class
	for p.cur.Type != lexer.EOF {
		c := p.parseClass()
		if c != nil {
			classes = append(classes, c)
		}
		if p.cur.Type == lexer.SEMI {
			p.advance()
		} else if p.cur.Type != lexer.EOF {
			p.errorf("syntax error: expected ';', found %q", p.cur.Literal)
			p.syncToNextClass()
		}
	}
	return classes
}

// syncToNextClass skips tokens until the next `class` keyword or EOF, a
// minimal error-recovery strategy so one bad class doesn't abort the
// whole file.
func (p *Parser) syncToNextClass() {
	for p.cur.Type != lexer.CLASS && p.cur.Type != lexer.EOF {
		p.advance()
	}
}

func (p *Parser) parseClass() *ast.Class {
	if !p.expect(lexer.CLASS, "class") {
		p.syncToNextClass()
		return nil
	}

	line := p.cur.Pos.Line
	if p.cur.Type != lexer.TYPEID {
		p.errorf("syntax error: expected TYPEID, found %q", p.cur.Literal)
		p.syncToNextClass()
		return nil
	}
	name := p.intern(p.cur.Literal)
	p.advance()

	var parent *symbols.Symbol
	if p.cur.Type == lexer.INHERITS {
		p.advance()
		if p.cur.Type != lexer.TYPEID {
			p.errorf("syntax error: expected TYPEID after 'inherits', found %q", p.cur.Literal)
		} else {
			parent = p.intern(p.cur.Literal)
			p.advance()
		}
	}

	if !p.expect(lexer.LBRACE, "{") {
		p.syncToNextClass()
		return nil
	}

	var features []ast.Feature
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		f := p.parseFeature()
		if f != nil {
			features = append(features, f)
		}
		if p.cur.Type == lexer.SEMI {
			p.advance()
		} else {
			p.errorf("syntax error: expected ';', found %q", p.cur.Literal)
			break
		}
	}
	p.expect(lexer.RBRACE, "}")

	return &ast.Class{Name: name, Parent: parent, Features: features, Filename: p.filename, Line: line}
}

// parseFeature disambiguates attr vs. method by looking one token past
// the identifier: `(` starts a method's formal list, anything else is an
// attribute declaration.
func (p *Parser) parseFeature() ast.Feature {
	if p.cur.Type != lexer.OBJECTID {
		p.errorf("syntax error: expected identifier, found %q", p.cur.Literal)
		return nil
	}
	name := p.intern(p.cur.Literal)
	line := p.cur.Pos.Line
	p.advance()

	if p.cur.Type == lexer.LPAREN {
		return p.parseMethod(name, line)
	}
	return p.parseAttr(name, line)
}

func (p *Parser) parseMethod(name *symbols.Symbol, line int) *ast.Method {
	p.advance() // consume (

	var formals []*ast.Formal
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		formals = append(formals, p.parseFormal())
		if p.cur.Type == lexer.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN, ")")
	p.expect(lexer.COLON, ":")

	var ret *symbols.Symbol
	if p.cur.Type == lexer.TYPEID && p.cur.Literal == "SELF_TYPE" {
		ret = p.in.SelfType
	} else if p.cur.Type == lexer.TYPEID {
		ret = p.intern(p.cur.Literal)
	} else {
		p.errorf("syntax error: expected return type, found %q", p.cur.Literal)
	}
	p.advance()

	p.expect(lexer.LBRACE, "{")
	body := p.parseExpr()
	p.expect(lexer.RBRACE, "}")

	return &ast.Method{Name: name, Formals: formals, ReturnType: ret, Body: body, Line: line}
}

func (p *Parser) parseFormal() *ast.Formal {
	line := p.cur.Pos.Line
	if p.cur.Type != lexer.OBJECTID {
		p.errorf("syntax error: expected formal parameter name, found %q", p.cur.Literal)
		return &ast.Formal{Name: p.in.Intern("_error"), DeclaredType: p.in.Object, Line: line}
	}
	name := p.intern(p.cur.Literal)
	p.advance()
	p.expect(lexer.COLON, ":")

	var typ *symbols.Symbol
	if p.cur.Type == lexer.TYPEID {
		typ = p.intern(p.cur.Literal)
		p.advance()
	} else {
		p.errorf("syntax error: expected formal parameter type, found %q", p.cur.Literal)
		typ = p.in.Object
	}
	return &ast.Formal{Name: name, DeclaredType: typ, Line: line}
}

func (p *Parser) parseAttr(name *symbols.Symbol, line int) *ast.Attr {
	p.expect(lexer.COLON, ":")

	var typ *symbols.Symbol
	if p.cur.Type == lexer.TYPEID {
		typ = p.intern(p.cur.Literal)
		p.advance()
	} else {
		p.errorf("syntax error: expected attribute type, found %q", p.cur.Literal)
		typ = p.in.Object
	}

	var init ast.Expr = &ast.NoExpr{Base: ast.Base{Line: line}}
	if p.cur.Type == lexer.ASSIGN {
		p.advance()
		init = p.parseExpr()
	}
	return &ast.Attr{Name: name, DeclaredType: typ, Init: init, Line: line}
}

// declaredType parses a type name appearing in formal/let/case/new/
// attribute position, resolving SELF_TYPE to the interner's singleton.
func (p *Parser) declaredType() *symbols.Symbol {
	if p.cur.Type != lexer.TYPEID {
		p.errorf("syntax error: expected type name, found %q", p.cur.Literal)
		p.advance()
		return p.in.Object
	}
	var t *symbols.Symbol
	if p.cur.Literal == "SELF_TYPE" {
		t = p.in.SelfType
	} else {
		t = p.intern(p.cur.Literal)
	}
	p.advance()
	return t
}

func (p *Parser) parseIntConst() *ast.IntConst {
	line := p.cur.Pos.Line
	if _, err := strconv.ParseInt(p.cur.Literal, 10, 32); err != nil {
		p.errorf("integer constant %s too large", p.cur.Literal)
	}
	v := p.intern(p.cur.Literal)
	p.advance()
	return &ast.IntConst{Base: ast.Base{Line: line}, Value: v}
}
