package parser

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/lexer"
)

// parseExpr parses a full COOL expression, starting at the loosest
// binding form: assignment. COOL's precedence (tightest to loosest, per
// original_source/parser/cool.tab.c's %left/%right declarations) is:
//
//	.  @          (dispatch)
//	~             (unary negation)
//	*  /
//	+  -
//	<  <=  =
//	not
//	<-            (assignment)
func (p *Parser) parseExpr() ast.Expr {
	if p.cur.Type == lexer.OBJECTID && p.peek.Type == lexer.ASSIGN {
		return p.parseAssign()
	}
	return p.parseNot()
}

func (p *Parser) parseAssign() ast.Expr {
	line := p.cur.Pos.Line
	name := p.intern(p.cur.Literal)
	p.advance() // name
	p.advance() // <-
	value := p.parseExpr()
	return &ast.Assign{Base: ast.Base{Line: line}, Name: name, Expr: value}
}

// parseNot handles `not e`, which binds looser than the comparisons but
// tighter than assignment.
func (p *Parser) parseNot() ast.Expr {
	if p.cur.Type == lexer.NOT {
		line := p.cur.Pos.Line
		p.advance()
		return &ast.Comp{Base: ast.Base{Line: line}, Expr: p.parseNot()}
	}
	return p.parseComparison()
}

// parseComparison handles the non-associative `<`, `<=`, `=` level.
func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	switch p.cur.Type {
	case lexer.LT:
		line := p.cur.Pos.Line
		p.advance()
		return &ast.Lt{Base: ast.Base{Line: line}, Left: left, Right: p.parseAdditive()}
	case lexer.LE:
		line := p.cur.Pos.Line
		p.advance()
		return &ast.Leq{Base: ast.Base{Line: line}, Left: left, Right: p.parseAdditive()}
	case lexer.EQ:
		line := p.cur.Pos.Line
		p.advance()
		return &ast.Eq{Base: ast.Base{Line: line}, Left: left, Right: p.parseAdditive()}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS {
		line := p.cur.Pos.Line
		op := p.cur.Type
		p.advance()
		right := p.parseMultiplicative()
		if op == lexer.PLUS {
			left = &ast.Plus{Base: ast.Base{Line: line}, Left: left, Right: right}
		} else {
			left = &ast.Sub{Base: ast.Base{Line: line}, Left: left, Right: right}
		}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH {
		line := p.cur.Pos.Line
		op := p.cur.Type
		p.advance()
		right := p.parseUnary()
		if op == lexer.STAR {
			left = &ast.Mul{Base: ast.Base{Line: line}, Left: left, Right: right}
		} else {
			left = &ast.Divide{Base: ast.Base{Line: line}, Left: left, Right: right}
		}
	}
	return left
}

// parseUnary handles `~e` and `isvoid e`, both tighter than the binary
// arithmetic operators but looser than dispatch.
func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Type {
	case lexer.TILDE:
		line := p.cur.Pos.Line
		p.advance()
		return &ast.Neg{Base: ast.Base{Line: line}, Expr: p.parseUnary()}
	case lexer.ISVOID:
		line := p.cur.Pos.Line
		p.advance()
		return &ast.IsVoid{Base: ast.Base{Line: line}, Expr: p.parseUnary()}
	}
	return p.parseDispatchChain()
}

// parseDispatchChain parses a primary expression followed by zero or more
// `.m(args)` / `@Type.m(args)` suffixes, COOL's tightest-binding form.
func (p *Parser) parseDispatchChain() ast.Expr {
	e := p.parsePrimary()
	for {
		switch p.cur.Type {
		case lexer.DOT:
			line := p.cur.Pos.Line
			p.advance()
			if p.cur.Type != lexer.OBJECTID {
				p.errorf("syntax error: expected method name, found %q", p.cur.Literal)
				return e
			}
			method := p.intern(p.cur.Literal)
			p.advance()
			args := p.parseArgList()
			e = &ast.Dispatch{Base: ast.Base{Line: line}, Receiver: e, Method: method, Args: args}
		case lexer.AT:
			line := p.cur.Pos.Line
			p.advance()
			target := p.declaredType()
			if !p.expect(lexer.DOT, ".") {
				return e
			}
			if p.cur.Type != lexer.OBJECTID {
				p.errorf("syntax error: expected method name, found %q", p.cur.Literal)
				return e
			}
			method := p.intern(p.cur.Literal)
			p.advance()
			args := p.parseArgList()
			e = &ast.StaticDispatch{Base: ast.Base{Line: line}, Receiver: e, TargetClass: target, Method: method, Args: args}
		default:
			return e
		}
	}
}

func (p *Parser) parseArgList() []ast.Expr {
	p.expect(lexer.LPAREN, "(")
	var args []ast.Expr
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseExpr())
		if p.cur.Type == lexer.COMMA {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN, ")")
	return args
}

// parsePrimary parses the non-left-recursive forms: literals,
// identifiers (including implicit-self dispatch `m(args)`), parenthesized
// expressions, blocks, and the keyword-introduced forms (if, while, let,
// case, new).
func (p *Parser) parsePrimary() ast.Expr {
	line := p.cur.Pos.Line
	switch p.cur.Type {
	case lexer.INT_CONST:
		return p.parseIntConst()
	case lexer.STR_CONST:
		v := p.intern(p.cur.Literal)
		p.advance()
		return &ast.StringConst{Base: ast.Base{Line: line}, Value: v}
	case lexer.BOOL_CONST:
		v := p.cur.BoolValue
		p.advance()
		return &ast.BoolConst{Base: ast.Base{Line: line}, Value: v}
	case lexer.OBJECTID:
		name := p.intern(p.cur.Literal)
		p.advance()
		if p.cur.Type == lexer.LPAREN {
			args := p.parseArgList()
			return &ast.Dispatch{Base: ast.Base{Line: line}, Receiver: nil, Method: name, Args: args}
		}
		return &ast.ObjectRef{Base: ast.Base{Line: line}, Name: name}
	case lexer.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.RPAREN, ")")
		return e
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseCond()
	case lexer.WHILE:
		return p.parseLoop()
	case lexer.LET:
		return p.parseLet()
	case lexer.CASE:
		return p.parseTypeCase()
	case lexer.NEW:
		p.advance()
		t := p.declaredType()
		return &ast.New{Base: ast.Base{Line: line}, ClassType: t}
	default:
		p.errorf("syntax error at or near %q", p.cur.Literal)
		p.advance()
		return &ast.NoExpr{Base: ast.Base{Line: line}}
	}
}

func (p *Parser) parseBlock() ast.Expr {
	line := p.cur.Pos.Line
	p.advance() // {
	var exprs []ast.Expr
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		exprs = append(exprs, p.parseExpr())
		if !p.expect(lexer.SEMI, ";") {
			break
		}
	}
	p.expect(lexer.RBRACE, "}")
	return &ast.Block{Base: ast.Base{Line: line}, Exprs: exprs}
}

func (p *Parser) parseCond() ast.Expr {
	line := p.cur.Pos.Line
	p.advance() // if
	pred := p.parseExpr()
	p.expect(lexer.THEN, "then")
	then := p.parseExpr()
	p.expect(lexer.ELSE, "else")
	els := p.parseExpr()
	p.expect(lexer.FI, "fi")
	return &ast.Cond{Base: ast.Base{Line: line}, Pred: pred, Then: then, Else: els}
}

func (p *Parser) parseLoop() ast.Expr {
	line := p.cur.Pos.Line
	p.advance() // while
	pred := p.parseExpr()
	p.expect(lexer.LOOP, "loop")
	body := p.parseExpr()
	p.expect(lexer.POOL, "pool")
	return &ast.Loop{Base: ast.Base{Line: line}, Pred: pred, Body: body}
}

// parseLet parses `let x1:T1 [<- e1], x2:T2 [<- e2], ... in body`,
// desugaring the comma-separated binding list into right-nested Let nodes
// (each binding's scope is everything to its right), matching the
// original compiler's desugaring of multi-binding let.
func (p *Parser) parseLet() ast.Expr {
	p.advance() // let
	return p.parseLetBinding()
}

func (p *Parser) parseLetBinding() ast.Expr {
	line := p.cur.Pos.Line
	if p.cur.Type != lexer.OBJECTID {
		p.errorf("syntax error: expected identifier after 'let', found %q", p.cur.Literal)
		return &ast.NoExpr{Base: ast.Base{Line: line}}
	}
	name := p.intern(p.cur.Literal)
	p.advance()
	p.expect(lexer.COLON, ":")
	typ := p.declaredType()

	var init ast.Expr
	if p.cur.Type == lexer.ASSIGN {
		p.advance()
		init = p.parseNot()
	}

	var body ast.Expr
	if p.cur.Type == lexer.COMMA {
		p.advance()
		body = p.parseLetBinding()
	} else {
		p.expect(lexer.IN, "in")
		body = p.parseExpr()
	}
	return &ast.Let{Base: ast.Base{Line: line}, Name: name, DeclaredType: typ, Init: init, Body: body}
}

func (p *Parser) parseTypeCase() ast.Expr {
	line := p.cur.Pos.Line
	p.advance() // case
	scrutinee := p.parseExpr()
	p.expect(lexer.OF, "of")

	var branches []*ast.Case
	for p.cur.Type != lexer.ESAC && p.cur.Type != lexer.EOF {
		branches = append(branches, p.parseCaseBranch())
		p.expect(lexer.SEMI, ";")
	}
	p.expect(lexer.ESAC, "esac")
	return &ast.TypeCase{Base: ast.Base{Line: line}, Scrutinee: scrutinee, Branches: branches}
}

func (p *Parser) parseCaseBranch() *ast.Case {
	line := p.cur.Pos.Line
	if p.cur.Type != lexer.OBJECTID {
		p.errorf("syntax error: expected identifier in case branch, found %q", p.cur.Literal)
	}
	name := p.intern(p.cur.Literal)
	p.advance()
	p.expect(lexer.COLON, ":")
	typ := p.declaredType()
	p.expect(lexer.DARROW, "=>")
	body := p.parseExpr()
	return &ast.Case{Name: name, DeclaredType: typ, Body: body, Line: line}
}
