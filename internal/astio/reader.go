package astio

import (
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/symbols"
)

// ReadProgram parses the s-expression format WriteProgram produces back
// into a slice of *ast.Class, interning every symbol through in.
func ReadProgram(r io.Reader, in *symbols.Interner) ([]*ast.Class, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	toks := tokenize(string(data))
	rd := &reader{toks: toks, in: in}
	rd.expect("(")
	rd.expectAtom("program")
	var classes []*ast.Class
	for rd.peek() == "(" {
		classes = append(classes, rd.readClass())
	}
	rd.expect(")")
	return classes, rd.err
}

type reader struct {
	toks []string
	pos  int
	in   *symbols.Interner
	err  error
}

func (r *reader) peek() string {
	if r.pos >= len(r.toks) {
		return ""
	}
	return r.toks[r.pos]
}

func (r *reader) next() string {
	t := r.peek()
	r.pos++
	return t
}

func (r *reader) expect(tok string) {
	if got := r.next(); got != tok && r.err == nil {
		r.err = fmt.Errorf("astio: expected %q, got %q at token %d", tok, got, r.pos-1)
	}
}

func (r *reader) expectAtom(atom string) { r.expect(atom) }

func (r *reader) sym(name string) *symbols.Symbol { return r.in.Intern(unquote(name)) }

func (r *reader) readClass() *ast.Class {
	r.expect("(")
	r.expectAtom("class")
	name := r.sym(r.next())
	parentName := unquote(r.next())
	filename := unquote(r.next())

	var parent *symbols.Symbol
	if parentName != "Object" {
		parent = r.in.Intern(parentName)
	}

	c := &ast.Class{Name: name, Parent: parent, Filename: filename}
	for r.peek() == "(" {
		c.Features = append(c.Features, r.readFeature())
	}
	r.expect(")")
	return c
}

func (r *reader) readFeature() ast.Feature {
	r.expect("(")
	kind := r.next()
	switch kind {
	case "attr":
		name := r.sym(r.next())
		typ := r.sym(r.next())
		init := r.readExpr()
		r.expect(")")
		return &ast.Attr{Name: name, DeclaredType: typ, Init: init}
	case "method":
		name := r.sym(r.next())
		r.expect("(")
		var formals []*ast.Formal
		for r.peek() == "(" {
			r.expect("(")
			r.expectAtom("formal")
			fname := r.sym(r.next())
			ftyp := r.sym(r.next())
			r.expect(")")
			formals = append(formals, &ast.Formal{Name: fname, DeclaredType: ftyp})
		}
		r.expect(")")
		ret := r.sym(r.next())
		body := r.readExpr()
		r.expect(")")
		return &ast.Method{Name: name, Formals: formals, ReturnType: ret, Body: body}
	}
	if r.err == nil {
		r.err = fmt.Errorf("astio: unknown feature kind %q", kind)
	}
	return nil
}

func (r *reader) readExpr() ast.Expr {
	r.expect("(")
	kind := r.next()
	switch kind {
	case "no_expr":
		r.expect(")")
		return &ast.NoExpr{}
	case "assign":
		name := r.sym(r.next())
		val := r.readExpr()
		r.expect(")")
		return &ast.Assign{Name: name, Expr: val}
	case "static_dispatch":
		recv := r.readExpr()
		target := r.sym(r.next())
		method := r.sym(r.next())
		args := r.readExprList()
		r.expect(")")
		return &ast.StaticDispatch{Receiver: recv, TargetClass: target, Method: method, Args: args}
	case "dispatch":
		recv := r.readExpr()
		method := r.sym(r.next())
		args := r.readExprList()
		r.expect(")")
		return &ast.Dispatch{Receiver: recv, Method: method, Args: args}
	case "cond":
		pred := r.readExpr()
		then := r.readExpr()
		els := r.readExpr()
		r.expect(")")
		return &ast.Cond{Pred: pred, Then: then, Else: els}
	case "loop":
		pred := r.readExpr()
		body := r.readExpr()
		r.expect(")")
		return &ast.Loop{Pred: pred, Body: body}
	case "typcase":
		scrut := r.readExpr()
		var branches []*ast.Case
		for r.peek() == "(" {
			r.expect("(")
			r.expectAtom("branch")
			name := r.sym(r.next())
			typ := r.sym(r.next())
			body := r.readExpr()
			r.expect(")")
			branches = append(branches, &ast.Case{Name: name, DeclaredType: typ, Body: body})
		}
		r.expect(")")
		return &ast.TypeCase{Scrutinee: scrut, Branches: branches}
	case "block":
		var exprs []ast.Expr
		for r.peek() == "(" {
			exprs = append(exprs, r.readExpr())
		}
		r.expect(")")
		return &ast.Block{Exprs: exprs}
	case "let":
		name := r.sym(r.next())
		typ := r.sym(r.next())
		init := r.readExpr()
		if _, ok := init.(*ast.NoExpr); ok {
			init = nil
		}
		body := r.readExpr()
		r.expect(")")
		return &ast.Let{Name: name, DeclaredType: typ, Init: init, Body: body}
	case "plus", "sub", "mul", "divide", "lt", "leq", "eq":
		left := r.readExpr()
		right := r.readExpr()
		r.expect(")")
		return binOp(kind, left, right)
	case "neg":
		e := r.readExpr()
		r.expect(")")
		return &ast.Neg{Expr: e}
	case "comp":
		e := r.readExpr()
		r.expect(")")
		return &ast.Comp{Expr: e}
	case "int_const":
		v := r.sym(r.next())
		r.expect(")")
		return &ast.IntConst{Value: v}
	case "string_const":
		v := r.sym(unquote(r.next()))
		r.expect(")")
		return &ast.StringConst{Value: v}
	case "bool_const":
		v := r.next() == "true"
		r.expect(")")
		return &ast.BoolConst{Value: v}
	case "new":
		t := r.sym(r.next())
		r.expect(")")
		return &ast.New{ClassType: t}
	case "isvoid":
		e := r.readExpr()
		r.expect(")")
		return &ast.IsVoid{Expr: e}
	case "object":
		name := r.sym(r.next())
		r.expect(")")
		return &ast.ObjectRef{Name: name}
	}
	if r.err == nil {
		r.err = fmt.Errorf("astio: unknown expr kind %q", kind)
	}
	return &ast.NoExpr{}
}

func binOp(kind string, left, right ast.Expr) ast.Expr {
	switch kind {
	case "plus":
		return &ast.Plus{Left: left, Right: right}
	case "sub":
		return &ast.Sub{Left: left, Right: right}
	case "mul":
		return &ast.Mul{Left: left, Right: right}
	case "divide":
		return &ast.Divide{Left: left, Right: right}
	case "lt":
		return &ast.Lt{Left: left, Right: right}
	case "leq":
		return &ast.Leq{Left: left, Right: right}
	case "eq":
		return &ast.Eq{Left: left, Right: right}
	}
	return &ast.NoExpr{}
}

func (r *reader) readExprList() []ast.Expr {
	r.expect("(")
	var exprs []ast.Expr
	for r.peek() == "(" {
		exprs = append(exprs, r.readExpr())
	}
	r.expect(")")
	return exprs
}

// tokenize splits the s-expression text into "(", ")", and atoms, keeping
// double-quoted strings (with \" and \\ escapes) as single tokens.
func tokenize(s string) []string {
	var toks []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			start := i
			i++
			for i < len(s) && s[i] != '"' {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			i++ // closing quote
			toks = append(toks, s[start:i])
		default:
			start := i
			for i < len(s) && !strings.ContainsRune(" \t\n\r()", rune(s[i])) {
				i++
			}
			toks = append(toks, s[start:i])
		}
	}
	return toks
}

func unquote(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		inner := tok[1 : len(tok)-1]
		var sb strings.Builder
		for i := 0; i < len(inner); i++ {
			if inner[i] == '\\' && i+1 < len(inner) {
				i++
			}
			sb.WriteByte(inner[i])
		}
		return sb.String()
	}
	return tok
}
