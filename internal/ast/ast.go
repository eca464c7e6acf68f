// Package ast defines the immutable tree of program/class/feature/formal/
// expression/case nodes shared by every later compiler stage (spec.md §3).
// The only node field any stage mutates after parsing is an expression's
// inferred-type slot (Base.Inferred, set through SetType), written exactly
// once by the type checker (spec.md §3 "Lifecycles").
package ast

import "github.com/cwbudde/coolc/internal/symbols"

// Program is the root of the tree: an ordered sequence of classes in parse
// order, built-ins prepended by the class table (spec.md §5).
type Program struct {
	Classes []*Class
}

// Class is a single class declaration.
type Class struct {
	Name     *symbols.Symbol
	Parent   *symbols.Symbol // nil means "inherits Object" (resolved by classtable.BuildInheritance)
	Features []Feature
	Filename string
	Line     int
}

// Feature is either an Attr or a Method.
type Feature interface {
	featureNode()
	Pos() int
}

// Attr is an attribute declaration. Init is NoExpr when the attribute has
// no initializer.
type Attr struct {
	Name         *symbols.Symbol
	DeclaredType *symbols.Symbol
	Init         Expr
	Line         int
}

func (*Attr) featureNode() {}
func (a *Attr) Pos() int   { return a.Line }

// Method is a method declaration.
type Method struct {
	Name       *symbols.Symbol
	Formals    []*Formal
	ReturnType *symbols.Symbol
	Body       Expr
	Line       int
}

func (*Method) featureNode() {}
func (m *Method) Pos() int   { return m.Line }

// Formal is a single method parameter.
type Formal struct {
	Name         *symbols.Symbol
	DeclaredType *symbols.Symbol
	Line         int
}

// Case is one branch of a TypeCase (class-case) expression.
type Case struct {
	Name         *symbols.Symbol
	DeclaredType *symbols.Symbol
	Body         Expr
	Line         int
}
