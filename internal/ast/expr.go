package ast

import "github.com/cwbudde/coolc/internal/symbols"

// Expr is the closed set of expression variants (spec.md §3). Every
// concrete type embeds Base, which carries the source line and the
// inferred-type slot the checker fills in exactly once per node.
type Expr interface {
	exprNode()
	Pos() int
	Type() *symbols.Symbol
	SetType(*symbols.Symbol)
}

// Base is embedded by every Expr variant.
type Base struct {
	Line     int
	Inferred *symbols.Symbol
}

func (b *Base) Pos() int                    { return b.Line }
func (b *Base) Type() *symbols.Symbol       { return b.Inferred }
func (b *Base) SetType(t *symbols.Symbol)   { b.Inferred = t }

func (*Assign) exprNode()         {}
func (*StaticDispatch) exprNode() {}
func (*Dispatch) exprNode()       {}
func (*Cond) exprNode()           {}
func (*Loop) exprNode()           {}
func (*TypeCase) exprNode()       {}
func (*Block) exprNode()         {}
func (*Let) exprNode()            {}
func (*Plus) exprNode()           {}
func (*Sub) exprNode()            {}
func (*Mul) exprNode()            {}
func (*Divide) exprNode()         {}
func (*Neg) exprNode()            {}
func (*Lt) exprNode()             {}
func (*Eq) exprNode()             {}
func (*Leq) exprNode()            {}
func (*Comp) exprNode()           {}
func (*IntConst) exprNode()       {}
func (*StringConst) exprNode()    {}
func (*BoolConst) exprNode()      {}
func (*New) exprNode()            {}
func (*IsVoid) exprNode()         {}
func (*NoExpr) exprNode()         {}
func (*ObjectRef) exprNode()      {}

// Assign is `name <- e`.
type Assign struct {
	Base
	Name *symbols.Symbol
	Expr Expr
}

// StaticDispatch is `e@Type.m(args)`.
type StaticDispatch struct {
	Base
	Receiver    Expr
	TargetClass *symbols.Symbol
	Method      *symbols.Symbol
	Args        []Expr
}

// Dispatch is `e.m(args)` or, when Receiver is nil, an implicit `self.m(args)`.
type Dispatch struct {
	Base
	Receiver Expr
	Method   *symbols.Symbol
	Args     []Expr
}

// Cond is `if p then t else e fi`.
type Cond struct {
	Base
	Pred Expr
	Then Expr
	Else Expr
}

// Loop is `while p loop b pool`.
type Loop struct {
	Base
	Pred Expr
	Body Expr
}

// TypeCase is `case e of x1:T1 => b1; ... esac`.
type TypeCase struct {
	Base
	Scrutinee Expr
	Branches  []*Case
}

// Block is `{ e1; e2; ...; en; }`.
type Block struct {
	Base
	Exprs []Expr
}

// Let is `let x : T [<- init] in body`. Init is nil when absent (distinct
// from the NoExpr placeholder used elsewhere, since Let's grammar makes
// "no initializer" structurally explicit).
type Let struct {
	Base
	Name         *symbols.Symbol
	DeclaredType *symbols.Symbol
	Init         Expr // nil if absent
	Body         Expr
}

// Plus/Sub/Mul/Divide are binary integer arithmetic.
type Plus struct {
	Base
	Left, Right Expr
}
type Sub struct {
	Base
	Left, Right Expr
}
type Mul struct {
	Base
	Left, Right Expr
}
type Divide struct {
	Base
	Left, Right Expr
}

// Neg is unary `~e`.
type Neg struct {
	Base
	Expr Expr
}

// Lt is `e1 < e2`.
type Lt struct {
	Base
	Left, Right Expr
}

// Eq is `e1 = e2`.
type Eq struct {
	Base
	Left, Right Expr
}

// Leq is `e1 <= e2`.
type Leq struct {
	Base
	Left, Right Expr
}

// Comp is `not e`.
type Comp struct {
	Base
	Expr Expr
}

// IntConst, StringConst, BoolConst are literals; the underlying value is
// stored as the interned Symbol for the literal's text (spec.md §3,
// "integer literal becomes a Symbol").
type IntConst struct {
	Base
	Value *symbols.Symbol
}
type StringConst struct {
	Base
	Value *symbols.Symbol
}
type BoolConst struct {
	Base
	Value bool
}

// New is `new T`.
type New struct {
	Base
	ClassType *symbols.Symbol
}

// IsVoid is `isvoid e`.
type IsVoid struct {
	Base
	Expr Expr
}

// NoExpr is the distinguished empty expression (absent attribute
// initializer, absent formal default, etc.).
type NoExpr struct {
	Base
}

// ObjectRef is a bare identifier reference, including `self`.
type ObjectRef struct {
	Base
	Name *symbols.Symbol
}
