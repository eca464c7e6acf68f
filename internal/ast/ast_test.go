package ast

import (
	"testing"

	"github.com/cwbudde/coolc/internal/symbols"
)

func TestBaseTypeSlotStartsNilAndIsSettableOnce(t *testing.T) {
	in := symbols.NewInterner()
	e := &IntConst{Base: Base{Line: 3}, Value: in.Intern("1")}

	if e.Type() != nil {
		t.Fatal("expected a fresh node's inferred type to be nil")
	}
	if e.Pos() != 3 {
		t.Fatalf("expected Pos() to return the node's line, got %d", e.Pos())
	}

	e.SetType(in.Int)
	if e.Type() != in.Int {
		t.Fatal("expected SetType to be visible through Type()")
	}
}

func TestFeaturePosMatchesDeclarationLine(t *testing.T) {
	in := symbols.NewInterner()
	a := &Attr{Name: in.Intern("x"), DeclaredType: in.Int, Line: 7}
	m := &Method{Name: in.Intern("f"), ReturnType: in.Int, Line: 9}

	var fa Feature = a
	var fm Feature = m
	if fa.Pos() != 7 {
		t.Fatalf("expected Attr.Pos() == 7, got %d", fa.Pos())
	}
	if fm.Pos() != 9 {
		t.Fatalf("expected Method.Pos() == 9, got %d", fm.Pos())
	}
}

func TestEveryExprVariantImplementsExpr(t *testing.T) {
	in := symbols.NewInterner()
	variants := []Expr{
		&Assign{}, &StaticDispatch{}, &Dispatch{}, &Cond{}, &Loop{},
		&TypeCase{}, &Block{}, &Let{}, &Plus{}, &Sub{}, &Mul{}, &Divide{},
		&Neg{}, &Lt{}, &Eq{}, &Leq{}, &Comp{}, &IntConst{}, &StringConst{},
		&BoolConst{}, &New{}, &IsVoid{}, &NoExpr{}, &ObjectRef{},
	}
	for _, v := range variants {
		v.SetType(in.Object)
		if v.Type() != in.Object {
			t.Fatalf("%T: SetType/Type round trip failed", v)
		}
	}
}
