package parser

import (
	"testing"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/symbols"
)

func parse(t *testing.T, src string) ([]*ast.Class, *diag.Bag, *symbols.Interner) {
	t.Helper()
	in := symbols.NewInterner()
	bag := diag.NewBag()
	l := lexer.New(src, "test.cl", bag)
	p := New(l, in, bag, "test.cl")
	return p.ParseProgram(), bag, in
}

func TestParseEmptyClass(t *testing.T) {
	classes, bag, in := parse(t, `class Foo { };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(classes))
	}
	if classes[0].Name != in.Intern("Foo") {
		t.Fatal("class name not interned correctly")
	}
	if classes[0].Parent != nil {
		t.Fatal("expected implicit Object parent to be nil (resolved later)")
	}
}

func TestParseInherits(t *testing.T) {
	classes, bag, in := parse(t, `class Foo inherits Bar { };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if classes[0].Parent != in.Intern("Bar") {
		t.Fatal("expected parent Bar")
	}
}

func TestParseMultipleClasses(t *testing.T) {
	classes, bag, _ := parse(t, `class A { }; class B inherits A { };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}
}

func TestParseAttrWithoutInit(t *testing.T) {
	classes, bag, _ := parse(t, `class A { x : Int; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	attr, ok := classes[0].Features[0].(*ast.Attr)
	if !ok {
		t.Fatalf("expected *ast.Attr, got %T", classes[0].Features[0])
	}
	if _, ok := attr.Init.(*ast.NoExpr); !ok {
		t.Fatalf("expected NoExpr init, got %T", attr.Init)
	}
}

func TestParseAttrWithInit(t *testing.T) {
	classes, bag, _ := parse(t, `class A { x : Int <- 1; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	attr := classes[0].Features[0].(*ast.Attr)
	if _, ok := attr.Init.(*ast.IntConst); !ok {
		t.Fatalf("expected IntConst init, got %T", attr.Init)
	}
}

func TestParseMethodWithFormals(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f(x : Int, y : Bool) : Int { x }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	m := classes[0].Features[0].(*ast.Method)
	if len(m.Formals) != 2 {
		t.Fatalf("expected 2 formals, got %d", len(m.Formals))
	}
	if m.Formals[0].Name.Name() != "x" || m.Formals[1].Name.Name() != "y" {
		t.Fatal("formal names not preserved in order")
	}
}

func TestParseSelfTypeReturn(t *testing.T) {
	classes, bag, in := parse(t, `class A { f() : SELF_TYPE { self }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	m := classes[0].Features[0].(*ast.Method)
	if m.ReturnType != in.SelfType {
		t.Fatal("expected ReturnType to be the interned SELF_TYPE singleton")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	classes, bag, _ := parse(t, `class A { f() : Int { 1 + 2 * 3 }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	body := classes[0].Features[0].(*ast.Method).Body
	plus, ok := body.(*ast.Plus)
	if !ok {
		t.Fatalf("expected top-level Plus, got %T", body)
	}
	if _, ok := plus.Left.(*ast.IntConst); !ok {
		t.Fatalf("expected left operand IntConst, got %T", plus.Left)
	}
	if _, ok := plus.Right.(*ast.Mul); !ok {
		t.Fatalf("expected right operand Mul, got %T", plus.Right)
	}
}

func TestLessThanParsesToLtNode(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Bool { 1 < 2 }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if _, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Lt); !ok {
		t.Fatal("expected Lt node")
	}
}

func TestDispatchChain(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { self.g().h(1) }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	outer, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Dispatch)
	if !ok {
		t.Fatalf("expected outer Dispatch, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if outer.Method.Name() != "h" || len(outer.Args) != 1 {
		t.Fatal("expected outer dispatch to 'h' with 1 arg")
	}
	inner, ok := outer.Receiver.(*ast.Dispatch)
	if !ok {
		t.Fatalf("expected inner Dispatch, got %T", outer.Receiver)
	}
	if inner.Method.Name() != "g" || len(inner.Args) != 0 {
		t.Fatal("expected inner dispatch to 'g' with 0 args")
	}
}

func TestStaticDispatch(t *testing.T) {
	classes, bag, in := parse(t, `class A { f() : Int { self@B.g() }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	sd, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.StaticDispatch)
	if !ok {
		t.Fatalf("expected StaticDispatch, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if sd.TargetClass != in.Intern("B") {
		t.Fatal("expected target class B")
	}
}

func TestImplicitSelfDispatch(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { g(1, 2) }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	d, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Dispatch)
	if !ok {
		t.Fatalf("expected Dispatch, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if d.Receiver != nil {
		t.Fatal("expected implicit self dispatch to have a nil Receiver")
	}
	if len(d.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(d.Args))
	}
}

func TestIfThenElse(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { if true then 1 else 2 fi }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if _, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Cond); !ok {
		t.Fatal("expected Cond node")
	}
}

func TestWhileLoop(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Object { while true loop 1 pool }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if _, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Loop); !ok {
		t.Fatal("expected Loop node")
	}
}

func TestBlockExpr(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { { 1; 2; 3; } }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	blk, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Block)
	if !ok {
		t.Fatalf("expected Block, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if len(blk.Exprs) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(blk.Exprs))
	}
}

func TestLetDesugarsMultipleBindings(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { let x : Int <- 1, y : Int <- 2 in x }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	outer, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Let)
	if !ok {
		t.Fatalf("expected outer Let, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if outer.Name.Name() != "x" {
		t.Fatal("expected outer binding x")
	}
	inner, ok := outer.Body.(*ast.Let)
	if !ok {
		t.Fatalf("expected nested Let as outer's body, got %T", outer.Body)
	}
	if inner.Name.Name() != "y" {
		t.Fatal("expected inner binding y")
	}
}

func TestLetWithoutInit(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { let x : Int in x }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	l := classes[0].Features[0].(*ast.Method).Body.(*ast.Let)
	if l.Init != nil {
		t.Fatalf("expected nil Init when no initializer given, got %T", l.Init)
	}
}

func TestTypeCase(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f(o : Object) : Int { case o of x : Int => 1; y : String => 2; esac }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	tc, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.TypeCase)
	if !ok {
		t.Fatalf("expected TypeCase, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if len(tc.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(tc.Branches))
	}
}

func TestNewAndIsVoidAndNeg(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { isvoid ~new A }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	iv, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.IsVoid)
	if !ok {
		t.Fatalf("expected IsVoid, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	neg, ok := iv.Expr.(*ast.Neg)
	if !ok {
		t.Fatalf("expected Neg, got %T", iv.Expr)
	}
	if _, ok := neg.Expr.(*ast.New); !ok {
		t.Fatalf("expected New, got %T", neg.Expr)
	}
}

func TestNotKeyword(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Bool { not true }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	if _, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Comp); !ok {
		t.Fatal("expected Comp node for 'not'")
	}
}

func TestAssign(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { x <- 1 }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	a, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.Assign)
	if !ok {
		t.Fatalf("expected Assign, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if a.Name.Name() != "x" {
		t.Fatal("expected assign target x")
	}
}

func TestStringConstLiteral(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : String { "hello" }; };`)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	sc, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.StringConst)
	if !ok {
		t.Fatalf("expected StringConst, got %T", classes[0].Features[0].(*ast.Method).Body)
	}
	if sc.Value.Name() != "hello" {
		t.Fatalf("expected literal hello, got %q", sc.Value.Name())
	}
}

func TestSyntaxErrorRecoversAtNextClass(t *testing.T) {
	classes, bag, _ := parse(t, `class A { x : ; }; class B { };`)
	if !bag.HasErrors() {
		t.Fatal("expected a syntax error in class A")
	}
	// Recovery should still let class B parse.
	found := false
	for _, c := range classes {
		if c.Name.Name() == "B" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected parser to recover and still parse class B")
	}
}

func TestIntConstOverflowReportsButDoesNotCrash(t *testing.T) {
	classes, bag, _ := parse(t, `class A { f() : Int { 99999999999999999999 }; };`)
	if !bag.HasErrors() {
		t.Fatal("expected an overflow diagnostic")
	}
	if _, ok := classes[0].Features[0].(*ast.Method).Body.(*ast.IntConst); !ok {
		t.Fatal("expected parser to still produce an IntConst node despite overflow")
	}
}
