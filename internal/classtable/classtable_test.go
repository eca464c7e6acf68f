package classtable

import (
	"testing"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/symbols"
)

func newTestTable() (*ClassTable, *symbols.Interner, *diag.Bag) {
	in := symbols.NewInterner()
	bag := diag.NewBag()
	return New(in, bag), in, bag
}

func userClass(in *symbols.Interner, name, parent string) *ast.Class {
	var p *symbols.Symbol
	if parent != "" {
		p = in.Intern(parent)
	}
	return &ast.Class{Name: in.Intern(name), Parent: p, Filename: "t.cl", Line: 1}
}

func TestInstallBasicClasses(t *testing.T) {
	ct, in, bag := newTestTable()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors installing basics: %s", bag.FormatAll())
	}
	for _, name := range []*symbols.Symbol{in.Object, in.IO, in.Int, in.Bool, in.String} {
		if !ct.Exists(name) {
			t.Fatalf("expected built-in %s to be registered", name.Name())
		}
	}
}

func TestInstallClassesRejectsDuplicate(t *testing.T) {
	ct, in, bag := newTestTable()
	a := userClass(in, "A", "")
	ct.InstallClasses([]*ast.Class{a, a})
	if bag.Count() != 1 {
		t.Fatalf("expected exactly 1 'previously defined' diagnostic, got %d: %s", bag.Count(), bag.FormatAll())
	}
}

func TestInstallClassesRejectsRedefiningBasicClass(t *testing.T) {
	ct, in, bag := newTestTable()
	ct.InstallClasses([]*ast.Class{userClass(in, "Int", "")})
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for redefining Int")
	}
}

func TestInstallClassesRejectsSelfType(t *testing.T) {
	ct, in, bag := newTestTable()
	ct.InstallClasses([]*ast.Class{userClass(in, "SELF_TYPE", "")})
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for defining a class named SELF_TYPE")
	}
}

func TestBuildInheritanceLinksBuiltinsToObject(t *testing.T) {
	ct, in, bag := newTestTable()
	order := ct.RegisteredOrder(nil)
	ct.BuildInheritance(order)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	for _, name := range []*symbols.Symbol{in.IO, in.Int, in.Bool, in.String} {
		node, _ := ct.Lookup(name)
		if node.Parent != ct.Root {
			t.Fatalf("expected %s's parent to be Object", name.Name())
		}
	}
	if ct.Root.Decl.Name != in.Object {
		t.Fatal("expected Root to be the Object node")
	}
}

func TestBuildInheritanceDefaultsToObject(t *testing.T) {
	ct, in, bag := newTestTable()
	a := userClass(in, "A", "")
	ct.InstallClasses([]*ast.Class{a})
	order := ct.RegisteredOrder([]*ast.Class{a})
	ct.BuildInheritance(order)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
	node, _ := ct.Lookup(in.Intern("A"))
	if node.Parent != ct.Root {
		t.Fatal("expected class with no explicit parent to inherit Object")
	}
}

func TestBuildInheritanceRejectsUndefinedParent(t *testing.T) {
	ct, in, bag := newTestTable()
	a := userClass(in, "A", "Nonexistent")
	ct.InstallClasses([]*ast.Class{a})
	order := ct.RegisteredOrder([]*ast.Class{a})
	ct.BuildInheritance(order)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for inheriting an undefined class")
	}
}

func TestBuildInheritanceRejectsInheritingFromInt(t *testing.T) {
	ct, in, bag := newTestTable()
	a := userClass(in, "A", "Int")
	ct.InstallClasses([]*ast.Class{a})
	order := ct.RegisteredOrder([]*ast.Class{a})
	ct.BuildInheritance(order)
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for inheriting from Int")
	}
}

func TestCycleCheckDetectsSelfCycle(t *testing.T) {
	ct, in, bag := newTestTable()
	a := userClass(in, "A", "B")
	b := userClass(in, "B", "A")
	ct.InstallClasses([]*ast.Class{a, b})
	order := ct.RegisteredOrder([]*ast.Class{a, b})
	ct.BuildInheritance(order)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors from BuildInheritance: %s", bag.FormatAll())
	}
	ct.CycleCheck(order)
	if !bag.HasErrors() {
		t.Fatal("expected a cycle diagnostic for mutually inheriting classes")
	}
}

func TestCycleCheckAcceptsAcyclicChain(t *testing.T) {
	ct, in, bag := newTestTable()
	a := userClass(in, "A", "")
	b := userClass(in, "B", "A")
	c := userClass(in, "C", "B")
	ct.InstallClasses([]*ast.Class{a, b, c})
	order := ct.RegisteredOrder([]*ast.Class{a, b, c})
	ct.BuildInheritance(order)
	ct.CycleCheck(order)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors on acyclic chain: %s", bag.FormatAll())
	}
}

func TestMainReqCheckMissingMainClass(t *testing.T) {
	ct, _, bag := newTestTable()
	ct.MainReqCheck()
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic when Main is not defined")
	}
}

func TestMainReqCheckMissingMainMethod(t *testing.T) {
	ct, in, bag := newTestTable()
	m := userClass(in, "Main", "")
	ct.InstallClasses([]*ast.Class{m})
	ct.MainReqCheck()
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic when Main has no main() method")
	}
}

func TestMainReqCheckRejectsArguments(t *testing.T) {
	ct, in, bag := newTestTable()
	m := userClass(in, "Main", "")
	m.Features = []ast.Feature{&ast.Method{
		Name:       in.MainMeth,
		Formals:    []*ast.Formal{{Name: in.Intern("x"), DeclaredType: in.Int}},
		ReturnType: in.Object,
		Body:       &ast.NoExpr{},
	}}
	ct.InstallClasses([]*ast.Class{m})
	ct.MainReqCheck()
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic when main() takes arguments")
	}
}

func TestMainReqCheckAccepts(t *testing.T) {
	ct, in, bag := newTestTable()
	m := userClass(in, "Main", "")
	m.Features = []ast.Feature{&ast.Method{
		Name:       in.MainMeth,
		ReturnType: in.Object,
		Body:       &ast.NoExpr{},
	}}
	ct.InstallClasses([]*ast.Class{m})
	ct.MainReqCheck()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %s", bag.FormatAll())
	}
}

func TestRegisteredOrderIsBuiltinsFirstThenUserOrder(t *testing.T) {
	ct, in, _ := newTestTable()
	a := userClass(in, "A", "")
	b := userClass(in, "B", "A")
	ct.InstallClasses([]*ast.Class{a, b})
	order := ct.RegisteredOrder([]*ast.Class{a, b})
	wantNames := []string{"Object", "IO", "Int", "Bool", "String", "A", "B"}
	if len(order) != len(wantNames) {
		t.Fatalf("expected %d nodes, got %d", len(wantNames), len(order))
	}
	for i, want := range wantNames {
		if order[i].Decl.Name.Name() != want {
			t.Fatalf("order[%d]: expected %s, got %s", i, want, order[i].Decl.Name.Name())
		}
	}
}
