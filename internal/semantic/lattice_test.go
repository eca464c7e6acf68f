package semantic

import (
	"testing"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/symbols"
)

// buildLattice installs Object -> A, with B and C both children of A
// (siblings), giving enough shape to exercise Leq/Lub across branches.
func buildLattice(t *testing.T) (*Lattice, *symbols.Interner, *classtable.ClassTable) {
	t.Helper()
	in := symbols.NewInterner()
	bag := diag.NewBag()
	ct := classtable.New(in, bag)

	a := &ast.Class{Name: in.Intern("A"), Filename: "t.cl"}
	b := &ast.Class{Name: in.Intern("B"), Parent: in.Intern("A"), Filename: "t.cl"}
	c := &ast.Class{Name: in.Intern("C"), Parent: in.Intern("A"), Filename: "t.cl"}
	classes := []*ast.Class{a, b, c}
	ct.InstallClasses(classes)
	order := ct.RegisteredOrder(classes)
	ct.BuildInheritance(order)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors building test tree: %s", bag.FormatAll())
	}
	return NewLattice(in, ct), in, ct
}

func TestLeqReflexive(t *testing.T) {
	lat, in, _ := buildLattice(t)
	a := in.Intern("A")
	if !lat.Leq(a, a, a) {
		t.Fatal("expected every type to conform to itself")
	}
}

func TestLeqAncestorConformance(t *testing.T) {
	lat, in, _ := buildLattice(t)
	a, b := in.Intern("A"), in.Intern("B")
	if !lat.Leq(a, b, a) {
		t.Fatal("expected B to conform to its ancestor A")
	}
	if lat.Leq(b, a, a) {
		t.Fatal("did not expect A to conform to its descendant B")
	}
}

func TestLeqSiblingsDoNotConform(t *testing.T) {
	lat, in, _ := buildLattice(t)
	b, c := in.Intern("B"), in.Intern("C")
	if lat.Leq(b, c, in.Intern("A")) {
		t.Fatal("sibling classes must not conform to one another")
	}
}

func TestLeqBottomConformsToEverything(t *testing.T) {
	lat, in, _ := buildLattice(t)
	a := in.Intern("A")
	if !lat.Leq(a, in.Bottom, a) {
		t.Fatal("expected _bottom_ to conform to any type")
	}
	if !lat.Leq(a, in.NoType, a) {
		t.Fatal("expected _no_type to conform to any type")
	}
}

func TestLeqSelfTypeOnlyConformsToSelfType(t *testing.T) {
	lat, in, _ := buildLattice(t)
	a := in.Intern("A")
	if lat.Leq(in.SelfType, a, a) {
		t.Fatal("SELF_TYPE as the required type must not accept a concrete class")
	}
	if !lat.Leq(in.SelfType, in.SelfType, a) {
		t.Fatal("SELF_TYPE must conform to SELF_TYPE")
	}
}

func TestLeqActualSelfTypeResolvesToEnclosing(t *testing.T) {
	lat, in, _ := buildLattice(t)
	a, b := in.Intern("A"), in.Intern("B")
	// Within class B, an expression of static type SELF_TYPE resolves to B;
	// B conforms to A, so SELF_TYPE should too.
	if !lat.Leq(a, in.SelfType, b) {
		t.Fatal("expected SELF_TYPE (resolved to enclosing B) to conform to ancestor A")
	}
}

func TestLubCommonAncestor(t *testing.T) {
	lat, in, _ := buildLattice(t)
	b, c, a := in.Intern("B"), in.Intern("C"), in.Intern("A")
	if got := lat.Lub(b, c, a); got != a {
		t.Fatalf("expected lub(B,C) = A, got %s", got.Name())
	}
}

func TestLubCommutative(t *testing.T) {
	lat, in, _ := buildLattice(t)
	b, c, a := in.Intern("B"), in.Intern("C"), in.Intern("A")
	lub1 := lat.Lub(b, c, a)
	lub2 := lat.Lub(c, b, a)
	if lub1 != lub2 {
		t.Fatalf("expected lub to be commutative, got %s vs %s", lub1.Name(), lub2.Name())
	}
}

func TestLubWithSelf(t *testing.T) {
	lat, in, _ := buildLattice(t)
	b := in.Intern("B")
	if got := lat.Lub(b, b, b); got != b {
		t.Fatalf("expected lub(B,B) = B, got %s", got.Name())
	}
}

func TestLubBottomIsIdentity(t *testing.T) {
	lat, in, _ := buildLattice(t)
	b := in.Intern("B")
	if got := lat.Lub(in.Bottom, b, b); got != b {
		t.Fatalf("expected lub(_bottom_, B) = B, got %s", got.Name())
	}
	if got := lat.Lub(b, in.Bottom, b); got != b {
		t.Fatalf("expected lub(B, _bottom_) = B, got %s", got.Name())
	}
}

func TestLubSelfTypeBothSides(t *testing.T) {
	lat, in, _ := buildLattice(t)
	b := in.Intern("B")
	if got := lat.Lub(in.SelfType, in.SelfType, b); got != in.SelfType {
		t.Fatal("expected lub(SELF_TYPE, SELF_TYPE) = SELF_TYPE")
	}
}
