// Package classtable builds the class registry and inheritance graph
// (spec.md §4.D): installing built-in classes, validating user classes,
// resolving parents, detecting inheritance cycles, and enforcing the
// Main.main entry point.
package classtable

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/symbols"
)

const basicClassFilename = "<basic class>"

// ClassTable is the class registry plus the inheritance tree rooted at
// Object once build_inheritance has run.
type ClassTable struct {
	in    *symbols.Interner
	bag   *diag.Bag
	nodes map[*symbols.Symbol]*Node

	// Root is the Object node, set once build_inheritance completes.
	Root *Node
}

// New creates a ClassTable with the five built-in classes installed.
func New(in *symbols.Interner, bag *diag.Bag) *ClassTable {
	ct := &ClassTable{
		in:    in,
		bag:   bag,
		nodes: make(map[*symbols.Symbol]*Node),
	}
	ct.installBasicClasses()
	return ct
}

// Lookup returns the Node for a class name, if registered.
func (ct *ClassTable) Lookup(name *symbols.Symbol) (*Node, bool) {
	n, ok := ct.nodes[name]
	return n, ok
}

// Exists reports whether name is a registered class, distinct from the
// synthetic type-system-only names (SELF_TYPE, _no_type, _bottom_).
func (ct *ClassTable) Exists(name *symbols.Symbol) bool {
	_, ok := ct.nodes[name]
	return ok
}

// Classes returns the table's map of every registered node, keyed by class
// name. Iterating it has no defined order; callers that need registration
// order use RegisteredOrder instead.
func (ct *ClassTable) Classes() map[*symbols.Symbol]*Node { return ct.nodes }

func (ct *ClassTable) method(name string, formals []*ast.Formal, ret *symbols.Symbol) *ast.Method {
	return &ast.Method{
		Name:       ct.in.Intern(name),
		Formals:    formals,
		ReturnType: ret,
		Body:       &ast.NoExpr{},
	}
}

func (ct *ClassTable) attr(name string, typ *symbols.Symbol) *ast.Attr {
	return &ast.Attr{
		Name:         ct.in.Intern(name),
		DeclaredType: typ,
		Init:         &ast.NoExpr{},
	}
}

func (ct *ClassTable) formal(name string, typ *symbols.Symbol) *ast.Formal {
	return &ast.Formal{Name: ct.in.Intern(name), DeclaredType: typ}
}

// installBasicClasses synthesizes Object, IO, Int, Bool, String with their
// hand-written feature lists (spec.md §4.D), grounded verbatim on
// original_source/semant/semant.cc's install_basic_classes.
func (ct *ClassTable) installBasicClasses() {
	in := ct.in

	object := &ast.Class{
		Name:     in.Object,
		Parent:   in.NoClass,
		Filename: basicClassFilename,
		Features: []ast.Feature{
			ct.method("abort", nil, in.Object),
			ct.method("type_name", nil, in.String),
			ct.method("copy", nil, in.SelfType),
		},
	}

	io := &ast.Class{
		Name:     in.IO,
		Parent:   in.Object,
		Filename: basicClassFilename,
		Features: []ast.Feature{
			ct.method("out_string", []*ast.Formal{ct.formal("arg", in.String)}, in.SelfType),
			ct.method("out_int", []*ast.Formal{ct.formal("arg", in.Int)}, in.SelfType),
			ct.method("in_string", nil, in.String),
			ct.method("in_int", nil, in.Int),
		},
	}

	intClass := &ast.Class{
		Name:     in.Int,
		Parent:   in.Object,
		Filename: basicClassFilename,
		Features: []ast.Feature{ct.attr("val", in.PrimSlot)},
	}

	boolClass := &ast.Class{
		Name:     in.Bool,
		Parent:   in.Object,
		Filename: basicClassFilename,
		Features: []ast.Feature{ct.attr("val", in.PrimSlot)},
	}

	strClass := &ast.Class{
		Name:     in.String,
		Parent:   in.Object,
		Filename: basicClassFilename,
		Features: []ast.Feature{
			ct.attr("val", in.Int),
			ct.attr("str_field", in.PrimSlot),
			ct.method("length", nil, in.Int),
			ct.method("concat", []*ast.Formal{ct.formal("arg", in.String)}, in.String),
			ct.method("substr", []*ast.Formal{ct.formal("arg", in.Int), ct.formal("arg2", in.Int)}, in.String),
		},
	}

	for _, c := range []*ast.Class{object, io, intClass, boolClass, strClass} {
		ct.nodes[c.Name] = &Node{Decl: c}
	}
}

// InstallClasses registers every user class, rejecting duplicates and the
// literal name SELF_TYPE (spec.md §4.D).
func (ct *ClassTable) InstallClasses(classes []*ast.Class) {
	in := ct.in
	for _, c := range classes {
		if c.Name == in.SelfType {
			ct.bag.Addf(c.Filename, c.Line, "Class SELF_TYPE was previously defined.")
			continue
		}
		if existing, ok := ct.nodes[c.Name]; ok {
			if existing.Decl.Filename == basicClassFilename {
				ct.bag.Addf(c.Filename, c.Line, "Redefinition of basic class %s.", c.Name.Name())
			} else {
				ct.bag.Addf(c.Filename, c.Line, "Class %s was previously defined.", c.Name.Name())
			}
			continue
		}
		ct.nodes[c.Name] = &Node{Decl: c}
	}
}

// RegisteredOrder returns nodes in a stable order: built-ins first (in the
// fixed Object/IO/Int/Bool/String order installBasicClasses used), then
// user classes in the order InstallClasses saw them. Callers that need a
// deterministic traversal (spec.md §5) should use this instead of ranging
// over the Classes() map directly.
func (ct *ClassTable) RegisteredOrder(userClasses []*ast.Class) []*Node {
	order := make([]*Node, 0, len(ct.nodes))
	for _, name := range []*symbols.Symbol{ct.in.Object, ct.in.IO, ct.in.Int, ct.in.Bool, ct.in.String} {
		if n, ok := ct.nodes[name]; ok {
			order = append(order, n)
		}
	}
	for _, c := range userClasses {
		if n, ok := ct.nodes[c.Name]; ok {
			order = append(order, n)
		}
	}
	return order
}
