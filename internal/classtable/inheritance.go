package classtable

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/symbols"
)

// BuildInheritance resolves each class's parent by name and appends the
// child to the parent's children list in visitation order (spec.md §4.D,
// §5 "children list is appended in the order build_inheritance visits
// them"). userClasses supplies the deterministic iteration order.
func (ct *ClassTable) BuildInheritance(userClasses []*Node) {
	in := ct.in

	object := ct.nodes[in.Object]
	for _, name := range []*symbols.Symbol{in.IO, in.Int, in.Bool, in.String} {
		child := ct.nodes[name]
		child.Parent = object
		object.Children = append(object.Children, child)
	}

	for _, node := range userClasses {
		if node.Decl.Filename == basicClassFilename {
			continue // built-ins are linked directly above, not by name resolution
		}
		parentName := node.Decl.Parent
		if parentName == nil {
			parentName = in.Object
		}

		switch parentName {
		case in.Int, in.Bool, in.String, in.SelfType:
			ct.bag.Addf(node.Decl.Filename, node.Decl.Line,
				"Class %s cannot inherit class %s.", node.Decl.Name.Name(), parentName.Name())
			continue
		}

		parent, ok := ct.nodes[parentName]
		if !ok {
			ct.bag.Addf(node.Decl.Filename, node.Decl.Line,
				"Class %s inherits from an undefined class %s.", node.Decl.Name.Name(), parentName.Name())
			continue
		}

		node.Parent = parent
		parent.Children = append(parent.Children, node)
	}

	ct.Root = ct.nodes[in.Object]
}

// CycleCheck reports, once per class, any class that is its own proper
// ancestor (spec.md §4.D). It must run after BuildInheritance.
func (ct *ClassTable) CycleCheck(userClasses []*Node) {
	for _, node := range userClasses {
		if node.Parent == nil {
			continue // already reported by BuildInheritance, or not yet linked
		}
		if ct.ancestorChainContains(node.Parent, node) {
			ct.bag.Addf(node.Decl.Filename, node.Decl.Line,
				"Class %s, or an ancestor of %s, is involved in an inheritance cycle.",
				node.Decl.Name.Name(), node.Decl.Name.Name())
		}
	}
}

// ancestorChainContains walks start's ancestor chain (via Parent) looking
// for target, stopping safely if the chain itself cycles back on itself
// without reaching target.
func (ct *ClassTable) ancestorChainContains(start, target *Node) bool {
	seen := map[*Node]bool{}
	for c := start; c != nil && !seen[c]; c = c.Parent {
		if c == target {
			return true
		}
		seen[c] = true
	}
	return false
}

// MainReqCheck enforces that class Main exists and declares a zero-arity
// main method (spec.md §4.D).
func (ct *ClassTable) MainReqCheck() {
	mainNode, ok := ct.nodes[ct.in.MainClass]
	if !ok {
		ct.bag.Addf("", 0, "Class Main is not defined.")
		return
	}

	found := false
	for _, f := range mainNode.Decl.Features {
		m, isMethod := f.(*ast.Method)
		if !isMethod || m.Name != ct.in.MainMeth {
			continue
		}
		found = true
		if len(m.Formals) != 0 {
			ct.bag.Addf(mainNode.Decl.Filename, m.Line,
				"'main' method in class Main should have no arguments.")
		}
	}
	if !found {
		ct.bag.Addf(mainNode.Decl.Filename, mainNode.Decl.Line, "No 'main' method in class Main.")
	}
}
