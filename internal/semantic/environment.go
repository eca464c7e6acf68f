// Package semantic implements the environment-propagation (spec.md §4.E)
// and type-checking (spec.md §4.F) passes that run after the class table
// has a cycle-free inheritance tree.
package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/symbols"
)

// EnvironmentBuilder performs the depth-first environment-propagation walk
// (spec.md §4.E): every child's objects/methods tables start as a shallow
// clone of its parent's top scope, then get extended with the child's own
// features.
type EnvironmentBuilder struct {
	in  *symbols.Interner
	bag *diag.Bag
}

// NewEnvironmentBuilder creates an EnvironmentBuilder.
func NewEnvironmentBuilder(in *symbols.Interner, bag *diag.Bag) *EnvironmentBuilder {
	return &EnvironmentBuilder{in: in, bag: bag}
}

// Propagate walks the tree rooted at root, assigning Env to every node.
func (b *EnvironmentBuilder) Propagate(root *classtable.Node) {
	root.Env = classtable.NewEnvironment(b.in)
	b.populate(root)
	b.percolate(root)
}

func (b *EnvironmentBuilder) percolate(node *classtable.Node) {
	for _, child := range node.Children {
		child.Env = node.Env.CloneTop()
		b.populate(child)
		b.percolate(child)
	}
}

// populate extends node.Env in place with node's own features, recording
// diagnostics for duplicate attributes/methods and incompatible overrides.
func (b *EnvironmentBuilder) populate(node *classtable.Node) {
	for _, f := range node.Decl.Features {
		switch feat := f.(type) {
		case *ast.Attr:
			b.processAttr(node, feat)
		case *ast.Method:
			b.processMethod(node, feat)
		}
	}
}

func (b *EnvironmentBuilder) processAttr(node *classtable.Node, attr *ast.Attr) {
	if attr.Name == b.in.Self {
		b.bag.Addf(node.Decl.Filename, attr.Line, "'self' cannot be the name of an attribute.")
		return
	}

	if _, exists := node.Env.Objects.Lookup(attr.Name); exists {
		if node.Parent != nil {
			if _, inParent := node.Parent.Env.Objects.Lookup(attr.Name); inParent {
				b.bag.Addf(node.Decl.Filename, attr.Line,
					"Attribute %s is an attribute of an inherited class.", attr.Name.Name())
				node.Env.Objects.Define(attr.Name, attr.DeclaredType)
				return
			}
		}
		b.bag.Addf(node.Decl.Filename, attr.Line,
			"Attribute %s is multiply defined in class.", attr.Name.Name())
	}
	node.Env.Objects.Define(attr.Name, attr.DeclaredType)
}

func (b *EnvironmentBuilder) processMethod(node *classtable.Node, method *ast.Method) {
	sig := b.methodSignature(node, method)

	if _, exists := node.Env.Methods.Lookup(method.Name); exists {
		var parentSig classtable.MethodSig
		var inParent bool
		if node.Parent != nil {
			parentSig, inParent = node.Parent.Env.Methods.Lookup(method.Name)
		}
		if !inParent {
			b.bag.Addf(node.Decl.Filename, method.Line,
				"Method %s is multiply defined.", method.Name.Name())
		} else {
			b.checkOverride(node, method, sig, parentSig)
		}
	}
	node.Env.Methods.Define(method.Name, sig)
}

func (b *EnvironmentBuilder) checkOverride(node *classtable.Node, method *ast.Method, sig, parentSig classtable.MethodSig) {
	methodRet := sig[len(sig)-1]
	parentRet := parentSig[len(parentSig)-1]

	switch {
	case methodRet != parentRet:
		b.bag.Addf(node.Decl.Filename, method.Line,
			"In redefined method %s, return type %s is different from original return type %s.",
			method.Name.Name(), methodRet.Name(), parentRet.Name())
	case len(sig) != len(parentSig):
		b.bag.Addf(node.Decl.Filename, method.Line,
			"Incompatible number of formal parameters in redefined method %s.", method.Name.Name())
	default:
		for i := 0; i < len(sig)-1; i++ {
			if sig[i] != parentSig[i] {
				b.bag.Addf(node.Decl.Filename, method.Line,
					"In redefined method %s, parameter type %s is different from original type %s",
					method.Name.Name(), sig[i].Name(), parentSig[i].Name())
			}
		}
	}
}

// methodSignature validates formal parameters (distinct names, not `self`,
// not SELF_TYPE) and returns the flat [formal types..., return type] list.
func (b *EnvironmentBuilder) methodSignature(node *classtable.Node, method *ast.Method) classtable.MethodSig {
	seen := make(map[*symbols.Symbol]bool, len(method.Formals))
	sig := make(classtable.MethodSig, 0, len(method.Formals)+1)

	for _, f := range method.Formals {
		if seen[f.Name] {
			b.bag.Addf(node.Decl.Filename, method.Line,
				"Formal parameter %s is multiply defined.", f.Name.Name())
		}
		if f.Name == b.in.Self {
			b.bag.Addf(node.Decl.Filename, method.Line,
				"'self' cannot be the name of a formal parameter.")
		}
		if f.DeclaredType == b.in.SelfType {
			b.bag.Addf(node.Decl.Filename, method.Line,
				"Formal parameter %s cannot have type SELF_TYPE.", f.Name.Name())
		}
		seen[f.Name] = true
		sig = append(sig, f.DeclaredType)
	}
	sig = append(sig, method.ReturnType)
	return sig
}
