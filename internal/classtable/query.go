package classtable

import "github.com/cwbudde/coolc/internal/symbols"

// IsAncestor reports whether ancestor is `child` itself or a proper
// ancestor of it in the inheritance tree. Both names must be registered
// classes (not SELF_TYPE/_no_type/_bottom_ — the lattice in
// internal/semantic handles those before calling this).
func (ct *ClassTable) IsAncestor(ancestor, child *symbols.Symbol) bool {
	node, ok := ct.nodes[child]
	if !ok {
		return false
	}
	for n := node; n != nil; n = n.Parent {
		if n.Decl.Name == ancestor {
			return true
		}
	}
	return false
}

// PathToRoot returns the chain from name up to Object, inclusive of both
// ends, used by Lub to find the deepest common ancestor.
func (ct *ClassTable) PathToRoot(name *symbols.Symbol) []*symbols.Symbol {
	node, ok := ct.nodes[name]
	if !ok {
		return nil
	}
	var path []*symbols.Symbol
	for n := node; n != nil; n = n.Parent {
		path = append(path, n.Decl.Name)
	}
	return path
}
