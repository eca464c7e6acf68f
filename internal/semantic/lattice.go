package semantic

import (
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/symbols"
)

// Lattice implements the leq/lub judgments over the type lattice (spec.md
// §4.F): every named class, plus SELF_TYPE, _no_type, and _bottom_.
type Lattice struct {
	in *symbols.Interner
	ct *classtable.ClassTable
}

// NewLattice creates a Lattice over ct's inheritance tree.
func NewLattice(in *symbols.Interner, ct *classtable.ClassTable) *Lattice {
	return &Lattice{in: in, ct: ct}
}

// Leq reports whether `child` conforms to `ancestor` in class enclosing,
// i.e. every value of type `child` is usable where `ancestor` is expected.
// The naming follows spec.md's `leq(ancestor, child, C)`.
func (l *Lattice) Leq(ancestor, child *symbols.Symbol, enclosing *symbols.Symbol) bool {
	if child == l.in.Bottom || child == l.in.NoType {
		return true
	}
	if ancestor == l.in.SelfType {
		return child == l.in.SelfType
	}
	if child == l.in.SelfType {
		return l.Leq(ancestor, enclosing, enclosing)
	}
	return l.ct.IsAncestor(ancestor, child)
}

// Lub computes the least upper bound of t1 and t2 within class enclosing
// (spec.md §4.F).
func (l *Lattice) Lub(t1, t2 *symbols.Symbol, enclosing *symbols.Symbol) *symbols.Symbol {
	if t1 == l.in.Bottom || t1 == l.in.NoType {
		return t2
	}
	if t2 == l.in.Bottom || t2 == l.in.NoType {
		return t1
	}
	if t1 == l.in.SelfType && t2 == l.in.SelfType {
		return l.in.SelfType
	}
	if t1 == l.in.SelfType {
		t1 = enclosing
	}
	if t2 == l.in.SelfType {
		t2 = enclosing
	}

	path1 := l.ct.PathToRoot(t1)
	path2 := l.ct.PathToRoot(t2)
	if path1 == nil || path2 == nil {
		return l.in.Object
	}

	inPath2 := make(map[*symbols.Symbol]bool, len(path2))
	for _, s := range path2 {
		inPath2[s] = true
	}
	for _, s := range path1 {
		if inPath2[s] {
			return s
		}
	}
	return l.in.Object
}
