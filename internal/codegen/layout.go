package codegen

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/symbols"
)

// AttrSlot is one entry of a class's attribute layout: its heap offset
// (words from the start of the object, header included) and the class
// that declared it.
type AttrSlot struct {
	Name     *symbols.Symbol
	Type     *symbols.Symbol
	Offset   int
	Declarer *symbols.Symbol
	Init     ast.Expr
}

// MethodSlot is one entry of a class's dispatch table: the label to emit
// is `<Declarer>.<Name>`, and Offset is the table index (spec.md §4.G
// "dispatch table is a parallel array of defining_class.method_name
// labels").
type MethodSlot struct {
	Name     *symbols.Symbol
	Declarer *symbols.Symbol
	Offset   int
}

// Layout is the full attribute/method layout for one class.
type Layout struct {
	Attrs   []*AttrSlot
	Methods []*MethodSlot
}

// headerWords is the 3-word {tag, size, disp_table_ptr} object header
// (spec.md §4.G "attribute slots start at offset 3").
const headerWords = 3

// LayoutTable maps every node to its computed Layout.
type LayoutTable struct {
	Layouts map[*classtable.Node]*Layout
}

// BuildLayouts computes every node's Layout top-down from root, so that a
// child's layout always starts from its already-computed parent layout
// (spec.md §4.G).
func BuildLayouts(root *classtable.Node) *LayoutTable {
	lt := &LayoutTable{Layouts: make(map[*classtable.Node]*Layout)}
	var visit func(n *classtable.Node)
	visit = func(n *classtable.Node) {
		lt.Layouts[n] = computeLayout(n, lt)
		for _, child := range n.Children {
			visit(child)
		}
	}
	visit(root)
	return lt
}

func computeLayout(n *classtable.Node, lt *LayoutTable) *Layout {
	var parentLayout *Layout
	if n.Parent != nil {
		parentLayout = lt.Layouts[n.Parent]
	}

	layout := &Layout{}
	nextOffset := headerWords
	if parentLayout != nil {
		layout.Attrs = append(layout.Attrs, parentLayout.Attrs...)
		layout.Methods = append(layout.Methods, parentLayout.Methods...)
		nextOffset = headerWords + len(parentLayout.Attrs)
	}

	methodIndex := make(map[*symbols.Symbol]int, len(layout.Methods))
	for i, m := range layout.Methods {
		methodIndex[m.Name] = i
	}

	for _, f := range n.Decl.Features {
		switch feat := f.(type) {
		case *ast.Attr:
			layout.Attrs = append(layout.Attrs, &AttrSlot{
				Name:     feat.Name,
				Type:     feat.DeclaredType,
				Offset:   nextOffset,
				Declarer: n.Decl.Name,
				Init:     feat.Init,
			})
			nextOffset++
		case *ast.Method:
			if idx, overriding := methodIndex[feat.Name]; overriding {
				// Override rewrites the entry in place, preserving its
				// table offset (spec.md §4.G).
				layout.Methods[idx] = &MethodSlot{
					Name:     feat.Name,
					Declarer: n.Decl.Name,
					Offset:   layout.Methods[idx].Offset,
				}
			} else {
				slot := &MethodSlot{Name: feat.Name, Declarer: n.Decl.Name, Offset: len(layout.Methods)}
				layout.Methods = append(layout.Methods, slot)
				methodIndex[feat.Name] = slot.Offset
			}
		}
	}

	return layout
}

// SizeWords is the total object size in words (header + attributes),
// the `size_in_words` field of `_protObj` (spec.md §4.H).
func (l *Layout) SizeWords() int { return headerWords + len(l.Attrs) }
