package codegen

import (
	"fmt"
	"sort"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/symbols"
)

// ConstantPools collects every literal referenced anywhere in the program,
// each assigned a stable label the first time it is seen (spec.md §4.H,
// §6 "Strings are {tag, size, disp, length_ref, raw bytes, padding}.
// Integers are {tag, size, disp, value}. Booleans are {tag, size, disp,
// 0 or 1}.").
type ConstantPools struct {
	in *symbols.Interner

	intLabel    map[*symbols.Symbol]string
	intOrder    []*symbols.Symbol
	stringLabel map[*symbols.Symbol]string
	stringOrder []*symbols.Symbol
}

// NewConstantPools creates empty pools; the empty string is pre-interned
// so every class's default String attribute can reference it.
func NewConstantPools(in *symbols.Interner) *ConstantPools {
	cp := &ConstantPools{
		in:          in,
		intLabel:    make(map[*symbols.Symbol]string),
		stringLabel: make(map[*symbols.Symbol]string),
	}
	cp.InternString(in.Intern(""))
	cp.InternInt(in.Intern("0"))
	return cp
}

// InternInt records val (an interned digit-string Symbol) if new and
// returns its stable label.
func (cp *ConstantPools) InternInt(val *symbols.Symbol) string {
	if lbl, ok := cp.intLabel[val]; ok {
		return lbl
	}
	lbl := fmt.Sprintf("int_const%d", len(cp.intOrder))
	cp.intLabel[val] = lbl
	cp.intOrder = append(cp.intOrder, val)
	return lbl
}

// InternString records val if new and returns its stable label.
func (cp *ConstantPools) InternString(val *symbols.Symbol) string {
	if lbl, ok := cp.stringLabel[val]; ok {
		return lbl
	}
	lbl := fmt.Sprintf("str_const%d", len(cp.stringOrder))
	cp.stringLabel[val] = lbl
	cp.stringOrder = append(cp.stringOrder, val)
	return lbl
}

// BoolLabel returns the fixed label for the true/false constant (there is
// exactly one of each per spec.md §6).
func BoolLabel(v bool) string {
	if v {
		return "bool_const1"
	}
	return "bool_const0"
}

// EmitConstants writes the data-section entries for every interned
// int/string constant plus both boolean constants, each preceded by the
// `-1` GC eye-catcher word (spec.md §6).
func (cp *ConstantPools) EmitConstants(e *Emitter, tt *TagTable, ct *classtable.ClassTable) {
	intTag := tt.Tag(mustLookup(ct, cp.in.Int))
	strTag := tt.Tag(mustLookup(ct, cp.in.String))
	boolTag := tt.Tag(mustLookup(ct, cp.in.Bool))

	for _, val := range cp.stringOrder {
		cp.InternInt(cp.in.Intern(fmt.Sprintf("%d", len(val.Name()))))
	}

	for _, val := range cp.intOrder {
		e.WordLit(-1)
		e.SymbolDef(cp.intLabel[val])
		e.WordLit(intTag)
		e.WordLit(DefaultObjFields + 1)
		e.WordSym(DispTabLabel("Int"))
		fmt.Fprintf(e.w, "\t.word\t%s\n", val.Name())
	}

	for _, val := range cp.stringOrder {
		text := val.Name()
		lenLabel := cp.InternInt(cp.in.Intern(fmt.Sprintf("%d", len(text))))
		e.WordLit(-1)
		e.SymbolDef(cp.stringLabel[val])
		e.WordLit(strTag)
		words := DefaultObjFields + 1 + (len(text)+4)/WordSize
		e.WordLit(words)
		e.WordSym(DispTabLabel("String"))
		e.WordSym(lenLabel)
		e.Ascii(text + "\x00")
		e.Align(2)
	}

	for _, v := range []bool{false, true} {
		bit := 0
		if v {
			bit = 1
		}
		e.WordLit(-1)
		e.SymbolDef(BoolLabel(v))
		e.WordLit(boolTag)
		e.WordLit(DefaultObjFields + 1)
		e.WordSym(DispTabLabel("Bool"))
		e.WordLit(bit)
	}
}

func mustLookup(ct *classtable.ClassTable, name *symbols.Symbol) *classtable.Node {
	n, _ := ct.Lookup(name)
	return n
}

// EmitClassNameTab writes `class_nameTab`, in tag order, each entry a
// pointer to that class's interned name string constant (spec.md §6).
func EmitClassNameTab(e *Emitter, tt *TagTable, cp *ConstantPools, in *symbols.Interner) {
	e.SymbolDef("class_nameTab")
	for _, n := range tt.Order {
		lbl := cp.InternString(in.Intern(n.Decl.Name.Name()))
		e.WordSym(lbl)
	}
}

// EmitClassObjTab writes `class_objTab`, a {protObj, init} pair per class
// in tag order, so `new SELF_TYPE` can index it by the current tag
// (spec.md §4.H).
func EmitClassObjTab(e *Emitter, tt *TagTable) {
	e.SymbolDef("class_objTab")
	for _, n := range tt.Order {
		name := n.Decl.Name.Name()
		e.WordSym(ProtObjLabel(name))
		e.WordSym(InitLabel(name))
	}
}

// EmitProtoObj writes one class's `_protObj` data, a default word per
// attribute slot (Int/Bool/String get the zero/false/empty constant,
// everything else a null word) (spec.md §4.G).
func EmitProtoObj(e *Emitter, n *classtable.Node, tt *TagTable, lt *LayoutTable, in *symbols.Interner) {
	name := n.Decl.Name.Name()
	layout := lt.Layouts[n]

	e.WordLit(-1)
	e.SymbolDef(ProtObjLabel(name))
	e.WordLit(tt.Tag(n))
	e.WordLit(layout.SizeWords())
	e.WordSym(DispTabLabel(name))

	for _, attr := range layout.Attrs {
		switch attr.Type {
		case in.Int:
			e.WordSym("int_const0")
		case in.Bool:
			e.WordSym(BoolLabel(false))
		case in.String:
			e.WordSym("str_const0")
		default:
			e.WordLit(0)
		}
	}
}

// EmitDispTab writes one class's `_dispTab`, the parallel array of
// `defining_class.method_name` labels in offset order (spec.md §4.G).
func EmitDispTab(e *Emitter, n *classtable.Node, lt *LayoutTable) {
	name := n.Decl.Name.Name()
	e.SymbolDef(DispTabLabel(name))
	for _, m := range lt.Layouts[n].Methods {
		e.WordSym(MethodLabel(m.Declarer.Name(), m.Name.Name()))
	}
}

// ownAttrInits is a small helper the init emitter uses to walk a
// class's own attribute initializers in declaration order, matching the
// order computeLayout appended them in.
func ownAttrInits(n *classtable.Node, lt *LayoutTable) []*AttrSlot {
	var own []*AttrSlot
	for _, a := range lt.Layouts[n].Attrs {
		if a.Declarer == n.Decl.Name {
			if _, isNoExpr := a.Init.(*ast.NoExpr); !isNoExpr {
				own = append(own, a)
			}
		}
	}
	sort.SliceStable(own, func(i, j int) bool { return own[i].Offset < own[j].Offset })
	return own
}
