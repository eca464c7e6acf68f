// Package symbols provides the interned-identifier layer the rest of the
// compiler builds on: a Symbol is a pointer, and pointer equality is the
// only equality the type checker ever uses.
package symbols

// Symbol is an interned identifier. Two Symbols are the same identifier
// if and only if they are the same pointer.
type Symbol struct {
	name string
}

// Name returns the original text of the symbol.
func (s *Symbol) Name() string {
	if s == nil {
		return "<nil>"
	}
	return s.name
}

func (s *Symbol) String() string { return s.Name() }

// Interner deduplicates strings into stable *Symbol handles. It is owned by
// a single compile session and is never shared across sessions or goroutines
// (spec.md §5 — no locking because there is no second thread).
type Interner struct {
	table map[string]*Symbol

	// Predefined symbols, interned once at construction so every stage can
	// compare against them by pointer without re-interning.
	SelfType  *Symbol
	Self      *Symbol
	Object    *Symbol
	IO        *Symbol
	Int       *Symbol
	Bool      *Symbol
	String    *Symbol
	NoType    *Symbol
	Bottom    *Symbol
	NoClass   *Symbol
	PrimSlot  *Symbol
	MainClass *Symbol
	MainMeth  *Symbol
	Arg       *Symbol
	Arg2      *Symbol
	Length    *Symbol
	Concat    *Symbol
	Substr    *Symbol
	Abort     *Symbol
	TypeName  *Symbol
	Copy      *Symbol
	InInt     *Symbol
	InString  *Symbol
	OutInt    *Symbol
	OutString *Symbol
	Value     *Symbol
}

// NewInterner creates an Interner with all predefined symbols installed.
func NewInterner() *Interner {
	in := &Interner{table: make(map[string]*Symbol, 64)}
	in.SelfType = in.Intern("SELF_TYPE")
	in.Self = in.Intern("self")
	in.Object = in.Intern("Object")
	in.IO = in.Intern("IO")
	in.Int = in.Intern("Int")
	in.Bool = in.Intern("Bool")
	in.String = in.Intern("String")
	in.NoType = in.Intern("_no_type")
	in.Bottom = in.Intern("_bottom_")
	in.NoClass = in.Intern("_no_class")
	in.PrimSlot = in.Intern("_prim_slot")
	in.MainClass = in.Intern("Main")
	in.MainMeth = in.Intern("main")
	in.Arg = in.Intern("arg")
	in.Arg2 = in.Intern("arg2")
	in.Length = in.Intern("length")
	in.Concat = in.Intern("concat")
	in.Substr = in.Intern("substr")
	in.Abort = in.Intern("abort")
	in.TypeName = in.Intern("type_name")
	in.Copy = in.Intern("copy")
	in.InInt = in.Intern("in_int")
	in.InString = in.Intern("in_string")
	in.OutInt = in.Intern("out_int")
	in.OutString = in.Intern("out_string")
	in.Value = in.Intern("val")
	return in
}

// Intern returns the stable Symbol for name, creating it on first use.
func (in *Interner) Intern(name string) *Symbol {
	if sym, ok := in.table[name]; ok {
		return sym
	}
	sym := &Symbol{name: name}
	in.table[name] = sym
	return sym
}

// Lookup returns the Symbol for name if it has already been interned.
func (in *Interner) Lookup(name string) (*Symbol, bool) {
	sym, ok := in.table[name]
	return sym, ok
}
