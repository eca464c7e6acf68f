package classtable

import "github.com/cwbudde/coolc/internal/symbols"

// MethodSig is a flat `[formal1_type, ..., formalN_type, return_type]`
// sequence (spec.md §3 "Environment", §4.E "a method's stored signature").
type MethodSig []*symbols.Symbol

// Params returns the formal parameter types only (everything but the last
// element).
func (s MethodSig) Params() []*symbols.Symbol { return s[:len(s)-1] }

// Return returns the method's declared return type (the last element).
func (s MethodSig) Return() *symbols.Symbol { return s[len(s)-1] }

// Environment is the per-class pair of scoped maps spec.md §3 describes:
// `objects` (identifier -> declared type, with `self` preset to
// SELF_TYPE) and `methods` (method name -> signature).
type Environment struct {
	Objects *symbols.Scope[*symbols.Symbol]
	Methods *symbols.Scope[MethodSig]
}

// NewEnvironment creates an empty environment with `self` bound to
// SELF_TYPE, as spec.md §3 requires.
func NewEnvironment(in *symbols.Interner) *Environment {
	env := &Environment{
		Objects: symbols.NewScope[*symbols.Symbol](),
		Methods: symbols.NewScope[MethodSig](),
	}
	env.Objects.Define(in.Self, in.SelfType)
	return env
}

// CloneTop returns a new Environment whose object/method tables are shallow
// clones of this environment's current top scope (spec.md §4.E:
// "initialized as shallow clones of the parent's top scope").
func (e *Environment) CloneTop() *Environment {
	return &Environment{
		Objects: e.Objects.CloneTop(),
		Methods: e.Methods.CloneTop(),
	}
}
