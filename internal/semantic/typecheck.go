package semantic

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/symbols"
)

// Checker runs the per-node contracts of spec.md §4.F over every class's
// features, using the environment EnvironmentBuilder already populated.
type Checker struct {
	in       *symbols.Interner
	ct       *classtable.ClassTable
	lattice  *Lattice
	bag      *diag.Bag
	filename string // source file of the feature currently being checked
}

// errf records a diagnostic against the file of the feature currently being
// checked, so inferRaw's recursive helpers never have to thread it through.
func (c *Checker) errf(line int, format string, args ...interface{}) {
	c.bag.Addf(c.filename, line, format, args...)
}

// NewChecker creates a Checker.
func NewChecker(in *symbols.Interner, ct *classtable.ClassTable, bag *diag.Bag) *Checker {
	return &Checker{in: in, ct: ct, lattice: NewLattice(in, ct), bag: bag}
}

// CheckAll type-checks every feature of every node in order.
func (c *Checker) CheckAll(nodes []*classtable.Node) {
	for _, node := range nodes {
		for _, f := range node.Decl.Features {
			switch feat := f.(type) {
			case *ast.Attr:
				c.checkAttr(node, feat)
			case *ast.Method:
				c.checkMethod(node, feat)
			}
		}
	}
}

func (c *Checker) typeExists(t *symbols.Symbol) bool {
	return t == c.in.SelfType || t == c.in.PrimSlot || c.ct.Exists(t)
}

func (c *Checker) checkAttr(node *classtable.Node, attr *ast.Attr) {
	c.filename = node.Decl.Filename
	className := node.Decl.Name
	declared := attr.DeclaredType
	exists := c.typeExists(declared)
	if !exists {
		c.bag.Addf(node.Decl.Filename, attr.Line,
			"Class %s of attribute %s is undefined.", declared.Name(), attr.Name.Name())
	}

	if _, isNoExpr := attr.Init.(*ast.NoExpr); isNoExpr {
		return
	}

	node.Env.Objects.Enter()
	t1 := c.infer(attr.Init, node.Env, className)
	if exists && !c.lattice.Leq(declared, t1, className) {
		c.bag.Addf(node.Decl.Filename, attr.Line,
			"Inferred type %s of initialization of attribute %s does not conform to declared type %s.",
			t1.Name(), attr.Name.Name(), declared.Name())
	}
	node.Env.Objects.Exit()
}

func (c *Checker) checkMethod(node *classtable.Node, method *ast.Method) {
	c.filename = node.Decl.Filename
	className := node.Decl.Name

	node.Env.Objects.Enter()
	for _, f := range method.Formals {
		if f.DeclaredType != c.in.SelfType && !c.ct.Exists(f.DeclaredType) {
			c.bag.Addf(node.Decl.Filename, method.Line,
				"Class %s of formal parameter %s is undefined.", f.DeclaredType.Name(), f.Name.Name())
		}
		node.Env.Objects.Define(f.Name, f.DeclaredType)
	}

	tPrime := c.infer(method.Body, node.Env, className)
	declared := method.ReturnType

	if declared != c.in.SelfType && !c.ct.Exists(declared) {
		c.bag.Addf(node.Decl.Filename, method.Line,
			"Undefined return type %s in method %s.", declared.Name(), method.Name.Name())
	} else if !c.lattice.Leq(declared, tPrime, className) {
		c.bag.Addf(node.Decl.Filename, method.Line,
			"Inferred return type %s of method %s does not conform to declared return type %s.",
			tPrime.Name(), method.Name.Name(), declared.Name())
	}
	node.Env.Objects.Exit()
}

// infer is the recursive per-node contract dispatcher (spec.md §4.F). It
// always sets e's inferred-type slot before returning.
func (c *Checker) infer(e ast.Expr, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t := c.inferRaw(e, env, class)
	e.SetType(t)
	return t
}

func (c *Checker) inferRaw(e ast.Expr, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	switch n := e.(type) {
	case *ast.Assign:
		return c.inferAssign(n, env, class)
	case *ast.StaticDispatch:
		return c.inferStaticDispatch(n, env, class)
	case *ast.Dispatch:
		return c.inferDispatch(n, env, class)
	case *ast.Cond:
		return c.inferCond(n, env, class)
	case *ast.Loop:
		return c.inferLoop(n, env, class)
	case *ast.TypeCase:
		return c.inferTypeCase(n, env, class)
	case *ast.Block:
		return c.inferBlock(n, env, class)
	case *ast.Let:
		return c.inferLet(n, env, class)
	case *ast.Plus:
		return c.inferArith(n.Left, n.Right, "+", env, class)
	case *ast.Sub:
		return c.inferArith(n.Left, n.Right, "-", env, class)
	case *ast.Mul:
		return c.inferArith(n.Left, n.Right, "*", env, class)
	case *ast.Divide:
		return c.inferArith(n.Left, n.Right, "/", env, class)
	case *ast.Neg:
		return c.inferNeg(n, env, class)
	case *ast.Lt:
		return c.inferRel(n.Left, n.Right, "<", env, class)
	case *ast.Leq:
		return c.inferRel(n.Left, n.Right, "<=", env, class)
	case *ast.Eq:
		return c.inferEq(n, env, class)
	case *ast.Comp:
		return c.inferComp(n, env, class)
	case *ast.IntConst:
		return c.in.Int
	case *ast.StringConst:
		return c.in.String
	case *ast.BoolConst:
		return c.in.Bool
	case *ast.New:
		return c.inferNew(n, env, class)
	case *ast.IsVoid:
		c.infer(n.Expr, env, class)
		return c.in.Bool
	case *ast.NoExpr:
		return c.in.NoType
	case *ast.ObjectRef:
		return c.inferObjectRef(n, env, class)
	default:
		return c.in.Bottom
	}
}

func (c *Checker) inferAssign(n *ast.Assign, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	tPrime := c.infer(n.Expr, env, class)

	if n.Name == c.in.Self {
		c.errf(n.Line, "Cannot assign to 'self'.")
		return tPrime
	}

	declared, ok := env.Objects.Lookup(n.Name)
	if !ok {
		c.errf(n.Line, "Assignment to undeclared variable %s.", n.Name.Name())
		return tPrime
	}
	if !c.lattice.Leq(declared, tPrime, class) {
		c.errf(n.Line,
			"Type %s of assigned expression does not conform to declared type %s of identifier %s.",
			tPrime.Name(), declared.Name(), n.Name.Name())
	}
	return tPrime
}

func (c *Checker) checkArgs(methodName string, sig classtable.MethodSig, args []ast.Expr, line int, env *classtable.Environment, class *symbols.Symbol, errf func(format string, a ...interface{})) {
	params := sig.Params()
	if len(params) != len(args) {
		errf("Method %s called with wrong number of arguments.", methodName)
		for _, a := range args {
			c.infer(a, env, class)
		}
		return
	}
	for i, a := range args {
		actual := c.infer(a, env, class)
		if !c.lattice.Leq(params[i], actual, class) {
			errf("In call of method %s, type %s does not conform to declared type %s.",
				methodName, actual.Name(), params[i].Name())
		}
	}
}

func (c *Checker) inferDispatch(n *ast.Dispatch, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	var t0 *symbols.Symbol
	if n.Receiver != nil {
		t0 = c.infer(n.Receiver, env, class)
	} else {
		t0 = c.in.SelfType
	}

	t0prime := t0
	if t0 == c.in.SelfType {
		t0prime = class
	}

	if !c.ct.Exists(t0prime) {
		c.errf(n.Line, "Dispatch on undefined class %s.", t0prime.Name())
		for _, a := range n.Args {
			c.infer(a, env, class)
		}
		return c.in.Bottom
	}

	node, _ := c.ct.Lookup(t0prime)
	sig, ok := node.Env.Methods.Lookup(n.Method)
	if !ok {
		c.errf(n.Line, "Dispatch to undefined method %s.", n.Method.Name())
		for _, a := range n.Args {
			c.infer(a, env, class)
		}
		return c.in.Bottom
	}

	c.checkArgs(n.Method.Name(), sig, n.Args, n.Line, env, class, func(format string, a ...interface{}) {
		c.errf(n.Line, format, a...)
	})

	ret := sig.Return()
	if ret == c.in.SelfType {
		return t0
	}
	return ret
}

func (c *Checker) inferStaticDispatch(n *ast.StaticDispatch, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t0 := c.infer(n.Receiver, env, class)

	if n.TargetClass == c.in.SelfType {
		c.errf(n.Line, "Static dispatch to SELF_TYPE.")
		for _, a := range n.Args {
			c.infer(a, env, class)
		}
		return c.in.Bottom
	}
	if !c.ct.Exists(n.TargetClass) {
		c.errf(n.Line, "Static dispatch to undefined class %s.", n.TargetClass.Name())
		for _, a := range n.Args {
			c.infer(a, env, class)
		}
		return c.in.Bottom
	}
	if !c.lattice.Leq(n.TargetClass, t0, class) {
		c.errf(n.Line, "Expression type %s does not conform to declared static dispatch type %s.",
			t0.Name(), n.TargetClass.Name())
		for _, a := range n.Args {
			c.infer(a, env, class)
		}
		return c.in.Bottom
	}

	node, _ := c.ct.Lookup(n.TargetClass)
	sig, ok := node.Env.Methods.Lookup(n.Method)
	if !ok {
		c.errf(n.Line, "Static dispatch to undefined method %s.", n.Method.Name())
		for _, a := range n.Args {
			c.infer(a, env, class)
		}
		return c.in.Bottom
	}

	c.checkArgs(n.Method.Name(), sig, n.Args, n.Line, env, class, func(format string, a ...interface{}) {
		c.errf(n.Line, format, a...)
	})

	ret := sig.Return()
	if ret == c.in.SelfType {
		return t0
	}
	return ret
}

func (c *Checker) inferCond(n *ast.Cond, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	pred := c.infer(n.Pred, env, class)
	if pred != c.in.Bool {
		c.errf(n.Line, "Predicate of 'if' does not have type Bool.")
	}
	t := c.infer(n.Then, env, class)
	e := c.infer(n.Else, env, class)
	return c.lattice.Lub(t, e, class)
}

func (c *Checker) inferLoop(n *ast.Loop, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	pred := c.infer(n.Pred, env, class)
	if pred != c.in.Bool {
		c.errf(n.Line, "Loop condition does not have type Bool.")
	}
	c.infer(n.Body, env, class)
	return c.in.Object
}

func (c *Checker) inferTypeCase(n *ast.TypeCase, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	c.infer(n.Scrutinee, env, class)

	var result *symbols.Symbol
	seen := make(map[*symbols.Symbol]bool, len(n.Branches))

	for _, branch := range n.Branches {
		if branch.Name == c.in.Self {
			c.errf(branch.Line, "'self' bound in 'case'.")
		}
		if branch.DeclaredType == c.in.SelfType {
			c.errf(branch.Line, "Identifier %s declared with type SELF_TYPE in case branch.", branch.Name.Name())
		}
		if seen[branch.DeclaredType] {
			c.errf(branch.Line, "Duplicate branch %s in case statement.", branch.DeclaredType.Name())
		}
		seen[branch.DeclaredType] = true
		if branch.DeclaredType != c.in.SelfType && !c.ct.Exists(branch.DeclaredType) {
			c.errf(branch.Line, "Class %s of case branch is undefined.", branch.DeclaredType.Name())
		}

		env.Objects.Enter()
		env.Objects.Define(branch.Name, branch.DeclaredType)
		bodyType := c.infer(branch.Body, env, class)
		env.Objects.Exit()

		if result == nil {
			result = bodyType
		} else {
			result = c.lattice.Lub(result, bodyType, class)
		}
	}
	if result == nil {
		return c.in.Object
	}
	return result
}

func (c *Checker) inferBlock(n *ast.Block, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	var last *symbols.Symbol = c.in.NoType
	for _, sub := range n.Exprs {
		last = c.infer(sub, env, class)
	}
	return last
}

func (c *Checker) inferLet(n *ast.Let, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	if n.Name == c.in.Self {
		c.errf(n.Line, "'self' cannot be bound in a 'let' expression.")
	}

	typeExists := n.DeclaredType == c.in.SelfType || c.ct.Exists(n.DeclaredType)
	if !typeExists {
		c.errf(n.Line, "Class %s of let-bound identifier %s is undefined.", n.DeclaredType.Name(), n.Name.Name())
	}

	if n.Init != nil {
		t1 := c.infer(n.Init, env, class)
		if typeExists && !c.lattice.Leq(n.DeclaredType, t1, class) {
			c.errf(n.Line,
				"Inferred type %s of initialization of %s does not conform to identifier's declared type %s.",
				t1.Name(), n.Name.Name(), n.DeclaredType.Name())
		}
	}

	env.Objects.Enter()
	env.Objects.Define(n.Name, n.DeclaredType)
	t2 := c.infer(n.Body, env, class)
	env.Objects.Exit()
	return t2
}

func (c *Checker) inferArith(left, right ast.Expr, op string, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t1 := c.infer(left, env, class)
	t2 := c.infer(right, env, class)
	if t1 != c.in.Int || t2 != c.in.Int {
		c.errf(left.Pos(), "non-Int arguments: %s %s %s", t1.Name(), op, t2.Name())
	}
	return c.in.Int
}

func (c *Checker) inferNeg(n *ast.Neg, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t1 := c.infer(n.Expr, env, class)
	if t1 != c.in.Int {
		c.errf(n.Line, "Argument of '~' has type %s instead of Int.", t1.Name())
	}
	return c.in.Int
}

func (c *Checker) inferRel(left, right ast.Expr, op string, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t1 := c.infer(left, env, class)
	t2 := c.infer(right, env, class)
	if t1 != c.in.Int || t2 != c.in.Int {
		c.errf(left.Pos(), "non-Int arguments: %s %s %s", t1.Name(), op, t2.Name())
	}
	return c.in.Bool
}

func (c *Checker) inferEq(n *ast.Eq, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t1 := c.infer(n.Left, env, class)
	t2 := c.infer(n.Right, env, class)
	if c.isBasic(t1) || c.isBasic(t2) {
		if t1 != t2 {
			c.errf(n.Line, "Illegal comparison with a basic type.")
		}
	}
	return c.in.Bool
}

func (c *Checker) isBasic(t *symbols.Symbol) bool {
	return t == c.in.Int || t == c.in.Bool || t == c.in.String
}

func (c *Checker) inferComp(n *ast.Comp, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t1 := c.infer(n.Expr, env, class)
	if t1 != c.in.Bool {
		c.errf(n.Line, "Argument of 'not' has type %s instead of Bool.", t1.Name())
	}
	return c.in.Bool
}

func (c *Checker) inferNew(n *ast.New, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	if n.ClassType == c.in.SelfType {
		return c.in.SelfType
	}
	if !c.ct.Exists(n.ClassType) {
		c.errf(n.Line, "'new' used with undefined class %s.", n.ClassType.Name())
		return c.in.Bottom
	}
	return n.ClassType
}

func (c *Checker) inferObjectRef(n *ast.ObjectRef, env *classtable.Environment, class *symbols.Symbol) *symbols.Symbol {
	t, ok := env.Objects.Lookup(n.Name)
	if !ok {
		c.errf(n.Line, "Undeclared identifier %s.", n.Name.Name())
		return c.in.Bottom
	}
	return t
}
