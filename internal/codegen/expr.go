package codegen

import (
	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/config"
	"github.com/cwbudde/coolc/internal/symbols"
)

// VarLoc is where a local/attribute lives: `offset(base)` (spec.md §4.I
// "a scoped map from name to (offset, base_register)").
type VarLoc struct {
	Offset int
	Base   string
}

// Generator lowers one method body (or class init) to assembly. It owns
// the frame_height counter and the scoped variable map spec.md §4.I
// describes; a fresh Generator is used per method/init so frame_height
// always starts at zero.
type Generator struct {
	e  *Emitter
	cp *ConstantPools
	tt *TagTable
	lt *LayoutTable
	ct *classtable.ClassTable
	in *symbols.Interner
	gc config.GCMode

	vars        *symbols.Scope[VarLoc]
	frameHeight int
	curClass    *symbols.Symbol
	filename    string
}

// NewGenerator creates a Generator for a method/init body in class
// curClass, with vars pre-seeded with that class's attribute offsets.
func NewGenerator(e *Emitter, cp *ConstantPools, tt *TagTable, lt *LayoutTable, ct *classtable.ClassTable, in *symbols.Interner, gc config.GCMode, curClass *symbols.Symbol, filename string) *Generator {
	g := &Generator{e: e, cp: cp, tt: tt, lt: lt, ct: ct, in: in, gc: gc, curClass: curClass, filename: filename, vars: symbols.NewScope[VarLoc]()}
	node, _ := ct.Lookup(curClass)
	for _, a := range lt.Layouts[node].Attrs {
		g.vars.Define(a.Name, VarLoc{Offset: a.Offset, Base: RegSELF})
	}
	return g
}

func (g *Generator) push(reg string) {
	g.e.Push(reg)
	g.frameHeight++
}

// popDiscard pops the top stack word without reading it back.
func (g *Generator) popDiscard() {
	g.e.Addiu(RegSP, RegSP, WordSize)
	g.frameHeight--
}

// popInto loads the top stack word into dest, then pops it.
func (g *Generator) popInto(dest string) {
	g.e.Load(dest, 0, RegSP)
	g.popDiscard()
}

// Gen lowers expr, leaving its result in ACC and frame_height unchanged
// (spec.md §4.I).
func (g *Generator) Gen(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.Assign:
		g.genAssign(n)
	case *ast.StaticDispatch:
		g.genStaticDispatch(n)
	case *ast.Dispatch:
		g.genDispatch(n)
	case *ast.Cond:
		g.genCond(n)
	case *ast.Loop:
		g.genLoop(n)
	case *ast.TypeCase:
		g.genTypeCase(n)
	case *ast.Block:
		g.genBlock(n)
	case *ast.Let:
		g.genLet(n)
	case *ast.Plus:
		g.genArith(n.Left, n.Right, g.e.Add)
	case *ast.Sub:
		g.genArith(n.Left, n.Right, g.e.Sub)
	case *ast.Mul:
		g.genArith(n.Left, n.Right, g.e.Mul)
	case *ast.Divide:
		g.genArith(n.Left, n.Right, g.e.Div)
	case *ast.Neg:
		g.genNeg(n)
	case *ast.Lt:
		g.genRel(n.Left, n.Right, g.e.Blt)
	case *ast.Leq:
		g.genRel(n.Left, n.Right, g.e.Bleq)
	case *ast.Eq:
		g.genEq(n)
	case *ast.Comp:
		g.genComp(n)
	case *ast.IntConst:
		g.e.LoadAddress(RegACC, g.cp.InternInt(n.Value))
	case *ast.StringConst:
		g.e.LoadAddress(RegACC, g.cp.InternString(n.Value))
	case *ast.BoolConst:
		g.e.LoadAddress(RegACC, BoolLabel(n.Value))
	case *ast.New:
		g.genNew(n)
	case *ast.IsVoid:
		g.genIsVoid(n)
	case *ast.NoExpr:
		g.e.Move(RegACC, RegZero)
	case *ast.ObjectRef:
		g.genObjectRef(n)
	}
}

func (g *Generator) genAssign(n *ast.Assign) {
	g.Gen(n.Expr)
	loc, ok := g.vars.Lookup(n.Name)
	if !ok {
		return
	}
	g.e.Store(RegACC, loc.Offset, loc.Base)
	if loc.Base == RegSELF && g.gc == config.GCGenerational {
		g.e.GCAssign(RegSELF, loc.Offset)
	}
}

// genArgs evaluates args left-to-right, pushing each onto the stack
// (spec.md §4.I "evaluate and push arguments left-to-right").
func (g *Generator) genArgs(args []ast.Expr) int {
	for _, a := range args {
		g.Gen(a)
		g.push(RegACC)
	}
	return len(args)
}

// emitVoidCheck jumps to abortLabel when ACC (the receiver) is the null
// pointer, loading the current filename and line the way spec.md §4.I's
// dispatch lowering describes.
func (g *Generator) emitVoidCheck(abortLabel string, line int) {
	okLabel := g.e.NewLabel()
	g.e.Bne(RegACC, RegZero, okLabel)
	g.e.LoadAddress(RegACC, g.cp.InternString(g.in.Intern(g.filename)))
	g.e.LoadImm(RegT1, line)
	g.e.Jal(abortLabel)
	g.e.LabelDef(okLabel)
}

func (g *Generator) genDispatch(n *ast.Dispatch) {
	argc := g.genArgs(n.Args)

	recvType := g.curClass
	if n.Receiver != nil {
		g.Gen(n.Receiver)
		if n.Receiver.Type() != g.in.SelfType {
			recvType = n.Receiver.Type()
		}
	} else {
		g.e.Move(RegACC, RegSELF)
	}

	node, ok := g.ct.Lookup(recvType)
	if !ok {
		for range n.Args {
			g.popDiscard()
		}
		return
	}
	slot, found := g.methodSlot(node, n.Method)
	if !found {
		for range n.Args {
			g.popDiscard()
		}
		return
	}

	g.emitVoidCheck("_dispatch_abort", n.Pos())
	g.e.Load(RegT1, 2, RegACC) // dispatch-table pointer follows tag, size
	g.e.Load(RegT1, slot.Offset, RegT1)
	g.e.Jalr(RegT1)

	for i := 0; i < argc; i++ {
		g.frameHeight--
	}
}

func (g *Generator) genStaticDispatch(n *ast.StaticDispatch) {
	argc := g.genArgs(n.Args)
	g.Gen(n.Receiver)

	node, ok := g.ct.Lookup(n.TargetClass)
	if !ok {
		for range n.Args {
			g.frameHeight--
		}
		return
	}
	slot, found := g.methodSlot(node, n.Method)
	if !found {
		for range n.Args {
			g.frameHeight--
		}
		return
	}

	g.emitVoidCheck("_dispatch_abort", n.Pos())
	g.e.LoadAddress(RegT1, DispTabLabel(n.TargetClass.Name()))
	g.e.Load(RegT1, slot.Offset, RegT1)
	g.e.Jalr(RegT1)

	for i := 0; i < argc; i++ {
		g.frameHeight--
	}
}

func (g *Generator) methodSlot(node *classtable.Node, name *symbols.Symbol) (*MethodSlot, bool) {
	for _, m := range g.lt.Layouts[node].Methods {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (g *Generator) genCond(n *ast.Cond) {
	falseLabel := g.e.NewLabel()
	endLabel := g.e.NewLabel()

	g.Gen(n.Pred)
	g.e.FetchInt(RegT1, RegACC)
	g.e.Beqz(RegT1, falseLabel)
	g.Gen(n.Then)
	g.e.Branch(endLabel)
	g.e.LabelDef(falseLabel)
	g.Gen(n.Else)
	g.e.LabelDef(endLabel)
}

func (g *Generator) genLoop(n *ast.Loop) {
	topLabel := g.e.NewLabel()
	endLabel := g.e.NewLabel()

	g.e.LabelDef(topLabel)
	g.Gen(n.Pred)
	g.e.FetchInt(RegT1, RegACC)
	g.e.Beqz(RegT1, endLabel)
	g.Gen(n.Body)
	g.e.Branch(topLabel)
	g.e.LabelDef(endLabel)
	g.e.Move(RegACC, RegZero)
}

// rangedBranch pairs a case branch with its declared type's class-table
// node, once the type is known to be resolvable (spec.md's Open Question
// on unresolved branch types: excluded from the tag-range search).
type rangedBranch struct {
	branch *ast.Case
	node   *classtable.Node
}

// genTypeCase sorts branches by declared-type tag in descending order and
// emits a linear range test per branch (spec.md §4.I): the branch whose
// [tag(T), max_descendant_tag(T)] range contains the scrutinee's actual
// tag fires first, which is what makes the most-specific class win.
func (g *Generator) genTypeCase(n *ast.TypeCase) {
	g.Gen(n.Scrutinee)
	g.emitVoidCheck("_case_abort2", n.Pos())
	g.push(RegACC)

	var ranged []rangedBranch
	for _, br := range n.Branches {
		node, ok := g.ct.Lookup(br.DeclaredType)
		if !ok {
			continue
		}
		ranged = append(ranged, rangedBranch{br, node})
	}
	for i := 0; i < len(ranged); i++ {
		for j := i + 1; j < len(ranged); j++ {
			if g.tt.Tag(ranged[j].node) > g.tt.Tag(ranged[i].node) {
				ranged[i], ranged[j] = ranged[j], ranged[i]
			}
		}
	}

	g.popInto(RegT1) // boxed scrutinee
	g.e.Load(RegT2, 0, RegT1) // scrutinee's class tag

	endLabel := g.e.NewLabel()
	for _, rb := range ranged {
		nextLabel := g.e.NewLabel()
		g.e.Blti(RegT2, g.tt.Tag(rb.node), nextLabel)
		g.e.Bgti(RegT2, g.tt.MaxDescTag(rb.node), nextLabel)

		g.vars.Enter()
		g.push(RegT1)
		g.vars.Define(rb.branch.Name, VarLoc{Offset: -g.frameHeight, Base: RegFP})
		g.Gen(rb.branch.Body)
		g.popDiscard()
		g.vars.Exit()
		g.e.Branch(endLabel)

		g.e.LabelDef(nextLabel)
	}
	g.e.Jal("_case_abort")
	g.e.LabelDef(endLabel)
}

func (g *Generator) genBlock(n *ast.Block) {
	for _, sub := range n.Exprs {
		g.Gen(sub)
	}
}

func (g *Generator) genLet(n *ast.Let) {
	if n.Init != nil {
		g.Gen(n.Init)
	} else {
		g.genDefault(n.DeclaredType)
	}
	g.push(RegACC)

	g.vars.Enter()
	g.vars.Define(n.Name, VarLoc{Offset: -g.frameHeight, Base: RegFP})
	g.Gen(n.Body)
	g.vars.Exit()

	g.popDiscard()
}

// genDefault loads the zero-value for an uninitialized let/attribute slot
// (spec.md §4.G "Default values").
func (g *Generator) genDefault(t *symbols.Symbol) {
	switch t {
	case g.in.Int:
		g.e.LoadAddress(RegACC, "int_const0")
	case g.in.Bool:
		g.e.LoadAddress(RegACC, BoolLabel(false))
	case g.in.String:
		g.e.LoadAddress(RegACC, "str_const0")
	default:
		g.e.Move(RegACC, RegZero)
	}
}

// genArith computes e1 op e2 into a fresh boxed Int (spec.md §4.I: "call
// Object.copy on the result to allocate a fresh boxed integer").
func (g *Generator) genArith(left, right ast.Expr, op func(dest, s1, s2 string)) {
	g.Gen(left)
	g.push(RegACC)
	g.Gen(right)
	g.e.Jal("Object.copy") // copies e2's box; ACC is now the fresh box
	g.popInto(RegT2)       // T2 = boxed e1
	g.e.FetchInt(RegT1, RegT2)
	g.e.FetchInt(RegT2, RegACC)
	op(RegT1, RegT1, RegT2)
	g.e.StoreInt(RegT1, RegACC)
}

func (g *Generator) genNeg(n *ast.Neg) {
	g.Gen(n.Expr)
	g.e.Jal("Object.copy")
	g.e.FetchInt(RegT1, RegACC)
	g.e.Neg(RegT1, RegT1)
	g.e.StoreInt(RegT1, RegACC)
}

// genRel unboxes both operands and branches to a fall-through label after
// pre-loading the true constant (spec.md §4.I).
func (g *Generator) genRel(left, right ast.Expr, branch func(s1, s2 string, l int)) {
	g.Gen(left)
	g.push(RegACC)
	g.Gen(right)
	g.popInto(RegT1)
	g.e.FetchInt(RegT1, RegT1)
	g.e.FetchInt(RegT2, RegACC)
	g.e.LoadAddress(RegACC, BoolLabel(true))
	endLabel := g.e.NewLabel()
	branch(RegT1, RegT2, endLabel)
	g.e.LoadAddress(RegACC, BoolLabel(false))
	g.e.LabelDef(endLabel)
}

// genEq compares by identity first, falling back to the runtime
// equality_test for structural Int/Bool/String comparison (spec.md §4.I:
// "ACC = left, A1 = false constant; the runtime returns either the true
// or the false constant").
func (g *Generator) genEq(n *ast.Eq) {
	g.Gen(n.Left)
	g.push(RegACC)
	g.Gen(n.Right)
	g.e.Move(RegT2, RegACC) // T2 = right
	g.popInto(RegT1)        // T1 = left

	identLabel := g.e.NewLabel()
	endLabel := g.e.NewLabel()
	g.e.Beq(RegT1, RegT2, identLabel)

	g.e.Move(RegACC, RegT1)
	g.e.LoadAddress(RegA1, BoolLabel(false))
	g.e.Jal("equality_test")
	g.e.Branch(endLabel)

	g.e.LabelDef(identLabel)
	g.e.LoadAddress(RegACC, BoolLabel(true))
	g.e.LabelDef(endLabel)
}

func (g *Generator) genComp(n *ast.Comp) {
	g.Gen(n.Expr)
	g.e.FetchInt(RegT1, RegACC)
	falseLabel := g.e.NewLabel()
	endLabel := g.e.NewLabel()
	g.e.Beqz(RegT1, falseLabel)
	g.e.LoadAddress(RegACC, BoolLabel(false))
	g.e.Branch(endLabel)
	g.e.LabelDef(falseLabel)
	g.e.LoadAddress(RegACC, BoolLabel(true))
	g.e.LabelDef(endLabel)
}

// genNew allocates and initializes a new instance. SELF_TYPE reads the
// live tag off SELF and indexes class_objTab to find the right
// prototype/init pair (spec.md §4.H, §4.I).
func (g *Generator) genNew(n *ast.New) {
	if n.ClassType == g.in.SelfType {
		g.e.Load(RegT1, 0, RegSELF)
		g.e.Sll(RegT1, RegT1, 3) // *8: two words per class_objTab entry
		g.e.LoadAddress(RegT2, "class_objTab")
		g.e.Add(RegT1, RegT1, RegT2)
		g.push(RegT1)
		g.e.Load(RegACC, 0, RegT1)
		g.e.Jal("Object.copy")
		g.popInto(RegT1)
		g.e.Load(RegT1, 1, RegT1)
		g.e.Jalr(RegT1)
		return
	}

	g.e.LoadAddress(RegACC, ProtObjLabel(n.ClassType.Name()))
	g.e.Jal("Object.copy")
	g.e.Jal(InitLabel(n.ClassType.Name()))
}

func (g *Generator) genIsVoid(n *ast.IsVoid) {
	g.Gen(n.Expr)
	trueLabel := g.e.NewLabel()
	endLabel := g.e.NewLabel()
	g.e.Beqz(RegACC, trueLabel)
	g.e.LoadAddress(RegACC, BoolLabel(false))
	g.e.Branch(endLabel)
	g.e.LabelDef(trueLabel)
	g.e.LoadAddress(RegACC, BoolLabel(true))
	g.e.LabelDef(endLabel)
}

func (g *Generator) genObjectRef(n *ast.ObjectRef) {
	if n.Name == g.in.Self {
		g.e.Move(RegACC, RegSELF)
		return
	}
	loc, ok := g.vars.Lookup(n.Name)
	if !ok {
		return
	}
	g.e.Load(RegACC, loc.Offset, loc.Base)
}
