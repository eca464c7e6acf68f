package codegen

import (
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/config"
	"github.com/cwbudde/coolc/internal/symbols"
)

// Generate lowers a fully type-checked program into assembly, writing to
// w. Callers must have already run the two D/E/F fatal barriers — code
// generation is never entered if semantic errors were recorded (spec.md
// §7).
func Generate(w io.Writer, in *symbols.Interner, ct *classtable.ClassTable, gc config.GCMode, gcTest bool, userClasses []*ast.Class) {
	e := NewEmitter(w)
	defer e.Flush()

	order := ct.RegisteredOrder(userClasses)
	tt := AssignTags(ct.Root)
	lt := BuildLayouts(ct.Root)
	cp := NewConstantPools(in)

	preloadConstants(cp, in, ct, userClasses)

	emitGlobals(e, gc, gcTest)
	e.Data()
	EmitClassNameTab(e, tt, cp, in)
	EmitClassObjTab(e, tt)
	for _, n := range order {
		EmitProtoObj(e, n, tt, lt, in)
	}
	cp.EmitConstants(e, tt, ct)

	e.Text()
	for _, n := range order {
		EmitDispTab(e, n, lt)
	}
	for _, n := range order {
		emitInit(e, n, tt, lt, ct, in, gc, cp)
	}
	for _, n := range order {
		if n.Decl.Filename == "<basic class>" {
			continue
		}
		emitMethods(e, n, tt, lt, ct, in, gc, cp)
	}
}

// preloadConstants walks every class's attribute initializers and every
// method body once up front so every literal gets an interned label
// before any code references it (prototype emission runs before method
// bodies do, but both need the same pools).
func preloadConstants(cp *ConstantPools, in *symbols.Interner, ct *classtable.ClassTable, userClasses []*ast.Class) {
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case nil:
			return
		case *ast.IntConst:
			cp.InternInt(n.Value)
		case *ast.StringConst:
			cp.InternString(n.Value)
		case *ast.Assign:
			walk(n.Expr)
		case *ast.StaticDispatch:
			walk(n.Receiver)
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.Dispatch:
			walk(n.Receiver)
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.Cond:
			walk(n.Pred)
			walk(n.Then)
			walk(n.Else)
		case *ast.Loop:
			walk(n.Pred)
			walk(n.Body)
		case *ast.TypeCase:
			walk(n.Scrutinee)
			for _, br := range n.Branches {
				walk(br.Body)
			}
		case *ast.Block:
			for _, sub := range n.Exprs {
				walk(sub)
			}
		case *ast.Let:
			walk(n.Init)
			walk(n.Body)
		case *ast.Plus:
			walk(n.Left)
			walk(n.Right)
		case *ast.Sub:
			walk(n.Left)
			walk(n.Right)
		case *ast.Mul:
			walk(n.Left)
			walk(n.Right)
		case *ast.Divide:
			walk(n.Left)
			walk(n.Right)
		case *ast.Neg:
			walk(n.Expr)
		case *ast.Lt:
			walk(n.Left)
			walk(n.Right)
		case *ast.Leq:
			walk(n.Left)
			walk(n.Right)
		case *ast.Eq:
			walk(n.Left)
			walk(n.Right)
		case *ast.Comp:
			walk(n.Expr)
		case *ast.IsVoid:
			walk(n.Expr)
		}
	}
	for _, c := range userClasses {
		cp.InternString(in.Intern(c.Filename))
		for _, f := range c.Features {
			switch feat := f.(type) {
			case *ast.Attr:
				walk(feat.Init)
			case *ast.Method:
				walk(feat.Body)
			}
		}
	}
}

func emitGlobals(e *Emitter, gc config.GCMode, gcTest bool) {
	e.Data()
	e.Align(2)
	e.Globl("_MemMgr_INITIALIZER")
	e.SymbolDef("_MemMgr_INITIALIZER")
	e.WordSym(gc.InitializerLabel())
	e.Globl("_MemMgr_COLLECTOR")
	e.SymbolDef("_MemMgr_COLLECTOR")
	e.WordSym(gc.CollectorLabel())
	e.Globl("_MemMgr_TEST")
	e.SymbolDef("_MemMgr_TEST")
	if gcTest {
		e.WordLit(1)
	} else {
		e.WordLit(0)
	}
	e.SymbolDef("heap_start")
	e.WordLit(0)
}

// emitInit emits `<Class>_init`: chain to the parent's init (skipped for
// Object), then evaluate each own attribute initializer in declaration
// order and store it into self (spec.md §4.H).
func emitInit(e *Emitter, n *classtable.Node, tt *TagTable, lt *LayoutTable, ct *classtable.ClassTable, in *symbols.Interner, gc config.GCMode, cp *ConstantPools) {
	name := n.Decl.Name.Name()
	e.SymbolDef(InitLabel(name))
	e.Prologue()

	if n.Parent != nil {
		e.Jal(InitLabel(n.Parent.Decl.Name.Name()))
	}

	g := NewGenerator(e, cp, tt, lt, ct, in, gc, n.Decl.Name, n.Decl.Filename)
	for _, attr := range ownAttrInits(n, lt) {
		g.Gen(attr.Init)
		e.Store(RegACC, attr.Offset, RegSELF)
		if gc == config.GCGenerational {
			e.GCAssign(RegSELF, attr.Offset)
		}
	}

	e.Move(RegACC, RegSELF)
	e.Epilogue(0)
}

// emitMethods emits every method `n` itself declares (inherited-but-not-
// overridden methods already have a label on their declaring class).
func emitMethods(e *Emitter, n *classtable.Node, tt *TagTable, lt *LayoutTable, ct *classtable.ClassTable, in *symbols.Interner, gc config.GCMode, cp *ConstantPools) {
	for _, f := range n.Decl.Features {
		method, ok := f.(*ast.Method)
		if !ok {
			continue
		}
		e.SymbolDef(MethodLabel(n.Decl.Name.Name(), method.Name.Name()))
		e.Prologue()

		g := NewGenerator(e, cp, tt, lt, ct, in, gc, n.Decl.Name, n.Decl.Filename)
		g.vars.Enter()
		for i, formal := range method.Formals {
			offset := len(method.Formals) - i - 1
			g.vars.Define(formal.Name, VarLoc{Offset: offset, Base: RegFP})
		}
		g.Gen(method.Body)
		g.vars.Exit()

		e.Epilogue(len(method.Formals))
	}
}
