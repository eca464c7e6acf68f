// Package driver wires the compiler's stages together: lex, parse, build
// the class table, propagate environments, type-check, and — only if
// nothing upstream recorded a diagnostic — generate assembly. This is the
// single place that owns the two fatal barriers spec.md §7 describes.
package driver

import (
	"fmt"
	"io"

	"github.com/cwbudde/coolc/internal/ast"
	"github.com/cwbudde/coolc/internal/classtable"
	"github.com/cwbudde/coolc/internal/codegen"
	"github.com/cwbudde/coolc/internal/config"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/lexer"
	"github.com/cwbudde/coolc/internal/parser"
	"github.com/cwbudde/coolc/internal/semantic"
	"github.com/cwbudde/coolc/internal/symbols"
)

// Source is one input file: its name (as it should appear in diagnostics)
// and its full text.
type Source struct {
	Filename string
	Text     string
}

// Result holds the intermediate artifacts of one Compile call; the compile
// command reads Bag to print diagnostics, and checks ClassTable to tell a
// parse failure from a semantic one.
type Result struct {
	Interner   *symbols.Interner
	Bag        *diag.Bag
	Classes    []*ast.Class
	ClassTable *classtable.ClassTable
	UserNodes  []*classtable.Node
}

// ErrCompilation is returned when the bag recorded at least one
// diagnostic; callers should print Result.Bag.FormatAll() and exit
// nonzero rather than trust any partial codegen output.
var ErrCompilation = fmt.Errorf("compilation failed")

// Parse runs only the lexing/parsing stage over sources, returning every
// recovered class declaration. Used by the `-ast-only` CLI mode and by
// Compile itself.
func Parse(sources []Source) (*symbols.Interner, []*ast.Class, *diag.Bag) {
	in := symbols.NewInterner()
	bag := diag.NewBag()

	var classes []*ast.Class
	for _, src := range sources {
		l := lexer.New(src.Text, src.Filename, bag)
		p := parser.New(l, in, bag, src.Filename)
		classes = append(classes, p.ParseProgram()...)
	}
	return in, classes, bag
}

// Compile runs the full pipeline over sources, writing assembly to out
// only if every stage succeeds. gc/gcTest select the runtime's garbage
// collector (spec.md §4.J); they have no effect on semantic analysis.
func Compile(sources []Source, out io.Writer, gc config.GCMode, gcTest bool) (*Result, error) {
	in, classes, bag := Parse(sources)
	res := &Result{Interner: in, Bag: bag, Classes: classes}

	if bag.HasErrors() {
		return res, ErrCompilation
	}

	ct := classtable.New(in, bag)
	ct.InstallClasses(classes)
	res.ClassTable = ct

	order := ct.RegisteredOrder(classes)
	res.UserNodes = order

	ct.BuildInheritance(order)
	ct.CycleCheck(order)
	ct.MainReqCheck()

	if bag.HasErrors() {
		return res, ErrCompilation
	}

	semantic.NewEnvironmentBuilder(in, bag).Propagate(ct.Root)
	if bag.HasErrors() {
		return res, ErrCompilation
	}

	semantic.NewChecker(in, ct, bag).CheckAll(order)
	if bag.HasErrors() {
		return res, ErrCompilation
	}

	codegen.Generate(out, in, ct, gc, gcTest, classes)
	return res, nil
}
