// Package astio reads and writes the parsed AST as a parenthesized
// s-expression, the same staged-pipeline idea the reference compiler's
// course harness uses. `coolc compile --ast-only` writes such a dump with
// WriteProgram, and ReadProgram parses one back into classes; no CLI mode
// or driver stage reads a dump, so semant/codegen always start from
// source text.
package astio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cwbudde/coolc/internal/ast"
)

// WriteProgram serializes classes as a top-level `(program (class ...) ...)`
// s-expression.
func WriteProgram(w io.Writer, classes []*ast.Class) error {
	bw := bufio.NewWriter(w)
	writeClasses(bw, classes)
	bw.WriteByte('\n')
	return bw.Flush()
}

func writeClasses(w *bufio.Writer, classes []*ast.Class) {
	fmt.Fprint(w, "(program")
	for _, c := range classes {
		w.WriteByte(' ')
		writeClass(w, c)
	}
	w.WriteByte(')')
}

func writeClass(w *bufio.Writer, c *ast.Class) {
	parent := "Object"
	if c.Parent != nil {
		parent = c.Parent.Name()
	}
	fmt.Fprintf(w, "(class %s %s %s", quote(c.Name.Name()), quote(parent), quote(c.Filename))
	for _, f := range c.Features {
		w.WriteByte(' ')
		writeFeature(w, f)
	}
	w.WriteByte(')')
}

func writeFeature(w *bufio.Writer, f ast.Feature) {
	switch feat := f.(type) {
	case *ast.Attr:
		fmt.Fprintf(w, "(attr %s %s ", feat.Name.Name(), feat.DeclaredType.Name())
		writeExpr(w, feat.Init)
		w.WriteByte(')')
	case *ast.Method:
		fmt.Fprintf(w, "(method %s (", feat.Name.Name())
		for i, form := range feat.Formals {
			if i > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "(formal %s %s)", form.Name.Name(), form.DeclaredType.Name())
		}
		fmt.Fprintf(w, ") %s ", feat.ReturnType.Name())
		writeExpr(w, feat.Body)
		w.WriteByte(')')
	}
}

func writeExpr(w *bufio.Writer, e ast.Expr) {
	switch n := e.(type) {
	case nil, *ast.NoExpr:
		w.WriteString("(no_expr)")
	case *ast.Assign:
		fmt.Fprintf(w, "(assign %s ", n.Name.Name())
		writeExpr(w, n.Expr)
		w.WriteByte(')')
	case *ast.StaticDispatch:
		fmt.Fprintf(w, "(static_dispatch ")
		writeExpr(w, n.Receiver)
		fmt.Fprintf(w, " %s %s (", n.TargetClass.Name(), n.Method.Name())
		writeExprList(w, n.Args)
		w.WriteString("))")
	case *ast.Dispatch:
		w.WriteString("(dispatch ")
		writeExpr(w, n.Receiver)
		fmt.Fprintf(w, " %s (", n.Method.Name())
		writeExprList(w, n.Args)
		w.WriteString("))")
	case *ast.Cond:
		w.WriteString("(cond ")
		writeExpr(w, n.Pred)
		w.WriteByte(' ')
		writeExpr(w, n.Then)
		w.WriteByte(' ')
		writeExpr(w, n.Else)
		w.WriteByte(')')
	case *ast.Loop:
		w.WriteString("(loop ")
		writeExpr(w, n.Pred)
		w.WriteByte(' ')
		writeExpr(w, n.Body)
		w.WriteByte(')')
	case *ast.TypeCase:
		w.WriteString("(typcase ")
		writeExpr(w, n.Scrutinee)
		for _, br := range n.Branches {
			fmt.Fprintf(w, " (branch %s %s ", br.Name.Name(), br.DeclaredType.Name())
			writeExpr(w, br.Body)
			w.WriteByte(')')
		}
		w.WriteByte(')')
	case *ast.Block:
		w.WriteString("(block")
		for _, sub := range n.Exprs {
			w.WriteByte(' ')
			writeExpr(w, sub)
		}
		w.WriteByte(')')
	case *ast.Let:
		init := "(no_expr)"
		fmt.Fprintf(w, "(let %s %s ", n.Name.Name(), n.DeclaredType.Name())
		if n.Init == nil {
			w.WriteString(init)
		} else {
			writeExpr(w, n.Init)
		}
		w.WriteByte(' ')
		writeExpr(w, n.Body)
		w.WriteByte(')')
	case *ast.Plus:
		w.WriteString("(plus ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Sub:
		w.WriteString("(sub ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Mul:
		w.WriteString("(mul ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Divide:
		w.WriteString("(divide ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Neg:
		w.WriteString("(neg ")
		writeExpr(w, n.Expr)
		w.WriteByte(')')
	case *ast.Lt:
		w.WriteString("(lt ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Leq:
		w.WriteString("(leq ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Eq:
		w.WriteString("(eq ")
		writeExpr(w, n.Left)
		w.WriteByte(' ')
		writeExpr(w, n.Right)
		w.WriteByte(')')
	case *ast.Comp:
		w.WriteString("(comp ")
		writeExpr(w, n.Expr)
		w.WriteByte(')')
	case *ast.IntConst:
		fmt.Fprintf(w, "(int_const %s)", n.Value.Name())
	case *ast.StringConst:
		fmt.Fprintf(w, "(string_const %s)", quote(n.Value.Name()))
	case *ast.BoolConst:
		fmt.Fprintf(w, "(bool_const %s)", strconv.FormatBool(n.Value))
	case *ast.New:
		fmt.Fprintf(w, "(new %s)", n.ClassType.Name())
	case *ast.IsVoid:
		w.WriteString("(isvoid ")
		writeExpr(w, n.Expr)
		w.WriteByte(')')
	case *ast.ObjectRef:
		fmt.Fprintf(w, "(object %s)", n.Name.Name())
	default:
		w.WriteString("(no_expr)")
	}
}

func writeExprList(w *bufio.Writer, exprs []ast.Expr) {
	for i, e := range exprs {
		if i > 0 {
			w.WriteByte(' ')
		}
		writeExpr(w, e)
	}
}

// quote wraps s in double quotes, escaping embedded quotes and backslashes
// (string/filename literals are the only tokens that can contain spaces).
func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}
