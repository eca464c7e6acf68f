package classtable

import "github.com/cwbudde/coolc/internal/ast"

// Node is a single class's place in the inheritance tree: a reference to
// its declaration, a reference to its parent node (nil/unset until
// build_inheritance has run, fixed thereafter), its children in
// build_inheritance's visitation order, and its propagated Environment
// (spec.md §3 "Class inheritance node").
type Node struct {
	Decl     *ast.Class
	Parent   *Node
	Children []*Node
	Env      *Environment
}
