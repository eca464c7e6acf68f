// Package codegen lowers a type-checked AST plus its class table into
// textual 32-bit big-endian RISC assembly (spec.md §4.G–§4.I).
package codegen

import "github.com/cwbudde/coolc/internal/classtable"

// TagInfo records a class's own tag and the maximum tag among its
// descendants, letting TypeCase lowering test membership in a subtree with
// a single two-sided range comparison (spec.md §4.G, §8 contiguity
// invariant).
type TagInfo struct {
	Tag        int
	MaxDescTag int
}

// TagTable maps every registered class to its TagInfo.
type TagTable struct {
	Tags map[*classtable.Node]*TagInfo
	// Order lists nodes in tag order (index i has Tag == i), used by
	// prototype emission and the class-name/class-object tables.
	Order []*classtable.Node
}

// AssignTags performs the preorder DFS from root that spec.md §4.G
// specifies, numbering every node with increasing integer tags and
// back-filling each node's MaxDescTag once its subtree is fully visited.
func AssignTags(root *classtable.Node) *TagTable {
	tt := &TagTable{Tags: make(map[*classtable.Node]*TagInfo)}
	next := 0
	var visit func(n *classtable.Node)
	visit = func(n *classtable.Node) {
		info := &TagInfo{Tag: next}
		next++
		tt.Tags[n] = info
		tt.Order = append(tt.Order, n)

		maxTag := info.Tag
		for _, child := range n.Children {
			visit(child)
			if childMax := tt.Tags[child].MaxDescTag; childMax > maxTag {
				maxTag = childMax
			}
		}
		info.MaxDescTag = maxTag
	}
	visit(root)
	return tt
}

// Tag returns n's own tag.
func (tt *TagTable) Tag(n *classtable.Node) int { return tt.Tags[n].Tag }

// MaxDescTag returns the maximum tag anywhere in n's subtree, inclusive.
func (tt *TagTable) MaxDescTag(n *classtable.Node) int { return tt.Tags[n].MaxDescTag }

// InRange reports whether candidateTag falls within [tag(n), maxDescTag(n)],
// i.e. candidateTag names n or one of its descendants (spec.md §4.I
// TypeCase lowering contract).
func (tt *TagTable) InRange(n *classtable.Node, candidateTag int) bool {
	info := tt.Tags[n]
	return candidateTag >= info.Tag && candidateTag <= info.MaxDescTag
}

// NodeByTag returns the node owning tag t, or nil. Used by `new SELF_TYPE`
// lowering to build the class-object table index spec.md §4.H describes.
func (tt *TagTable) NodeByTag(t int) *classtable.Node {
	if t < 0 || t >= len(tt.Order) {
		return nil
	}
	return tt.Order[t]
}
