package ast

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// VisitFunc is invoked for a node whose kind is registered in a Visitor.
type VisitFunc func(p *Path)

// Visitor maps node kinds to callbacks.
type Visitor map[Kind]VisitFunc

// Plugin is a named visitor run over a whole file.
type Plugin struct {
	Name    string
	Visitor Visitor
}

// Path is the handle a callback receives for the node being visited.
type Path struct {
	Tree *Tree
	Node NodeID

	replaced NodeID
}

// Kind returns the kind of the visited node.
func (p *Path) Kind() Kind {
	return p.Tree.Kind(p.Node)
}

// Parent returns the parent of the visited node.
func (p *Path) Parent() NodeID {
	return p.Tree.Parent(p.Node)
}

// Get returns the child stored under field.
func (p *Path) Get(field string) NodeID {
	return p.Tree.Field(p.Node, field)
}

// Replace swaps the visited node for repl. Traversal continues into repl's
// children; repl itself is not dispatched again.
func (p *Path) Replace(repl NodeID) {
	p.Tree.Replace(p.Node, repl)
	p.replaced = repl
}

// Traverse walks the descendants of the visited node with v.
func (p *Path) Traverse(v Visitor) {
	tr := newTraversal(p.Tree, v)
	tr.children(p.Node)
}

// Traverse walks the subtree at root in pre-order, parent before children,
// dispatching every node whose kind is registered in v.
func Traverse(t *Tree, root NodeID, v Visitor) {
	if root == NoNode {
		return
	}
	newTraversal(t, v).visit(root)
}

// Run applies each plugin to the whole tree in order.
func Run(t *Tree, plugins ...*Plugin) {
	for _, p := range plugins {
		Traverse(t, t.Root, p.Visitor)
	}
}

type traversal struct {
	tree    *Tree
	visitor Visitor
	seen    *roaring.Bitmap
}

func newTraversal(t *Tree, v Visitor) *traversal {
	return &traversal{tree: t, visitor: v, seen: roaring.New()}
}

func (tr *traversal) visit(id NodeID) {
	// Insertions into an ancestor's child list can shift a sibling back
	// under the cursor; each node is dispatched at most once.
	if !tr.seen.CheckedAdd(uint32(id)) {
		return
	}
	if fn, ok := tr.visitor[tr.tree.Kind(id)]; ok {
		p := &Path{Tree: tr.tree, Node: id, replaced: NoNode}
		fn(p)
		if p.replaced != NoNode {
			id = p.replaced
			tr.seen.Add(uint32(id))
		}
	}
	tr.children(id)
}

func (tr *traversal) children(id NodeID) {
	for i := 0; i < len(tr.tree.nodes[id].Children); i++ {
		tr.visit(tr.tree.nodes[id].Children[i])
	}
}
