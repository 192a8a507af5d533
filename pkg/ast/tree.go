package ast

import (
	"strings"
)

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the absent node.
const NoNode NodeID = -1

// Node is one arena entry. Nodes converted from source keep their byte span
// and print as the original text until something below them changes.
// Synthetic nodes are created by the constructors in build.go and print in a
// canonical form.
type Node struct {
	Kind     Kind
	Type     string
	Parent   NodeID
	Children []NodeID
	// Fields holds the grammar field name of each child, "" when unnamed.
	Fields []string
	Start  int
	End    int
	Named  bool

	Synthetic bool
	// Payload of synthetic nodes.
	Name     string
	Operator string
	DeclKind string
	TypeArgs string
	// Extra text printed around any node, such as carried comments.
	Leading  string
	Trailing string

	dirty bool
}

// Tree is an arena of nodes over one source file.
type Tree struct {
	Source   []byte
	Path     string
	Language string
	Root     NodeID
	// HasErrors is set when the parser recovered from syntax errors.
	HasErrors bool

	nodes []Node

	imports map[string]string
	created map[string]struct{}
	used    map[NodeID]map[string]struct{}
}

// NewTree creates an empty tree over source.
func NewTree(source []byte, path string) *Tree {
	return &Tree{
		Source:  source,
		Path:    path,
		Root:    NoNode,
		imports: make(map[string]string),
		created: make(map[string]struct{}),
		used:    make(map[NodeID]map[string]struct{}),
	}
}

// Add appends n to the arena and returns its ID. The caller links it to its
// parent with AppendChild.
func (t *Tree) Add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// AppendChild links child under parent with the given field name.
func (t *Tree) AppendChild(parent, child NodeID, field string) {
	p := &t.nodes[parent]
	p.Children = append(p.Children, child)
	p.Fields = append(p.Fields, field)
	t.nodes[child].Parent = parent
}

// Len returns the number of nodes in the arena, attached or not.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node for id. The pointer is invalidated by Add.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Kind returns the kind of id, or KindOther for NoNode.
func (t *Tree) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindOther
	}
	return t.nodes[id].Kind
}

// Is reports whether id is a node of kind k.
func (t *Tree) Is(id NodeID, k Kind) bool {
	return id != NoNode && t.nodes[id].Kind == k
}

// Parent returns the parent of id.
func (t *Tree) Parent(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	return t.nodes[id].Parent
}

// Children returns the children of id, named and anonymous.
func (t *Tree) Children(id NodeID) []NodeID {
	if id == NoNode {
		return nil
	}
	return t.nodes[id].Children
}

// NamedChildren returns the named children of id, skipping comments.
func (t *Tree) NamedChildren(id NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		n := &t.nodes[c]
		if n.Named && n.Kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenOfKind returns the direct children of id with kind k.
func (t *Tree) ChildrenOfKind(id NodeID, k Kind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.nodes[c].Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Field returns the first child of id stored under field, or NoNode.
func (t *Tree) Field(id NodeID, field string) NodeID {
	if id == NoNode {
		return NoNode
	}
	n := &t.nodes[id]
	for i, f := range n.Fields {
		if f == field {
			return n.Children[i]
		}
	}
	return NoNode
}

// HasChildType reports whether id has a direct child with the raw grammar type.
func (t *Tree) HasChildType(id NodeID, typ string) bool {
	for _, c := range t.Children(id) {
		if t.nodes[c].Type == typ {
			return true
		}
	}
	return false
}

// Text returns the current text of id. Untouched source nodes return their
// original bytes; anything else is printed.
func (t *Tree) Text(id NodeID) string {
	if id == NoNode {
		return ""
	}
	n := &t.nodes[id]
	if !n.Synthetic && !n.dirty {
		return string(t.Source[n.Start:n.End])
	}
	return t.Print(id)
}

// Name returns the identifier text of id.
func (t *Tree) Name(id NodeID) string {
	if id == NoNode {
		return ""
	}
	if n := &t.nodes[id]; n.Synthetic {
		return n.Name
	}
	return t.Text(id)
}

// StringValue returns the unquoted contents of a string literal.
func (t *Tree) StringValue(id NodeID) string {
	if id == NoNode {
		return ""
	}
	if n := &t.nodes[id]; n.Synthetic {
		return n.Name
	}
	s := t.Text(id)
	if len(s) >= 2 {
		switch s[0] {
		case '"', '\'', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}

// DeclKind returns "let", "const" or "var" for declaration nodes.
func (t *Tree) DeclKind(id NodeID) string {
	n := &t.nodes[id]
	if n.Synthetic {
		return n.DeclKind
	}
	switch n.Kind {
	case KindVariableDeclaration:
		return "var"
	case KindLexicalDeclaration, KindForInStatement:
		if k := t.Field(id, "kind"); k != NoNode {
			return t.Text(k)
		}
		if n.Kind == KindLexicalDeclaration && len(n.Children) > 0 {
			return t.Text(n.Children[0])
		}
	}
	return ""
}

// Operator returns the operator of an assignment expression.
func (t *Tree) Operator(id NodeID) string {
	n := &t.nodes[id]
	if n.Synthetic {
		return n.Operator
	}
	switch n.Kind {
	case KindAssignmentExpression:
		return "="
	case KindAugmentedAssignmentExpression:
		if op := t.Field(id, "operator"); op != NoNode {
			return t.Text(op)
		}
		for _, c := range n.Children {
			if !t.nodes[c].Named && strings.HasSuffix(t.nodes[c].Type, "=") {
				return t.nodes[c].Type
			}
		}
	}
	return ""
}

// Walk calls fn for id and its descendants in pre-order. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if id == NoNode {
		return
	}
	if !fn(id) {
		return
	}
	for i := 0; i < len(t.nodes[id].Children); i++ {
		t.Walk(t.nodes[id].Children[i], fn)
	}
}

// Contains reports whether id lies in the subtree rooted at ancestor.
func (t *Tree) Contains(ancestor, id NodeID) bool {
	for ; id != NoNode; id = t.nodes[id].Parent {
		if id == ancestor {
			return true
		}
	}
	return false
}

// markDirty flags id and its ancestors as needing a structural print.
func (t *Tree) markDirty(id NodeID) {
	for ; id != NoNode; id = t.nodes[id].Parent {
		if t.nodes[id].dirty {
			return
		}
		t.nodes[id].dirty = true
	}
}

// Changed reports whether any node in the tree was rewritten.
func (t *Tree) Changed() bool {
	return t.Root != NoNode && t.nodes[t.Root].dirty
}

// Position returns the 1-based line and 0-based byte column of a source offset.
func (t *Tree) Position(offset int) (line, col int) {
	if offset > len(t.Source) {
		offset = len(t.Source)
	}
	line = 1
	start := 0
	for i := 0; i < offset; i++ {
		if t.Source[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, offset - start
}
