package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintFile renders the whole tree back to source text. Bytes outside the
// root span and inside untouched subtrees are copied from the input, so an
// unchanged tree prints exactly its source.
func (t *Tree) PrintFile() []byte {
	if t.Root == NoNode {
		return t.Source
	}
	var b strings.Builder
	b.Grow(len(t.Source) + 64)
	root := &t.nodes[t.Root]
	b.Write(t.Source[:root.Start])
	t.print(&b, t.Root)
	b.Write(t.Source[root.End:])
	return []byte(b.String())
}

// Print renders the subtree rooted at id.
func (t *Tree) Print(id NodeID) string {
	var b strings.Builder
	t.print(&b, id)
	return b.String()
}

func (t *Tree) print(b *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	b.WriteString(n.Leading)
	switch {
	case n.Synthetic:
		t.printSynthetic(b, id)
	case !n.dirty:
		b.Write(t.Source[n.Start:n.End])
	default:
		t.printChildren(b, id)
	}
	b.WriteString(n.Trailing)
}

func (t *Tree) printChildren(b *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	pos := n.Start
	for _, c := range n.Children {
		cn := &t.nodes[c]
		if cn.Start > pos {
			b.Write(t.Source[pos:cn.Start])
		}
		t.print(b, c)
		if cn.End > pos {
			pos = cn.End
		}
	}
	if n.End > pos {
		b.Write(t.Source[pos:n.End])
	}
}

func (t *Tree) printSynthetic(b *strings.Builder, id NodeID) {
	n := &t.nodes[id]
	switch n.Kind {
	case KindIdentifier:
		b.WriteString(n.Name)

	case KindString:
		b.WriteString(strconv.Quote(n.Name))

	case KindCallExpression:
		t.print(b, t.Field(id, "function"))
		b.WriteString(n.TypeArgs)
		t.print(b, t.Field(id, "arguments"))

	case KindArguments:
		b.WriteByte('(')
		t.printList(b, n.Children)
		b.WriteByte(')')

	case KindArrayPattern:
		b.WriteByte('[')
		t.printList(b, n.Children)
		b.WriteByte(']')

	case KindLexicalDeclaration, KindVariableDeclaration:
		b.WriteString(n.DeclKind)
		b.WriteByte(' ')
		t.printList(b, n.Children)

	case KindVariableDeclarator:
		t.print(b, t.Field(id, "name"))
		if v := t.Field(id, "value"); v != NoNode {
			b.WriteString(" = ")
			t.print(b, v)
		}

	case KindFormalParameters:
		b.WriteByte('(')
		t.printList(b, n.Children)
		b.WriteByte(')')

	case KindArrowFunction:
		params := t.Field(id, "parameters")
		if ps := t.Children(params); len(ps) == 1 && t.Kind(ps[0]) == KindIdentifier {
			t.print(b, ps[0])
		} else {
			t.print(b, params)
		}
		b.WriteString(" => ")
		t.print(b, t.Field(id, "body"))

	case KindAssignmentExpression, KindAugmentedAssignmentExpression:
		t.print(b, t.Field(id, "left"))
		b.WriteByte(' ')
		b.WriteString(n.Operator)
		b.WriteByte(' ')
		t.print(b, t.Field(id, "right"))

	case KindImportStatement:
		b.WriteString("import ")
		t.print(b, n.Children[0])
		b.WriteString(" from ")
		t.print(b, t.Field(id, "source"))

	case KindImportClause:
		t.printList(b, n.Children)

	case KindNamedImports:
		b.WriteString("{ ")
		t.printList(b, n.Children)
		b.WriteString(" }")

	case KindImportSpecifier:
		t.print(b, t.Field(id, "name"))
		if alias := t.Field(id, "alias"); alias != NoNode {
			b.WriteString(" as ")
			t.print(b, alias)
		}

	default:
		panic(fmt.Sprintf("ast: cannot print synthetic %s", n.Kind))
	}
}

func (t *Tree) printList(b *strings.Builder, ids []NodeID) {
	for i, c := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		t.print(b, c)
	}
}
