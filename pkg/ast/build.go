package ast

import (
	"fmt"
	"strings"
)

// synthetic adds a constructed node. Children are adopted in order; a child
// that still hangs off an old parent keeps its stale slot there, so callers
// must detach that old parent (usually with Replace) before printing.
func (t *Tree) synthetic(n Node, children []NodeID, fields []string) NodeID {
	n.Synthetic = true
	n.Parent = NoNode
	n.dirty = true
	id := t.Add(n)
	for i, c := range children {
		if c == NoNode {
			panic(fmt.Sprintf("ast: nil child %d for %s", i, n.Kind))
		}
		t.AppendChild(id, c, fields[i])
	}
	return id
}

// Identifier creates an identifier node.
func (t *Tree) Identifier(name string) NodeID {
	if name == "" {
		panic("ast: empty identifier")
	}
	t.created[name] = struct{}{}
	return t.synthetic(Node{Kind: KindIdentifier, Type: "identifier", Named: true, Name: name}, nil, nil)
}

// StringLiteral creates a string literal with the given value.
func (t *Tree) StringLiteral(value string) NodeID {
	return t.synthetic(Node{Kind: KindString, Type: "string", Named: true, Name: value}, nil, nil)
}

// CallExpression creates callee(args...).
func (t *Tree) CallExpression(callee NodeID, args ...NodeID) NodeID {
	fields := make([]string, len(args))
	list := t.synthetic(Node{Kind: KindArguments, Type: "arguments", Named: true}, args, fields)
	return t.synthetic(Node{Kind: KindCallExpression, Type: "call_expression", Named: true},
		[]NodeID{callee, list}, []string{"function", "arguments"})
}

// SetTypeArguments attaches a TypeScript type argument list to a synthetic call.
func (t *Tree) SetTypeArguments(call NodeID, typeArgs string) {
	n := &t.nodes[call]
	if !n.Synthetic || n.Kind != KindCallExpression {
		panic("ast: type arguments on non-synthetic call")
	}
	n.TypeArgs = typeArgs
}

// ArrayPattern creates [elems...] in binding position.
func (t *Tree) ArrayPattern(elems ...NodeID) NodeID {
	return t.synthetic(Node{Kind: KindArrayPattern, Type: "array_pattern", Named: true}, elems, make([]string, len(elems)))
}

// VariableDeclarator creates id = init. init may be NoNode.
func (t *Tree) VariableDeclarator(id, init NodeID) NodeID {
	children := []NodeID{id}
	fields := []string{"name"}
	if init != NoNode {
		children = append(children, init)
		fields = append(fields, "value")
	}
	return t.synthetic(Node{Kind: KindVariableDeclarator, Type: "variable_declarator", Named: true}, children, fields)
}

// VariableDeclaration creates a let/const/var declaration.
func (t *Tree) VariableDeclaration(kind string, declarators ...NodeID) NodeID {
	if len(declarators) == 0 {
		panic("ast: declaration without declarators")
	}
	k := KindLexicalDeclaration
	typ := "lexical_declaration"
	switch kind {
	case "let", "const":
	case "var":
		k, typ = KindVariableDeclaration, "variable_declaration"
	default:
		panic(fmt.Sprintf("ast: invalid declaration kind %q", kind))
	}
	for _, d := range declarators {
		if t.Kind(d) != KindVariableDeclarator {
			panic(fmt.Sprintf("ast: %s is not a variable declarator", t.Kind(d)))
		}
	}
	return t.synthetic(Node{Kind: k, Type: typ, Named: true, DeclKind: kind}, declarators, make([]string, len(declarators)))
}

// ArrowFunction creates (params...) => body with an expression body.
func (t *Tree) ArrowFunction(params []NodeID, body NodeID) NodeID {
	list := t.synthetic(Node{Kind: KindFormalParameters, Type: "formal_parameters", Named: true}, params, make([]string, len(params)))
	return t.synthetic(Node{Kind: KindArrowFunction, Type: "arrow_function", Named: true},
		[]NodeID{list, body}, []string{"parameters", "body"})
}

// AssignmentExpression creates left op right. "=" yields a plain assignment,
// any other operator a compound one.
func (t *Tree) AssignmentExpression(op string, left, right NodeID) NodeID {
	k, typ := KindAssignmentExpression, "assignment_expression"
	if op != "=" {
		k, typ = KindAugmentedAssignmentExpression, "augmented_assignment_expression"
	}
	return t.synthetic(Node{Kind: k, Type: typ, Named: true, Operator: op},
		[]NodeID{left, right}, []string{"left", "right"})
}

// ImportStatement creates import { name as local } from "module";
func (t *Tree) ImportStatement(name, local, module string) NodeID {
	spec := []NodeID{t.Identifier(name)}
	specFields := []string{"name"}
	if local != name {
		spec = append(spec, t.Identifier(local))
		specFields = append(specFields, "alias")
	}
	specifier := t.synthetic(Node{Kind: KindImportSpecifier, Type: "import_specifier", Named: true}, spec, specFields)
	named := t.synthetic(Node{Kind: KindNamedImports, Type: "named_imports", Named: true}, []NodeID{specifier}, []string{""})
	clause := t.synthetic(Node{Kind: KindImportClause, Type: "import_clause", Named: true}, []NodeID{named}, []string{""})
	return t.synthetic(Node{Kind: KindImportStatement, Type: "import_statement", Named: true, Trailing: ";"},
		[]NodeID{clause, t.StringLiteral(module)}, []string{"", "source"})
}

// Replace puts repl in old's slot. repl inherits old's span so the text
// around it is preserved; old is detached.
func (t *Tree) Replace(old, repl NodeID) {
	parent := t.nodes[old].Parent
	if parent == NoNode {
		panic("ast: cannot replace a detached node")
	}
	p := &t.nodes[parent]
	for i, c := range p.Children {
		if c == old {
			p.Children[i] = repl
			break
		}
	}
	r := &t.nodes[repl]
	r.Parent = parent
	r.Start, r.End = t.nodes[old].Start, t.nodes[old].End
	t.nodes[old].Parent = NoNode
	t.markDirty(parent)
}

// Comments returns the comments in the subtree of id in source order,
// without descending into any of skip.
func (t *Tree) Comments(id NodeID, skip ...NodeID) []NodeID {
	var out []NodeID
	t.Walk(id, func(c NodeID) bool {
		for _, s := range skip {
			if c == s {
				return false
			}
		}
		if t.nodes[c].Kind == KindComment {
			out = append(out, c)
		}
		return true
	})
	return out
}

// CarryComments keeps the comments of old that replacing it with repl would
// drop. moved lists the subtrees of old reused inside repl, in source order;
// copied lists subtrees whose text repl already reproduces. A comment ahead of
// a moved node prints before it, a block comment after the last one prints
// after it, and the rest follow repl. Line comments keep their line break.
func (t *Tree) CarryComments(old, repl NodeID, moved []NodeID, copied ...NodeID) {
	var kept []NodeID
	for _, m := range moved {
		if m != NoNode {
			kept = append(kept, m)
		}
	}
	skip := append(append([]NodeID(nil), kept...), copied...)
	for _, c := range t.Comments(old, skip...) {
		text := string(t.Source[t.nodes[c].Start:t.nodes[c].End])
		line := strings.HasPrefix(text, "//")

		before := NoNode
		for _, m := range kept {
			if t.nodes[c].End <= t.nodes[m].Start {
				before = m
				break
			}
		}
		switch {
		case before != NoNode && line:
			t.nodes[before].Leading += text + "\n"
		case before != NoNode:
			t.nodes[before].Leading += text + " "
		case !line && len(kept) > 0:
			t.nodes[kept[len(kept)-1]].Trailing += " " + text
		default:
			t.nodes[repl].Trailing += " " + text
		}
	}
}

// InsertChild links child into parent at index as a zero-width insertion at
// byte offset at.
func (t *Tree) InsertChild(parent NodeID, index int, child NodeID, at int) {
	p := &t.nodes[parent]
	if index < 0 || index > len(p.Children) {
		panic(fmt.Sprintf("ast: insert index %d out of range", index))
	}
	p.Children = append(p.Children, NoNode)
	copy(p.Children[index+1:], p.Children[index:])
	p.Children[index] = child
	p.Fields = append(p.Fields, "")
	copy(p.Fields[index+1:], p.Fields[index:])
	p.Fields[index] = ""

	c := &t.nodes[child]
	c.Parent = parent
	c.Start, c.End = at, at
	t.markDirty(parent)
}
