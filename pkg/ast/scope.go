package ast

import (
	"strconv"
	"strings"
)

// IsScope reports whether id introduces a binding scope. A function body
// block belongs to its function's scope rather than forming its own.
func (t *Tree) IsScope(id NodeID) bool {
	switch t.Kind(id) {
	case KindProgram, KindForStatement, KindForInStatement, KindCatchClause, KindSwitchBody:
		return true
	case KindStatementBlock:
		return !t.Kind(t.Parent(id)).IsFunction()
	}
	return t.Kind(id).IsFunction()
}

// HasOwnBinding reports whether scope itself declares name.
func (t *Tree) HasOwnBinding(scope NodeID, name string) bool {
	for _, b := range t.OwnBindings(scope) {
		if t.Name(b) == name {
			return true
		}
	}
	return false
}

// OwnBindings returns the binding identifiers declared directly by scope.
func (t *Tree) OwnBindings(scope NodeID) []NodeID {
	var out []NodeID
	k := t.Kind(scope)
	switch {
	case k.IsFunction():
		if k == KindFunctionExpression || k == KindGeneratorFunction {
			// A named function expression binds its own name inside itself.
			if name := t.Field(scope, "name"); name != NoNode {
				out = append(out, name)
			}
		}
		if p := t.Field(scope, "parameter"); p != NoNode {
			out = append(out, t.BindingNames(p)...)
		}
		for _, p := range t.NamedChildren(t.Field(scope, "parameters")) {
			out = append(out, t.BindingNames(p)...)
		}
		if body := t.Field(scope, "body"); t.Is(body, KindStatementBlock) {
			out = append(out, t.lexicalBindings(body)...)
			out = append(out, t.varBindings(body)...)
		}

	case k == KindProgram:
		out = append(out, t.lexicalBindings(scope)...)
		out = append(out, t.varBindings(scope)...)
		for _, stmt := range t.NamedChildren(scope) {
			if t.Is(stmt, KindImportStatement) {
				out = append(out, t.importBindings(stmt)...)
			}
		}

	case k == KindStatementBlock || k == KindSwitchBody:
		out = append(out, t.lexicalBindings(scope)...)

	case k == KindForStatement:
		if init := t.Field(scope, "initializer"); t.Is(init, KindLexicalDeclaration) {
			out = append(out, t.declaredNames(init)...)
		}

	case k == KindForInStatement:
		switch t.DeclKind(scope) {
		case "let", "const":
			out = append(out, t.BindingNames(t.Field(scope, "left"))...)
		}

	case k == KindCatchClause:
		out = append(out, t.BindingNames(t.Field(scope, "parameter"))...)
	}
	return out
}

// lexicalBindings collects let/const/class/function declarations that are
// direct statements of a block.
func (t *Tree) lexicalBindings(block NodeID) []NodeID {
	var out []NodeID
	for _, stmt := range t.NamedChildren(block) {
		switch t.Kind(stmt) {
		case KindLexicalDeclaration:
			out = append(out, t.declaredNames(stmt)...)
		case KindFunctionDeclaration, KindGeneratorFunctionDeclaration, KindClassDeclaration:
			if name := t.Field(stmt, "name"); name != NoNode {
				out = append(out, name)
			}
		case KindOther:
			// switch cases hold their statements one level down
			if t.Node(stmt).Type == "switch_case" || t.Node(stmt).Type == "switch_default" {
				out = append(out, t.lexicalBindings(stmt)...)
			}
		}
	}
	return out
}

// varBindings collects var declarations anywhere under body without crossing
// into nested functions.
func (t *Tree) varBindings(body NodeID) []NodeID {
	var out []NodeID
	for _, c := range t.Children(body) {
		t.Walk(c, func(id NodeID) bool {
			switch k := t.Kind(id); {
			case k.IsFunction(), k == KindClass, k == KindClassDeclaration:
				return false
			case k == KindVariableDeclaration:
				out = append(out, t.declaredNames(id)...)
			case k == KindForInStatement && t.DeclKind(id) == "var":
				out = append(out, t.BindingNames(t.Field(id, "left"))...)
			}
			return true
		})
	}
	return out
}

func (t *Tree) declaredNames(decl NodeID) []NodeID {
	var out []NodeID
	for _, d := range t.ChildrenOfKind(decl, KindVariableDeclarator) {
		out = append(out, t.BindingNames(t.Field(d, "name"))...)
	}
	return out
}

func (t *Tree) importBindings(stmt NodeID) []NodeID {
	var out []NodeID
	t.Walk(stmt, func(id NodeID) bool {
		switch t.Kind(id) {
		case KindImportSpecifier:
			if alias := t.Field(id, "alias"); alias != NoNode {
				out = append(out, alias)
			} else if name := t.Field(id, "name"); name != NoNode {
				out = append(out, name)
			}
			return false
		case KindNamespaceImport:
			out = append(out, t.ChildrenOfKind(id, KindIdentifier)...)
			return false
		case KindImportClause:
			out = append(out, t.ChildrenOfKind(id, KindIdentifier)...)
		case KindString:
			return false
		}
		return true
	})
	return out
}

// BindingNames returns the identifiers bound by a binding pattern.
func (t *Tree) BindingNames(pattern NodeID) []NodeID {
	switch t.Kind(pattern) {
	case KindIdentifier, KindShorthandPropertyIdentifierPattern:
		return []NodeID{pattern}
	case KindAssignmentPattern, KindObjectAssignmentPattern:
		return t.BindingNames(t.Field(pattern, "left"))
	case KindPairPattern:
		return t.BindingNames(t.Field(pattern, "value"))
	case KindRequiredParameter, KindOptionalParameter:
		return t.BindingNames(t.Field(pattern, "pattern"))
	case KindRestPattern, KindObjectPattern, KindArrayPattern:
		var out []NodeID
		for _, c := range t.NamedChildren(pattern) {
			out = append(out, t.BindingNames(c)...)
		}
		return out
	}
	return nil
}

// ResolveBindingScope returns the nearest scope enclosing ref that declares
// ref's name, or NoNode when the name is free in the file.
func (t *Tree) ResolveBindingScope(ref NodeID) NodeID {
	name := t.Name(ref)
	for s := t.Parent(ref); s != NoNode; s = t.Parent(s) {
		if t.IsScope(s) && t.HasOwnBinding(s, name) {
			return s
		}
	}
	return NoNode
}

// GenerateUID returns a fresh name "_hint", "_hint2", ... that does not occur
// anywhere in scope's subtree and was not handed out for scope before.
func (t *Tree) GenerateUID(scope NodeID, hint string) string {
	base := strings.TrimLeft(hint, "_")
	base = strings.TrimRight(base, "0123456789")
	if base == "" {
		base = "temp"
	}

	used := t.usedNames(scope)
	for i := 1; ; i++ {
		name := "_" + base
		if i > 1 {
			name += strconv.Itoa(i)
		}
		if _, taken := used[name]; taken {
			continue
		}
		if _, taken := t.created[name]; taken {
			continue
		}
		used[name] = struct{}{}
		return name
	}
}

// usedNames caches every identifier spelling in scope's subtree.
func (t *Tree) usedNames(scope NodeID) map[string]struct{} {
	if used, ok := t.used[scope]; ok {
		return used
	}
	used := make(map[string]struct{})
	t.Walk(scope, func(id NodeID) bool {
		switch t.Kind(id) {
		case KindIdentifier, KindShorthandPropertyIdentifierPattern:
			used[t.Name(id)] = struct{}{}
		default:
			if t.nodes[id].Type == "shorthand_property_identifier" {
				used[t.Name(id)] = struct{}{}
			}
		}
		return true
	})
	t.used[scope] = used
	return used
}
