package ast

// AddNamed makes sure the named export of module is imported into the file and
// returns a fresh identifier node referring to it. An existing value import of
// the export is reused; otherwise a new import statement goes after the last
// import, or before the first statement when the file has none.
func (t *Tree) AddNamed(export, module string) NodeID {
	key := module + "\x00" + export
	if local, ok := t.imports[key]; ok {
		return t.Identifier(local)
	}

	local, ok := t.findImport(export, module)
	if !ok {
		local = export
		if t.nameInUse(export) {
			local = t.GenerateUID(t.Root, export)
		}
		t.insertImport(t.ImportStatement(export, local, module))
	}
	t.imports[key] = local
	return t.Identifier(local)
}

// findImport looks for import { export [as local] } from "module".
func (t *Tree) findImport(export, module string) (string, bool) {
	for _, stmt := range t.NamedChildren(t.Root) {
		if !t.Is(stmt, KindImportStatement) || t.HasChildType(stmt, "type") {
			continue
		}
		if t.StringValue(t.Field(stmt, "source")) != module {
			continue
		}
		local := ""
		t.Walk(stmt, func(id NodeID) bool {
			if local != "" || !t.Is(id, KindImportSpecifier) {
				return local == ""
			}
			if t.HasChildType(id, "type") || t.Name(t.Field(id, "name")) != export {
				return false
			}
			local = export
			if alias := t.Field(id, "alias"); alias != NoNode {
				local = t.Name(alias)
			}
			return false
		})
		if local != "" {
			return local, true
		}
	}
	return "", false
}

// nameInUse reports whether name is spelled anywhere in the file or was
// created by an earlier rewrite.
func (t *Tree) nameInUse(name string) bool {
	if _, ok := t.created[name]; ok {
		return true
	}
	_, ok := t.usedNames(t.Root)[name]
	return ok
}

func (t *Tree) insertImport(stmt NodeID) {
	children := t.Children(t.Root)
	last := -1
	first := -1
	prologue := true
	for i, c := range children {
		n := &t.nodes[c]
		if !n.Named || n.Kind == KindComment || n.Type == "hash_bang_line" {
			continue
		}
		// Directives such as "use client" must stay ahead of the import.
		if prologue && t.isDirective(c) {
			last = i
			continue
		}
		prologue = false
		if first < 0 {
			first = i
		}
		if n.Kind == KindImportStatement {
			last = i
		}
	}

	s := &t.nodes[stmt]
	switch {
	case last >= 0:
		s.Leading = "\n"
		t.InsertChild(t.Root, last+1, stmt, t.nodes[children[last]].End)
	case first >= 0:
		s.Trailing += "\n"
		t.InsertChild(t.Root, first, stmt, t.nodes[children[first]].Start)
	default:
		s.Trailing += "\n"
		t.InsertChild(t.Root, len(children), stmt, t.nodes[t.Root].End)
	}
}

// isDirective reports whether stmt is a prologue directive: an expression
// statement consisting of a bare string literal.
func (t *Tree) isDirective(stmt NodeID) bool {
	if !t.Is(stmt, KindExpressionStatement) {
		return false
	}
	kids := t.NamedChildren(stmt)
	return len(kids) == 1 && t.nodes[kids[0]].Type == "string"
}
