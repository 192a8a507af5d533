package reactive

import (
	"strings"

	"github.com/panbanda/reactify/pkg/ast"
)

// declarations maps a state name to the top-level let statement declaring it.
type declarations map[string]ast.NodeID

// collectDeclarations records every direct statement of body of the form
// `let name = init`. Destructuring, multiple declarators and anything nested
// deeper than the body are ignored.
func collectDeclarations(t *ast.Tree, body ast.NodeID) declarations {
	decls := make(declarations)
	for _, stmt := range t.NamedChildren(body) {
		if !t.Is(stmt, ast.KindLexicalDeclaration) || t.DeclKind(stmt) != "let" {
			continue
		}
		name, ok := singleDeclaratorName(t, stmt)
		if !ok {
			continue
		}
		decls[t.Name(name)] = stmt
	}
	return decls
}

// singleDeclaratorName returns the identifier target of a declaration with
// exactly one declarator.
func singleDeclaratorName(t *ast.Tree, decl ast.NodeID) (ast.NodeID, bool) {
	ds := t.ChildrenOfKind(decl, ast.KindVariableDeclarator)
	if len(ds) != 1 {
		return ast.NoNode, false
	}
	name := t.Field(ds[0], "name")
	return name, t.Is(name, ast.KindIdentifier)
}

// transformDeclaration replaces each recorded declaration with
//
//	const [name, setname] = useState(init)
//
// The initializer is moved, not copied.
func (r *Rewriter) transformDeclaration(decls declarations, n *counts) ast.VisitFunc {
	return func(p *ast.Path) {
		t := p.Tree
		decl := p.Node
		if t.DeclKind(decl) != "let" {
			return
		}
		name, ok := singleDeclaratorName(t, decl)
		if !ok {
			return
		}
		if recorded, found := decls[t.Name(name)]; !found || recorded != decl {
			return
		}
		declarator := t.ChildrenOfKind(decl, ast.KindVariableDeclarator)[0]

		var args []ast.NodeID
		init := t.Field(declarator, "value")
		if init != ast.NoNode {
			args = append(args, init)
		}
		call := t.CallExpression(t.AddNamed(r.opts.Export, r.opts.Module), args...)
		typ := t.Field(declarator, "type")
		if typ != ast.NoNode {
			// let count: number = 0  ->  useState<number>(0)
			annotation := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.Text(typ)), ":"))
			t.SetTypeArguments(call, "<"+annotation+">")
		}

		pattern := t.ArrayPattern(name, t.Identifier(r.opts.SetterName(t.Name(name))))
		repl := t.VariableDeclaration("const", t.VariableDeclarator(pattern, call))
		if t.HasChildType(decl, ";") {
			t.Node(repl).Trailing = ";"
		}
		t.CarryComments(decl, repl, []ast.NodeID{init}, typ)
		p.Replace(repl)
		n.declarations++
	}
}

// transformAssignment replaces `name op= rhs` with
//
//	setname(_unique => _unique op= rhs)
//
// when name refers to a recorded declaration of fn. An inner binding that
// shadows name stops the rewrite.
func (r *Rewriter) transformAssignment(fn ast.NodeID, decls declarations, n *counts) ast.VisitFunc {
	return func(p *ast.Path) {
		t := p.Tree
		left := p.Get("left")
		for t.Is(left, ast.KindParenthesizedExpression) {
			inner := t.NamedChildren(left)
			if len(inner) != 1 {
				return
			}
			left = inner[0]
		}
		if !t.Is(left, ast.KindIdentifier) {
			return
		}
		name := t.Name(left)
		if _, ok := decls[name]; !ok || !t.HasOwnBinding(fn, name) {
			return
		}
		if t.ResolveBindingScope(left) != fn {
			return
		}

		op := t.Operator(p.Node)
		right := p.Get("right")
		if op == "" || right == ast.NoNode {
			return
		}

		// right moves into the updater, so it is evaluated when the setter
		// runs the updater rather than at the assignment site.
		uid := t.GenerateUID(fn, r.opts.UIDHint)
		updater := t.ArrowFunction(
			[]ast.NodeID{t.Identifier(uid)},
			t.AssignmentExpression(op, t.Identifier(uid), right),
		)
		call := t.CallExpression(t.Identifier(r.opts.SetterName(name)), updater)
		t.CarryComments(p.Node, call, []ast.NodeID{right})
		p.Replace(call)
		n.assignments++
	}
}
