package reactive

import "github.com/panbanda/reactify/pkg/ast"

// ResolveName returns the node that statically names fn, following the way
// the language names anonymous function definitions:
//
//	function useHook() {}            // own name
//	const useHook = () => {}         // declarator target
//	useHook = () => {}               // plain assignment target
//	({useHook: () => {}})            // non-computed key
//	const {useHook = () => {}} = {}  // default-value target
//
// Compound assignments, computed keys and class members leave fn unnamed.
func ResolveName(t *ast.Tree, fn ast.NodeID) (ast.NodeID, bool) {
	switch t.Kind(fn) {
	case ast.KindFunctionDeclaration, ast.KindGeneratorFunctionDeclaration:
		return named(t.Field(fn, "name"))

	case ast.KindFunctionExpression, ast.KindGeneratorFunction:
		if name := t.Field(fn, "name"); name != ast.NoNode {
			return name, true
		}
		return resolveFromParent(t, fn)

	case ast.KindArrowFunction:
		return resolveFromParent(t, fn)
	}
	return ast.NoNode, false
}

func resolveFromParent(t *ast.Tree, fn ast.NodeID) (ast.NodeID, bool) {
	child := fn
	parent := t.Parent(fn)
	for t.Is(parent, ast.KindParenthesizedExpression) {
		child, parent = parent, t.Parent(parent)
	}

	switch t.Kind(parent) {
	case ast.KindVariableDeclarator:
		if t.Field(parent, "value") == child {
			return named(t.Field(parent, "name"))
		}

	case ast.KindAssignmentExpression:
		if t.Field(parent, "right") == child && t.Operator(parent) == "=" {
			return named(t.Field(parent, "left"))
		}

	case ast.KindPair:
		key := t.Field(parent, "key")
		if t.Field(parent, "value") == child && !t.Is(key, ast.KindComputedPropertyName) {
			return named(key)
		}

	case ast.KindAssignmentPattern, ast.KindObjectAssignmentPattern:
		if t.Field(parent, "right") == child {
			return named(t.Field(parent, "left"))
		}

	case ast.KindRequiredParameter, ast.KindOptionalParameter:
		// TypeScript keeps parameter defaults on the parameter itself.
		if t.Field(parent, "value") == child {
			return named(t.Field(parent, "pattern"))
		}
	}
	return ast.NoNode, false
}

func named(id ast.NodeID) (ast.NodeID, bool) {
	return id, id != ast.NoNode
}
