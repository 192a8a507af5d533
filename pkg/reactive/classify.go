package reactive

import (
	"regexp"

	"github.com/panbanda/reactify/pkg/ast"
)

// hookName matches "use" followed by an uppercase Latin letter or digit, so
// that "user" and "used" are not hooks.
var hookName = regexp.MustCompile(`^use[A-Z0-9].*$`)

// IsHookName reports whether s follows the hook naming convention.
func IsHookName(s string) bool {
	return hookName.MatchString(s)
}

// IsComponentName reports whether s does not start with a lowercase Latin
// letter.
func IsComponentName(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c < 'a' || c > 'z'
}

// IsHook reports whether name is a hook name identifier, or a non-computed
// member expression ns.useFoo whose object is exactly the namespace.
func IsHook(t *ast.Tree, name ast.NodeID, namespace string) bool {
	switch t.Kind(name) {
	case ast.KindIdentifier, ast.KindPropertyIdentifier, ast.KindShorthandPropertyIdentifierPattern:
		return IsHookName(t.Name(name))

	case ast.KindMemberExpression:
		if t.HasChildType(name, "optional_chain") || t.HasChildType(name, "?.") {
			return false
		}
		if !IsHook(t, t.Field(name, "property"), namespace) {
			return false
		}
		obj := t.Field(name, "object")
		return t.Is(obj, ast.KindIdentifier) && t.Name(obj) == namespace
	}
	return false
}

// IsComponent reports whether name is an identifier with a component name.
func IsComponent(t *ast.Tree, name ast.NodeID) bool {
	if !t.Kind(name).IsIdentifierLike() {
		return false
	}
	return IsComponentName(t.Name(name))
}

// IsComponentOrHook reports whether fn's static name makes it a component or
// a hook. Both checks always run.
func IsComponentOrHook(t *ast.Tree, fn ast.NodeID, namespace string) bool {
	name, ok := ResolveName(t, fn)
	if !ok {
		return false
	}
	component := IsComponent(t, name)
	hook := IsHook(t, name, namespace)
	return component || hook
}
