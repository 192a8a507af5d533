package reactive

import (
	"sort"

	"github.com/panbanda/reactify/pkg/ast"
)

// Role classifies a function by its static name.
type Role string

const (
	RoleComponent Role = "component"
	RoleHook      Role = "hook"
	RoleNone      Role = "none"
)

// Location is a position in a source file.
type Location struct {
	File      string `json:"file" toon:"file"`
	StartLine int    `json:"start_line" toon:"start_line"`
	EndLine   int    `json:"end_line" toon:"end_line"`
	StartCol  int    `json:"start_col" toon:"start_col"`
}

// Function describes one function the rewriter visits.
type Function struct {
	Name     string   `json:"name" toon:"name"`
	Role     Role     `json:"role" toon:"role"`
	Location Location `json:"location" toon:"location"`
	// ExpressionBody is set for arrow functions without a block body.
	ExpressionBody bool `json:"expression_body,omitempty" toon:"expression_body,omitempty"`
	// State lists the top-level let bindings that would become state.
	State []string `json:"state,omitempty" toon:"state,omitempty"`
}

// Inspect lists every function the rewriter would visit, in source order,
// without changing the tree. Anonymous functions are reported with an empty
// name.
func Inspect(t *ast.Tree, opts ...Option) []Function {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var fns []Function
	t.Walk(t.Root, func(id ast.NodeID) bool {
		switch t.Kind(id) {
		case ast.KindFunctionDeclaration, ast.KindGeneratorFunctionDeclaration,
			ast.KindFunctionExpression, ast.KindGeneratorFunction, ast.KindArrowFunction:
			fns = append(fns, inspectFunction(t, id, o))
		}
		return true
	})
	return fns
}

func inspectFunction(t *ast.Tree, fn ast.NodeID, o Options) Function {
	n := t.Node(fn)
	startLine, startCol := t.Position(n.Start)
	endLine, _ := t.Position(n.End)
	info := Function{
		Role: RoleNone,
		Location: Location{
			File:      t.Path,
			StartLine: startLine,
			EndLine:   endLine,
			StartCol:  startCol,
		},
	}

	name, ok := ResolveName(t, fn)
	if ok {
		info.Name = t.Text(name)
		switch {
		case IsHook(t, name, o.Namespace):
			info.Role = RoleHook
		case IsComponent(t, name):
			info.Role = RoleComponent
		}
	}

	body := t.Field(fn, "body")
	if !t.Is(body, ast.KindStatementBlock) {
		info.ExpressionBody = true
		return info
	}
	if info.Role == RoleNone {
		return info
	}
	for state := range collectDeclarations(t, body) {
		info.State = append(info.State, state)
	}
	sort.Strings(info.State)
	return info
}

// Qualifies reports whether the rewriter would process the function's body.
func (f Function) Qualifies() bool {
	return f.Role != RoleNone && !f.ExpressionBody
}
