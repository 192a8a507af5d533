// Package reactive rewrites mutable locals of components and hooks into
// state bindings.
//
// Inside a function whose static name is a component (not lowercase-initial)
// or a hook (useFoo, React.useFoo), every top-level
//
//	let count = 0
//
// becomes
//
//	const [count, setcount] = useState(0)
//
// and every assignment to it, such as count += 1, becomes
// setcount(_unique => _unique += 1). The state primitive is imported on
// demand.
package reactive

import (
	"github.com/panbanda/reactify/pkg/ast"
)

// Stats counts what a Rewriter did.
type Stats struct {
	Functions    int `json:"functions" toon:"functions"`
	Qualifying   int `json:"qualifying" toon:"qualifying"`
	Declarations int `json:"declarations" toon:"declarations"`
	Assignments  int `json:"assignments" toon:"assignments"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Functions += other.Functions
	s.Qualifying += other.Qualifying
	s.Declarations += other.Declarations
	s.Assignments += other.Assignments
}

// Rewrites returns the number of rewritten declarations and assignments.
func (s Stats) Rewrites() int {
	return s.Declarations + s.Assignments
}

// Rewriter holds the options and counters for one file. It is not safe for
// concurrent use.
type Rewriter struct {
	opts  Options
	stats Stats
}

type counts struct {
	declarations int
	assignments  int
}

// New creates a rewriter. No options are required.
func New(opts ...Option) *Rewriter {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Rewriter{opts: o}
}

// Plugin is shorthand for New(opts...).Plugin().
func Plugin(opts ...Option) *ast.Plugin {
	return New(opts...).Plugin()
}

// Plugin returns the traversal descriptor that drives the rewrite.
func (r *Rewriter) Plugin() *ast.Plugin {
	return &ast.Plugin{
		Name: "reactive",
		Visitor: ast.Visitor{
			ast.KindFunctionDeclaration:          r.collectDeclarations,
			ast.KindGeneratorFunctionDeclaration: r.collectDeclarations,
			ast.KindFunctionExpression:           r.collectDeclarations,
			ast.KindGeneratorFunction:            r.collectDeclarations,
			ast.KindArrowFunction:                r.collectDeclarations,
		},
	}
}

// Options returns the effective options.
func (r *Rewriter) Options() Options {
	return r.opts
}

// Stats returns the counters accumulated so far.
func (r *Rewriter) Stats() Stats {
	return r.stats
}

// collectDeclarations is the entry point for every function-like node. Both
// passes for fn finish before the traversal moves on.
func (r *Rewriter) collectDeclarations(p *ast.Path) {
	t := p.Tree
	fn := p.Node
	r.stats.Functions++

	if !IsComponentOrHook(t, fn, r.opts.Namespace) {
		return
	}
	r.stats.Qualifying++

	body := p.Get("body")
	if !t.Is(body, ast.KindStatementBlock) {
		return
	}
	decls := collectDeclarations(t, body)
	if len(decls) == 0 {
		return
	}

	var n counts
	ast.Traverse(t, body, ast.Visitor{
		ast.KindLexicalDeclaration: r.transformDeclaration(decls, &n),
	})
	assign := r.transformAssignment(fn, decls, &n)
	ast.Traverse(t, body, ast.Visitor{
		ast.KindAssignmentExpression:          assign,
		ast.KindAugmentedAssignmentExpression: assign,
	})

	r.stats.Declarations += n.declarations
	r.stats.Assignments += n.assignments

	name, _ := ResolveName(t, fn)
	r.opts.Logger.Debug("rewrote function",
		"path", t.Path,
		"function", t.Text(name),
		"declarations", n.declarations,
		"assignments", n.assignments,
	)
}
