// Package ast provides the syntax tree the rewriter operates on: an arena of
// nodes addressed by NodeID with parent back-references, a closed Kind
// enumeration, node constructors, in-place replacement, a source-preserving
// printer, a pre-order traversal engine with per-kind visitors, scope queries
// and import injection.
//
// Trees are produced by a Provider. The tree-sitter implementation lives in
// the treesitter subpackage.
//
// Usage:
//
//	provider := treesitter.New()
//	defer provider.Close()
//
//	tree, err := provider.ParseFile(ctx, "App.jsx")
//	if err != nil {
//	    return err
//	}
//
//	ast.Run(tree, plugin)
//	os.Stdout.Write(tree.PrintFile())
package ast
