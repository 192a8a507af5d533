package ast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/reactify/pkg/ast"
	"github.com/panbanda/reactify/pkg/ast/treesitter"
)

func parse(t *testing.T, source string) *ast.Tree {
	t.Helper()
	p := treesitter.New()
	defer p.Close()

	tree, err := p.Parse(context.Background(), []byte(source), "jsx", "test.jsx")
	require.NoError(t, err)
	require.False(t, tree.HasErrors)
	return tree
}

// find returns the first node of kind k whose text is text.
func find(tree *ast.Tree, k ast.Kind, text string) ast.NodeID {
	found := ast.NoNode
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if found != ast.NoNode {
			return false
		}
		if tree.Kind(id) == k && (text == "" || tree.Text(id) == text) {
			found = id
			return false
		}
		return true
	})
	return found
}

func findAll(tree *ast.Tree, k ast.Kind) []ast.NodeID {
	var out []ast.NodeID
	tree.Walk(tree.Root, func(id ast.NodeID) bool {
		if tree.Kind(id) == k {
			out = append(out, id)
		}
		return true
	})
	return out
}

func TestPrintUnchanged(t *testing.T) {
	sources := []string{
		"",
		"// only a comment\n",
		"const a = 1;\n\n\nfunction f() { return a }\n",
		"#!/usr/bin/env node\nimport x from 'x'\nexport default () => <div>{x}</div>\n",
	}
	for _, src := range sources {
		tree := parse(t, src)
		assert.Equal(t, src, string(tree.PrintFile()))
		assert.False(t, tree.Changed())
	}
}

func TestReplacePreservesSurroundings(t *testing.T) {
	src := "foo(a,   b) // keep\n"
	tree := parse(t, src)

	b := find(tree, ast.KindIdentifier, "b")
	require.NotEqual(t, ast.NoNode, b)
	tree.Replace(b, tree.Identifier("c"))

	assert.True(t, tree.Changed())
	assert.Equal(t, "foo(a,   c) // keep\n", string(tree.PrintFile()))
}

func TestConstructorsPrint(t *testing.T) {
	tree := parse(t, "x;")
	x := find(tree, ast.KindIdentifier, "x")

	call := tree.CallExpression(tree.Identifier("setx"),
		tree.ArrowFunction([]ast.NodeID{tree.Identifier("_v")},
			tree.AssignmentExpression("+=", tree.Identifier("_v"), tree.StringLiteral("a\"b"))))
	tree.Replace(x, call)
	assert.Equal(t, `setx(_v => _v += "a\"b");`, string(tree.PrintFile()))

	two := tree.ArrowFunction([]ast.NodeID{tree.Identifier("a"), tree.Identifier("b")}, tree.Identifier("a"))
	assert.Equal(t, "(a, b) => a", tree.Print(two))

	decl := tree.VariableDeclaration("const",
		tree.VariableDeclarator(tree.ArrayPattern(tree.Identifier("v"), tree.Identifier("setv")), ast.NoNode))
	assert.Equal(t, "const [v, setv]", tree.Print(decl))
}

func TestConstructorsPanic(t *testing.T) {
	tree := parse(t, "x;")
	assert.Panics(t, func() { tree.Identifier("") })
	assert.Panics(t, func() { tree.VariableDeclaration("let") })
	assert.Panics(t, func() {
		tree.VariableDeclaration("mut", tree.VariableDeclarator(tree.Identifier("a"), ast.NoNode))
	})
	assert.Panics(t, func() { tree.VariableDeclaration("let", tree.Identifier("a")) })
	assert.Panics(t, func() { tree.CallExpression(ast.NoNode) })
	assert.Panics(t, func() { tree.Replace(tree.Root, tree.Identifier("a")) })
}

func TestResolveBindingScope(t *testing.T) {
	src := `let top = 1;
function outer(param) {
  let local = 2;
  {
    let inner = 3;
    inner; local; param; top; free;
  }
  for (let i = 0; ; ) { i; }
  try {} catch (err) { err; }
  var hoisted;
  if (x) { hoisted; }
}
`
	tree := parse(t, src)
	outer := find(tree, ast.KindFunctionDeclaration, "")
	require.NotEqual(t, ast.NoNode, outer)

	refs := map[string]ast.Kind{
		"inner":   ast.KindStatementBlock,
		"local":   ast.KindFunctionDeclaration,
		"param":   ast.KindFunctionDeclaration,
		"top":     ast.KindProgram,
		"i":       ast.KindForStatement,
		"err":     ast.KindCatchClause,
		"hoisted": ast.KindFunctionDeclaration,
	}

	for _, stmt := range findAll(tree, ast.KindExpressionStatement) {
		for _, ref := range tree.NamedChildren(stmt) {
			if !tree.Is(ref, ast.KindIdentifier) {
				continue
			}
			name := tree.Name(ref)
			want, ok := refs[name]
			scope := tree.ResolveBindingScope(ref)
			if !ok {
				assert.Equal(t, ast.NoNode, scope, name)
				continue
			}
			require.NotEqual(t, ast.NoNode, scope, name)
			assert.Equal(t, want, tree.Kind(scope), name)
		}
	}

	assert.True(t, tree.HasOwnBinding(outer, "param"))
	assert.True(t, tree.HasOwnBinding(outer, "local"))
	assert.True(t, tree.HasOwnBinding(outer, "hoisted"))
	assert.False(t, tree.HasOwnBinding(outer, "inner"))
	assert.False(t, tree.HasOwnBinding(outer, "i"))
}

func TestBindingNames(t *testing.T) {
	tree := parse(t, "const { a, b: [c, ...d], e = 1, ...f } = obj;")
	decl := find(tree, ast.KindVariableDeclarator, "")
	var names []string
	for _, id := range tree.BindingNames(tree.Field(decl, "name")) {
		names = append(names, tree.Name(id))
	}
	assert.Equal(t, []string{"a", "c", "d", "e", "f"}, names)
}

func TestGenerateUID(t *testing.T) {
	tree := parse(t, "function f() { const _tmp = 1; const _tmp2 = 2; }")
	fn := find(tree, ast.KindFunctionDeclaration, "")

	assert.Equal(t, "_tmp3", tree.GenerateUID(fn, "tmp"))
	assert.Equal(t, "_tmp4", tree.GenerateUID(fn, "_tmp"))
	assert.Equal(t, "_other", tree.GenerateUID(fn, "other7"))
	assert.Equal(t, "_temp", tree.GenerateUID(fn, ""))
}

func TestAddNamed(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		local string
		want  string
	}{
		{
			name:  "no imports",
			src:   "run();\n",
			local: "useState",
			want:  "import { useState } from \"react\";\nrun();\n",
		},
		{
			name:  "after last import",
			src:   "import a from 'a';\nimport b from 'b';\n\nrun();\n",
			local: "useState",
			want:  "import a from 'a';\nimport b from 'b';\nimport { useState } from \"react\";\n\nrun();\n",
		},
		{
			name:  "existing import",
			src:   "import { useState } from 'react';\nrun();\n",
			local: "useState",
			want:  "import { useState } from 'react';\nrun();\n",
		},
		{
			name:  "existing alias",
			src:   "import React, { useEffect, useState as useS } from 'react';\n",
			local: "useS",
			want:  "import React, { useEffect, useState as useS } from 'react';\n",
		},
		{
			name:  "other module",
			src:   "import { useState } from 'preact/hooks';\n",
			local: "_useState",
			want:  "import { useState } from 'preact/hooks';\nimport { useState as _useState } from \"react\";\n",
		},
		{
			name:  "name taken",
			src:   "const useState = 1;\n",
			local: "_useState",
			want:  "import { useState as _useState } from \"react\";\nconst useState = 1;\n",
		},
		{
			name:  "after directive",
			src:   "\"use client\";\n\nexport default function App() {}\n",
			local: "useState",
			want:  "\"use client\";\nimport { useState } from \"react\";\n\nexport default function App() {}\n",
		},
		{
			name:  "after directives before imports",
			src:   "'use strict';\n'use client';\nimport a from 'a';\nrun();\n",
			local: "useState",
			want:  "'use strict';\n'use client';\nimport a from 'a';\nimport { useState } from \"react\";\nrun();\n",
		},
		{
			name:  "directive only",
			src:   "'use strict';\n",
			local: "useState",
			want:  "'use strict';\nimport { useState } from \"react\";\n",
		},
		{
			name:  "string after statement is not a directive",
			src:   "run();\n'use strict';\n",
			local: "useState",
			want:  "import { useState } from \"react\";\nrun();\n'use strict';\n",
		},
		{
			name:  "empty file",
			src:   "",
			local: "useState",
			want:  "import { useState } from \"react\";\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			id := tree.AddNamed("useState", "react")
			assert.Equal(t, tt.local, tree.Name(id))

			// A second request reuses the first.
			again := tree.AddNamed("useState", "react")
			assert.Equal(t, tt.local, tree.Name(again))
			assert.Equal(t, tt.want, string(tree.PrintFile()))
		})
	}
}

func TestTraverseDispatchesOnce(t *testing.T) {
	tree := parse(t, "a; b; c;")

	var seen []string
	ast.Traverse(tree, tree.Root, ast.Visitor{
		ast.KindIdentifier: func(p *ast.Path) {
			seen = append(seen, tree.Name(p.Node))
			if tree.Name(p.Node) == "b" {
				// Inserting before the cursor shifts the current sibling.
				tree.AddNamed("useState", "react")
			}
		},
	})
	assert.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestTraverseReplacement(t *testing.T) {
	tree := parse(t, "x = y;")

	var visited []ast.Kind
	ast.Traverse(tree, tree.Root, ast.Visitor{
		ast.KindAssignmentExpression: func(p *ast.Path) {
			p.Replace(tree.CallExpression(tree.Identifier("f"), p.Get("right")))
		},
		ast.KindCallExpression: func(p *ast.Path) {
			visited = append(visited, p.Kind())
		},
		ast.KindIdentifier: func(p *ast.Path) {
			visited = append(visited, p.Kind())
		},
	})

	// The replacement itself is not dispatched; its children are.
	assert.Equal(t, []ast.Kind{ast.KindIdentifier, ast.KindIdentifier}, visited)
	assert.Equal(t, "f(y);", string(tree.PrintFile()))
}

func TestCarryComments(t *testing.T) {
	tree := parse(t, "x = /* a */ y /* b */ + z;\nw = // c\n  v;\n")

	for _, assign := range findAll(tree, ast.KindAssignmentExpression) {
		right := tree.Field(assign, "right")
		call := tree.CallExpression(tree.Identifier("f"), right)
		tree.CarryComments(assign, call, []ast.NodeID{right})
		tree.Replace(assign, call)
	}
	assert.Equal(t, "f(/* a */ y /* b */ + z);\nf(// c\nv);\n", string(tree.PrintFile()))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ast.KindArrowFunction, ast.KindOf("arrow_function"))
	assert.Equal(t, ast.KindFunctionExpression, ast.KindOf("function"))
	assert.Equal(t, ast.KindOther, ast.KindOf("jsx_element"))
	assert.Equal(t, "lexical_declaration", ast.KindLexicalDeclaration.String())
	assert.True(t, ast.KindMethodDefinition.IsFunction())
	assert.False(t, ast.KindClass.IsFunction())
}
