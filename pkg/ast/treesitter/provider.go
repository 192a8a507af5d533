package treesitter

import (
	"context"

	"github.com/panbanda/reactify/pkg/ast"
	"github.com/panbanda/reactify/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Provider implements ast.Provider using tree-sitter.
type Provider struct {
	parser *parser.Parser
}

// New creates a new tree-sitter based provider.
func New() *Provider {
	return &Provider{
		parser: parser.New(),
	}
}

// WithParser creates a provider around an existing parser, typically one
// owned by a worker. Closing the provider closes the parser.
func WithParser(p *parser.Parser) *Provider {
	return &Provider{parser: p}
}

// Parse parses source and converts it into an ast.Tree.
func (p *Provider) Parse(ctx context.Context, source []byte, lang string, path string) (*ast.Tree, error) {
	result, err := p.parser.Parse(ctx, source, parser.ParseLanguage(lang), path)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return Convert(result), nil
}

// ParseFile reads a file and converts it into an ast.Tree.
func (p *Provider) ParseFile(ctx context.Context, path string) (*ast.Tree, error) {
	result, err := p.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return Convert(result), nil
}

// Close releases parser resources.
func (p *Provider) Close() {
	p.parser.Close()
}

// Convert copies a tree-sitter parse into an arena. The tree-sitter tree may
// be closed afterwards.
func Convert(result *parser.ParseResult) *ast.Tree {
	t := ast.NewTree(result.Source, result.Path)
	t.Language = string(result.Language)

	root := result.Tree.RootNode()
	t.HasErrors = root.HasError()

	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()
	t.Root = convert(t, cursor)
	return t
}

// convert adds the cursor's current node and its subtree, leaving the cursor
// where it started.
func convert(t *ast.Tree, c *sitter.TreeCursor) ast.NodeID {
	n := c.CurrentNode()
	typ := n.Type()
	kind := ast.KindOther
	// Keyword tokens such as "function" or "class" share names with node types.
	if n.IsNamed() {
		kind = ast.KindOf(typ)
	}
	id := t.Add(ast.Node{
		Kind:   kind,
		Type:   typ,
		Parent: ast.NoNode,
		Start:  int(n.StartByte()),
		End:    int(n.EndByte()),
		Named:  n.IsNamed(),
	})

	if c.GoToFirstChild() {
		for {
			field := c.CurrentFieldName()
			child := convert(t, c)
			t.AppendChild(id, child, field)
			if !c.GoToNextSibling() {
				break
			}
		}
		c.GoToParent()
	}
	return id
}
