package ast

import (
	"context"
	"errors"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Provider turns source text into a Tree.
type Provider interface {
	// Parse parses source of the given language name.
	Parse(ctx context.Context, source []byte, lang string, path string) (*Tree, error)

	// ParseFile reads and parses a file, detecting its language from the path.
	ParseFile(ctx context.Context, path string) (*Tree, error)

	// Close releases provider resources.
	Close()
}
