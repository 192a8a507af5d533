// Package transform runs the reactive rewrite over source files and reports
// the result of each.
package transform

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/panbanda/reactify/pkg/ast"
	"github.com/panbanda/reactify/pkg/ast/treesitter"
	"github.com/panbanda/reactify/pkg/config"
	"github.com/panbanda/reactify/pkg/parser"
	"github.com/panbanda/reactify/pkg/reactive"
)

// ErrSyntax is returned for sources the parser had to recover from.
var ErrSyntax = ast.ErrSyntax

// SyntaxError locates the first syntax error in a file.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, ErrSyntax)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Result is the outcome of transforming one file.
type Result struct {
	Path     string          `json:"path" toon:"path"`
	Language parser.Language `json:"language" toon:"language"`
	Original []byte          `json:"-" toon:"-"`
	Code     []byte          `json:"-" toon:"-"`
	Changed  bool            `json:"changed" toon:"changed"`
	Stats    reactive.Stats  `json:"stats" toon:"stats"`
	Duration time.Duration   `json:"duration_ns" toon:"duration_ns"`
	// Cached is set when the result was served from the cache.
	Cached bool `json:"cached,omitempty" toon:"cached,omitempty"`
}

// Diff returns a unified diff from the original to the rewritten code, or ""
// when nothing changed.
func (r *Result) Diff() (string, error) {
	return r.DiffAs(r.Path)
}

// DiffAs is Diff with the file named path in the diff headers.
func (r *Result) DiffAs(path string) (string, error) {
	if !r.Changed {
		return "", nil
	}
	path = filepath.ToSlash(path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(r.Original)),
		B:        difflib.SplitLines(string(r.Code)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}

// WriteFile writes the rewritten code to path, creating parent directories.
func (r *Result) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, r.Code, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Transformer applies the rewrite with a fixed configuration. It holds no
// per-file state and is safe for concurrent use; parsers are not.
type Transformer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a transformer. A nil config means the defaults.
func New(cfg *config.Config, opts ...Option) *Transformer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	t := &Transformer{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Config returns the transformer's configuration.
func (t *Transformer) Config() *config.Config {
	return t.cfg
}

// ReactiveOptions translates the configuration into rewriter options.
func (t *Transformer) ReactiveOptions() []reactive.Option {
	return []reactive.Option{
		reactive.WithRuntime(t.cfg.Runtime.Module, t.cfg.Runtime.Export),
		reactive.WithNamespace(t.cfg.Runtime.Namespace),
		reactive.WithSetterPrefix(t.cfg.Rewrite.SetterPrefix),
		reactive.WithSetterCase(reactive.SetterCase(t.cfg.Rewrite.SetterCase)),
		reactive.WithUIDHint(t.cfg.Rewrite.UIDHint),
		reactive.WithLogger(t.logger),
	}
}

// Fingerprint identifies everything in the configuration that affects output.
func (t *Transformer) Fingerprint() string {
	r := t.cfg.Runtime
	w := t.cfg.Rewrite
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%t", r.Module, r.Export, r.Namespace,
		w.SetterPrefix, w.SetterCase, w.UIDHint, w.AllowErrors)
}

// TransformSource rewrites source with a parser of its own.
func (t *Transformer) TransformSource(ctx context.Context, source []byte, lang parser.Language, path string) (*Result, error) {
	p := parser.New()
	defer p.Close()
	return t.Transform(ctx, p, source, lang, path)
}

// TransformFile reads and rewrites the file at path using p.
func (t *Transformer) TransformFile(ctx context.Context, p *parser.Parser, path string) (*Result, error) {
	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return t.Transform(ctx, p, source, lang, path)
}

// Transform rewrites source using p.
func (t *Transformer) Transform(ctx context.Context, p *parser.Parser, source []byte, lang parser.Language, path string) (*Result, error) {
	start := time.Now()

	parsed, err := p.Parse(ctx, source, lang, path)
	if err != nil {
		return nil, err
	}
	defer parsed.Close()

	if node := parsed.FirstError(); node != nil && !t.cfg.Rewrite.AllowErrors {
		pos := node.StartPoint()
		return nil, &SyntaxError{Path: path, Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
	}

	tree := treesitter.Convert(parsed)
	rw := reactive.New(t.ReactiveOptions()...)
	ast.Run(tree, rw.Plugin())
	code := tree.PrintFile()

	result := &Result{
		Path:     path,
		Language: lang,
		Original: source,
		Code:     code,
		Changed:  !bytes.Equal(source, code),
		Stats:    rw.Stats(),
		Duration: time.Since(start),
	}

	t.logger.Debug("transformed file",
		"path", path,
		"language", lang,
		"changed", result.Changed,
		"declarations", result.Stats.Declarations,
		"assignments", result.Stats.Assignments,
		"duration", result.Duration,
	)
	return result, nil
}

// Inspect lists the functions the rewriter would visit in source.
func (t *Transformer) Inspect(ctx context.Context, p *parser.Parser, source []byte, lang parser.Language, path string) ([]reactive.Function, error) {
	parsed, err := p.Parse(ctx, source, lang, path)
	if err != nil {
		return nil, err
	}
	defer parsed.Close()
	return reactive.Inspect(treesitter.Convert(parsed), t.ReactiveOptions()...), nil
}
