// Package rewrite orchestrates multi-file rewrite runs: parallel processing,
// the result cache, and writing output.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/panbanda/reactify/internal/cache"
	"github.com/panbanda/reactify/internal/fileproc"
	"github.com/panbanda/reactify/pkg/config"
	"github.com/panbanda/reactify/pkg/parser"
	"github.com/panbanda/reactify/pkg/reactive"
	"github.com/panbanda/reactify/pkg/transform"
)

// Service runs the rewrite over files.
type Service struct {
	config      *config.Config
	cache       *cache.Cache
	logger      *slog.Logger
	transformer *transform.Transformer
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache enables result caching.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a new rewrite service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.transformer = transform.New(s.config, transform.WithLogger(s.logger))
	return s
}

// Transformer returns the transformer the service runs.
func (s *Service) Transformer() *transform.Transformer {
	return s.transformer
}

// Options configures a run.
type Options struct {
	// Workers overrides the configured worker count when positive.
	Workers    int
	OnProgress func()
}

// TransformFiles rewrites files in parallel. Results are in input order;
// failed files are reported in the returned errors instead.
func (s *Service) TransformFiles(ctx context.Context, files []string, opts Options) ([]*transform.Result, *fileproc.ProcessingErrors) {
	workers := opts.Workers
	if workers <= 0 {
		workers = s.config.WorkerCount()
	}

	start := time.Now()
	results, errs := fileproc.MapFiles(ctx, files, workers,
		func(p *parser.Parser, path string) (*transform.Result, error) {
			return s.TransformFile(ctx, p, path)
		}, opts.OnProgress)

	s.logger.Debug("rewrite run finished",
		"files", len(files),
		"failed", errs.Len(),
		"workers", workers,
		"duration", time.Since(start),
	)
	return results, errs
}

// cachedResult is the cached part of a transform.Result.
type cachedResult struct {
	Code    []byte         `json:"code"`
	Changed bool           `json:"changed"`
	Stats   reactive.Stats `json:"stats"`
}

// TransformFile rewrites one file with p, serving it from the cache when
// the source and options are unchanged since it was last rewritten.
func (s *Service) TransformFile(ctx context.Context, p *parser.Parser, path string) (*transform.Result, error) {
	if s.cache == nil || !s.cache.Enabled() {
		return s.transformer.TransformFile(ctx, p, path)
	}

	lang := parser.DetectLanguage(path)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	key := cache.Key(path, s.transformer.Fingerprint())
	hash := cache.HashBytes(source)
	if data, ok := s.cache.Get(key, hash); ok {
		var cached cachedResult
		if err := json.Unmarshal(data, &cached); err == nil {
			s.logger.Debug("cache hit", "path", path)
			return &transform.Result{
				Path:     path,
				Language: lang,
				Original: source,
				Code:     cached.Code,
				Changed:  cached.Changed,
				Stats:    cached.Stats,
				Cached:   true,
			}, nil
		}
	}

	start := time.Now()
	result, err := s.transformer.Transform(ctx, p, source, lang, path)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)

	data, err := json.Marshal(cachedResult{Code: result.Code, Changed: result.Changed, Stats: result.Stats})
	if err == nil {
		err = s.cache.Set(key, hash, data)
	}
	if err != nil {
		s.logger.Warn("failed to cache result", "path", path, "error", err)
	}
	return result, nil
}

// WriteOptions controls where results are written.
type WriteOptions struct {
	// OutDir mirrors every result under this directory, relative to Root.
	// When empty, changed files are rewritten in place.
	OutDir string
	Root   string
}

// Write writes results and returns the paths written.
func (s *Service) Write(results []*transform.Result, opts WriteOptions) ([]string, error) {
	var written []string
	for _, r := range results {
		target := r.Path
		if opts.OutDir != "" {
			rel, err := filepath.Rel(opts.Root, r.Path)
			if err != nil || !filepath.IsLocal(rel) {
				return written, fmt.Errorf("%s is outside %s", r.Path, opts.Root)
			}
			target = filepath.Join(opts.OutDir, rel)
		} else if !r.Changed {
			continue
		}

		if err := r.WriteFile(target); err != nil {
			return written, err
		}
		written = append(written, target)
		s.logger.Debug("wrote file", "path", target)
	}
	return written, nil
}
