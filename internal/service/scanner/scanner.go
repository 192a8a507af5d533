// Package scanner resolves command-line paths into the source files a run
// will rewrite.
package scanner

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/panbanda/reactify/internal/scanner"
	"github.com/panbanda/reactify/internal/vcs"
	"github.com/panbanda/reactify/pkg/config"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files []string
	// RepoRoot and Ref are set when the first path is inside a git
	// repository.
	RepoRoot string
	Ref      string
}

// Service provides file scanning functionality.
type Service struct {
	config *config.Config
	opener vcs.Opener
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithOpener sets the VCS opener (for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(s *Service) {
		s.opener = opener
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.DefaultConfig(),
		opener: vcs.DefaultOpener(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func absPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &PathError{Path: p, Err: err}
		}
		out[i] = abs
	}
	return out, nil
}

// ScanPaths scans files and directories and returns every source file to
// rewrite. Repository information is filled in when available.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	abs, err := absPaths(paths)
	if err != nil {
		return nil, err
	}

	files, err := scanner.NewScanner(s.config).ScanPaths(abs)
	if err != nil {
		return nil, &ScanError{Path: strings.Join(paths, ", "), Err: err}
	}

	result := &ScanResult{Files: files}
	if repo, err := s.opener.Open(abs[0]); err == nil {
		result.RepoRoot = repo.Root()
		result.Ref, _ = repo.CurrentRef()
	}
	return result, nil
}

// ScanChanged returns the source files under paths that have uncommitted
// changes. Untracked files count as changed when untracked is true.
func (s *Service) ScanChanged(paths []string, untracked bool) (*ScanResult, error) {
	abs, err := absPaths(paths)
	if err != nil {
		return nil, err
	}

	repo, err := s.opener.Open(abs[0])
	if err != nil {
		return nil, &GitError{Err: err}
	}
	changed, err := vcs.ChangedFiles(repo, untracked)
	if err != nil {
		return nil, &GitError{Err: err}
	}

	scan := scanner.NewScanner(s.config)
	root := repo.Root()
	result := &ScanResult{RepoRoot: root}
	result.Ref, _ = repo.CurrentRef()

	for _, f := range changed {
		base, ok := containingRoot(f, abs)
		if !ok {
			continue
		}
		// Include globs are relative to the scanned directory, as in ScanDir.
		if base != f {
			if rel, err := filepath.Rel(base, f); err != nil || !s.config.ShouldInclude(rel) {
				continue
			}
		}
		rel, err := filepath.Rel(root, f)
		if err != nil || s.config.ShouldExclude(rel) {
			continue
		}
		ok, err = scan.ScanFile(f)
		if err != nil || !ok {
			continue
		}
		result.Files = append(result.Files, f)
	}
	return result, nil
}

// DirtyFiles returns the files with uncommitted changes. Outside a git
// repository nothing is dirty.
func (s *Service) DirtyFiles(files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	repo, err := s.opener.Open(filepath.Dir(files[0]))
	if errors.Is(err, vcs.ErrNotRepository) {
		return nil, nil
	}
	if err != nil {
		return nil, &GitError{Err: err}
	}
	return vcs.DirtyFiles(repo, files)
}

// containingRoot returns the first root that is path or one of its parent
// directories.
func containingRoot(path string, roots []string) (string, bool) {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return root, true
		}
	}
	return "", false
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates a git repository could not be read.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "git: " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
