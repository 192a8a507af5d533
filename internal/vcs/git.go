package vcs

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no git repository contains the path.
var ErrNotRepository = errors.New("not a git repository")

// GitOpener opens git repositories using go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// Open opens the repository containing path.
func (o *GitOpener) Open(path string) (Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	return &gitRepository{repo: repo, worktree: wt}, nil
}

// gitRepository wraps go-git Repository.
type gitRepository struct {
	repo     *git.Repository
	worktree *git.Worktree
}

func (r *gitRepository) Root() string {
	return r.worktree.Filesystem.Root()
}

func (r *gitRepository) CurrentRef() (string, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

func (r *gitRepository) Status() (Status, error) {
	st, err := r.worktree.Status()
	if err != nil {
		return nil, err
	}
	out := make(Status, len(st))
	for path, fs := range st {
		if state := fileState(fs.Staging, fs.Worktree); state != Unmodified {
			out[path] = state
		}
	}
	return out, nil
}

// fileState folds the two go-git status codes into one state. Worktree
// changes win over staged ones since they describe the bytes on disk.
func fileState(staging, worktree git.StatusCode) FileState {
	if staging == git.UpdatedButUnmerged || worktree == git.UpdatedButUnmerged {
		return Conflicted
	}
	if staging == git.Untracked && worktree == git.Untracked {
		return Untracked
	}
	for _, code := range []git.StatusCode{worktree, staging} {
		switch code {
		case git.Deleted:
			return Deleted
		case git.Modified:
			return Modified
		case git.Added, git.Copied:
			return Added
		case git.Renamed:
			return Renamed
		}
	}
	return Unmodified
}

var defaultOpener Opener = NewGitOpener()

// DefaultOpener returns the go-git opener used when none is injected.
func DefaultOpener() Opener {
	return defaultOpener
}
