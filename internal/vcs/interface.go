// Package vcs provides version control system abstractions.
package vcs

// Repository provides access to the working tree state of a git repository.
type Repository interface {
	// Root returns the absolute path of the working tree.
	Root() string
	// CurrentRef returns the current branch name, or the commit SHA for a
	// detached HEAD. An empty repository reports an empty ref.
	CurrentRef() (string, error)
	// Status returns the state of every file that differs from HEAD, keyed
	// by slash-separated path relative to Root.
	Status() (Status, error)
}

// FileState summarises a file's combined staging and worktree status.
type FileState int

const (
	Unmodified FileState = iota
	Modified
	Added
	Untracked
	Deleted
	Renamed
	Conflicted
)

func (s FileState) String() string {
	switch s {
	case Modified:
		return "modified"
	case Added:
		return "added"
	case Untracked:
		return "untracked"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case Conflicted:
		return "conflicted"
	default:
		return "unmodified"
	}
}

// Status maps relative paths to their state.
type Status map[string]FileState

// Opener opens git repositories.
type Opener interface {
	// Open opens the repository containing path, searching parent
	// directories for .git.
	Open(path string) (Repository, error)
}
