package vcs

import (
	"path/filepath"
	"sort"
)

// ChangedFiles returns absolute paths of files with uncommitted changes,
// sorted. Deleted files are skipped; untracked files are included only when
// untracked is true.
func ChangedFiles(repo Repository, untracked bool) ([]string, error) {
	status, err := repo.Status()
	if err != nil {
		return nil, err
	}

	root := repo.Root()
	var files []string
	for rel, state := range status {
		switch state {
		case Deleted, Unmodified:
			continue
		case Untracked:
			if !untracked {
				continue
			}
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
	}
	sort.Strings(files)
	return files, nil
}

// DirtyFiles returns the subset of paths that have uncommitted changes to
// tracked content. Untracked files are not considered dirty.
func DirtyFiles(repo Repository, paths []string) ([]string, error) {
	status, err := repo.Status()
	if err != nil {
		return nil, err
	}

	root := repo.Root()
	var dirty []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		state, ok := status[filepath.ToSlash(rel)]
		if !ok || state == Untracked {
			continue
		}
		dirty = append(dirty, p)
	}
	return dirty, nil
}
