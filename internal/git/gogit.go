package git

import (
	"context"
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

// GoGitBackend reads status through go-git without spawning processes.
type GoGitBackend struct{}

var _ Backend = GoGitBackend{}

// Discover opens the repository enclosing path, walking up to the first .git.
func (GoGitBackend) Discover(_ context.Context, path string) (Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrRepositoryAbsent
		}
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return &goGitRepository{repo: repo}, nil
}

type goGitRepository struct {
	repo *gogit.Repository
}

func (r *goGitRepository) Workdir() (string, bool) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", false
	}
	return wt.Filesystem.Root(), true
}

func (r *goGitRepository) Statuses(_ context.Context) ([]PathStatus, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	records := make([]PathStatus, 0, len(paths))
	for _, path := range paths {
		fs := status[path]
		flags := goGitFlags(fs.Staging, fs.Worktree)
		if flags == 0 {
			continue
		}
		records = append(records, PathStatus{Path: path, Flags: flags})
	}
	return records, nil
}

// goGitFlags converts the staging and worktree codes of go-git into raw bits.
func goGitFlags(staging, worktree gogit.StatusCode) RawStatus {
	var flags RawStatus

	switch staging {
	case gogit.Added, gogit.Copied:
		flags |= IndexNew
	case gogit.Modified:
		flags |= IndexModified
	case gogit.Deleted:
		flags |= IndexDeleted
	case gogit.Renamed:
		flags |= IndexRenamed
	case gogit.UpdatedButUnmerged:
		flags |= Conflicted
	}

	switch worktree {
	case gogit.Untracked:
		flags |= WtNew
	case gogit.Modified:
		flags |= WtModified
	case gogit.Deleted:
		flags |= WtDeleted
	case gogit.Renamed:
		flags |= WtRenamed
	case gogit.UpdatedButUnmerged:
		flags |= Conflicted
	}

	return flags
}
