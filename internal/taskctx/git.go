package taskctx

import (
	"errors"
	"fmt"
	"sort"

	git "github.com/go-git/go-git/v5"
)

var (
	errGitRepoNotFound   = errors.New("git repo not found")
	errGitRepoOpenFailed = errors.New("git repo open failed")
	errGitStatusFailed   = errors.New("git status failed")
	errGitIndexFailed    = errors.New("git index read failed")
)

// openRepo finds the repository containing start and returns it with its
// worktree root.
func openRepo(start string) (*git.Repository, string, error) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, "", errGitRepoNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", errGitRepoOpenFailed, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errGitRepoOpenFailed, err)
	}
	return repo, wt.Filesystem.Root(), nil
}

// StagedFiles returns the files added, modified, renamed or copied in the
// index of the repository containing start, sorted by path. Deleted and
// untracked files are left out.
func StagedFiles(start string) (Files, error) {
	repo, root, err := openRepo(start)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errGitRepoOpenFailed, err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errGitStatusFailed, err)
	}
	var paths []string
	for p, s := range status {
		if isStaged(s.Staging) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	out := make(Files, 0, len(paths))
	for _, p := range paths {
		out = append(out, NewFile(root, p))
	}
	return out, nil
}

func isStaged(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Modified, git.Renamed, git.Copied:
		return true
	default:
		return false
	}
}

// TrackedFiles returns every path in the index of the repository containing
// start, in index order.
func TrackedFiles(start string) (Files, error) {
	repo, root, err := openRepo(start)
	if err != nil {
		return nil, err
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errGitIndexFailed, err)
	}
	out := make(Files, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		out = append(out, NewFile(root, e.Name))
	}
	return out, nil
}

// RepoRoot returns the worktree root of the repository containing start.
func RepoRoot(start string) (string, error) {
	_, root, err := openRepo(start)
	return root, err
}

// IsGitError reports whether err came from reading git metadata.
func IsGitError(err error) bool {
	return errors.Is(err, errGitRepoNotFound) ||
		errors.Is(err, errGitRepoOpenFailed) ||
		errors.Is(err, errGitStatusFailed) ||
		errors.Is(err, errGitIndexFailed)
}
