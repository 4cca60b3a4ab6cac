package taskctx

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitgitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// WalkFiles returns the regular files under root sorted by path, skipping
// .git and anything matched by .gitignore files unless noGitignore is set.
func WalkFiles(root string, noGitignore bool) (Files, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var rels []string
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == absRoot {
			return nil
		}
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		isDir := d.IsDir()
		if isDir && d.Name() == ".git" {
			return fs.SkipDir
		}
		if !noGitignore && matchIgnore(absRoot, rel, isDir) {
			if isDir {
				return fs.SkipDir
			}
			return nil
		}
		if isDir || !d.Type().IsRegular() {
			return nil
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	out := make(Files, 0, len(rels))
	for _, r := range rels {
		out = append(out, NewFile(absRoot, r))
	}
	return out, nil
}

// ExplicitFiles references the given paths, relative to root or absolute,
// in the order given. Duplicates are dropped.
func ExplicitFiles(root string, paths []string) (Files, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	out := Files{}
	for _, p := range paths {
		rel := p
		if filepath.IsAbs(p) {
			rel, err = filepath.Rel(absRoot, p)
			if err != nil {
				return nil, err
			}
		}
		f := NewFile(absRoot, rel)
		if _, ok := seen[f.RelativePath()]; ok {
			continue
		}
		seen[f.RelativePath()] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// dirsForRel returns the list of directories from "." to the directory of rel.
func dirsForRel(rel string) []string {
	dir := filepath.Dir(rel)
	parts := []string{}
	if dir != "." {
		parts = strings.Split(dir, string(os.PathSeparator))
	}
	cur := "."
	dirs := []string{"."}
	for _, part := range parts {
		if cur == "." {
			cur = part
		} else {
			cur = filepath.Join(cur, part)
		}
		dirs = append(dirs, cur)
	}
	return dirs
}

// readGitignorePatterns reads .gitignore patterns from the given directories under absRoot.
func readGitignorePatterns(absRoot string, dirs []string) []gitgitignore.Pattern {
	var patterns []gitgitignore.Pattern
	for _, d := range dirs {
		b, err := os.ReadFile(filepath.Join(absRoot, d, ".gitignore"))
		if err != nil {
			continue
		}
		base := []string{}
		if d != "." && d != "" {
			base = strings.Split(filepath.ToSlash(d), "/")
		}
		for _, line := range strings.Split(string(b), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitgitignore.ParsePattern(line, base))
		}
	}
	return patterns
}

func matchIgnore(absRoot string, rel string, isDir bool) bool {
	patterns := readGitignorePatterns(absRoot, dirsForRel(rel))
	if len(patterns) == 0 {
		return false
	}
	m := gitgitignore.NewMatcher(patterns)
	return m.Match(strings.Split(rel, string(os.PathSeparator)), isDir)
}
