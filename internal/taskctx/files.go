package taskctx

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// File is a read-only reference to a file under a project root. The file may
// have been deleted since the reference was taken.
type File struct {
	root string
	rel  string

	once    sync.Once
	content []byte
	readErr error
}

// NewFile references rel (slash or OS separated) under root.
func NewFile(root, rel string) *File {
	return &File{root: root, rel: filepath.ToSlash(filepath.Clean(rel))}
}

// RelativePath is the slash-separated path relative to the project root.
func (f *File) RelativePath() string { return f.rel }

// RealPath is the absolute path on disk; it is returned even if the file is gone.
func (f *File) RealPath() string {
	p := filepath.Join(f.root, filepath.FromSlash(f.rel))
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

// Base returns the last element of the relative path.
func (f *File) Base() string { return path.Base(f.rel) }

// Dir returns the directory of the relative path; "." for root-level files.
func (f *File) Dir() string { return path.Dir(f.rel) }

// Exists reports whether the real path currently exists as a regular file.
func (f *File) Exists() bool {
	info, err := os.Stat(f.RealPath())
	return err == nil && !info.IsDir()
}

// Contents reads the file on first use and returns the cached bytes after.
func (f *File) Contents() ([]byte, error) {
	f.once.Do(func() {
		f.content, f.readErr = os.ReadFile(f.RealPath())
	})
	return f.content, f.readErr
}

// Files is an ordered file collection. Filters keep the original order.
type Files []*File

// Path keeps files whose relative path contains dir, so "app" also selects
// "app/sub/x" and "webapp/x", and "." selects any path with a dot in it.
func (fs Files) Path(dir string) Files {
	want := filepath.ToSlash(dir)
	return fs.filter(func(f *File) bool { return strings.Contains(f.RelativePath(), want) })
}

// Name keeps files whose base name matches the glob pattern. A malformed
// pattern matches nothing.
func (fs Files) Name(pattern string) Files {
	return fs.filter(func(f *File) bool {
		ok, err := path.Match(pattern, f.Base())
		return err == nil && ok
	})
}

// First returns the first file of the collection.
func (fs Files) First() (*File, bool) {
	if len(fs) == 0 {
		return nil, false
	}
	return fs[0], true
}

func (fs Files) Len() int { return len(fs) }

// Paths returns the relative paths, in order.
func (fs Files) Paths() []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.RelativePath())
	}
	return out
}

func (fs Files) filter(keep func(*File) bool) Files {
	out := Files{}
	for _, f := range fs {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
