package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrExecutableNotFound is returned when a program is neither in the bin
// directory nor on PATH.
var ErrExecutableNotFound = errors.New("executable not found")

// Locate resolves name to a runnable path. binDir is searched first so a
// project-local install wins over a global one.
func Locate(name, binDir string) (string, error) {
	if binDir != "" {
		p := filepath.Join(binDir, name)
		if isExecutable(p) {
			abs, err := filepath.Abs(p)
			if err != nil {
				return p, nil
			}
			return abs, nil
		}
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrExecutableNotFound)
	}
	return p, nil
}

func isExecutable(p string) bool {
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
