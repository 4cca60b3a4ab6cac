package app

import (
	"errors"
	"fmt"

	"github.com/flarebyte/composer-guard/internal/config"
	"github.com/flarebyte/composer-guard/internal/manifest"
	"github.com/flarebyte/composer-guard/internal/task"
	"github.com/flarebyte/composer-guard/internal/taskctx"
)

const (
	exitCodeTaskFailed = 1
	exitCodeConfigErr  = 2
	exitCodeExecErr    = 3
)

// ExitError carries the process exit code for an error.
type ExitError struct {
	code int
	err  error
}

func (e ExitError) Error() string { return e.err.Error() }
func (e ExitError) ExitCode() int { return e.code }
func (e ExitError) Unwrap() error { return e.err }

func execError(err error) error { return ExitError{code: exitCodeExecErr, err: err} }

// Classify maps an error to its exit code. Validation failures exit 1,
// configuration errors 2 and anything that kept the check from running 3.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ee ExitError
	if errors.As(err, &ee) {
		return err
	}
	var (
		cfgErr   *config.ConfigurationError
		toolErr  *task.ExternalToolError
		notFound *manifest.FileNotFoundError
		parseErr *manifest.ParseError
	)
	switch {
	case errors.As(err, &cfgErr):
		return ExitError{code: exitCodeConfigErr, err: err}
	case errors.As(err, &toolErr),
		errors.As(err, &notFound),
		errors.As(err, &parseErr),
		errors.Is(err, manifest.ErrLocalRepositoryDeclared):
		return ExitError{code: exitCodeTaskFailed, err: err}
	case taskctx.IsGitError(err):
		return execError(fmt.Errorf("reading git metadata: %w", err))
	default:
		return execError(err)
	}
}
