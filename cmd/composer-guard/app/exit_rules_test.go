package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flarebyte/composer-guard/internal/config"
	"github.com/flarebyte/composer-guard/internal/manifest"
	"github.com/flarebyte/composer-guard/internal/process"
	"github.com/flarebyte/composer-guard/internal/task"
	"github.com/flarebyte/composer-guard/internal/taskctx"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"config", &config.ConfigurationError{Path: "c.yaml", Err: errors.New("bad")}, exitCodeConfigErr},
		{"tool", &task.ExternalToolError{Output: "invalid", ExitCode: 2}, exitCodeTaskFailed},
		{"local repo", manifest.ErrLocalRepositoryDeclared, exitCodeTaskFailed},
		{"not found", &manifest.FileNotFoundError{Path: "composer.json"}, exitCodeTaskFailed},
		{"parse", &manifest.ParseError{Path: "composer.json", Err: errors.New("eof")}, exitCodeTaskFailed},
		{"executable", fmt.Errorf("composer: %w", process.ErrExecutableNotFound), exitCodeExecErr},
		{"unreadable manifest", &manifest.ReadError{Path: "composer.json", Err: errors.New("denied")}, exitCodeExecErr},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.err)
			var ee ExitError
			if !errors.As(got, &ee) {
				t.Fatalf("expected ExitError, got %T", got)
			}
			if ee.ExitCode() != c.code {
				t.Fatalf("exit code = %d, want %d", ee.ExitCode(), c.code)
			}
			if got.Error() != c.err.Error() {
				t.Fatalf("message changed: %q", got.Error())
			}
			if !errors.Is(got, c.err) {
				t.Fatalf("original error not preserved")
			}
		})
	}
	if Classify(nil) != nil {
		t.Fatalf("nil stays nil")
	}
}

func TestClassify_KeepsExistingExitError(t *testing.T) {
	in := ExitError{code: exitCodeConfigErr, err: errors.New("x")}
	got := Classify(in)
	var ee ExitError
	if !errors.As(got, &ee) || ee.ExitCode() != exitCodeConfigErr {
		t.Fatalf("exit error should pass through: %v", got)
	}
}

func TestClassify_GitErrors(t *testing.T) {
	_, gitErr := taskctx.StagedFiles(t.TempDir())
	if gitErr == nil {
		t.Fatalf("expected an error outside a repository")
	}
	got := Classify(gitErr)
	var ee ExitError
	if !errors.As(got, &ee) || ee.ExitCode() != exitCodeExecErr {
		t.Fatalf("git errors exit 3, got %v", got)
	}
	if !errors.Is(got, gitErr) || !taskctx.IsGitError(got) {
		t.Fatalf("git error not preserved: %v", got)
	}
	if got.Error() != "reading git metadata: "+gitErr.Error() {
		t.Fatalf("unexpected message: %q", got.Error())
	}
}
