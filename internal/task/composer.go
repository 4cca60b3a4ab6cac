package task

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/flarebyte/composer-guard/internal/config"
	"github.com/flarebyte/composer-guard/internal/logging"
	"github.com/flarebyte/composer-guard/internal/manifest"
	"github.com/flarebyte/composer-guard/internal/process"
	"github.com/flarebyte/composer-guard/internal/taskctx"
)

const (
	composerName       = "composer"
	composerExecutable = "composer"
)

var _ Task = (*Composer)(nil)

// Locator resolves an executable name, searching binDir before PATH.
type Locator func(name, binDir string) (string, error)

// Composer validates composer.json with `composer validate`.
type Composer struct {
	cfg     config.Composer
	runner  process.Runner
	locate  Locator
	binDir  string
	workDir string
	timeout time.Duration
	logger  *slog.Logger
}

// ComposerOption customises a Composer task.
type ComposerOption func(*Composer)

// WithBinDir sets the directory searched for the composer executable.
func WithBinDir(dir string) ComposerOption { return func(c *Composer) { c.binDir = dir } }

// WithWorkingDir sets the directory composer runs in; the file option is relative to it.
func WithWorkingDir(dir string) ComposerOption { return func(c *Composer) { c.workDir = dir } }

func WithTimeout(d time.Duration) ComposerOption { return func(c *Composer) { c.timeout = d } }

func WithLogger(l *slog.Logger) ComposerOption { return func(c *Composer) { c.logger = l } }

func WithLocator(l Locator) ComposerOption { return func(c *Composer) { c.locate = l } }

// NewComposer builds the task from already resolved options.
func NewComposer(cfg config.Composer, runner process.Runner, opts ...ComposerOption) *Composer {
	c := &Composer{
		cfg:    cfg,
		runner: runner,
		locate: process.Locate,
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = logging.OrDiscard(c.logger).With("task", composerName)
	return c
}

func (c *Composer) Name() string { return composerName }

func (c *Composer) ConfigurableOptions() []config.Option { return config.ComposerOptions() }

// CanRunInContext accepts explicit runs and pre-commit hooks only.
func (c *Composer) CanRunInContext(rc taskctx.Context) bool {
	switch rc.Kind() {
	case taskctx.KindRun, taskctx.KindPreCommit:
		return true
	case taskctx.KindCommitMsg:
		return false
	default:
		return false
	}
}

// MatchingFiles returns the context files selected by the file option.
func (c *Composer) MatchingFiles(rc taskctx.Context) taskctx.Files {
	dir, name := splitFile(c.cfg.File)
	return rc.Files().Path(dir).Name(name)
}

// Run validates the manifest when it is part of the context.
func (c *Composer) Run(ctx context.Context, rc taskctx.Context) error {
	files := c.MatchingFiles(rc)
	if files.Len() == 0 {
		c.logger.Debug("no matching files, skipping", "file", c.cfg.File, "context", rc.Kind().String())
		return nil
	}

	program, err := c.locate(composerExecutable, c.binDir)
	if err != nil {
		return fmt.Errorf("%s: %w", composerName, err)
	}
	args := BuildArguments(c.cfg)
	c.logger.Debug("running command", "program", program, "args", args.String(), "dir", c.workDir)

	res, err := c.runner.Run(ctx, process.Command{
		Program: program,
		Args:    args,
		Dir:     c.workDir,
		Timeout: c.timeout,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", composerName, err)
	}
	c.logger.Debug("command finished", "exit_code", res.ExitCode, "timed_out", res.TimedOut, "truncated", res.Truncated)
	if !res.Successful() {
		return &ExternalToolError{
			Output:    res.Output,
			ExitCode:  res.ExitCode,
			TimedOut:  res.TimedOut,
			Truncated: res.Truncated,
		}
	}

	if !c.cfg.NoLocalRepository {
		return nil
	}
	first, _ := files.First()
	return manifest.Check(first)
}

// BuildArguments returns the `composer validate` arguments for cfg. The
// no_local_repository option is checked in-process and adds no flag.
func BuildArguments(cfg config.Composer) process.Arguments {
	var args process.Arguments
	args.Add("validate")
	args.AddOptional("--no-check-all", cfg.NoCheckAll)
	args.AddOptional("--no-check-lock", cfg.NoCheckLock)
	args.AddOptional("--no-check-publish", cfg.NoCheckPublish)
	args.AddOptional("--with-dependencies", cfg.WithDependencies)
	args.AddOptional("--strict", cfg.Strict)
	args.Add(cfg.File)
	return args
}

// splitFile splits the file option into a directory and a name pattern.
func splitFile(file string) (string, string) {
	p := filepath.ToSlash(file)
	return path.Dir(p), path.Base(p)
}
