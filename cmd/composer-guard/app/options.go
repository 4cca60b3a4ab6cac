// Package app holds the wiring shared by the composer-guard subcommands.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flarebyte/composer-guard/internal/config"
	"github.com/flarebyte/composer-guard/internal/logging"
	"github.com/flarebyte/composer-guard/internal/process"
	"github.com/flarebyte/composer-guard/internal/task"
	"github.com/flarebyte/composer-guard/internal/taskctx"
	"github.com/google/uuid"
)

// Options are the persistent flags of the root command.
type Options struct {
	ConfigPath string
	Root       string
	LogLevel   string
	Verbose    bool
	Quiet      bool

	Stdout io.Writer
	Stderr io.Writer
	// Runner overrides the process runner; nil uses process.NewExecRunner.
	Runner process.Runner
}

// NewOptions returns options bound to the process streams.
func NewOptions() *Options {
	return &Options{Root: ".", Stdout: os.Stdout, Stderr: os.Stderr}
}

func (o *Options) level() logging.Level {
	switch {
	case o.Quiet:
		return logging.LevelError
	case o.Verbose:
		return logging.LevelDebug
	default:
		return logging.ParseLevel(o.LogLevel)
	}
}

// Logger returns a logger tagged with a fresh run id and the context kind.
func (o *Options) Logger(kind taskctx.Kind) *slog.Logger {
	return logging.New(o.Stderr, o.level()).With("run_id", uuid.NewString(), "context", kind.String())
}

// LoadConfig reads --config, or the default file under root when it exists.
func (o *Options) LoadConfig(root string) (config.Config, error) {
	if o.ConfigPath != "" {
		return config.Load(o.ConfigPath)
	}
	return config.LoadOptional(filepath.Join(root, config.DefaultPath))
}

// ProjectRoot resolves --root to an absolute path, or to the enclosing git
// worktree when useGit is set.
func (o *Options) ProjectRoot(useGit bool) (string, error) {
	start := o.Root
	if start == "" {
		start = "."
	}
	if useGit {
		root, err := taskctx.RepoRoot(start)
		if err != nil {
			return "", Classify(err)
		}
		return root, nil
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", execError(fmt.Errorf("resolving root: %w", err))
	}
	return abs, nil
}

// NewComposer builds the composer task for a project root.
func (o *Options) NewComposer(cfg config.Config, root string, logger *slog.Logger) *task.Composer {
	runner := o.Runner
	if runner == nil {
		runner = process.NewExecRunner()
	}
	binDir := cfg.BinDir
	if binDir != "" && !filepath.IsAbs(binDir) {
		binDir = filepath.Join(root, binDir)
	}
	return task.NewComposer(cfg.Tasks.Composer, runner,
		task.WithBinDir(binDir),
		task.WithWorkingDir(root),
		task.WithTimeout(cfg.ProcessTimeout()),
		task.WithLogger(logger),
	)
}
