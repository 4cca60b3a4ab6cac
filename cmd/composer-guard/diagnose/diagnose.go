package diagnose

import (
	"fmt"

	"github.com/flarebyte/composer-guard/cmd/composer-guard/app"
	"github.com/flarebyte/composer-guard/cmd/composer-guard/run"
	"github.com/flarebyte/composer-guard/internal/config"
	"github.com/flarebyte/composer-guard/internal/task"
	"github.com/flarebyte/composer-guard/internal/taskctx"
	"github.com/spf13/cobra"
)

// Report is what `diagnose` prints: everything the task would use, without
// running the external command.
type Report struct {
	Task      string          `json:"task"`
	Context   string          `json:"context"`
	CanRun    bool            `json:"canRun"`
	Root      string          `json:"root"`
	Config    config.Config   `json:"config"`
	Options   []config.Option `json:"options"`
	Matched   []string        `json:"matched"`
	Arguments []string        `json:"arguments"`
}

// NewCmd creates `composer-guard diagnose`.
func NewCmd(opts *app.Options) *cobra.Command {
	var (
		flagContext string
		flagNoGit   bool
	)
	cmd := &cobra.Command{
		Use:           "diagnose [files...]",
		Short:         "Print resolved configuration, matched files and command arguments as JSON",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(flagContext)
			if err != nil {
				return err
			}
			useGit := kind == taskctx.KindPreCommit || (!flagNoGit && len(args) == 0)
			root, err := opts.ProjectRoot(useGit)
			if err != nil {
				return err
			}
			var files taskctx.Files
			if kind == taskctx.KindPreCommit {
				files, err = taskctx.StagedFiles(root)
			} else {
				files, err = run.ContextFiles(root, args, flagNoGit)
			}
			if err != nil {
				return app.Classify(err)
			}
			cfg, err := opts.LoadConfig(root)
			if err != nil {
				return app.Classify(err)
			}
			rc := newContext(kind, files)
			t := opts.NewComposer(cfg, root, opts.Logger(kind))
			return app.EncodeJSON(opts.Stdout, BuildReport(t, cfg, root, rc))
		},
	}
	cmd.Flags().StringVar(&flagContext, "context", "run", "Context to simulate: run or pre-commit")
	cmd.Flags().BoolVar(&flagNoGit, "no-git", false, "Walk the filesystem instead of reading the git index")
	return cmd
}

// BuildReport assembles the report for a task and context.
func BuildReport(t *task.Composer, cfg config.Config, root string, rc taskctx.Context) Report {
	return Report{
		Task:      t.Name(),
		Context:   rc.Kind().String(),
		CanRun:    t.CanRunInContext(rc),
		Root:      root,
		Config:    cfg,
		Options:   t.ConfigurableOptions(),
		Matched:   t.MatchingFiles(rc).Paths(),
		Arguments: task.BuildArguments(cfg.Tasks.Composer),
	}
}

func parseKind(s string) (taskctx.Kind, error) {
	switch s {
	case "run":
		return taskctx.KindRun, nil
	case "pre-commit":
		return taskctx.KindPreCommit, nil
	default:
		return 0, fmt.Errorf("invalid --context %q: expected run or pre-commit", s)
	}
}

func newContext(kind taskctx.Kind, files taskctx.Files) taskctx.Context {
	if kind == taskctx.KindPreCommit {
		return taskctx.NewPreCommitContext(files)
	}
	return taskctx.NewRunContext(files)
}
