package run

import (
	"github.com/flarebyte/composer-guard/cmd/composer-guard/app"
	"github.com/flarebyte/composer-guard/internal/taskctx"
	"github.com/spf13/cobra"
)

// NewCmd creates `composer-guard run [files...]`.
func NewCmd(opts *app.Options) *cobra.Command {
	var noGit bool
	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Validate composer.json against the project files",
		Long: `Runs the composer task in an explicit-run context. Without arguments the
context holds every file tracked by git; with --no-git it holds every file under
--root that .gitignore does not exclude. Named files replace both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			useGit := !noGit && len(args) == 0
			root, err := opts.ProjectRoot(useGit)
			if err != nil {
				return err
			}
			files, err := ContextFiles(root, args, noGit)
			if err != nil {
				return app.Classify(err)
			}
			cfg, err := opts.LoadConfig(root)
			if err != nil {
				return app.Classify(err)
			}
			rc := taskctx.NewRunContext(files)
			logger := opts.Logger(rc.Kind())
			return app.Execute(cmd.Context(), opts.NewComposer(cfg, root, logger), rc, logger)
		},
	}
	cmd.Flags().BoolVar(&noGit, "no-git", false, "Walk the filesystem instead of reading the git index")
	return cmd
}

// ContextFiles selects the files of an explicit run.
func ContextFiles(root string, args []string, noGit bool) (taskctx.Files, error) {
	switch {
	case len(args) > 0:
		return taskctx.ExplicitFiles(root, args)
	case noGit:
		return taskctx.WalkFiles(root, false)
	default:
		return taskctx.TrackedFiles(root)
	}
}
