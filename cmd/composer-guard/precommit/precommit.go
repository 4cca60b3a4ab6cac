package precommit

import (
	"github.com/flarebyte/composer-guard/cmd/composer-guard/app"
	"github.com/flarebyte/composer-guard/internal/taskctx"
	"github.com/spf13/cobra"
)

// NewCmd creates `composer-guard git:pre-commit`, meant to be called from a
// git pre-commit hook.
func NewCmd(opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:           "git:pre-commit",
		Short:         "Validate composer.json when it is staged for commit",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := opts.ProjectRoot(true)
			if err != nil {
				return err
			}
			files, err := taskctx.StagedFiles(root)
			if err != nil {
				return app.Classify(err)
			}
			cfg, err := opts.LoadConfig(root)
			if err != nil {
				return app.Classify(err)
			}
			rc := taskctx.NewPreCommitContext(files)
			logger := opts.Logger(rc.Kind())
			return app.Execute(cmd.Context(), opts.NewComposer(cfg, root, logger), rc, logger)
		},
	}
}
