package root

import (
	"context"

	"github.com/flarebyte/composer-guard/cmd/composer-guard/app"
	"github.com/flarebyte/composer-guard/cmd/composer-guard/diagnose"
	"github.com/flarebyte/composer-guard/cmd/composer-guard/precommit"
	"github.com/flarebyte/composer-guard/cmd/composer-guard/run"
	"github.com/flarebyte/composer-guard/cmd/composer-guard/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for composer-guard.
func NewRootCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "composer-guard",
		Short: "Validate composer.json with composer validate from git hooks and CI",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (.yaml, .yml or .cue); defaults to composer-guard.yaml in the project root")
	pf.StringVar(&opts.Root, "root", ".", "Project directory")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.BoolVar(&opts.Verbose, "verbose", false, "Debug logging; overrides --log-level")
	pf.BoolVar(&opts.Quiet, "quiet", false, "Log errors only; overrides --verbose and --log-level")

	cmd.AddCommand(version.NewCmd(opts))
	cmd.AddCommand(run.NewCmd(opts))
	cmd.AddCommand(precommit.NewCmd(opts))
	cmd.AddCommand(diagnose.NewCmd(opts))

	return cmd
}

// Execute runs the root command with provided args.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd(app.NewOptions())
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
