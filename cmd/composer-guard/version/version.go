package version

import (
	"fmt"
	"runtime"
	"time"

	"github.com/flarebyte/composer-guard/cmd/composer-guard/app"
	"github.com/flarebyte/composer-guard/internal/buildinfo"
	"github.com/spf13/cobra"
)

// NewCmd creates `composer-guard version`.
func NewCmd(opts *app.Options) *cobra.Command {
	var flagShort, flagJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagShort {
				_, err := fmt.Fprintln(opts.Stdout, buildinfo.Summary())
				return err
			}
			if !flagJSON {
				_, err := fmt.Fprintf(opts.Stdout, "composer-guard %s\n", buildinfo.Summary())
				return err
			}
			out := map[string]any{
				"version":   buildinfo.Summary(),
				"commit":    buildinfo.Commit,
				"date":      buildinfo.Date,
				"built_by":  buildinfo.BuiltBy,
				"go":        runtime.Version(),
				"go_os":     runtime.GOOS,
				"go_arch":   runtime.GOARCH,
				"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			}
			return app.EncodeJSON(opts.Stdout, out)
		},
	}
	cmd.Flags().BoolVar(&flagShort, "short", false, "Print only the version string")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Print detailed JSON version info")
	return cmd
}
