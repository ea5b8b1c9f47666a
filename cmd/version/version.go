// Package version provides the version command for the sheetkit CLI.
package version

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetkit/internal/update"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewCommand returns the version subcommand.
func NewCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the sheetkit version",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "sheetkit %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if !check {
				return nil
			}
			release, err := (&update.Checker{}).CheckLatest(cmd.Context(), Version)
			if err != nil {
				return err
			}
			if release == nil {
				color.New(color.FgGreen).Fprintf(w, "sheetkit %s is up to date.\n", Version)
				return nil
			}
			fmt.Fprint(w, "\n"+update.FormatNotice(Version, release))
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check GitHub for a newer release")
	return cmd
}
