// Package shell provides the "sheetkit shell" interactive design explorer.
package shell

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	shellpkg "github.com/klytics/sheetkit/internal/shell"
)

// NewCommand creates the "shell" command. newRoot builds a fresh command
// tree for lines the explorer passes through to the CLI.
func NewCommand(newRoot func() *cobra.Command) *cobra.Command {
	var evalCmd string

	cmd := &cobra.Command{
		Use:   "shell [design]",
		Short: "Explore and tweak a design interactively",
		Long: `Start an interactive explorer with tab completion and history.

Open a design, list its sheets and styles, resolve style chains, patch
styles with JSON options, validate, render, and save the design back.
Any other line runs as a sheetkit command, e.g. 'inspect out.xlsx'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shellpkg.DefaultRunner = func(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
				root := newRoot()
				root.SetArgs(argv)
				root.SetOut(stdout)
				root.SetErr(stderr)
				return root.ExecuteContext(ctx)
			}

			session, err := shellpkg.NewSession()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := session.Open(args[0]); err != nil {
					return err
				}
			}
			if evalCmd != "" {
				output, err := session.Eval(cmd.Context(), evalCmd)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), output)
				return nil
			}
			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&evalCmd, "eval", "", "Run a single command and exit")
	return cmd
}
