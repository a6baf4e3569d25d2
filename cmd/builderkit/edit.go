package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/goliatone/go-builderkit/pkg/export"
	"github.com/goliatone/go-builderkit/pkg/prompt"
	"github.com/goliatone/go-builderkit/pkg/shell"
)

var errNotInteractive = errors.New("edit needs an interactive terminal; use render instead")

func newEditCmd(root *rootFlags) *cobra.Command {
	opts := buildOptions{}
	var outDir string

	cmd := &cobra.Command{
		Use:   "edit <kind>",
		Short: "Edit a builder kind interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errNotInteractive
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app, err := loadApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = app.cfg.Export.Dir
			}

			driver := prompt.NewSurveyDriver(cmd.OutOrStdout())
			s, err := app.buildShell(ctx, args[0], opts,
				shell.WithSink(export.DirSink{Dir: outDir}),
				shell.WithNotifier(prompt.Notifier(ctx, driver)),
			)
			if err != nil {
				return err
			}
			session, err := prompt.NewSession(s, prompt.WithDriver(driver), prompt.WithLogger(app.logger))
			if err != nil {
				return err
			}
			if err := session.Run(ctx); err != nil && !errors.Is(err, prompt.ErrAborted) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "bye")
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory downloads are saved to (defaults to export.dir)")
	return cmd
}
