package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-builderkit"
	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/preview"
	"github.com/goliatone/go-builderkit/pkg/server"
)

type serveOptions struct {
	Addr     string
	Sanitize bool
	NoWatch  bool
}

func newServeCmd(root *rootFlags) *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser builder",
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := loadApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			addr := app.cfg.Server.Addr
			if opts.Addr != "" {
				addr = opts.Addr
			}

			var sandboxOpts []preview.Option
			if app.cfg.Server.SanitizePreview || opts.Sanitize {
				sandboxOpts = append(sandboxOpts, preview.WithSanitizer())
			}
			registry, err := builderkit.Registry()
			if err != nil {
				return err
			}
			serverOpts := []server.Option{
				server.WithLogger(app.logger),
				server.WithPresets(app.presets),
				server.WithThemes(app.themes),
				server.WithSandbox(preview.New(sandboxOpts...)),
				server.WithShutdownTimeout(app.cfg.Server.ShutdownTimeout),
			}
			if app.cfg.Presets.Dir != "" && !opts.NoWatch {
				serverOpts = append(serverOpts, server.WithPresetWatch(app.cfg.Presets.Dir, app.cfg.Server.WatchDebounce))
			}

			srv, err := server.New(builders.Default(), registry, serverOpts...)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&opts.Sanitize, "sanitize", false, "Sanitize preview documents")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Do not reload presets when their files change")
	return cmd
}
