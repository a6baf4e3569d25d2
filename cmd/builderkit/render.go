package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-builderkit"
	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/export"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/shell"
)

// buildOptions selects and edits the starting config of a shell.
type buildOptions struct {
	Preset    string
	Theme     string
	Variant   string
	Sets      []string
	Items     []string
	OpenAPI   string
	Operation string
}

func (o *buildOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Preset, "preset", "", "Preset name, or path/URL of a preset document")
	cmd.Flags().StringVar(&o.Theme, "theme", "", "Theme applied to the colour fields")
	cmd.Flags().StringVar(&o.Variant, "variant", "", "Theme variant")
	cmd.Flags().StringArrayVar(&o.Sets, "set", nil, "Field assignment name=value (repeatable)")
	cmd.Flags().StringArrayVar(&o.Items, "item", nil, "List item assignment list.index.field=value (repeatable)")
	cmd.Flags().StringVar(&o.OpenAPI, "openapi", "", "OpenAPI document whose request body seeds a form")
	cmd.Flags().StringVar(&o.Operation, "operation", "", "OpenAPI operation id used with --openapi")
}

type renderOptions struct {
	build  buildOptions
	Format string
	OutDir string
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <kind>",
		Short: "Render a builder kind to HTML and CSS",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app, err := loadApp(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			s, err := app.buildShell(ctx, args[0], opts.build)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), s, opts)
		},
	}

	opts.build.register(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output only html or css")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "Write {kind}.html and {kind}.css into this directory")
	return cmd
}

func writeOutput(w io.Writer, s *shell.Shell, opts renderOptions) error {
	formats := []render.Format{render.FormatHTML, render.FormatCSS}
	if opts.Format != "" {
		format, err := render.ParseFormat(opts.Format)
		if err != nil {
			return err
		}
		formats = []render.Format{format}
	}

	out := s.Output()
	if opts.OutDir != "" {
		sink := export.DirSink{Dir: opts.OutDir}
		for _, format := range formats {
			filename := export.Filename(s.Kind().Name, format)
			if err := export.Download(sink, filename, out.Text(format)); err != nil {
				return err
			}
			fmt.Fprintf(w, "wrote %s\n", filename)
		}
		return nil
	}
	for i, format := range formats {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, out.Text(format))
	}
	return nil
}

// buildShell opens a shell for kind and applies, in order, the OpenAPI
// import, the preset, the theme, and the field and item assignments.
func (a *appContext) buildShell(ctx context.Context, kind string, opts buildOptions, options ...shell.Option) (*shell.Shell, error) {
	options = append([]shell.Option{shell.WithLogger(a.logger)}, options...)
	if opts.OpenAPI != "" {
		if kind != builders.KindForm {
			return nil, fmt.Errorf("--openapi only applies to the %s kind", builders.KindForm)
		}
		cfg, err := builderkit.ImportForm(ctx, opts.OpenAPI, opts.Operation)
		if err != nil {
			return nil, err
		}
		options = append(options, shell.WithConfig(cfg))
	}

	s, err := builderkit.NewShell(kind, options...)
	if err != nil {
		return nil, err
	}

	if opts.Preset != "" {
		preset, err := a.presets.Lookup(kind, opts.Preset)
		if err != nil && looksLikeDocument(opts.Preset) {
			preset, err = a.addPresetFile(ctx, opts.Preset)
		}
		if err != nil {
			return nil, err
		}
		if err := s.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	if opts.Theme != "" {
		palette, err := a.themes.Resolve(opts.Theme, opts.Variant)
		if err != nil {
			return nil, err
		}
		if err := s.ApplyTheme(palette); err != nil {
			return nil, err
		}
	}
	for _, assignment := range opts.Sets {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want name=value", assignment)
		}
		if err := s.SetString(strings.TrimSpace(name), value); err != nil {
			return nil, err
		}
	}
	for _, assignment := range opts.Items {
		list, index, sub, value, err := parseItemAssignment(assignment)
		if err != nil {
			return nil, err
		}
		if err := s.SetItemString(list, index, sub, value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func parseItemAssignment(raw string) (string, int, string, string, error) {
	path, value, ok := strings.Cut(raw, "=")
	if !ok {
		return "", 0, "", "", fmt.Errorf("--item %q: want list.index.field=value", raw)
	}
	parts := strings.Split(strings.TrimSpace(path), ".")
	if len(parts) != 3 {
		return "", 0, "", "", fmt.Errorf("--item %q: want list.index.field=value", raw)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", "", fmt.Errorf("--item %q: index %q is not an integer", raw, parts[1])
	}
	return parts[0], index, parts[2], value, nil
}

func looksLikeDocument(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.Contains(lower, "://")
}
