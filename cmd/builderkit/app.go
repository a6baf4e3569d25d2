package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goliatone/go-builderkit/internal/appconfig"
	"github.com/goliatone/go-builderkit/internal/logging"
	"github.com/goliatone/go-builderkit/pkg/presets"
	"github.com/goliatone/go-builderkit/pkg/source"
	"github.com/goliatone/go-builderkit/pkg/themes"
)

// appContext bundles the services a command needs.
type appContext struct {
	cfg     appconfig.Config
	logger  *logging.Logger
	presets *presets.Store
	themes  *themes.Catalog
	loader  *source.Loader
}

func loadApp(ctx context.Context, flags *rootFlags, logOut io.Writer) (*appContext, error) {
	cfg, err := appconfig.Load(flags.configPath, nil)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, HumanReadable: cfg.Log.Human, Writer: logOut})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store := presets.NewStore()
	if cfg.Presets.Dir != "" {
		store, err = presets.LoadFS(os.DirFS(cfg.Presets.Dir))
		if err != nil {
			return nil, err
		}
	}

	loader := source.NewLoader(source.WithHTTPFallback(30*time.Second))
	catalog := themes.Builtin()
	for _, location := range cfg.Themes.Files {
		src, err := source.Parse(location)
		if err != nil {
			return nil, err
		}
		manifest, err := themes.LoadManifest(ctx, loader, src)
		if err != nil {
			return nil, err
		}
		if err := catalog.Register(manifest); err != nil {
			return nil, err
		}
	}

	logger.With("presets", cfg.Presets.Dir).With("themes", len(catalog.Names())).Debug("configuration loaded")
	return &appContext{cfg: cfg, logger: logger, presets: store, themes: catalog, loader: loader}, nil
}

// addPresetFile registers a preset document given on the command line.
func (a *appContext) addPresetFile(ctx context.Context, location string) (presets.Preset, error) {
	src, err := source.Parse(location)
	if err != nil {
		return presets.Preset{}, err
	}
	preset, err := presets.Load(ctx, a.loader, src)
	if err != nil {
		return presets.Preset{}, err
	}
	return preset, a.presets.Put(preset)
}
