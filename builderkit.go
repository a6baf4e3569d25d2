// Package builderkit generates HTML and CSS snippets for common UI
// components from editable, schema-checked configurations.
//
// Each builder kind (navbar, table, form, card, layout) declares a field
// schema in pkg/builders and a pair of templates in pkg/renderers/skeleton.
// A shell (pkg/shell) owns one config, re-renders it after every accepted
// edit and handles preview and export. The helpers here wire the default
// catalog and renderers together.
package builderkit

import (
	"context"
	"fmt"
	"io/fs"
	"sync"
	"time"

	internalParser "github.com/goliatone/go-builderkit/internal/openapi/parser"
	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	pkgopenapi "github.com/goliatone/go-builderkit/pkg/openapi"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/renderers/skeleton"
	"github.com/goliatone/go-builderkit/pkg/shell"
	"github.com/goliatone/go-builderkit/pkg/source"
)

var (
	registryOnce sync.Once
	registry     *render.Registry
	registryErr  error
)

// Registry returns the skeleton renderers for the default catalog.
func Registry() (*render.Registry, error) {
	registryOnce.Do(func() {
		registry, registryErr = skeleton.NewRegistry(builders.Default())
	})
	return registry, registryErr
}

// NewShell opens an editing shell for the named kind with default renderers.
func NewShell(kind string, options ...shell.Option) (*shell.Shell, error) {
	k, err := builders.Default().Lookup(kind)
	if err != nil {
		return nil, err
	}
	reg, err := Registry()
	if err != nil {
		return nil, err
	}
	renderer, err := reg.Get(k.Name)
	if err != nil {
		return nil, err
	}
	return shell.New(k, renderer, options...)
}

// Render renders cfg with the default renderer for its kind.
func Render(ctx context.Context, cfg model.Config) (render.Output, error) {
	reg, err := Registry()
	if err != nil {
		return render.Output{}, err
	}
	return reg.Render(ctx, cfg)
}

// RenderDefaults renders the default config of the named kind.
func RenderDefaults(ctx context.Context, kind string) (render.Output, error) {
	k, err := builders.Default().Lookup(kind)
	if err != nil {
		return render.Output{}, err
	}
	return Render(ctx, k.New())
}

// NewParser constructs an OpenAPI parser backed by the internal kin-openapi
// implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// NewImporter returns an importer that turns OpenAPI request bodies into
// form builder fields.
func NewImporter(loader *source.Loader, options ...pkgopenapi.ParserOption) (*pkgopenapi.Importer, error) {
	if loader == nil {
		loader = source.NewLoader()
	}
	return pkgopenapi.NewImporter(loader, NewParser(options...))
}

// ImportForm loads the OpenAPI document at location and returns a form config
// whose fields mirror the request body of operationID. An empty operationID
// picks the first operation that has fields.
func ImportForm(ctx context.Context, location, operationID string) (model.Config, error) {
	src, err := source.Parse(location)
	if err != nil {
		return model.Config{}, err
	}
	importer, err := NewImporter(source.NewLoader(source.WithHTTPFallback(30*time.Second)))
	if err != nil {
		return model.Config{}, err
	}
	patch, err := importer.Import(ctx, src, operationID)
	if err != nil {
		return model.Config{}, fmt.Errorf("builderkit: import %s: %w", location, err)
	}
	return patch.Apply(builders.Form().New())
}

// EmbeddedTemplates exposes the built-in templates so callers can copy or
// override them with skeleton.WithTemplatesDir.
func EmbeddedTemplates() fs.FS {
	return skeleton.TemplatesFS()
}
