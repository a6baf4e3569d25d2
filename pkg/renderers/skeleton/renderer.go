package skeleton

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/render"
	rendertemplate "github.com/goliatone/go-builderkit/pkg/render/template"
	gotemplate "github.com/goliatone/go-builderkit/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must hold "{kind}.html.tpl" and "{kind}.css.tpl" for every skeleton.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer renders one builder kind by executing its skeleton templates with
// the kind's view data.
type Renderer struct {
	kind      builders.Kind
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer for kind applying any provided options.
func New(kind builders.Kind, options ...Option) (*Renderer, error) {
	if kind.Name == "" || kind.Skeleton == nil || kind.View == nil {
		return nil, fmt.Errorf("skeleton renderer: kind %q is incomplete", kind.Name)
	}
	templates, err := newTemplates(options)
	if err != nil {
		return nil, err
	}
	return &Renderer{kind: kind, templates: templates}, nil
}

// NewRegistry registers a renderer for every kind in catalog, sharing one
// template engine.
func NewRegistry(catalog *builders.Catalog, options ...Option) (*render.Registry, error) {
	templates, err := newTemplates(options)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	for _, kind := range catalog.Kinds() {
		renderer, err := New(kind, WithTemplateRenderer(templates))
		if err != nil {
			return nil, err
		}
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func newTemplates(options []Option) (rendertemplate.TemplateRenderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateRenderer != nil {
		return cfg.templateRenderer, nil
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
	if err != nil {
		return nil, fmt.Errorf("skeleton renderer: configure template renderer: %w", err)
	}
	return engine, nil
}

// Name reports the kind this renderer handles.
func (r *Renderer) Name() string {
	return r.kind.Name
}

// Render interpolates cfg into the kind's markup and stylesheet skeletons.
func (r *Renderer) Render(ctx context.Context, cfg model.Config) (render.Output, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return render.Output{}, err
		}
	}
	if r.templates == nil {
		return render.Output{}, fmt.Errorf("skeleton renderer: template renderer is nil")
	}
	if cfg.Kind() != r.kind.Name {
		return render.Output{}, render.KindMismatch(r.kind.Name, cfg.Kind())
	}

	base := r.kind.Skeleton(cfg)
	view := r.kind.View(cfg)

	html, err := r.templates.RenderTemplate(base+".html", view)
	if err != nil {
		return render.Output{}, fmt.Errorf("skeleton renderer: render %s markup: %w", base, err)
	}
	css, err := r.templates.RenderTemplate(base+".css", view)
	if err != nil {
		return render.Output{}, fmt.Errorf("skeleton renderer: render %s stylesheet: %w", base, err)
	}
	return render.Output{
		HTML: strings.TrimSpace(html),
		CSS:  strings.TrimSpace(css),
	}, nil
}
