// Package gotemplate implements template.TemplateRenderer with pongo2.
//
// Templates are text/plain skeletons: the engine never escapes, so every
// template wraps its body in {% autoescape off %}. The "anchor" filter turns
// a label into an in-page link target.
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-builderkit/pkg/render/template"
)

const extension = ".tpl"

// Option configures the engine before construction.
type Option func(*Engine)

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// Engine is a pongo2-backed template.TemplateRenderer. Parsed templates are
// cached by path and safe to execute concurrently.
type Engine struct {
	files fs.FS
	set   *pongo2.TemplateSet

	mu    sync.RWMutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

var registerAnchor sync.Once

// New builds an engine; a template filesystem is required.
func New(options ...Option) (*Engine, error) {
	e := &Engine{cache: make(map[string]*pongo2.Template)}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.files == nil {
		return nil, errors.New("gotemplate: a template fs.FS is required")
	}
	e.set = pongo2.NewSet("builderkit", pongo2.NewFSLoader(e.files))
	registerAnchor.Do(func() {
		if !pongo2.FilterExists("anchor") {
			_ = pongo2.RegisterFilter("anchor", filterAnchor)
		}
	})
	return e, nil
}

// RenderTemplate executes the template stored at name, appending ".tpl"
// when it is missing.
func (e *Engine) RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, extension) {
		path += extension
	}
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	rendered, err := execute(tmpl, data, out)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", path, err)
	}
	return rendered, nil
}

// RenderString parses and executes content.
func (e *Engine) RenderString(content string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse inline template: %w", err)
	}
	rendered, err := execute(tmpl, data, out)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute inline template: %w", err)
	}
	return rendered, nil
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

func execute(tmpl *pongo2.Template, data map[string]any, out []io.Writer) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", err
	}
	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

// filterAnchor builds an in-page link target from a label: "About Us"
// becomes "#about us". Only case is changed.
func filterAnchor(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue("#" + strings.ToLower(in.String())), nil
}
