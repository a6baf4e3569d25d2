package render

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-builderkit/pkg/model"
)

// Registry stores one renderer per builder kind, keyed by Name().
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}

	r.renderers[name] = renderer
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// Missing returns the kinds among names that have no renderer, in order.
func (r *Registry) Missing(names ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var missing []string
	for _, name := range names {
		if _, ok := r.renderers[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render dispatches cfg to the renderer registered for its kind.
func (r *Registry) Render(ctx context.Context, cfg model.Config) (Output, error) {
	renderer, err := r.Get(cfg.Kind())
	if err != nil {
		return Output{}, err
	}
	return renderer.Render(ctx, cfg)
}
