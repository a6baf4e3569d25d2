package themes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/source"
)

var (
	// ErrThemeNotFound is returned when a theme or variant is not registered.
	ErrThemeNotFound = errors.New("themes: theme not found")
	// ErrInvalidManifest is returned for manifests that fail to parse.
	ErrInvalidManifest = errors.New("themes: invalid manifest")
)

type registrar interface {
	Register(*theme.Manifest) error
}

// Catalog holds themes and resolves selections. It satisfies
// theme.ThemeSelector.
type Catalog struct {
	mu        sync.RWMutex
	registry  registrar
	manifests map[string]*theme.Manifest
}

var _ theme.ThemeSelector = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		registry:  theme.NewRegistry(),
		manifests: make(map[string]*theme.Manifest),
	}
}

// Register adds a manifest. Names are unique.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.manifests[manifest.Name]; exists {
		return fmt.Errorf("themes: duplicate theme %q", manifest.Name)
	}
	if err := c.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", manifest.Name, err)
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// MustRegister panics when Register fails.
func (c *Catalog) MustRegister(manifest *theme.Manifest) {
	if err := c.Register(manifest); err != nil {
		panic(err)
	}
}

// Names lists registered themes, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variants lists the variants of a theme, sorted.
func (c *Catalog) Variants(name string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	manifest, ok := c.manifests[name]
	if !ok {
		return nil
	}
	variants := make([]string, 0, len(manifest.Variants))
	for variant := range manifest.Variants {
		variants = append(variants, variant)
	}
	sort.Strings(variants)
	return variants
}

// Select resolves a theme and optional variant.
func (c *Catalog) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q has no variant %q", ErrThemeNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Palette is a resolved set of colour tokens ready to apply to a config.
type Palette struct {
	Theme   string            `json:"theme"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens"`
}

// PaletteFrom merges base and variant tokens of a selection.
func PaletteFrom(selection *theme.Selection) Palette {
	palette := Palette{Tokens: make(map[string]string)}
	if selection == nil || selection.Manifest == nil {
		return palette
	}
	palette.Theme = selection.Theme
	palette.Variant = selection.Variant
	for key, value := range selection.Manifest.Tokens {
		palette.Tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			palette.Tokens[key] = value
		}
	}
	return palette
}

// Resolve selects a theme and returns its palette.
func (c *Catalog) Resolve(name, variant string) (Palette, error) {
	selection, err := c.Select(name, variant)
	if err != nil {
		return Palette{}, err
	}
	return PaletteFrom(selection), nil
}

// Apply sets every colour field of cfg that has a matching token. Tokens
// without a matching colour field are ignored. A malformed token aborts and
// cfg is returned unchanged.
func (p Palette) Apply(cfg model.Config) (model.Config, error) {
	schema := cfg.Schema()
	if schema == nil {
		return cfg, fmt.Errorf("themes: %w", model.ErrUnknownField)
	}
	next := cfg
	for _, spec := range schema.Fields {
		if spec.Type() != model.FieldTypeColor {
			continue
		}
		token, ok := p.Tokens[spec.Name]
		if !ok {
			continue
		}
		var err error
		if next, err = next.SetString(spec.Name, token); err != nil {
			return cfg, fmt.Errorf("themes: %s: %w", p.Theme, err)
		}
	}
	return next, nil
}

type manifestFile struct {
	Name     string                       `yaml:"name"`
	Version  string                       `yaml:"version"`
	Tokens   map[string]string            `yaml:"tokens"`
	Variants map[string]map[string]string `yaml:"variants"`
}

// ParseManifest decodes a YAML theme document:
//
//	name: ocean
//	version: 1.0.0
//	tokens: {bgColor: "#e0f2fe"}
//	variants:
//	  dark: {bgColor: "#0c4a6e"}
func ParseManifest(data []byte, location string) (*theme.Manifest, error) {
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidManifest, location, err)
	}
	file.Name = strings.TrimSpace(file.Name)
	if file.Name == "" {
		return nil, fmt.Errorf("%w: %s: name is required", ErrInvalidManifest, location)
	}
	if file.Version == "" {
		file.Version = "1.0.0"
	}
	manifest := &theme.Manifest{
		Name:     file.Name,
		Version:  file.Version,
		Tokens:   file.Tokens,
		Variants: make(map[string]theme.Variant, len(file.Variants)),
	}
	for name, tokens := range file.Variants {
		manifest.Variants[name] = theme.Variant{Tokens: tokens}
	}
	return manifest, nil
}

// LoadManifest fetches and parses a theme document through loader.
func LoadManifest(ctx context.Context, loader *source.Loader, src source.Source) (*theme.Manifest, error) {
	data, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data, src.Location())
}
