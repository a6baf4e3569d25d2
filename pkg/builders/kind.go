package builders

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-builderkit/pkg/model"
)

// Kind names.
const (
	KindNavbar = "navbar"
	KindTable  = "table"
	KindForm   = "form"
	KindCard   = "card"
	KindLayout = "layout"
)

// ErrUnknownKind is returned when a kind name is not registered.
var ErrUnknownKind = errors.New("builders: unknown kind")

// Kind binds a schema to the skeleton templates that render it.
type Kind struct {
	Name   string
	Schema *model.Schema
	// Skeleton returns the template base name for cfg, e.g. "navbar" or
	// "layout/grid". Renderers append the format suffix.
	Skeleton func(cfg model.Config) string
	// View maps cfg onto the values the skeleton interpolates. Values are
	// strings, booleans or lists of those so templates never format numbers.
	View func(cfg model.Config) map[string]any
}

// New returns a config holding the kind's defaults.
func (k Kind) New() model.Config {
	return k.Schema.MustNew()
}

// FontFamilies are the font stacks offered by every kind.
var FontFamilies = []string{
	"Arial, sans-serif",
	"'Helvetica Neue', sans-serif",
	"'Times New Roman', serif",
	"Georgia, serif",
	"'Courier New', monospace",
	"Verdana, sans-serif",
}

func fontField() model.FieldSpec {
	return model.FieldSpec{
		Name:    "fontFamily",
		Label:   "Font Family",
		Default: model.Enum{Value: FontFamilies[0], Allowed: FontFamilies},
	}
}

func colorField(name, label, def string) model.FieldSpec {
	return model.FieldSpec{Name: name, Label: label, Default: model.Color{Value: def}}
}

// Catalog is the set of known kinds keyed by name.
type Catalog struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{kinds: make(map[string]Kind)}
}

// Register validates the kind's schema and adds it.
func (c *Catalog) Register(kind Kind) error {
	if kind.Name == "" {
		return errors.New("builders: kind name is required")
	}
	if kind.Skeleton == nil || kind.View == nil {
		return fmt.Errorf("builders: kind %q needs a skeleton and a view", kind.Name)
	}
	if err := kind.Schema.Validate(); err != nil {
		return fmt.Errorf("builders: kind %q: %w", kind.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.kinds[kind.Name]; exists {
		return fmt.Errorf("builders: kind %q already registered", kind.Name)
	}
	c.kinds[kind.Name] = kind
	return nil
}

// MustRegister panics on registration failure.
func (c *Catalog) MustRegister(kind Kind) {
	if err := c.Register(kind); err != nil {
		panic(err)
	}
}

// Lookup returns the kind registered under name.
func (c *Catalog) Lookup(name string) (Kind, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	kind, ok := c.kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return kind, nil
}

// Names returns the registered kind names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns every registered kind sorted by name.
func (c *Catalog) Kinds() []Kind {
	names := c.Names()
	out := make([]Kind, 0, len(names))
	for _, name := range names {
		kind, _ := c.Lookup(name)
		out = append(out, kind)
	}
	return out
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog of built-in kinds.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewCatalog()
		defaultCatalog.MustRegister(Navbar())
		defaultCatalog.MustRegister(Table())
		defaultCatalog.MustRegister(Form())
		defaultCatalog.MustRegister(Card())
		defaultCatalog.MustRegister(Layout())
	})
	return defaultCatalog
}

func labels(records []model.Record, sub string) []string {
	out := make([]string, len(records))
	for i, record := range records {
		out[i] = record.Value(sub)
	}
	return out
}

func sequence(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprint(i + 1)
	}
	return out
}
