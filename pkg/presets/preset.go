package presets

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/source"
)

// Preset is a named set of field values for one kind.
type Preset struct {
	Kind        string                      `yaml:"kind" json:"kind" validate:"required,builder_kind"`
	Name        string                      `yaml:"name" json:"name" validate:"required,max=64"`
	Description string                      `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      map[string]any              `yaml:"fields,omitempty" json:"fields,omitempty"`
	Items       map[string][]map[string]any `yaml:"items,omitempty" json:"items,omitempty" validate:"omitempty,dive,dive,min=1"`
	Location    string                      `yaml:"-" json:"-"`
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("builder_kind", func(fl validator.FieldLevel) bool {
			return slices.Contains(builders.Default().Names(), fl.Field().String())
		})
		validateInst = v
	})
	return validateInst
}

// Parse decodes and validates a preset document. location is used in errors.
func Parse(data []byte, location string) (Preset, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Preset{}, fmt.Errorf("%w: %s is empty", ErrInvalidPreset, location)
	}
	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return Preset{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidPreset, location, err)
	}
	preset.Kind = strings.TrimSpace(preset.Kind)
	preset.Name = strings.TrimSpace(preset.Name)
	preset.Location = location
	if err := preset.Validate(); err != nil {
		return Preset{}, err
	}
	return preset, nil
}

// Validate checks the document shape. Field values are checked on Apply.
func (p Preset) Validate() error {
	if err := validatorInstance().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s: %s", ErrInvalidPreset, p.Location, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidPreset, p.Location, err)
	}
	return nil
}

// Load fetches and parses a preset through loader.
func Load(ctx context.Context, loader *source.Loader, src source.Source) (Preset, error) {
	data, err := loader.Load(ctx, src)
	if err != nil {
		return Preset{}, err
	}
	return Parse(data, src.Location())
}

// Apply returns cfg with every preset value set. Scalars are applied in
// schema order so list drivers land before the lists they size; each list in
// Items replaces the list wholesale. The first rejected value aborts Apply
// and cfg is returned unchanged.
func (p Preset) Apply(cfg model.Config) (model.Config, error) {
	if cfg.Kind() != p.Kind {
		return cfg, fmt.Errorf("%w: preset %q is for %q, config is %q", ErrKindMismatch, p.Name, p.Kind, cfg.Kind())
	}
	schema := cfg.Schema()
	for _, name := range sortedKeys(p.Fields) {
		if _, ok := schema.Field(name); !ok {
			return cfg, fmt.Errorf("presets: %s: %w", p.Name, unknown(cfg, name))
		}
	}
	for _, name := range sortedKeys(p.Items) {
		if spec, ok := schema.Field(name); !ok || spec.List == nil {
			return cfg, fmt.Errorf("presets: %s: %w", p.Name, unknown(cfg, name))
		}
	}

	next := cfg
	var err error
	for _, spec := range schema.Fields {
		raw, ok := p.Fields[spec.Name]
		if !ok {
			continue
		}
		if next, err = next.SetString(spec.Name, scalar(raw)); err != nil {
			return cfg, fmt.Errorf("presets: %s: %w", p.Name, err)
		}
	}
	for _, spec := range schema.Fields {
		items, ok := p.Items[spec.Name]
		if !ok {
			continue
		}
		if next, err = applyList(next, spec, items); err != nil {
			return cfg, fmt.Errorf("presets: %s: %w", p.Name, err)
		}
	}
	return next, nil
}

func applyList(cfg model.Config, spec model.FieldSpec, items []map[string]any) (model.Config, error) {
	next := cfg
	if spec.List.SizedBy == "" {
		seeds := make([]model.Record, len(items))
		for i := range items {
			seeds[i] = spec.List.NewItem(i + 1)
		}
		var err error
		if next, err = next.Set(spec.Name, model.List{Items: seeds}); err != nil {
			return cfg, err
		}
	}
	for index, item := range items {
		for _, sub := range sortedKeys(item) {
			var err error
			if next, err = next.SetItemString(spec.Name, index, sub, scalar(item[sub])); err != nil {
				return cfg, err
			}
		}
	}
	return next, nil
}

// unknown produces the model's own unknown-field error for name.
func unknown(cfg model.Config, name string) error {
	_, err := cfg.Get(name)
	if err == nil {
		err = fmt.Errorf("%w: %s is not a list", model.ErrInvalidValue, name)
	}
	return err
}

func scalar(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return model.FormatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
