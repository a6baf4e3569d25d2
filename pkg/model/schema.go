package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Condition limits a field to configs where another enum field holds one of
// Values. Builder shells use it to hide fields that do not apply.
type Condition struct {
	Field  string
	Values []string
}

// ListSpec describes the records of a List field.
type ListSpec struct {
	// Item declares the nested fields of every record, in order.
	Item []FieldSpec
	// MinItems is the floor RemoveListItem refuses to cross.
	MinItems int
	// SizedBy names a Number field that drives the list length. Sized lists
	// cannot be grown or shrunk one item at a time.
	SizedBy string
	// NewItem seeds the record appended at 1-based position n.
	NewItem func(n int) Record
}

// FieldSpec declares one configurable field.
type FieldSpec struct {
	Name    string
	Label   string
	Help    string
	Unit    string
	Default FieldValue
	List    *ListSpec
	When    *Condition
}

// Type returns the variant declared by the default value.
func (f FieldSpec) Type() FieldType {
	if f.Default == nil {
		return ""
	}
	return f.Default.Type()
}

// AppliesTo reports whether the field is relevant for cfg. Fields without a
// condition always apply.
func (f FieldSpec) AppliesTo(cfg Config) bool {
	if f.When == nil {
		return true
	}
	value, idx := cfg.lookup(f.When.Field)
	if idx < 0 {
		return false
	}
	for _, allowed := range f.When.Values {
		if value.String() == allowed {
			return true
		}
	}
	return false
}

// Schema is the ordered field declaration of one builder kind.
type Schema struct {
	Kind   string
	Title  string
	Fields []FieldSpec
}

// Field returns the spec for name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSpec{}, false
}

// Validate checks the schema is fully initialised: every field has a default
// that satisfies its own constraints, list defaults respect their floor and
// sized lists match their driver.
func (s *Schema) Validate() error {
	if s == nil {
		return errors.New("model: schema is nil")
	}
	if strings.TrimSpace(s.Kind) == "" {
		return errors.New("model: schema kind is required")
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, field := range s.Fields {
		if err := validateSpec(field); err != nil {
			return fmt.Errorf("model: schema %q: %w", s.Kind, err)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("model: schema %q: duplicate field %q", s.Kind, field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	for _, field := range s.Fields {
		if field.List == nil || field.List.SizedBy == "" {
			continue
		}
		driver, ok := s.Field(field.List.SizedBy)
		if !ok || driver.Type() != FieldTypeNumber {
			return fmt.Errorf("model: schema %q: list %q sized by missing number field %q", s.Kind, field.Name, field.List.SizedBy)
		}
		want := driver.Default.(Number).Int()
		if got := len(field.Default.(List).Items); got != want {
			return fmt.Errorf("model: schema %q: list %q has %d default items, %q is %d", s.Kind, field.Name, got, driver.Name, want)
		}
	}
	for _, field := range s.Fields {
		if field.When == nil {
			continue
		}
		if _, ok := s.Field(field.When.Field); !ok {
			return fmt.Errorf("model: schema %q: field %q depends on unknown field %q", s.Kind, field.Name, field.When.Field)
		}
	}
	return nil
}

func validateSpec(field FieldSpec) error {
	if strings.TrimSpace(field.Name) == "" {
		return errors.New("field name is required")
	}
	if field.Default == nil {
		return fmt.Errorf("field %q has no default", field.Name)
	}
	switch def := field.Default.(type) {
	case Color:
		if _, err := NormalizeColor(def.Value); err != nil {
			return fmt.Errorf("field %q: %w", field.Name, err)
		}
	case Enum:
		if !def.Allows(def.Value) {
			return fmt.Errorf("field %q: default %q not in %v", field.Name, def.Value, def.Allowed)
		}
	case Number:
		if def.Min > def.Max {
			return fmt.Errorf("field %q: min %v above max %v", field.Name, def.Min, def.Max)
		}
		if def.Clamp(def.Value) != def.Value {
			return fmt.Errorf("field %q: default %v outside [%v, %v]", field.Name, def.Value, def.Min, def.Max)
		}
	case List:
		if field.List == nil {
			return fmt.Errorf("field %q: list without item spec", field.Name)
		}
		if field.List.NewItem == nil {
			return fmt.Errorf("field %q: list without item template", field.Name)
		}
		if len(def.Items) < field.List.MinItems {
			return fmt.Errorf("field %q: %d default items below floor %d", field.Name, len(def.Items), field.List.MinItems)
		}
		for _, item := range field.List.Item {
			if err := validateSpec(item); err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
		for i, record := range def.Items {
			if _, err := normalizeRecord(field.List.Item, record); err != nil {
				return fmt.Errorf("field %q item %d: %w", field.Name, i, err)
			}
		}
	}
	return nil
}

// New returns a Config holding every default. It fails only when the schema
// itself is invalid.
func (s *Schema) New() (Config, error) {
	if err := s.Validate(); err != nil {
		return Config{}, err
	}
	fields := make([]Field, len(s.Fields))
	for i, spec := range s.Fields {
		value, err := normalize(spec, cloneValue(spec.Default))
		if err != nil {
			return Config{}, err
		}
		fields[i] = Field{Name: spec.Name, Value: value}
	}
	return Config{schema: s, fieldSet: fieldSet{fields: fields}}, nil
}

// MustNew is New for schemas declared in code.
func (s *Schema) MustNew() Config {
	cfg, err := s.New()
	if err != nil {
		panic(err)
	}
	return cfg
}

// normalize validates proposed against spec and returns the stored form with
// the schema's constraints attached.
func normalize(spec FieldSpec, proposed FieldValue) (FieldValue, error) {
	if proposed == nil {
		return nil, invalidValue(spec.Name, "value is nil")
	}
	if proposed.Type() != spec.Type() {
		return nil, invalidValue(spec.Name, fmt.Sprintf("want %s, got %s", spec.Type(), proposed.Type()))
	}
	switch def := spec.Default.(type) {
	case Text:
		return Text{Value: proposed.(Text).Value}, nil
	case Color:
		value, err := NormalizeColor(proposed.(Color).Value)
		if err != nil {
			return nil, invalidValue(spec.Name, err.Error())
		}
		return Color{Value: value}, nil
	case Enum:
		value := proposed.(Enum).Value
		if !def.Allows(value) {
			return nil, invalidValue(spec.Name, fmt.Sprintf("%q not one of %s", value, strings.Join(def.Allowed, ", ")))
		}
		out := cloneValue(def).(Enum)
		out.Value = value
		return out, nil
	case Number:
		value := proposed.(Number).Value
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, invalidValue(spec.Name, "not a finite number")
		}
		out := def
		out.Value = def.Clamp(value)
		return out, nil
	case Boolean:
		return Boolean{Value: proposed.(Boolean).Value}, nil
	case List:
		items := proposed.(List).Items
		if len(items) < spec.List.MinItems {
			return nil, floorViolation(spec.Name, spec.List.MinItems)
		}
		out := make([]Record, len(items))
		for i, item := range items {
			record, err := normalizeRecord(spec.List.Item, item)
			if err != nil {
				return nil, withPosition(err, spec.Name, i)
			}
			out[i] = record
		}
		return List{Items: out}, nil
	default:
		return nil, invalidValue(spec.Name, fmt.Sprintf("unsupported type %s", spec.Type()))
	}
}

// normalizeRecord rebuilds a record in item-spec order. Every declared item
// field must be present; undeclared ones are rejected.
func normalizeRecord(specs []FieldSpec, record Record) (Record, error) {
	if len(record.fields) != len(specs) {
		for _, field := range record.fields {
			if _, ok := findSpec(specs, field.Name); !ok {
				return Record{}, unknownField(field.Name)
			}
		}
	}
	out := make([]Field, len(specs))
	for i, spec := range specs {
		value, idx := record.lookup(spec.Name)
		if idx < 0 {
			return Record{}, invalidValue(spec.Name, "missing")
		}
		normalized, err := normalize(spec, value)
		if err != nil {
			return Record{}, err
		}
		out[i] = Field{Name: spec.Name, Value: normalized}
	}
	return Record{fieldSet{fields: out}}, nil
}

func findSpec(specs []FieldSpec, name string) (FieldSpec, bool) {
	for _, spec := range specs {
		if spec.Name == name {
			return spec, true
		}
	}
	return FieldSpec{}, false
}
