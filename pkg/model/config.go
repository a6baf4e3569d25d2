package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Config is an immutable snapshot of one builder's fields. The zero value
// has no schema and rejects every operation with ErrUnknownField.
type Config struct {
	schema *Schema
	fieldSet
}

// Kind returns the schema kind, or "" for the zero Config.
func (c Config) Kind() string {
	if c.schema == nil {
		return ""
	}
	return c.schema.Kind
}

// Schema returns the schema the config was created from.
func (c Config) Schema() *Schema {
	return c.schema
}

// Get returns the current value of name.
func (c Config) Get(name string) (FieldValue, error) {
	value, idx := c.lookup(name)
	if idx < 0 {
		return nil, unknownField(name)
	}
	return cloneValue(value), nil
}

// MustGet is Get for names known to be declared.
func (c Config) MustGet(name string) FieldValue {
	value, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return value
}

// Equal reports whether both configs share a kind and hold identical values.
func (c Config) Equal(other Config) bool {
	return c.Kind() == other.Kind() && c.equal(other.fieldSet)
}

// Set validates value against the declared field and returns a config with
// the field replaced. Numbers are clamped; colours and enums that fail
// validation return ErrInvalidValue and the receiver is returned unchanged.
// Setting a number that sizes a list regenerates that list from its seed.
func (c Config) Set(name string, value FieldValue) (Config, error) {
	spec, ok := c.schema.Field(name)
	if !ok {
		return c, unknownField(name)
	}
	if spec.Type() == FieldTypeList && spec.List.SizedBy != "" {
		if items := listLen(value); items != c.Number(spec.List.SizedBy) {
			return c, invalidValue(name, fmt.Sprintf("list is sized by %q", spec.List.SizedBy))
		}
	}
	normalized, err := normalize(spec, value)
	if err != nil {
		return c, err
	}
	next := Config{schema: c.schema, fieldSet: c.with(name, normalized)}
	if spec.Type() == FieldTypeNumber {
		next = next.resizeLists(name)
	}
	return next, nil
}

// SetString parses raw according to the declared variant and calls Set.
// List fields cannot be set from text.
func (c Config) SetString(name, raw string) (Config, error) {
	spec, ok := c.schema.Field(name)
	if !ok {
		return c, unknownField(name)
	}
	value, err := parseValue(spec, raw)
	if err != nil {
		return c, err
	}
	return c.Set(name, value)
}

// SetItem replaces one nested field of the list record at index.
func (c Config) SetItem(name string, index int, sub string, value FieldValue) (Config, error) {
	spec, list, err := c.list(name)
	if err != nil {
		return c, err
	}
	if index < 0 || index >= len(list.Items) {
		return c, &FieldError{Field: name, Index: index, Reason: "index out of range", Err: ErrInvalidValue}
	}
	itemSpec, ok := findSpec(spec.List.Item, sub)
	if !ok {
		return c, &FieldError{Field: name, Index: index, Sub: sub, Err: ErrUnknownField}
	}
	normalized, err := normalize(itemSpec, value)
	if err != nil {
		return c, withPosition(err, name, index)
	}
	items := cloneValue(list).(List).Items
	items[index] = Record{items[index].with(sub, normalized)}
	return Config{schema: c.schema, fieldSet: c.with(name, List{Items: items})}, nil
}

// SetItemString parses raw for the nested field and calls SetItem.
func (c Config) SetItemString(name string, index int, sub, raw string) (Config, error) {
	spec, _, err := c.list(name)
	if err != nil {
		return c, err
	}
	itemSpec, ok := findSpec(spec.List.Item, sub)
	if !ok {
		return c, &FieldError{Field: name, Index: index, Sub: sub, Err: ErrUnknownField}
	}
	value, err := parseValue(itemSpec, raw)
	if err != nil {
		return c, withPosition(err, name, index)
	}
	return c.SetItem(name, index, sub, value)
}

// AddListItem appends the schema's seed record for position len+1.
func (c Config) AddListItem(name string) (Config, error) {
	spec, list, err := c.list(name)
	if err != nil {
		return c, err
	}
	if spec.List.SizedBy != "" {
		return c, invalidValue(name, fmt.Sprintf("list is sized by %q", spec.List.SizedBy))
	}
	record, err := normalizeRecord(spec.List.Item, spec.List.NewItem(len(list.Items)+1))
	if err != nil {
		return c, withPosition(err, name, len(list.Items))
	}
	items := append(cloneValue(list).(List).Items, record)
	return Config{schema: c.schema, fieldSet: c.with(name, List{Items: items})}, nil
}

// RemoveListItem drops the record at index. Removing below the list floor,
// or from a sized list, returns ErrFloorViolation and the receiver.
func (c Config) RemoveListItem(name string, index int) (Config, error) {
	spec, list, err := c.list(name)
	if err != nil {
		return c, err
	}
	if spec.List.SizedBy != "" {
		return c, floorViolation(name, len(list.Items))
	}
	if len(list.Items)-1 < spec.List.MinItems {
		return c, floorViolation(name, spec.List.MinItems)
	}
	if index < 0 || index >= len(list.Items) {
		return c, &FieldError{Field: name, Index: index, Reason: "index out of range", Err: ErrInvalidValue}
	}
	items := cloneValue(list).(List).Items
	items = append(items[:index], items[index+1:]...)
	return Config{schema: c.schema, fieldSet: c.with(name, List{Items: items})}, nil
}

// CanRemove reports whether RemoveListItem would succeed for some index of
// name. Shells use it to disable the remove affordance at the floor.
func (c Config) CanRemove(name string) bool {
	spec, list, err := c.list(name)
	if err != nil {
		return false
	}
	return spec.List.SizedBy == "" && len(list.Items) > spec.List.MinItems
}

// CanAdd reports whether AddListItem is available for name.
func (c Config) CanAdd(name string) bool {
	spec, _, err := c.list(name)
	return err == nil && spec.List.SizedBy == ""
}

func (c Config) list(name string) (FieldSpec, List, error) {
	spec, ok := c.schema.Field(name)
	if !ok {
		return FieldSpec{}, List{}, unknownField(name)
	}
	value, idx := c.lookup(name)
	list, isList := value.(List)
	if idx < 0 || !isList || spec.List == nil {
		return FieldSpec{}, List{}, invalidValue(name, "not a list")
	}
	return spec, list, nil
}

// resizeLists regenerates every list sized by driver from its seed, so the
// list content depends only on the last value written to the driver.
func (c Config) resizeLists(driver string) Config {
	target := int(c.Number(driver))
	next := c
	for _, spec := range c.schema.Fields {
		if spec.List == nil || spec.List.SizedBy != driver {
			continue
		}
		items := make([]Record, 0, target)
		for n := 1; n <= target; n++ {
			record, err := normalizeRecord(spec.List.Item, spec.List.NewItem(n))
			if err != nil {
				panic(fmt.Sprintf("model: seed for %q does not match its item spec: %v", spec.Name, err))
			}
			items = append(items, record)
		}
		next = Config{schema: c.schema, fieldSet: next.with(spec.Name, List{Items: items})}
	}
	return next
}

func listLen(value FieldValue) float64 {
	list, ok := value.(List)
	if !ok {
		return -1
	}
	return float64(len(list.Items))
}

func parseValue(spec FieldSpec, raw string) (FieldValue, error) {
	switch spec.Type() {
	case FieldTypeText:
		return Text{Value: raw}, nil
	case FieldTypeColor:
		return Color{Value: raw}, nil
	case FieldTypeEnum:
		return Enum{Value: strings.TrimSpace(raw)}, nil
	case FieldTypeNumber:
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, invalidValue(spec.Name, fmt.Sprintf("%q is not a number", raw))
		}
		return Number{Value: value}, nil
	case FieldTypeBoolean:
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, invalidValue(spec.Name, fmt.Sprintf("%q is not a boolean", raw))
		}
		return Boolean{Value: value}, nil
	default:
		return nil, invalidValue(spec.Name, fmt.Sprintf("%s fields cannot be set from text", spec.Type()))
	}
}

// IsRecoverable reports whether err is a user-input error the shell can
// absorb by keeping the prior config.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidValue) || errors.Is(err, ErrFloorViolation)
}
