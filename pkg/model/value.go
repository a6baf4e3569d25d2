package model

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// FieldType identifies a FieldValue variant.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeColor   FieldType = "color"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeList    FieldType = "list"
)

// FieldValue is the closed set of configuration values. The unexported marker
// keeps the set closed so switches over the variants stay exhaustive.
type FieldValue interface {
	Type() FieldType
	String() string
	isFieldValue()
}

// Text is free text (titles, labels, URLs). It is never escaped.
type Text struct {
	Value string
}

// Color is a #rrggbb colour.
type Color struct {
	Value string
}

// Enum is one choice out of a fixed set.
type Enum struct {
	Value   string
	Allowed []string
}

// Number is a bounded numeric value. Integral numbers are truncated toward
// zero before clamping.
type Number struct {
	Value    float64
	Min      float64
	Max      float64
	Step     float64
	Integral bool
}

// Boolean is a toggle.
type Boolean struct {
	Value bool
}

// List is an ordered sequence of records.
type List struct {
	Items []Record
}

func (Text) Type() FieldType    { return FieldTypeText }
func (Color) Type() FieldType   { return FieldTypeColor }
func (Enum) Type() FieldType    { return FieldTypeEnum }
func (Number) Type() FieldType  { return FieldTypeNumber }
func (Boolean) Type() FieldType { return FieldTypeBoolean }
func (List) Type() FieldType    { return FieldTypeList }

func (v Text) String() string    { return v.Value }
func (v Color) String() string   { return v.Value }
func (v Enum) String() string    { return v.Value }
func (v Number) String() string  { return FormatNumber(v.Value) }
func (v Boolean) String() string { return strconv.FormatBool(v.Value) }
func (v List) String() string    { return fmt.Sprintf("%d item(s)", len(v.Items)) }

func (Text) isFieldValue()    {}
func (Color) isFieldValue()   {}
func (Enum) isFieldValue()    {}
func (Number) isFieldValue()  {}
func (Boolean) isFieldValue() {}
func (List) isFieldValue()    {}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NormalizeColor accepts "#rrggbb" or "rrggbb" and returns the value with a
// leading '#'. Letter case is preserved. Shorthand, alpha, named colours and
// functional notations are rejected.
func NormalizeColor(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value != "" && !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	if !hexColorPattern.MatchString(value) {
		return "", fmt.Errorf("color %q is not #rrggbb", raw)
	}
	return value, nil
}

// FormatNumber renders a number with the shortest exact representation, so
// 1 prints as "1" and 0.25 as "0.25".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Clamp limits value to the declared bounds of n, truncating first when n is
// integral.
func (n Number) Clamp(value float64) float64 {
	if n.Integral {
		value = math.Trunc(value)
	}
	if value < n.Min {
		return n.Min
	}
	if value > n.Max {
		return n.Max
	}
	return value
}

// Int returns the value truncated to an int, handy for counts.
func (n Number) Int() int {
	return int(math.Trunc(n.Value))
}

// Allows reports whether value belongs to the enum's set.
func (e Enum) Allows(value string) bool {
	return slices.Contains(e.Allowed, value)
}

func cloneValue(v FieldValue) FieldValue {
	switch value := v.(type) {
	case Enum:
		value.Allowed = slices.Clone(value.Allowed)
		return value
	case List:
		items := make([]Record, len(value.Items))
		for i, item := range value.Items {
			items[i] = item.clone()
		}
		return List{Items: items}
	default:
		return v
	}
}

func valuesEqual(a, b FieldValue) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch left := a.(type) {
	case Text:
		return left.Value == b.(Text).Value
	case Color:
		return left.Value == b.(Color).Value
	case Enum:
		right := b.(Enum)
		return left.Value == right.Value && slices.Equal(left.Allowed, right.Allowed)
	case Number:
		return left == b.(Number)
	case Boolean:
		return left.Value == b.(Boolean).Value
	case List:
		right := b.(List)
		if len(left.Items) != len(right.Items) {
			return false
		}
		for i := range left.Items {
			if !left.Items[i].Equal(right.Items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
