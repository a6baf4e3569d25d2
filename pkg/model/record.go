package model

import "fmt"

// Field pairs a name with its value.
type Field struct {
	Name  string
	Value FieldValue
}

// fieldSet is the ordered storage shared by Config and Record. Accessors
// panic on undeclared names: renderers only ask for fields their own schema
// declares, so a miss is a wiring bug.
type fieldSet struct {
	fields []Field
}

func (s fieldSet) lookup(name string) (FieldValue, int) {
	for i, field := range s.fields {
		if field.Name == name {
			return field.Value, i
		}
	}
	return nil, -1
}

func (s fieldSet) must(name string) FieldValue {
	value, idx := s.lookup(name)
	if idx < 0 {
		panic(fmt.Sprintf("model: field %q is not declared", name))
	}
	return value
}

// Names returns field names in declaration order.
func (s fieldSet) Names() []string {
	names := make([]string, len(s.fields))
	for i, field := range s.fields {
		names[i] = field.Name
	}
	return names
}

// Fields returns a copy of the ordered fields.
func (s fieldSet) Fields() []Field {
	out := make([]Field, len(s.fields))
	for i, field := range s.fields {
		out[i] = Field{Name: field.Name, Value: cloneValue(field.Value)}
	}
	return out
}

// Value returns the display form of a scalar field (text, colour, enum,
// number, boolean).
func (s fieldSet) Value(name string) string {
	return s.must(name).String()
}

// Number returns the numeric value of a Number field.
func (s fieldSet) Number(name string) float64 {
	switch value := s.must(name).(type) {
	case Number:
		return value.Value
	default:
		panic(fmt.Sprintf("model: field %q is %s, not number", name, value.Type()))
	}
}

// Bool returns the value of a Boolean field.
func (s fieldSet) Bool(name string) bool {
	switch value := s.must(name).(type) {
	case Boolean:
		return value.Value
	default:
		panic(fmt.Sprintf("model: field %q is %s, not boolean", name, value.Type()))
	}
}

// Items returns a copy of the records of a List field.
func (s fieldSet) Items(name string) []Record {
	switch value := s.must(name).(type) {
	case List:
		return cloneValue(value).(List).Items
	default:
		panic(fmt.Sprintf("model: field %q is %s, not list", name, value.Type()))
	}
}

func (s fieldSet) with(name string, value FieldValue) fieldSet {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
		}
	}
	return fieldSet{fields: out}
}

func (s fieldSet) equal(other fieldSet) bool {
	if len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i].Name != other.fields[i].Name {
			return false
		}
		if !valuesEqual(s.fields[i].Value, other.fields[i].Value) {
			return false
		}
	}
	return true
}

// Record is one entry of a List field: an ordered set of nested fields.
type Record struct {
	fieldSet
}

// NewRecord builds a record from fields in the given order.
func NewRecord(fields ...Field) Record {
	out := make([]Field, len(fields))
	copy(out, fields)
	return Record{fieldSet{fields: out}}
}

// Get returns a nested field value.
func (r Record) Get(name string) (FieldValue, bool) {
	value, idx := r.lookup(name)
	return value, idx >= 0
}

// Equal reports whether both records hold the same fields and values.
func (r Record) Equal(other Record) bool {
	return r.equal(other.fieldSet)
}

func (r Record) clone() Record {
	return Record{fieldSet{fields: r.Fields()}}
}
