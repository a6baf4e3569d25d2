package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func itemRecord(label string) Record {
	return NewRecord(Field{Name: "label", Value: Text{Value: label}})
}

func headerRecord(n int) Record {
	return NewRecord(Field{Name: "text", Value: Text{Value: fmt.Sprintf("Header %d", n)}})
}

func testSchema() *Schema {
	return &Schema{
		Kind:  "sample",
		Title: "Sample",
		Fields: []FieldSpec{
			{Name: "title", Label: "Title", Default: Text{Value: "Hello"}},
			{Name: "background", Label: "Background", Default: Color{Value: "#ffffff"}},
			{Name: "mode", Label: "Mode", Default: Enum{Value: "a", Allowed: []string{"a", "b"}}},
			{Name: "padding", Label: "Padding", Default: Number{Value: 1, Min: 0, Max: 5, Step: 0.25}},
			{Name: "cols", Label: "Columns", Default: Number{Value: 2, Min: 1, Max: 10, Step: 1, Integral: true}},
			{Name: "bordered", Label: "Bordered", Default: Boolean{Value: true}},
			{Name: "extra", Label: "Extra", Default: Text{Value: "x"}, When: &Condition{Field: "mode", Values: []string{"b"}}},
			{
				Name:    "items",
				Label:   "Items",
				Default: List{Items: []Record{itemRecord("Home"), itemRecord("About")}},
				List: &ListSpec{
					Item:     []FieldSpec{{Name: "label", Label: "Label", Default: Text{Value: ""}}},
					MinItems: 1,
					NewItem:  func(n int) Record { return itemRecord(fmt.Sprintf("Item %d", n)) },
				},
			},
			{
				Name:    "headers",
				Label:   "Headers",
				Default: List{Items: []Record{headerRecord(1), headerRecord(2)}},
				List: &ListSpec{
					Item:    []FieldSpec{{Name: "text", Label: "Text", Default: Text{Value: ""}}},
					SizedBy: "cols",
					NewItem: headerRecord,
				},
			},
		},
	}
}

func labels(records []Record, sub string) []string {
	out := make([]string, len(records))
	for i, record := range records {
		out[i] = record.Value(sub)
	}
	return out
}

func TestSchemaNew_Defaults(t *testing.T) {
	cfg, err := testSchema().New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Kind() != "sample" {
		t.Fatalf("kind = %q", cfg.Kind())
	}
	want := []string{"title", "background", "mode", "padding", "cols", "bordered", "extra", "items", "headers"}
	if diff := cmp.Diff(want, cfg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Value("padding"); got != "1" {
		t.Fatalf("padding = %q, want 1", got)
	}
}

func TestSchemaValidate_RejectsBadDefaults(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"missing kind", func(s *Schema) { s.Kind = "" }},
		{"bad colour", func(s *Schema) { s.Fields[1].Default = Color{Value: "red"} }},
		{"enum outside set", func(s *Schema) { s.Fields[2].Default = Enum{Value: "z", Allowed: []string{"a"}} }},
		{"number outside range", func(s *Schema) { s.Fields[3].Default = Number{Value: 9, Min: 0, Max: 5} }},
		{"list below floor", func(s *Schema) { s.Fields[7].Default = List{} }},
		{"sized list mismatch", func(s *Schema) { s.Fields[8].Default = List{Items: []Record{headerRecord(1)}} }},
		{"unknown condition", func(s *Schema) { s.Fields[6].When = &Condition{Field: "nope"} }},
		{"duplicate field", func(s *Schema) { s.Fields[1].Name = "title" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := testSchema()
			tt.mutate(schema)
			if err := schema.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestConfigSet_UnknownField(t *testing.T) {
	cfg := testSchema().MustNew()
	next, err := cfg.Set("missing", Text{Value: "x"})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if !next.Equal(cfg) {
		t.Fatalf("config changed on unknown field")
	}
	if IsRecoverable(err) {
		t.Fatalf("unknown field must not be recoverable")
	}
}

func TestConfigSet_InvalidColourKeepsPrior(t *testing.T) {
	cfg := testSchema().MustNew()
	for _, raw := range []string{"#fff", "red", "rgb(0,0,0)", "#gggggg", "#ff00ff00", ""} {
		next, err := cfg.Set("background", Color{Value: raw})
		if !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%q: expected ErrInvalidValue, got %v", raw, err)
		}
		if got := next.Value("background"); got != "#ffffff" {
			t.Fatalf("%q: background = %q, want #ffffff", raw, got)
		}
	}

	next, err := cfg.Set("background", Color{Value: "AbCdEf"})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := next.Value("background"); got != "#AbCdEf" {
		t.Fatalf("background = %q, want #AbCdEf", got)
	}
}

func TestConfigSet_ClampsNumbers(t *testing.T) {
	cfg := testSchema().MustNew()
	tests := []struct {
		field string
		in    float64
		want  string
	}{
		{"padding", 9, "5"},
		{"padding", -1, "0"},
		{"padding", 2.5, "2.5"},
		{"cols", 0, "1"},
		{"cols", 3.9, "3"},
		{"cols", 42, "10"},
	}
	for _, tt := range tests {
		next, err := cfg.Set(tt.field, Number{Value: tt.in})
		if err != nil {
			t.Fatalf("Set(%s, %v): %v", tt.field, tt.in, err)
		}
		if got := next.Value(tt.field); got != tt.want {
			t.Fatalf("Set(%s, %v) = %q, want %q", tt.field, tt.in, got, tt.want)
		}
	}
}

func TestConfigSet_EnumMembership(t *testing.T) {
	cfg := testSchema().MustNew()
	if _, err := cfg.Set("mode", Enum{Value: "c"}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	next, err := cfg.Set("mode", Enum{Value: "b"})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	spec, _ := next.Schema().Field("extra")
	if !spec.AppliesTo(next) {
		t.Fatalf("extra should apply when mode=b")
	}
	if spec.AppliesTo(cfg) {
		t.Fatalf("extra should not apply when mode=a")
	}
}

func TestConfigSet_TypeMismatch(t *testing.T) {
	cfg := testSchema().MustNew()
	if _, err := cfg.Set("title", Number{Value: 1}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestConfigSet_LastWriteWins(t *testing.T) {
	cfg := testSchema().MustNew()
	values := map[string][2]FieldValue{
		"title":      {Text{Value: "one"}, Text{Value: "two"}},
		"background": {Color{Value: "#000000"}, Color{Value: "#123456"}},
		"mode":       {Enum{Value: "b"}, Enum{Value: "a"}},
		"padding":    {Number{Value: 4}, Number{Value: 0.5}},
		"cols":       {Number{Value: 7}, Number{Value: 1}},
		"bordered":   {Boolean{Value: false}, Boolean{Value: true}},
	}
	for name, pair := range values {
		first, err := cfg.Set(name, pair[0])
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		twice, err := first.Set(name, pair[1])
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		once, err := cfg.Set(name, pair[1])
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !twice.Equal(once) {
			t.Fatalf("%s: set twice differs from set once", name)
		}
	}
}

func TestConfig_Immutable(t *testing.T) {
	cfg := testSchema().MustNew()
	if _, err := cfg.Set("title", Text{Value: "changed"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := cfg.AddListItem("items"); err != nil {
		t.Fatalf("AddListItem: %v", err)
	}
	if got := cfg.Value("title"); got != "Hello" {
		t.Fatalf("title mutated to %q", got)
	}
	if got := len(cfg.Items("items")); got != 2 {
		t.Fatalf("items mutated to %d", got)
	}
}

func TestConfigList_FloorInvariant(t *testing.T) {
	cfg := testSchema().MustNew()
	cfg, err := cfg.RemoveListItem("items", 0)
	if err != nil {
		t.Fatalf("RemoveListItem: %v", err)
	}
	if diff := cmp.Diff([]string{"About"}, labels(cfg.Items("items"), "label")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if cfg.CanRemove("items") {
		t.Fatalf("CanRemove should be false at floor")
	}

	next, err := cfg.RemoveListItem("items", 0)
	if !errors.Is(err, ErrFloorViolation) {
		t.Fatalf("expected ErrFloorViolation, got %v", err)
	}
	if !IsRecoverable(err) {
		t.Fatalf("floor violation should be recoverable")
	}
	if len(next.Items("items")) != 1 {
		t.Fatalf("floor crossed")
	}

	if _, err := cfg.Set("items", List{}); !errors.Is(err, ErrFloorViolation) {
		t.Fatalf("Set below floor: expected ErrFloorViolation, got %v", err)
	}
}

func TestConfigList_AddSeedsByPosition(t *testing.T) {
	cfg := testSchema().MustNew()
	cfg, err := cfg.AddListItem("items")
	if err != nil {
		t.Fatalf("AddListItem: %v", err)
	}
	want := []string{"Home", "About", "Item 3"}
	if diff := cmp.Diff(want, labels(cfg.Items("items"), "label")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if _, err := cfg.RemoveListItem("items", 5); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("out of range remove: expected ErrInvalidValue, got %v", err)
	}
}

func TestConfigList_SetItem(t *testing.T) {
	cfg := testSchema().MustNew()
	cfg, err := cfg.SetItemString("items", 1, "label", "Team")
	if err != nil {
		t.Fatalf("SetItemString: %v", err)
	}
	if diff := cmp.Diff([]string{"Home", "Team"}, labels(cfg.Items("items"), "label")); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}

	_, err = cfg.SetItem("items", 0, "missing", Text{Value: "x"})
	var fe *FieldError
	if !errors.As(err, &fe) || !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown nested field, got %v", err)
	}
	if fe.Error() != "model: unknown field: items[0].missing" {
		t.Fatalf("error = %q", fe.Error())
	}
}

func TestConfigList_SizedByDriver(t *testing.T) {
	cfg := testSchema().MustNew()
	if cfg.CanAdd("headers") || cfg.CanRemove("headers") {
		t.Fatalf("sized list should not allow add/remove")
	}
	if _, err := cfg.AddListItem("headers"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("AddListItem on sized list: %v", err)
	}
	if _, err := cfg.RemoveListItem("headers", 0); !errors.Is(err, ErrFloorViolation) {
		t.Fatalf("RemoveListItem on sized list: %v", err)
	}

	cfg, err := cfg.SetItemString("headers", 0, "text", "Name")
	if err != nil {
		t.Fatalf("SetItemString: %v", err)
	}
	cfg, err = cfg.SetString("cols", "4")
	if err != nil {
		t.Fatalf("SetString: %v", err)
	}
	want := []string{"Header 1", "Header 2", "Header 3", "Header 4"}
	if diff := cmp.Diff(want, labels(cfg.Items("headers"), "text")); diff != "" {
		t.Fatalf("headers mismatch (-want +got):\n%s", diff)
	}

	if _, err := cfg.Set("headers", List{Items: []Record{headerRecord(1)}}); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Set sized list with wrong length: %v", err)
	}
}

func TestConfigSetString_Parses(t *testing.T) {
	cfg := testSchema().MustNew()
	cfg, err := cfg.SetString("bordered", "false")
	if err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if cfg.Bool("bordered") {
		t.Fatalf("bordered should be false")
	}
	if _, err := cfg.SetString("padding", "wide"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := cfg.SetString("items", "a,b"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for list, got %v", err)
	}
}

func TestZeroConfig(t *testing.T) {
	var cfg Config
	if _, err := cfg.Set("title", Text{Value: "x"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if cfg.Kind() != "" {
		t.Fatalf("zero config kind = %q", cfg.Kind())
	}
}
