package openapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/openapi"
	"github.com/goliatone/go-builderkit/pkg/source"
)

func intPtr(v int) *int { return &v }

func contactOperation() openapi.Operation {
	op := openapi.MustNewOperation("createContact", "POST", "/contact", openapi.Schema{
		Type:     "object",
		Required: []string{"email", "fullName"},
		Properties: map[string]openapi.Schema{
			"fullName":  {Type: "string"},
			"email":     {Type: "string", Format: "email", Title: "Work email"},
			"phone":     {Type: "string", Format: "tel"},
			"age":       {Type: "integer"},
			"message":   {Type: "string", MaxLength: intPtr(1000)},
			"subscribe": {Type: "boolean"},
			"tags":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"website":   {Type: "string", Extensions: map[string]any{openapi.WidgetExtension: "textarea"}},
		},
	})
	op.Summary = "Get in touch"
	return op
}

type fieldRow struct {
	Name, Label, Type string
	Required          bool
}

func rows(records []model.Record) []fieldRow {
	out := make([]fieldRow, len(records))
	for i, r := range records {
		required, _ := r.Get("required")
		out[i] = fieldRow{
			Name:     r.Value("name"),
			Label:    r.Value("label"),
			Type:     r.Value("type"),
			Required: required.(model.Boolean).Value,
		}
	}
	return out
}

func TestFormFields_MapsRequestBody(t *testing.T) {
	patch, err := openapi.FormFields(contactOperation())
	if err != nil {
		t.Fatalf("form fields: %v", err)
	}

	want := []fieldRow{
		{Name: "email", Label: "Work email", Type: "email", Required: true},
		{Name: "fullName", Label: "Full name", Type: "text", Required: true},
		{Name: "age", Label: "Age", Type: "number"},
		{Name: "message", Label: "Message", Type: "textarea"},
		{Name: "phone", Label: "Phone", Type: "tel"},
		{Name: "website", Label: "Website", Type: "textarea"},
	}
	if diff := cmp.Diff(want, rows(patch.Fields)); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"subscribe", "tags"}, patch.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
	if patch.Title != "Get in touch" {
		t.Fatalf("title = %q", patch.Title)
	}
}

func TestFormFields_NoUsableProperties(t *testing.T) {
	op := openapi.MustNewOperation("flags", "POST", "/flags", openapi.Schema{
		Type:       "object",
		Properties: map[string]openapi.Schema{"enabled": {Type: "boolean"}},
	})
	if _, err := openapi.FormFields(op); !errors.Is(err, openapi.ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
}

func TestFormPatch_ApplyToForm(t *testing.T) {
	patch, err := openapi.FormFields(contactOperation())
	if err != nil {
		t.Fatalf("form fields: %v", err)
	}
	cfg, err := patch.Apply(builders.Form().New())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := len(cfg.Items("fields")); got != 6 {
		t.Fatalf("fields = %d, want 6", got)
	}
	if cfg.Value("title") != "Get in touch" {
		t.Fatalf("title = %q", cfg.Value("title"))
	}

	if _, err := patch.Apply(builders.Card().New()); err == nil {
		t.Fatalf("expected error applying to a card")
	}
}

type stubParser struct {
	operations map[string]openapi.Operation
}

func (s stubParser) Operations(context.Context, openapi.Document) (map[string]openapi.Operation, error) {
	return s.operations, nil
}

func TestImporter_PicksOperation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("openapi: 3.0.0\n"))
	}))
	defer server.Close()

	parser := stubParser{operations: map[string]openapi.Operation{
		"createContact": contactOperation(),
		"aaaEmpty":      openapi.MustNewOperation("aaaEmpty", "POST", "/empty", openapi.Schema{Type: "object"}),
	}}
	importer, err := openapi.NewImporter(source.NewLoader(source.WithHTTPFallback(0)), parser)
	if err != nil {
		t.Fatalf("importer: %v", err)
	}
	ctx := context.Background()

	patch, err := importer.Import(ctx, source.FromURL(server.URL), "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(patch.Fields) != 6 {
		t.Fatalf("expected the contact operation, got %d fields", len(patch.Fields))
	}

	if _, err := importer.Import(ctx, source.FromURL(server.URL), "missing"); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}
