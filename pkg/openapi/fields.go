package openapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/source"
)

var (
	// ErrOperationNotFound is returned when the requested operation is absent.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoFields is returned when a request body yields no form inputs.
	ErrNoFields = errors.New("openapi: request body has no form fields")
)

// WidgetExtension lets a property pick its input type explicitly.
const WidgetExtension = "x-builderkit-widget"

// textareaThreshold is the maxLength above which strings become textareas.
const textareaThreshold = 255

// FormPatch carries the fields imported from one operation. It applies to a
// form config as a single edit.
type FormPatch struct {
	Title   string
	Fields  []model.Record
	Skipped []string
}

// Apply replaces the form's field list and, when known, its title.
func (p FormPatch) Apply(cfg model.Config) (model.Config, error) {
	if cfg.Kind() != builders.KindForm {
		return cfg, fmt.Errorf("openapi: imports target %q configs, got %q", builders.KindForm, cfg.Kind())
	}
	next, err := cfg.Set("fields", model.List{Items: p.Fields})
	if err != nil {
		return cfg, err
	}
	if p.Title != "" {
		if next, err = next.SetString("title", p.Title); err != nil {
			return cfg, err
		}
	}
	return next, nil
}

// FormFields maps the request body of op onto form field records. Required
// properties come first in their declared order, the rest follow sorted by
// name. Properties with no matching input type are reported in Skipped.
func FormFields(op Operation) (FormPatch, error) {
	body := op.RequestBody
	patch := FormPatch{Title: strings.TrimSpace(op.Summary)}
	if patch.Title == "" {
		patch.Title = body.Title
	}
	for _, name := range propertyOrder(body) {
		property := body.Properties[name]
		inputType, ok := inputTypeFor(property)
		if !ok {
			patch.Skipped = append(patch.Skipped, name)
			continue
		}
		label := strings.TrimSpace(property.Title)
		if label == "" {
			label = humanize(name)
		}
		required := slices.Contains(body.Required, name)
		patch.Fields = append(patch.Fields, builders.FormField(name, label, inputType, required))
	}
	if len(patch.Fields) == 0 {
		return FormPatch{}, fmt.Errorf("%w: %s", ErrNoFields, op.ID)
	}
	return patch, nil
}

func propertyOrder(body Schema) []string {
	order := make([]string, 0, len(body.Properties))
	for _, name := range body.Required {
		if _, ok := body.Properties[name]; ok && !slices.Contains(order, name) {
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		if !slices.Contains(order, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func inputTypeFor(s Schema) (string, bool) {
	if widget, ok := s.Extensions[WidgetExtension].(string); ok && slices.Contains(builders.InputTypes, widget) {
		return widget, true
	}
	switch s.Type {
	case "integer", "number":
		return "number", true
	case "string":
		switch strings.ToLower(s.Format) {
		case "email", "idn-email":
			return "email", true
		case "tel", "phone":
			return "tel", true
		case "textarea":
			return "textarea", true
		}
		if s.MaxLength != nil && *s.MaxLength > textareaThreshold {
			return "textarea", true
		}
		return "text", true
	default:
		return "", false
	}
}

// humanize turns "firstName" or "first_name" into "First name" and
// "userID" into "User id".
func humanize(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()
	if len(words) == 0 {
		return name
	}
	label := strings.Join(words, " ")
	runes := []rune(label)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Importer loads OpenAPI documents and turns one operation into a FormPatch.
type Importer struct {
	loader *source.Loader
	parser Parser
}

// NewImporter wires a loader and parser together.
func NewImporter(loader *source.Loader, parser Parser) (*Importer, error) {
	if loader == nil {
		return nil, errors.New("openapi: loader is required")
	}
	if parser == nil {
		return nil, errors.New("openapi: parser is required")
	}
	return &Importer{loader: loader, parser: parser}, nil
}

// Import fetches src and maps operationID. An empty operationID picks the
// first operation, by id, that has a request body.
func (i *Importer) Import(ctx context.Context, src source.Source, operationID string) (FormPatch, error) {
	raw, err := i.loader.Load(ctx, src)
	if err != nil {
		return FormPatch{}, err
	}
	doc, err := NewDocument(src, raw)
	if err != nil {
		return FormPatch{}, err
	}
	operations, err := i.parser.Operations(ctx, doc)
	if err != nil {
		return FormPatch{}, err
	}
	op, err := pickOperation(operations, operationID)
	if err != nil {
		return FormPatch{}, err
	}
	return FormFields(op)
}

func pickOperation(operations map[string]Operation, id string) (Operation, error) {
	if id != "" {
		op, ok := operations[id]
		if !ok {
			return Operation{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
		}
		return op, nil
	}
	ids := make([]string, 0, len(operations))
	for key := range operations {
		ids = append(ids, key)
	}
	sort.Strings(ids)
	for _, key := range ids {
		if len(operations[key].RequestBody.Properties) > 0 {
			return operations[key], nil
		}
	}
	return Operation{}, fmt.Errorf("%w: no operation with a request body", ErrOperationNotFound)
}
