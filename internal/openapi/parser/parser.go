package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-builderkit/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

// Operations converts a Document into a map keyed by operationId.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	operations := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		p.collectOperation(operations, "POST", path, item.Post)
		p.collectOperation(operations, "PUT", path, item.Put)
		p.collectOperation(operations, "PATCH", path, item.Patch)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations with a request body")
	}
	return operations, nil
}

func (p *Parser) collectOperation(target map[string]pkgopenapi.Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil || operation.RequestBody == nil {
		return
	}
	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}
	op, err := pkgopenapi.NewOperation(opID, method, path, extractRequestSchema(operation.RequestBody))
	if err != nil {
		// Invalid operations are skipped but noted by leaving them out.
		return
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	target[opID] = op
}

func extractRequestSchema(requestBody *openapi3.RequestBodyRef) pkgopenapi.Schema {
	if requestBody.Value == nil {
		return pkgopenapi.Schema{Ref: requestBody.Ref}
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema, map[*openapi3.Schema]bool{})
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema, map[*openapi3.Schema]bool{})
	}
	return pkgopenapi.Schema{}
}

// convertSchema copies the parts of a schema the form import reads. A schema
// already on the current path is returned as a bare reference to stop cycles.
func convertSchema(ref *openapi3.SchemaRef, visiting map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil || visiting[ref.Value] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	visiting[ref.Value] = true
	defer delete(visiting, ref.Value)

	src := ref.Value
	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	if widget, ok := src.Extensions[pkgopenapi.WidgetExtension]; ok {
		schema.Extensions = map[string]any{pkgopenapi.WidgetExtension: widget}
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property, visiting)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items, visiting)
		schema.Items = &items
	}
	mergeAllOf(&schema, src.AllOf, visiting)
	return schema
}

// mergeAllOf folds allOf members into target: properties and required names
// are unioned, the first declared type wins.
func mergeAllOf(target *pkgopenapi.Schema, refs openapi3.SchemaRefs, visiting map[*openapi3.Schema]bool) {
	for _, ref := range refs {
		member := convertSchema(ref, visiting)
		if target.Type == "" {
			target.Type = member.Type
		}
		for _, name := range member.Required {
			target.Required = append(target.Required, name)
		}
		if len(member.Properties) == 0 {
			continue
		}
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(member.Properties))
		}
		for name, property := range member.Properties {
			if _, exists := target.Properties[name]; !exists {
				target.Properties[name] = property
			}
		}
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
