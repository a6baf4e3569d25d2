package builders

import (
	"fmt"

	"github.com/goliatone/go-builderkit/pkg/model"
)

// InputTypes are the control types a form field can take. Textarea renders a
// <textarea>; the rest render <input type="...">.
var InputTypes = []string{"text", "email", "tel", "number", "textarea"}

// FormField builds one record of the form kind's field list.
func FormField(name, label, inputType string, required bool) model.Record {
	return model.NewRecord(
		model.Field{Name: "name", Value: model.Text{Value: name}},
		model.Field{Name: "label", Value: model.Text{Value: label}},
		model.Field{Name: "type", Value: model.Enum{Value: inputType}},
		model.Field{Name: "required", Value: model.Boolean{Value: required}},
	)
}

// Form is a contact style form with a configurable field list.
func Form() Kind {
	schema := &model.Schema{
		Kind:  KindForm,
		Title: "Form Builder",
		Fields: []model.FieldSpec{
			{Name: "title", Label: "Form Title", Default: model.Text{Value: "Contact Form"}},
			{
				Name:  "fields",
				Label: "Form Fields",
				Default: model.List{Items: []model.Record{
					FormField("name", "Name", "text", true),
					FormField("email", "Email", "email", true),
					FormField("message", "Message", "textarea", false),
				}},
				List: &model.ListSpec{
					Item: []model.FieldSpec{
						{Name: "name", Label: "Field Name", Default: model.Text{}},
						{Name: "label", Label: "Label", Default: model.Text{}},
						{Name: "type", Label: "Type", Default: model.Enum{Value: "text", Allowed: InputTypes}},
						{Name: "required", Label: "Required", Default: model.Boolean{}},
					},
					MinItems: 1,
					NewItem: func(n int) model.Record {
						return FormField(fmt.Sprintf("field%d", n), "New Field", "text", false)
					},
				},
			},
			colorField("bgColor", "Background Color", "#ffffff"),
			colorField("textColor", "Text Color", "#333333"),
			colorField("buttonColor", "Button Color", "#4CAF50"),
			fontField(),
		},
	}

	return Kind{
		Name:     KindForm,
		Schema:   schema,
		Skeleton: func(model.Config) string { return KindForm },
		View: func(cfg model.Config) map[string]any {
			records := cfg.Items("fields")
			fields := make([]map[string]any, len(records))
			for i, record := range records {
				fields[i] = map[string]any{
					"name":      record.Value("name"),
					"label":     record.Value("label"),
					"type":      record.Value("type"),
					"required":  record.Bool("required"),
					"multiline": record.Value("type") == "textarea",
				}
			}
			return map[string]any{
				"title":            cfg.Value("title"),
				"fields":           fields,
				"background_color": cfg.Value("bgColor"),
				"text_color":       cfg.Value("textColor"),
				"button_color":     cfg.Value("buttonColor"),
				"font_family":      cfg.Value("fontFamily"),
			}
		},
	}
}
