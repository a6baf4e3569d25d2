package builders

import "github.com/goliatone/go-builderkit/pkg/model"

// TextAlignments are the card content alignments.
var TextAlignments = []string{"left", "center", "right"}

// Card is an image card with a title, description and call to action.
func Card() Kind {
	schema := &model.Schema{
		Kind:  KindCard,
		Title: "Card Builder",
		Fields: []model.FieldSpec{
			{Name: "title", Label: "Title", Default: model.Text{Value: "Card Title"}},
			{Name: "description", Label: "Description", Default: model.Text{Value: "This is a card description."}},
			{Name: "imageUrl", Label: "Image URL", Default: model.Text{Value: "https://via.placeholder.com/300x200"}},
			{Name: "buttonText", Label: "Button Text", Default: model.Text{Value: "Learn More"}},
			colorField("bgColor", "Background Color", "#ffffff"),
			colorField("textColor", "Text Color", "#000000"),
			colorField("buttonColor", "Button Color", "#4CAF50"),
			colorField("buttonTextColor", "Button Text Color", "#ffffff"),
			{Name: "textAlign", Label: "Text Align", Default: model.Enum{Value: "left", Allowed: TextAlignments}},
			fontField(),
		},
	}

	return Kind{
		Name:     KindCard,
		Schema:   schema,
		Skeleton: func(model.Config) string { return KindCard },
		View: func(cfg model.Config) map[string]any {
			return map[string]any{
				"title":             cfg.Value("title"),
				"description":       cfg.Value("description"),
				"image_url":         cfg.Value("imageUrl"),
				"button_text":       cfg.Value("buttonText"),
				"background_color":  cfg.Value("bgColor"),
				"text_color":        cfg.Value("textColor"),
				"description_color": cfg.Value("textColor") + "99",
				"button_color":      cfg.Value("buttonColor"),
				"button_text_color": cfg.Value("buttonTextColor"),
				"text_align":        cfg.Value("textAlign"),
				"font_family":       cfg.Value("fontFamily"),
			}
		},
	}
}
