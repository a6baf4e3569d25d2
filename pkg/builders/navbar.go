package builders

import (
	"fmt"

	"github.com/goliatone/go-builderkit/pkg/model"
)

func navItem(label string) model.Record {
	return model.NewRecord(model.Field{Name: "label", Value: model.Text{Value: label}})
}

// Navbar is a horizontal navigation bar with a brand and a list of links.
func Navbar() Kind {
	schema := &model.Schema{
		Kind:  KindNavbar,
		Title: "Navbar Builder",
		Fields: []model.FieldSpec{
			{Name: "brand", Label: "Brand Name", Default: model.Text{Value: "MyBrand"}},
			{
				Name:  "navItems",
				Label: "Navigation Items",
				Default: model.List{Items: []model.Record{
					navItem("Home"), navItem("About"), navItem("Services"), navItem("Contact"),
				}},
				List: &model.ListSpec{
					Item:     []model.FieldSpec{{Name: "label", Label: "Label", Default: model.Text{}}},
					MinItems: 1,
					NewItem:  func(n int) model.Record { return navItem(fmt.Sprintf("Item %d", n)) },
				},
			},
			colorField("bgColor", "Background Color", "#ffffff"),
			colorField("textColor", "Text Color", "#000000"),
			colorField("hoverTextColor", "Hover Text Color", "#777777"),
			fontField(),
			{
				Name:    "padding",
				Label:   "Padding",
				Unit:    "rem",
				Default: model.Number{Value: 1, Min: 0, Max: 5, Step: 0.25},
			},
		},
	}

	return Kind{
		Name:     KindNavbar,
		Schema:   schema,
		Skeleton: func(model.Config) string { return KindNavbar },
		View: func(cfg model.Config) map[string]any {
			return map[string]any{
				"brand":            cfg.Value("brand"),
				"items":            labels(cfg.Items("navItems"), "label"),
				"background_color": cfg.Value("bgColor"),
				"text_color":       cfg.Value("textColor"),
				"hover_color":      cfg.Value("hoverTextColor"),
				"font_family":      cfg.Value("fontFamily"),
				"padding":          cfg.Value("padding"),
			}
		},
	}
}
