package builders

import (
	"fmt"

	"github.com/goliatone/go-builderkit/pkg/model"
)

func tableHeader(n int) model.Record {
	return model.NewRecord(model.Field{Name: "text", Value: model.Text{Value: fmt.Sprintf("Header %d", n)}})
}

// Table is a data table with placeholder cells. The header list follows the
// column count.
func Table() Kind {
	schema := &model.Schema{
		Kind:  KindTable,
		Title: "Table Builder",
		Fields: []model.FieldSpec{
			{Name: "rows", Label: "Rows", Default: model.Number{Value: 3, Min: 1, Max: 20, Step: 1, Integral: true}},
			{Name: "cols", Label: "Columns", Default: model.Number{Value: 3, Min: 1, Max: 10, Step: 1, Integral: true}},
			{
				Name:    "headers",
				Label:   "Headers",
				Default: model.List{Items: []model.Record{tableHeader(1), tableHeader(2), tableHeader(3)}},
				List: &model.ListSpec{
					Item:    []model.FieldSpec{{Name: "text", Label: "Header", Default: model.Text{}}},
					SizedBy: "cols",
					NewItem: tableHeader,
				},
			},
			{Name: "bordered", Label: "Bordered", Default: model.Boolean{Value: true}},
			{Name: "striped", Label: "Striped", Default: model.Boolean{Value: false}},
			colorField("headerBgColor", "Header Background", "#f4f4f4"),
			colorField("textColor", "Text Color", "#333333"),
			colorField("hoverBgColor", "Hover Background", "#f5f5f5"),
			colorField("borderColor", "Border Color", "#dddddd"),
			colorField("stripeColor", "Stripe Color", "#f9f9f9"),
			fontField(),
		},
	}

	return Kind{
		Name:     KindTable,
		Schema:   schema,
		Skeleton: func(model.Config) string { return KindTable },
		View: func(cfg model.Config) map[string]any {
			rows := cfg.MustGet("rows").(model.Number).Int()
			cols := cfg.MustGet("cols").(model.Number).Int()
			body := make([][]string, rows)
			for r := range body {
				body[r] = make([]string, cols)
				for c := range body[r] {
					body[r][c] = fmt.Sprintf("Cell %d-%d", r+1, c+1)
				}
			}
			return map[string]any{
				"headers":           labels(cfg.Items("headers"), "text"),
				"rows":              body,
				"bordered":          cfg.Bool("bordered"),
				"striped":           cfg.Bool("striped"),
				"header_background": cfg.Value("headerBgColor"),
				"text_color":        cfg.Value("textColor"),
				"hover_background":  cfg.Value("hoverBgColor"),
				"border_color":      cfg.Value("borderColor"),
				"stripe_color":      cfg.Value("stripeColor"),
				"font_family":       cfg.Value("fontFamily"),
			}
		},
	}
}
