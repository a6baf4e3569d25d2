package builders

import "github.com/goliatone/go-builderkit/pkg/model"

// Layout skeletons.
const (
	LayoutTwoColumn            = "two-column"
	LayoutThreeColumn          = "three-column"
	LayoutHeaderSidebarContent = "header-sidebar-content"
	LayoutGrid                 = "grid"
)

// LayoutTypes lists the layout skeletons in display order.
var LayoutTypes = []string{LayoutTwoColumn, LayoutThreeColumn, LayoutHeaderSidebarContent, LayoutGrid}

func onLayouts(types ...string) *model.Condition {
	return &model.Condition{Field: "layoutType", Values: types}
}

// Layout is a page scaffold picked from a fixed set of skeletons. Colour
// fields only apply to the skeletons that use them.
func Layout() Kind {
	sidebarLayouts := onLayouts(LayoutTwoColumn, LayoutHeaderSidebarContent)

	sidebar := colorField("sidebarBgColor", "Sidebar Background", "#f4f4f4")
	sidebar.When = sidebarLayouts
	main := colorField("mainContentBgColor", "Main Content Background", "#ffffff")
	main.When = sidebarLayouts
	column := colorField("columnBgColor", "Column Background", "#f4f4f4")
	column.When = onLayouts(LayoutThreeColumn)
	header := colorField("headerBgColor", "Header Background", "#333333")
	header.When = onLayouts(LayoutHeaderSidebarContent)
	headerText := colorField("headerTextColor", "Header Text Color", "#ffffff")
	headerText.When = onLayouts(LayoutHeaderSidebarContent)
	gridText := colorField("gridItemTextColor", "Grid Item Text Color", "#ffffff")
	gridText.When = onLayouts(LayoutGrid)

	schema := &model.Schema{
		Kind:  KindLayout,
		Title: "Layout Builder",
		Fields: []model.FieldSpec{
			{Name: "layoutType", Label: "Layout Type", Default: model.Enum{Value: LayoutTwoColumn, Allowed: LayoutTypes}},
			sidebar,
			main,
			column,
			header,
			headerText,
			{
				Name:    "gridItemBackground",
				Label:   "Grid Item Background",
				Help:    "Any CSS background, gradients included",
				Default: model.Text{Value: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)"},
				When:    onLayouts(LayoutGrid),
			},
			gridText,
			{
				Name:    "gridItemHoverScale",
				Label:   "Grid Item Hover Scale",
				Default: model.Number{Value: 1.05, Min: 0.5, Max: 2, Step: 0.01},
				When:    onLayouts(LayoutGrid),
			},
		},
	}

	return Kind{
		Name:   KindLayout,
		Schema: schema,
		Skeleton: func(cfg model.Config) string {
			return "layout/" + cfg.Value("layoutType")
		},
		View: func(cfg model.Config) map[string]any {
			return map[string]any{
				"sidebar_background": cfg.Value("sidebarBgColor"),
				"main_background":    cfg.Value("mainContentBgColor"),
				"column_background":  cfg.Value("columnBgColor"),
				"header_background":  cfg.Value("headerBgColor"),
				"header_text_color":  cfg.Value("headerTextColor"),
				"grid_background":    cfg.Value("gridItemBackground"),
				"grid_text_color":    cfg.Value("gridItemTextColor"),
				"hover_scale":        cfg.Value("gridItemHoverScale"),
				"columns":            sequence(3),
				"grid_items":         sequence(6),
			}
		},
	}
}
