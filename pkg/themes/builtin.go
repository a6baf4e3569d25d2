package themes

import (
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Built-in theme names.
const (
	ThemeClassic = "classic"
	ThemeOcean   = "ocean"
)

func classic() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeClassic,
		Version: "1.0.0",
		Tokens: map[string]string{
			"bgColor":            "#ffffff",
			"textColor":          "#333333",
			"hoverTextColor":     "#777777",
			"headerBgColor":      "#f4f4f4",
			"hoverBgColor":       "#f5f5f5",
			"borderColor":        "#dddddd",
			"stripeColor":        "#f9f9f9",
			"buttonColor":        "#4CAF50",
			"buttonTextColor":    "#ffffff",
			"sidebarBgColor":     "#f4f4f4",
			"mainContentBgColor": "#ffffff",
			"columnBgColor":      "#f4f4f4",
			"headerTextColor":    "#ffffff",
			"gridItemTextColor":  "#ffffff",
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{
				"bgColor":            "#1f2937",
				"textColor":          "#f9fafb",
				"hoverTextColor":     "#9ca3af",
				"headerBgColor":      "#111827",
				"hoverBgColor":       "#374151",
				"borderColor":        "#4b5563",
				"stripeColor":        "#273244",
				"sidebarBgColor":     "#111827",
				"mainContentBgColor": "#1f2937",
				"columnBgColor":      "#273244",
			}},
		},
	}
}

func ocean() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeOcean,
		Version: "1.0.0",
		Tokens: map[string]string{
			"bgColor":         "#e0f2fe",
			"textColor":       "#0c4a6e",
			"hoverTextColor":  "#0284c7",
			"headerBgColor":   "#bae6fd",
			"hoverBgColor":    "#f0f9ff",
			"borderColor":     "#7dd3fc",
			"stripeColor":     "#f0f9ff",
			"buttonColor":     "#0284c7",
			"buttonTextColor": "#ffffff",
			"headerTextColor": "#0c4a6e",
		},
	}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Builtin returns a new catalog holding the built-in themes, ready for
// further registrations.
func Builtin() *Catalog {
	c := NewCatalog()
	c.MustRegister(classic())
	c.MustRegister(ocean())
	return c
}

// Default returns the shared catalog of built-in themes.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = Builtin()
	})
	return defaultCatalog
}
