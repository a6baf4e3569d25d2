package skeleton

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/layout/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in skeleton templates rooted at the kind
// names ("navbar.html.tpl", "layout/grid.css.tpl", ...).
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
