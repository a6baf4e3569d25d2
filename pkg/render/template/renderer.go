package template

import (
	"io"
)

// TemplateRenderer executes named templates or inline template text against
// view data. Results are returned and, when writers are given, also written.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RenderString(content string, data map[string]any, out ...io.Writer) (string, error)
}
