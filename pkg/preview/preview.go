// Package preview turns generated output into something a browser can show:
// an inline fragment for an embedding page, or a standalone document for a
// preview frame.
package preview

import (
	"html"
	"strings"

	"github.com/goliatone/go-builderkit/pkg/render"
)

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithSanitizer opts into hardened previews: markup is filtered through an
// allow-list policy and stylesheet text cannot close its <style> element.
// Generated output itself is never altered; only what the preview injects.
func WithSanitizer() Option {
	return func(s *Sandbox) {
		s.sanitize = true
	}
}

// Sandbox builds preview payloads. The zero value injects output verbatim.
type Sandbox struct {
	sanitize bool
}

// New returns a Sandbox with the given options applied.
func New(options ...Option) *Sandbox {
	s := &Sandbox{}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Hardened reports whether the sandbox sanitizes what it injects.
func (s *Sandbox) Hardened() bool {
	return s != nil && s.sanitize
}

// Fragment returns "<style>{css}</style>{html}", the exact text a live
// preview region receives.
func (s *Sandbox) Fragment(out render.Output) string {
	markup, css := s.prepare(out)
	var b strings.Builder
	b.Grow(len(markup) + len(css) + 15)
	b.WriteString("<style>")
	b.WriteString(css)
	b.WriteString("</style>")
	b.WriteString(markup)
	return b.String()
}

// Document wraps the output in a standalone HTML page titled title.
func (s *Sandbox) Document(out render.Output, title string) string {
	markup, css := s.prepare(out)
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</title>\n<style>\n")
	b.WriteString(css)
	b.WriteString("\n</style>\n</head>\n<body>\n")
	b.WriteString(markup)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

func (s *Sandbox) prepare(out render.Output) (string, string) {
	if !s.Hardened() {
		return out.HTML, out.CSS
	}
	return sanitizeMarkup(out.HTML), sanitizeStylesheet(out.CSS)
}
