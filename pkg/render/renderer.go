package render

import (
	"context"

	"github.com/goliatone/go-builderkit/pkg/model"
)

// Format selects one of the two generated texts.
type Format string

const (
	FormatHTML Format = "html"
	FormatCSS  Format = "css"
)

// ParseFormat maps "html" or "css" onto a Format.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatHTML, FormatCSS:
		return Format(raw), nil
	default:
		return "", unknownFormat(raw)
	}
}

// Output is the markup and stylesheet generated for one config.
type Output struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// Text returns the generated text for format.
func (o Output) Text(format Format) string {
	if format == FormatCSS {
		return o.CSS
	}
	return o.HTML
}

// Renderer converts a builder config into markup and stylesheet text. It is
// pure: the same config always yields byte-identical output.
type Renderer interface {
	Name() string
	Render(ctx context.Context, cfg model.Config) (Output, error)
}
