package render

import (
	"errors"
	"fmt"
)

var (
	// ErrRendererNotFound is returned when no renderer handles a kind.
	ErrRendererNotFound = errors.New("render: renderer not found")
	// ErrKindMismatch is returned when a renderer receives a config of
	// another kind.
	ErrKindMismatch = errors.New("render: config kind mismatch")
	// ErrUnknownFormat is returned for formats other than html and css.
	ErrUnknownFormat = errors.New("render: unknown format")
)

func unknownFormat(raw string) error {
	return fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// KindMismatch builds the error renderers return for a config of another kind.
func KindMismatch(renderer, kind string) error {
	return fmt.Errorf("%w: renderer %q got %q", ErrKindMismatch, renderer, kind)
}
