// Package source locates documents (presets, OpenAPI specs) on disk, inside
// an fs.FS, or behind an HTTP URL, and loads their bytes.
package source

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Kind enumerates the loader modalities.
type Kind string

const (
	KindFile Kind = "file"
	KindFS   Kind = "fs"
	KindURL  Kind = "url"
)

// Source identifies where a document lives.
type Source interface {
	Kind() Kind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() Kind       { return KindFile }

// FromFile returns a Source pointing to a file path.
func FromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() Kind       { return KindFS }

// FromFS returns a Source identifying a resource inside the loader's fs.FS.
func FromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() Kind       { return KindURL }

// FromURL parses the supplied URL string and returns a Source. It panics if
// the URL is invalid to surface configuration mistakes early.
func FromURL(raw string) Source {
	src, err := parseURL(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// Parse picks a URL source for http(s) locations and a file source otherwise.
// It is the entry point for user-supplied locations such as CLI flags.
func Parse(location string) (Source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("source: empty location")
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return parseURL(location)
	}
	return FromFile(location), nil
}

func parseURL(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("source: empty URL")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("source: invalid URL %q: %v", raw, err)
	}
	return urlSource{raw: raw}, nil
}
