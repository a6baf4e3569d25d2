// Package template defines the template seam skeleton renderers execute
// through, so the pongo2 engine can be swapped for tests or custom bundles.
package template
