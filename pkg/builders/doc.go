// Package builders declares the five builder kinds (navbar, table, form, card
// and layout): their field schemas, the defaults every builder starts from and
// the view data each skeleton template is executed with.
//
// Kinds carry no rendering logic of their own. A renderer asks a Kind which
// skeleton applies to a config and what data to bind, so adding a kind never
// requires a new renderer.
package builders
