// Package presets loads named starting configurations for builder kinds from
// YAML documents and applies them through the model's validated setters.
//
// A preset document looks like:
//
//	kind: navbar
//	name: midnight
//	fields:
//	  bgColor: "#111827"
//	  padding: 1.5
//	items:
//	  navItems:
//	    - label: Home
//	    - label: Blog
//
// Colours must be quoted, otherwise YAML reads them as comments.
package presets
