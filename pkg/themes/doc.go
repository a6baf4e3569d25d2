// Package themes maps go-theme manifests onto builder colour fields. Token
// names match field names (bgColor, textColor, ...); a variant's tokens
// override the base tokens.
package themes
