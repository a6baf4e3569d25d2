// Package openapi exposes the contracts for turning an OpenAPI operation into
// Form Builder field records. The kin-openapi implementation lives under
// internal/openapi; construction helpers live in the root package.
package openapi
