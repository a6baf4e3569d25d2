// Package shell hosts one builder: it owns the current config, re-renders on
// every accepted edit and forwards the latest output to the preview and the
// export adapters.
//
// A Shell serialises its operations with a mutex, so one instance may be
// shared between HTTP handlers and a websocket pump. Edits that fail leave the
// config and output untouched.
package shell
