// Package server hosts builder shells over HTTP. Each browser session owns
// one shell keyed by a UUID; edits arrive as JSON requests and every
// re-render is pushed to the session's websocket clients.
package server
