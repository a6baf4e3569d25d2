// Package export hands generated text to the outside world: the system
// clipboard, a file download or an HTTP attachment. Text is passed on byte
// for byte.
package export
