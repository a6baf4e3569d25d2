package export

import "errors"

var (
	// ErrClipboardUnavailable is returned when the platform denies clipboard
	// access or has no clipboard utility.
	ErrClipboardUnavailable = errors.New("export: clipboard unavailable")
	// ErrDownloadFailed is returned when a download could not be written.
	ErrDownloadFailed = errors.New("export: download failed")
)
