package presets

import "errors"

var (
	// ErrInvalidPreset is returned for documents that fail to parse or validate.
	ErrInvalidPreset = errors.New("presets: invalid preset")
	// ErrPresetNotFound is returned by Store lookups.
	ErrPresetNotFound = errors.New("presets: preset not found")
	// ErrKindMismatch is returned when a preset is applied to another kind.
	ErrKindMismatch = errors.New("presets: kind mismatch")
)
