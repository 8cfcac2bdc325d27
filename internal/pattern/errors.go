package pattern

import "errors"

// Validation and configuration errors. Validation messages are user-facing:
// the protocol layer forwards them verbatim to the caller.
var (
	ErrNameLength  = errors.New("pattern name must be 1-100 characters")
	ErrNameCharset = errors.New("pattern name can only contain alphanumeric, dash and underscore characters")

	ErrPatternsDirUnset = errors.New("PATTERNS_DIR environment variable must be set")
)
