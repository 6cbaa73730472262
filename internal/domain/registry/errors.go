package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNoVersion     = errors.New("registry version must not be empty")
	ErrBadDefinition = errors.New("invalid metric definition")
)
