package units

import "errors"

// Sentinel kinds for unit conversion errors.
var (
	ErrUnsupportedUnit = errors.New("unsupported unit")
)
