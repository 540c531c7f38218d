package pattern

import "errors"

// ErrEmpty is returned when a pattern would have no edges and no seed
// vertex to fall back on.
var ErrEmpty = errors.New("pattern: empty pattern")

// InvalidPatternError is a structural error: a duplicate edge id, an edge
// that cannot be connected, or an edit that would disconnect the pattern.
type InvalidPatternError struct {
	Reason string
}

func (e *InvalidPatternError) Error() string {
	return "pattern: invalid pattern: " + e.Reason
}

// NewInvalidPatternError wraps a reason string as an InvalidPatternError.
func NewInvalidPatternError(reason string) error {
	return &InvalidPatternError{Reason: reason}
}
