package planner

import "fmt"

// UnsupportedError reports a plan request the generator cannot satisfy
// under its current constraints, notably a PlanSpace restricted to
// BinaryJoin when the catalogue holds no join decomposition for the
// target (spec §4.8, mirroring pkg/queryshape's taxonomy).
type UnsupportedError struct{ Reason string }

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("planner: unsupported: %s", e.Reason)
}

func newUnsupportedError(reason string) error { return &UnsupportedError{Reason: reason} }
