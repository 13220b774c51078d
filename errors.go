package weierstrass

import (
	"errors"
	"fmt"
)

// ErrDiscontinuous is matched by every *ContinuityError.
var ErrDiscontinuous = errors.New("weierstrass: function is not continuous on the interval")

// ParseError reports formula text that cannot be turned into an Expression.
// Pos is the byte offset of the problem, or -1 when it concerns the whole
// formula (for example a symbol other than x).
type ParseError struct {
	Formula string
	Pos     int
	Msg     string
	err     error
}

func (e *ParseError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("cannot parse %q at offset %d: %s", e.Formula, e.Pos, e.Msg)
	}
	return fmt.Sprintf("cannot parse %q: %s", e.Formula, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.err }

// ContinuityError is returned by Analyze when the continuity check fails, so
// the theorem does not apply and no extremum search is attempted.
type ContinuityError struct {
	Formula string
	A, B    float64
}

func (e *ContinuityError) Error() string {
	return fmt.Sprintf("weierstrass: %s is not continuous on [%g, %g]; the theorem does not apply", e.Formula, e.A, e.B)
}

func (e *ContinuityError) Is(target error) bool { return target == ErrDiscontinuous }
