package render

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a begin/end slice filter falls outside
// [0, d) or begin > end.
var ErrInvalidRange = errors.New("invalid slice range")

// IOError reports a failed filesystem operation while writing slices.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Range is an inclusive span of slice indices.
type Range struct {
	Begin, End int
}

// Count is the number of slices in r.
func (r Range) Count() int { return r.End - r.Begin + 1 }

// ResolveRange validates begin/end against side d. end == -1 selects the
// last slice.
func ResolveRange(d, begin, end int) (Range, error) {
	if end == -1 {
		end = d - 1
	}
	r := Range{Begin: begin, End: end}
	if begin < 0 || begin >= d {
		return r, fmt.Errorf("%w: begin %d outside [0,%d)", ErrInvalidRange, begin, d)
	}
	if end < 0 || end >= d {
		return r, fmt.Errorf("%w: end %d outside [0,%d)", ErrInvalidRange, end, d)
	}
	if begin > end {
		return r, fmt.Errorf("%w: begin %d after end %d", ErrInvalidRange, begin, end)
	}
	return r, nil
}
