package layout

import (
	"errors"
	"fmt"
)

var (
	ErrSectionNotFound = errors.New("section not found")
	// ErrNotPolygon rejects edge-based operations on generated-path sections.
	ErrNotPolygon = errors.New("section boundary is not a polygon")
)

// SplitError reports why a split was rejected. The document is left
// unchanged; the observed intersection count lets the caller prompt the user
// to redraw the cut line.
type SplitError struct {
	Intersections int
	Reason        string
}

func (e *SplitError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid split: %s", e.Reason)
	}
	return fmt.Sprintf("invalid split: cut line crosses the boundary at %d points, need exactly 2", e.Intersections)
}
