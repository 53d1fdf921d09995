package layout

import (
	"fmt"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/shape"
)

// EditSession is an in-progress vertex edit on one section. Updates apply to
// a private snapshot of the boundary points; the document is untouched until
// Commit, and Cancel simply discards the snapshot. An optional constraint
// projects every update onto the active curve.
type EditSession struct {
	doc        *Document
	sectionID  string
	points     []geo.Point
	constraint *shape.Constraint
	closed     bool
}

// BeginEdit snapshots a polygon section's points and starts a session.
func (d *Document) BeginEdit(sectionID string) (*EditSession, error) {
	s := d.Section(sectionID)
	if s == nil {
		return nil, ErrSectionNotFound
	}
	if s.Boundary.Kind != BoundaryPolygon {
		return nil, ErrNotPolygon
	}

	snapshot := make([]geo.Point, len(s.Boundary.Points))
	copy(snapshot, s.Boundary.Points)
	return &EditSession{doc: d, sectionID: sectionID, points: snapshot}, nil
}

// Points returns a copy of the edited point snapshot.
func (e *EditSession) Points() []geo.Point {
	out := make([]geo.Point, len(e.points))
	copy(out, e.points)
	return out
}

// SetConstraint attaches a curve constraint; subsequent point updates are
// projected onto it.
func (e *EditSession) SetConstraint(c shape.Constraint) {
	e.constraint = &c
}

// ClearConstraint removes the active constraint.
func (e *EditSession) ClearConstraint() {
	e.constraint = nil
}

// Constraint returns the active constraint, or nil.
func (e *EditSession) Constraint() *shape.Constraint {
	return e.constraint
}

// SetPoints replaces the whole snapshot, used when a shape transform
// resamples the boundary.
func (e *EditSession) SetPoints(points []geo.Point) {
	e.points = make([]geo.Point, len(points))
	copy(e.points, points)
}

// ApplyCircle resamples the snapshot as a circle and keeps the constraint
// active for further drags. Ellipse, semicircle and arc behave the same way.
func (e *EditSession) ApplyCircle(count int) {
	pts, c := shape.CircleTransform(e.points, count)
	e.points = pts
	e.constraint = &c
}

func (e *EditSession) ApplyEllipse(count int, aspect float64) {
	pts, c := shape.EllipseTransform(e.points, count, aspect)
	e.points = pts
	e.constraint = &c
}

func (e *EditSession) ApplySemicircle(count int, o shape.Orientation) {
	pts, c := shape.SemicircleTransform(e.points, count, o)
	e.points = pts
	e.constraint = &c
}

func (e *EditSession) ApplyArc(count int, startDeg, sweepDeg float64) {
	pts, c := shape.ArcTransform(e.points, count, startDeg, sweepDeg)
	e.points = pts
	e.constraint = &c
}

// UpdatePoint moves one vertex of the snapshot. With a constraint active the
// point lands on the curve, not at the raw pointer position.
func (e *EditSession) UpdatePoint(index int, p geo.Point) error {
	if index < 0 || index >= len(e.points) {
		return fmt.Errorf("point index %d out of range [0,%d)", index, len(e.points))
	}
	if e.constraint != nil {
		p = e.constraint.Project(p)
	}
	e.points[index] = p
	return nil
}

// Commit replaces the section's boundary with the edited points and
// regenerates bounds, label position and seats. The session is closed.
func (e *EditSession) Commit(lookup StatusLookup) error {
	if e.closed {
		return fmt.Errorf("edit session already closed")
	}
	s := e.doc.Section(e.sectionID)
	if s == nil {
		return ErrSectionNotFound
	}

	s.Boundary = PolygonBoundary(e.Points())
	s.Refresh(lookup)
	e.closed = true
	return nil
}

// Cancel discards the snapshot with no document change.
func (e *EditSession) Cancel() {
	e.closed = true
}
