// Package shape builds and samples the parametric curves a section boundary
// can be reshaped into, and projects dragged vertices back onto the active
// curve.
package shape

import (
	"math"

	"github.com/seatforge/seatforge/internal/geo"
)

// Kind identifies the parametric curve family of a constraint.
type Kind string

const (
	KindCircle     Kind = "circle"
	KindEllipse    Kind = "ellipse"
	KindSemicircle Kind = "semicircle"
	KindArc        Kind = "arc"
)

// Orientation selects which half-plane a semicircle's arc bows into.
type Orientation string

const (
	OrientationTop    Orientation = "top"
	OrientationBottom Orientation = "bottom"
	OrientationLeft   Orientation = "left"
	OrientationRight  Orientation = "right"
)

// Minimum sample counts per curve family.
const (
	minCirclePoints     = 6
	minEllipsePoints    = 6
	minSemicirclePoints = 4
	minArcPoints        = 3
)

// Constraint captures the parameters of an active curve so that subsequent
// vertex drags can be projected back onto it. It is attached to an edit
// session, never persisted with a section.
type Constraint struct {
	Kind       Kind      `json:"kind"`
	Center     geo.Point `json:"center"`
	Radius     float64   `json:"radius,omitempty"`
	RadiusX    float64   `json:"radiusX,omitempty"`
	RadiusY    float64   `json:"radiusY,omitempty"`
	Rotation   float64   `json:"rotation,omitempty"`
	StartAngle float64   `json:"startAngle,omitempty"` // radians
	EndAngle   float64   `json:"endAngle,omitempty"`   // radians
}

// CircleTransform resamples a point set as a circle inscribed in its bounding
// box. At least 6 points are produced.
func CircleTransform(points []geo.Point, count int) ([]geo.Point, Constraint) {
	if count < minCirclePoints {
		count = minCirclePoints
	}

	b := geo.ComputeBounds(points)
	c := Constraint{
		Kind:   KindCircle,
		Center: b.Center(),
		Radius: math.Min(b.Width(), b.Height()) / 2,
	}

	out := make([]geo.Point, count)
	step := 2 * math.Pi / float64(count)
	for i := range out {
		angle := float64(i) * step
		out[i] = geo.Point{
			X: c.Center.X + c.Radius*math.Cos(angle),
			Y: c.Center.Y + c.Radius*math.Sin(angle),
		}
	}
	return out, c
}

// EllipseTransform resamples a point set as an ellipse filling its bounding
// box. aspect scales the vertical radius relative to the box; values <= 0 are
// treated as 1. At least 6 points are produced.
func EllipseTransform(points []geo.Point, count int, aspect float64) ([]geo.Point, Constraint) {
	if count < minEllipsePoints {
		count = minEllipsePoints
	}
	if aspect <= 0 {
		aspect = 1
	}

	b := geo.ComputeBounds(points)
	c := Constraint{
		Kind:    KindEllipse,
		Center:  b.Center(),
		RadiusX: b.Width() / 2,
		RadiusY: b.Height() / 2 * aspect,
	}

	out := make([]geo.Point, count)
	step := 2 * math.Pi / float64(count)
	for i := range out {
		angle := float64(i) * step
		out[i] = geo.Point{
			X: c.Center.X + c.RadiusX*math.Cos(angle),
			Y: c.Center.Y + c.RadiusY*math.Sin(angle),
		}
	}
	return out, c
}

// SemicircleTransform resamples a point set as one of four fixed 180° arcs
// keyed by orientation. Both endpoints are included; at least 4 points are
// produced.
func SemicircleTransform(points []geo.Point, count int, o Orientation) ([]geo.Point, Constraint) {
	if count < minSemicirclePoints {
		count = minSemicirclePoints
	}

	start := semicircleStart(o)
	b := geo.ComputeBounds(points)
	c := Constraint{
		Kind:       KindSemicircle,
		Center:     b.Center(),
		Radius:     math.Min(b.Width(), b.Height()) / 2,
		StartAngle: start,
		EndAngle:   start + math.Pi,
	}

	out := sampleArc(c.Center, c.Radius, c.StartAngle, c.EndAngle, count)
	return out, c
}

// ArcTransform resamples a point set as an arc with a caller-supplied start
// angle and sweep, both in degrees. Both endpoints are included; at least 3
// points are produced.
func ArcTransform(points []geo.Point, count int, startDeg, sweepDeg float64) ([]geo.Point, Constraint) {
	if count < minArcPoints {
		count = minArcPoints
	}

	start := startDeg * math.Pi / 180
	sweep := sweepDeg * math.Pi / 180
	b := geo.ComputeBounds(points)
	c := Constraint{
		Kind:       KindArc,
		Center:     b.Center(),
		Radius:     math.Min(b.Width(), b.Height()) / 2,
		StartAngle: start,
		EndAngle:   start + sweep,
	}

	out := sampleArc(c.Center, c.Radius, c.StartAngle, c.EndAngle, count)
	return out, c
}

// sampleArc spaces count points evenly from start to end inclusive.
func sampleArc(center geo.Point, radius, start, end float64, count int) []geo.Point {
	out := make([]geo.Point, count)
	step := (end - start) / float64(count-1)
	for i := range out {
		angle := start + float64(i)*step
		out[i] = geo.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return out
}

func semicircleStart(o Orientation) float64 {
	switch o {
	case OrientationTop:
		return math.Pi
	case OrientationBottom:
		return 0
	case OrientationLeft:
		return math.Pi / 2
	case OrientationRight:
		return -math.Pi / 2
	default:
		return 0
	}
}

// Project maps an arbitrary point onto the nearest point of the constraint
// curve by angle from the center. Called on every pointer-move sample during
// a drag, so it stays O(1) and allocation-free. The degenerate case of the
// center itself resolves to angle 0.
func (c Constraint) Project(p geo.Point) geo.Point {
	dx := p.X - c.Center.X
	dy := p.Y - c.Center.Y

	switch c.Kind {
	case KindCircle:
		angle := math.Atan2(dy, dx)
		return geo.Point{
			X: c.Center.X + c.Radius*math.Cos(angle),
			Y: c.Center.Y + c.Radius*math.Sin(angle),
		}

	case KindEllipse:
		cosR := math.Cos(c.Rotation)
		sinR := math.Sin(c.Rotation)
		lx := cosR*dx + sinR*dy
		ly := -sinR*dx + cosR*dy
		angle := math.Atan2(ly, lx)
		px := c.RadiusX * math.Cos(angle)
		py := c.RadiusY * math.Sin(angle)
		return geo.Point{
			X: c.Center.X + cosR*px - sinR*py,
			Y: c.Center.Y + sinR*px + cosR*py,
		}

	case KindSemicircle, KindArc:
		angle := clampAngle(math.Atan2(dy, dx), c.StartAngle, c.EndAngle)
		return geo.Point{
			X: c.Center.X + c.Radius*math.Cos(angle),
			Y: c.Center.Y + c.Radius*math.Sin(angle),
		}

	default:
		return p
	}
}

// clampAngle wraps theta into the [start, end] arc. Angles outside the arc
// snap to whichever endpoint is angularly nearer across the gap.
func clampAngle(theta, start, end float64) float64 {
	if start > end {
		start, end = end, start
	}

	for theta < start {
		theta += 2 * math.Pi
	}
	for theta >= start+2*math.Pi {
		theta -= 2 * math.Pi
	}
	if theta <= end {
		return theta
	}

	if theta-end <= start+2*math.Pi-theta {
		return end
	}
	return start
}
