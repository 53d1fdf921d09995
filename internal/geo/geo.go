// Package geo holds the stateless geometry primitives the layout engine is
// built on: bounding boxes, even-odd point-in-polygon tests and parametric
// segment intersection. Everything here is a pure function over value types.
package geo

// Epsilon is the tolerance used when a determinant or length is compared
// against zero.
const Epsilon = 1e-10

// Point is an immutable 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Translate returns the point shifted by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Bounds is an axis-aligned bounding box. MinX <= MaxX and MinY <= MaxY for
// any Bounds produced by ComputeBounds.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// IsEmpty reports whether the box has zero (or negative) area.
func (b Bounds) IsEmpty() bool {
	return b.Width() <= 0 || b.Height() <= 0
}

// Translate returns the box shifted by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{
		MinX: b.MinX + dx,
		MinY: b.MinY + dy,
		MaxX: b.MaxX + dx,
		MaxY: b.MaxY + dy,
	}
}

// Rect is an origin+size rectangle, used for the stage and generated shape
// frames.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds converts the rectangle to min/max form.
func (r Rect) Bounds() Bounds {
	return Bounds{MinX: r.X, MinY: r.Y, MaxX: r.X + r.Width, MaxY: r.Y + r.Height}
}

// ComputeBounds returns the axis-aligned bounding box of a point sequence.
// An empty slice yields the zero box rather than panicking; callers treat a
// zero-area box as degenerate.
func ComputeBounds(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}

	b := Bounds{
		MinX: points[0].X,
		MinY: points[0].Y,
		MaxX: points[0].X,
		MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// PointInPolygon reports whether p lies inside the polygon using the even-odd
// ray-casting rule. Works for concave polygons. Parity for points exactly on
// the boundary is unspecified.
func PointInPolygon(p Point, polygon []Point) bool {
	inside := false
	n := len(polygon)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// SegmentIntersection solves the parametric intersection of segment a1->a2
// with segment b1->b2. It returns false when the segments are parallel
// (determinant below Epsilon) or when the intersection falls outside the
// second segment.
//
// The first segment's parameter t is deliberately NOT bounds-checked: the
// returned point may lie on the infinite extension of a1->a2. Callers that
// need the intersection inside both segments must also check the returned t
// against [0, 1].
func SegmentIntersection(a1, a2, b1, b2 Point) (Point, float64, bool) {
	dax := a2.X - a1.X
	day := a2.Y - a1.Y
	dbx := b2.X - b1.X
	dby := b2.Y - b1.Y

	det := dax*dby - day*dbx
	if det > -Epsilon && det < Epsilon {
		return Point{}, 0, false
	}

	t := ((b1.X-a1.X)*dby - (b1.Y-a1.Y)*dbx) / det
	u := ((b1.X-a1.X)*day - (b1.Y-a1.Y)*dax) / det
	if u < 0 || u > 1 {
		return Point{}, 0, false
	}

	return Point{X: a1.X + t*dax, Y: a1.Y + t*day}, t, true
}
