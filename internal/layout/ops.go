package layout

import (
	"fmt"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/typeid"
)

// Default parameters for sections created from imported polygons.
const (
	importDefaultRows        = 5
	importDefaultSeatsPerRow = 10
	importDefaultPrice       = 30
)

// NewSection builds a seated section and computes its derived fields.
func NewSection(id, name string, boundary Boundary, rows, seatsPerRow int, price float64, lookup StatusLookup) Section {
	s := Section{
		ID:          id,
		Name:        name,
		Boundary:    boundary,
		Rows:        rows,
		SeatsPerRow: seatsPerRow,
		Price:       price,
		HasSeats:    true,
	}
	s.Refresh(lookup)
	return s
}

// AddSection appends a section to the document.
func (d *Document) AddSection(s Section) {
	d.Sections = append(d.Sections, s)
}

// RemoveSection deletes a section by ID.
func (d *Document) RemoveSection(id string) error {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			d.Sections = append(d.Sections[:i], d.Sections[i+1:]...)
			return nil
		}
	}
	return ErrSectionNotFound
}

// MoveSection translates a section and all of its derived geometry by a
// uniform offset. The translation is applied atomically; no field is left
// stale.
func (d *Document) MoveSection(id string, dx, dy float64) error {
	s := d.Section(id)
	if s == nil {
		return ErrSectionNotFound
	}
	s.Translate(dx, dy)
	return nil
}

// RegenerateSeats recomputes a section's seat list from its current boundary
// and grid parameters, preserving statuses through the lookup. No other
// field changes.
func (d *Document) RegenerateSeats(id string, lookup StatusLookup) error {
	s := d.Section(id)
	if s == nil {
		return ErrSectionNotFound
	}
	s.Seats = GenerateSeats(s, lookup)
	return nil
}

// edgeHit is an intersection between the cut line and one polygon edge.
type edgeHit struct {
	point geo.Point
	edge  int
}

// SplitSection divides a polygon section in two along the cut segment
// a->b. The cut must cross the boundary at exactly two edges and both halves
// must keep at least 3 vertices; otherwise the document is left unchanged
// and a *SplitError reports the observed intersection count. On success the
// original section is replaced by two fresh sections with suffixed names,
// regenerated seats and recomputed bounds. The new section IDs are returned.
func (d *Document) SplitSection(id string, a, b geo.Point, lookup StatusLookup) (string, string, error) {
	idx := -1
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", "", ErrSectionNotFound
	}

	original := d.Sections[idx]
	if original.Boundary.Kind != BoundaryPolygon {
		return "", "", ErrNotPolygon
	}
	pts := original.Boundary.Points

	// Each polygon edge is the first segment of the intersection solve. The
	// primitive leaves the first parameter unchecked, so clamp it here: only
	// crossings inside both the edge and the cut segment count.
	var hits []edgeHit
	n := len(pts)
	for i := 0; i < n; i++ {
		p, t, ok := geo.SegmentIntersection(pts[i], pts[(i+1)%n], a, b)
		if !ok || t < 0 || t > 1 {
			continue
		}
		hits = append(hits, edgeHit{point: p, edge: i})
	}

	if len(hits) != 2 {
		return "", "", &SplitError{Intersections: len(hits)}
	}
	first, second := hits[0], hits[1] // already ordered by edge index

	// Half A: the vertices up to the first crossed edge, the two crossing
	// points, then everything after the second crossed edge.
	polyA := make([]geo.Point, 0, n+2)
	polyA = append(polyA, pts[:first.edge+1]...)
	polyA = append(polyA, first.point, second.point)
	polyA = append(polyA, pts[second.edge+1:]...)

	// Half B: the crossing points bracketing the vertices strictly between
	// the two crossed edges.
	polyB := make([]geo.Point, 0, n+2)
	polyB = append(polyB, first.point)
	polyB = append(polyB, pts[first.edge+1:second.edge+1]...)
	polyB = append(polyB, second.point)

	if len(polyA) < 3 || len(polyB) < 3 {
		return "", "", &SplitError{
			Intersections: 2,
			Reason:        "a resulting half would have fewer than 3 vertices",
		}
	}

	makeHalf := func(suffix string, poly []geo.Point) Section {
		half := Section{
			ID:          typeid.NewSectionID(),
			Name:        original.Name + suffix,
			Boundary:    PolygonBoundary(poly),
			Rows:        original.Rows,
			SeatsPerRow: original.SeatsPerRow,
			Price:       original.Price,
			TicketType:  original.TicketType,
			HasSeats:    original.HasSeats,
		}
		half.Refresh(lookup)
		return half
	}
	halfA := makeHalf(" A", polyA)
	halfB := makeHalf(" B", polyB)

	// Replace the original with the two halves, in place.
	sections := make([]Section, 0, len(d.Sections)+1)
	sections = append(sections, d.Sections[:idx]...)
	sections = append(sections, halfA, halfB)
	sections = append(sections, d.Sections[idx+1:]...)
	d.Sections = sections

	return halfA.ID, halfB.ID, nil
}

// ImportPolygons accepts detector output, one polygon per section, and adds
// sections with default grid parameters and pricing. Labels are matched by
// index; missing labels get a numbered name. Polygons with fewer than 3
// vertices are skipped. The new section IDs are returned in input order.
func (d *Document) ImportPolygons(polygons [][]geo.Point, labels []string, lookup StatusLookup) []string {
	var created []string
	for i, poly := range polygons {
		if len(poly) < 3 {
			continue
		}

		name := ""
		if i < len(labels) {
			name = labels[i]
		}
		if name == "" {
			name = fmt.Sprintf("Imported Section %d", len(created)+1)
		}

		s := NewSection(
			typeid.NewSectionID(),
			name,
			PolygonBoundary(poly),
			importDefaultRows,
			importDefaultSeatsPerRow,
			importDefaultPrice,
			lookup,
		)
		d.AddSection(s)
		created = append(created, s.ID)
	}
	return created
}
