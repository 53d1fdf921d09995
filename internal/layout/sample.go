package layout

import (
	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/shape"
	"github.com/seatforge/seatforge/internal/typeid"
)

// NewSampleDocument builds a small demo venue: two drawn floor sections, a
// circular balcony and a center aisle. Used to seed the playground venue.
func NewSampleDocument() *Document {
	doc := NewEmptyDocument()

	left := NewSection(
		typeid.NewSectionID(),
		"Floor Left",
		PolygonBoundary([]geo.Point{
			{X: 100, Y: 200}, {X: 450, Y: 200}, {X: 450, Y: 520}, {X: 100, Y: 520},
		}),
		8, 10, 45,
		nil,
	)

	right := NewSection(
		typeid.NewSectionID(),
		"Floor Right",
		PolygonBoundary([]geo.Point{
			{X: 550, Y: 200}, {X: 900, Y: 200}, {X: 900, Y: 520}, {X: 550, Y: 520},
		}),
		8, 10, 45,
		nil,
	)

	balcony := NewSection(
		typeid.NewSectionID(),
		"Balcony",
		PathBoundary(PathSpec{
			Shape: shape.KindCircle,
			Frame: geo.Rect{X: 350, Y: 560, Width: 300, Height: 160},
		}),
		4, 12, 25,
		nil,
	)

	doc.AddSection(left)
	doc.AddSection(right)
	doc.AddSection(balcony)

	doc.Aisles = append(doc.Aisles, Aisle{
		ID:    typeid.NewAisleID(),
		Start: geo.Point{X: 500, Y: 200},
		End:   geo.Point{X: 500, Y: 520},
		Width: 40,
	})

	return doc
}
