// Package layout owns the mutable seat-map document: sections, seats, aisles
// and the stage, plus the grid generation and mutation operations that keep
// every derived field (bounds, label position, seats) consistent with the
// section boundary.
package layout

import (
	"encoding/json"

	"github.com/seatforge/seatforge/internal/geo"
	"github.com/seatforge/seatforge/internal/seatstatus"
	"github.com/seatforge/seatforge/internal/shape"
)

// BoundaryKind tags the two ways a section's outline can be defined.
type BoundaryKind string

const (
	// BoundaryPolygon is a user-drawn simple polygon with at least 3 vertices.
	BoundaryPolygon BoundaryKind = "polygon"
	// BoundaryPath is a generated shape described by a parametric frame; its
	// grid admits every cell inside the frame.
	BoundaryPath BoundaryKind = "path"
)

// PathSpec describes a generated (non-polygon) boundary.
type PathSpec struct {
	Shape shape.Kind `json:"shape"`
	Frame geo.Rect   `json:"frame"`
}

// Boundary is a section outline, either a drawn polygon or a generated path.
// Consumers switch on Kind exhaustively instead of null-checking points.
type Boundary struct {
	Kind   BoundaryKind `json:"kind"`
	Points []geo.Point  `json:"points,omitempty"`
	Path   *PathSpec    `json:"path,omitempty"`
}

// PolygonBoundary builds a polygon boundary from drawn vertices.
func PolygonBoundary(points []geo.Point) Boundary {
	return Boundary{Kind: BoundaryPolygon, Points: points}
}

// PathBoundary builds a generated-path boundary.
func PathBoundary(spec PathSpec) Boundary {
	return Boundary{Kind: BoundaryPath, Path: &spec}
}

// Bounds returns the boundary's axis-aligned bounding box. Unknown kinds and
// missing data yield the zero (degenerate) box.
func (b Boundary) Bounds() geo.Bounds {
	switch b.Kind {
	case BoundaryPolygon:
		return geo.ComputeBounds(b.Points)
	case BoundaryPath:
		if b.Path == nil {
			return geo.Bounds{}
		}
		return b.Path.Frame.Bounds()
	default:
		return geo.Bounds{}
	}
}

// Contains reports whether a seat center belongs inside the boundary. Polygon
// boundaries use the even-odd test; path boundaries admit every grid cell of
// their frame.
func (b Boundary) Contains(p geo.Point) bool {
	switch b.Kind {
	case BoundaryPolygon:
		return geo.PointInPolygon(p, b.Points)
	case BoundaryPath:
		return true
	default:
		return false
	}
}

// Translate returns the boundary shifted by (dx, dy).
func (b Boundary) Translate(dx, dy float64) Boundary {
	switch b.Kind {
	case BoundaryPolygon:
		moved := make([]geo.Point, len(b.Points))
		for i, p := range b.Points {
			moved[i] = p.Translate(dx, dy)
		}
		return Boundary{Kind: BoundaryPolygon, Points: moved}
	case BoundaryPath:
		if b.Path == nil {
			return b
		}
		spec := *b.Path
		spec.Frame.X += dx
		spec.Frame.Y += dy
		return Boundary{Kind: BoundaryPath, Path: &spec}
	default:
		return b
	}
}

// Seat is one generated seat position. Its ID is derived deterministically
// from (section, row, number), so identity is stable across regeneration as
// long as the grid indices stay the same. Status here is a snapshot; the
// seatstatus engine is authoritative.
type Seat struct {
	ID        string            `json:"id"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Row       int               `json:"row"`
	Number    int               `json:"number"`
	SectionID string            `json:"sectionId"`
	Status    seatstatus.Status `json:"status"`
	Price     float64           `json:"price"`
	Category  string            `json:"category"`
}

// Section is one venue zone. Bounds, LabelPosition and Seats are derived from
// the boundary and grid parameters; mutations recompute them rather than
// patching them directly.
type Section struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Boundary        Boundary    `json:"-"`
	Bounds          geo.Bounds  `json:"bounds"`
	Rows            int         `json:"rows"`
	SeatsPerRow     int         `json:"seatsPerRow"`
	Price           float64     `json:"price"`
	TicketType      string      `json:"ticketType,omitempty"`
	HasSeats        bool        `json:"hasSeats"`
	CustomSeatCount *int        `json:"customSeatCount,omitempty"`
	Seats           []Seat      `json:"seats"`
	LabelPosition   geo.Point   `json:"labelPosition"`
}

// sectionJSON flattens the boundary into the persisted document's shape:
// drawn polygons serialize their points, generated boundaries their path
// spec under "shape".
type sectionJSON struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Points          []geo.Point `json:"points"`
	Shape           *PathSpec   `json:"shape,omitempty"`
	Bounds          geo.Bounds  `json:"bounds"`
	Rows            int         `json:"rows"`
	SeatsPerRow     int         `json:"seatsPerRow"`
	Price           float64     `json:"price"`
	TicketType      string      `json:"ticketType,omitempty"`
	HasSeats        bool        `json:"hasSeats"`
	CustomSeatCount *int        `json:"customSeatCount,omitempty"`
	Seats           []Seat      `json:"seats"`
	LabelPosition   geo.Point   `json:"labelPosition"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	out := sectionJSON{
		ID:              s.ID,
		Name:            s.Name,
		Bounds:          s.Bounds,
		Rows:            s.Rows,
		SeatsPerRow:     s.SeatsPerRow,
		Price:           s.Price,
		TicketType:      s.TicketType,
		HasSeats:        s.HasSeats,
		CustomSeatCount: s.CustomSeatCount,
		Seats:           s.Seats,
		LabelPosition:   s.LabelPosition,
	}
	switch s.Boundary.Kind {
	case BoundaryPath:
		out.Shape = s.Boundary.Path
	default:
		out.Points = s.Boundary.Points
	}
	return json.Marshal(out)
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var in sectionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*s = Section{
		ID:              in.ID,
		Name:            in.Name,
		Bounds:          in.Bounds,
		Rows:            in.Rows,
		SeatsPerRow:     in.SeatsPerRow,
		Price:           in.Price,
		TicketType:      in.TicketType,
		HasSeats:        in.HasSeats,
		CustomSeatCount: in.CustomSeatCount,
		Seats:           in.Seats,
		LabelPosition:   in.LabelPosition,
	}
	if in.Shape != nil {
		s.Boundary = PathBoundary(*in.Shape)
	} else {
		s.Boundary = PolygonBoundary(in.Points)
	}
	return nil
}

// Refresh recomputes every derived field from the boundary and grid
// parameters. Statuses are preserved by consulting the lookup rather than
// resetting.
func (s *Section) Refresh(lookup StatusLookup) {
	s.Bounds = s.Boundary.Bounds()
	s.LabelPosition = s.Bounds.Center()
	if s.HasSeats {
		s.Seats = GenerateSeats(s, lookup)
	} else {
		s.Seats = nil
	}
}

// Translate moves the section by (dx, dy): boundary, seats, bounds and label
// shift together so no derived field goes stale.
func (s *Section) Translate(dx, dy float64) {
	s.Boundary = s.Boundary.Translate(dx, dy)
	for i := range s.Seats {
		s.Seats[i].X += dx
		s.Seats[i].Y += dy
	}
	s.Bounds = s.Bounds.Translate(dx, dy)
	s.LabelPosition = s.LabelPosition.Translate(dx, dy)
}

// Aisle is a walkway between sections.
type Aisle struct {
	ID    string    `json:"id"`
	Start geo.Point `json:"start"`
	End   geo.Point `json:"end"`
	Width float64   `json:"width"`
}

// Document is the aggregate root of one seat map. Mutations replace entries
// in Sections rather than patching seats in place, keeping a clean
// before/after boundary.
type Document struct {
	Sections []Section `json:"sections"`
	Stage    geo.Rect  `json:"stage"`
	Aisles   []Aisle   `json:"aisles"`
}

// PersistedDocument is the export/import shape: the document plus the
// seat-status list as [seatId, status] tuples. Round-tripping it reproduces
// an equivalent document.
type PersistedDocument struct {
	Sections     []Section          `json:"sections"`
	Stage        geo.Rect           `json:"stage"`
	Aisles       []Aisle            `json:"aisles"`
	SeatStatuses []seatstatus.Entry `json:"seatStatuses"`
}

// NewEmptyDocument creates a document with a default stage and no sections.
func NewEmptyDocument() *Document {
	return &Document{
		Sections: []Section{},
		Stage:    geo.Rect{X: 300, Y: 40, Width: 400, Height: 80},
		Aisles:   []Aisle{},
	}
}

// Section returns a pointer to the section with the given ID, or nil.
func (d *Document) Section(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// HasSeat reports whether any section currently contains the seat ID.
func (d *Document) HasSeat(seatID string) bool {
	for i := range d.Sections {
		for j := range d.Sections[i].Seats {
			if d.Sections[i].Seats[j].ID == seatID {
				return true
			}
		}
	}
	return false
}

// SeatCount returns the number of generated seats across all sections.
func (d *Document) SeatCount() int {
	n := 0
	for i := range d.Sections {
		n += len(d.Sections[i].Seats)
	}
	return n
}
